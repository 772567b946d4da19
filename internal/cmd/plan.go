package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/subgraphctl/internal/lock"
	"github.com/cameronsjo/subgraphctl/internal/manifest"
	"github.com/cameronsjo/subgraphctl/internal/subgraph"
	"github.com/cameronsjo/subgraphctl/internal/toolchain"
)

const (
	maskedSecret = "****"

	// projectLock guards the manifest and the toolchain's generated/ and
	// build/ directories in the working directory.
	projectLock = "build"
)

// previewTemplater renders the manifest to w instead of the output path.
type previewTemplater struct {
	templater *manifest.Templater
	w         io.Writer
}

func (p *previewTemplater) Apply(opts manifest.Options) error {
	data, err := p.templater.Render(opts)
	if err != nil {
		return err
	}
	_, err = p.w.Write(data)
	return err
}

// planRunner prints each command instead of running it.
type planRunner struct {
	w       io.Writer
	secrets []string
}

func (r *planRunner) Run(_ context.Context, name string, args ...string) error {
	line := make([]string, 0, len(args)+1)
	line = append(line, name)
	for _, arg := range args {
		for _, s := range r.secrets {
			if s != "" && arg == s {
				arg = maskedSecret
			}
		}
		line = append(line, arg)
	}
	_, err := fmt.Fprintf(r.w, "$ %s\n", strings.Join(line, " "))
	return err
}

var (
	_ subgraph.Templater = (*previewTemplater)(nil)
	_ toolchain.Runner   = (*planRunner)(nil)
)

// newPipeline wires a pipeline for one command run. Dry runs print the
// manifest to stdout and the planned commands to stderr.
func newPipeline(cmd *cobra.Command, log zerolog.Logger, cfg toolchain.Config, dryRun bool, secrets ...string) (*subgraph.Pipeline, error) {
	templater := manifest.NewTemplater(log)

	var (
		tmpl   subgraph.Templater = templater
		runner toolchain.Runner
	)
	if dryRun {
		tmpl = &previewTemplater{templater: templater, w: cmd.OutOrStdout()}
		runner = &planRunner{w: cmd.ErrOrStderr(), secrets: secrets}
	} else {
		runner = newRunner(log)
	}

	tc, err := toolchain.New(runner, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("configure toolchain: %w", err)
	}
	return subgraph.NewPipeline(tmpl, tc, log), nil
}

// runLocked runs fn under the project lock. Dry runs write nothing and skip it.
func runLocked(dryRun bool, fn func() error) error {
	if dryRun {
		return fn()
	}
	return lock.WithLock(".", projectLock, fn)
}
