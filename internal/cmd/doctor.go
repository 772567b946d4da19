package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/subgraphctl/internal/fileutil"
	"github.com/cameronsjo/subgraphctl/internal/preflight"
	"github.com/cameronsjo/subgraphctl/internal/ui"
)

// errChecksFailed is returned by doctor when a required check fails.
var errChecksFailed = errors.New("pre-flight checks failed")

func newDoctorCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"checkup"},
		Short:   "Pre-flight checks for the build toolchain",
		Long:    "Check that the package runner, exec tool and manifest template are available.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, ro)
		},
	}
}

func runDoctor(cmd *cobra.Command, ro *rootOptions) error {
	out := cmd.OutOrStdout()
	ui.Blue.Fprintln(out, "Running pre-flight checks...")
	fmt.Fprintln(out)

	passed, failed, warned := 0, 0, 0

	tc := ro.cfg.ToolchainConfig()
	missing := make(map[string]bool)
	for _, bin := range preflight.CheckRequiredBinaries(tc) {
		missing[bin.Name] = true
	}
	for _, bin := range preflight.RequiredBinaries(tc) {
		if missing[bin.Name] {
			ui.Red.Fprintf(out, "  x %s not found\n", bin.Name)
			ui.Blue.Fprintf(out, "      %s\n", bin.InstallHint)
			failed++
			continue
		}
		ui.Green.Fprintf(out, "  * %s is installed\n", bin.Name)
		passed++
	}

	for _, bin := range preflight.CheckOptionalBinaries() {
		ui.Yellow.Fprintf(out, "  ! %s not found (optional)\n", bin.Name)
		ui.Blue.Fprintf(out, "      %s\n", bin.InstallHint)
		warned++
	}

	if ro.cfg.Path != "" {
		ui.Green.Fprintf(out, "  * Config loaded: %s\n", ro.cfg.Path)
		passed++
	}

	template := ro.cfg.ManifestOptions().WithDefaults().TemplatePath
	if fileutil.Exists(template) {
		ui.Green.Fprintf(out, "  * Manifest template found: %s\n", template)
		passed++
	} else {
		ui.Yellow.Fprintf(out, "  ! Manifest template not found: %s\n", template)
		warned++
	}

	fmt.Fprintln(out)
	summary := []string{fmt.Sprintf("%d passed", passed)}
	if warned > 0 {
		summary = append(summary, fmt.Sprintf("%d warnings", warned))
	}
	if failed > 0 {
		summary = append(summary, fmt.Sprintf("%d failed", failed))
	}
	fmt.Fprintln(out, strings.Join(summary, ", "))

	if failed > 0 {
		return errChecksFailed
	}
	return nil
}
