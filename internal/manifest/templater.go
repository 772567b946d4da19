package manifest

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/cameronsjo/subgraphctl/internal/fileutil"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Templater writes subgraph manifests from templates.
type Templater struct {
	log zerolog.Logger
}

// NewTemplater creates a Templater that logs to log.
func NewTemplater(log zerolog.Logger) *Templater {
	return &Templater{log: log.With().Str("component", "manifest").Logger()}
}

// Render reads the template in opts and returns the manifest bytes without
// writing them.
func (t *Templater) Render(opts Options) ([]byte, error) {
	opts = opts.WithDefaults()

	if !addressPattern.MatchString(opts.Params.Address) {
		t.log.Warn().Str("address", opts.Params.Address).Msg("address is not a 20-byte hex contract address")
	}

	t.log.Debug().Str("template", opts.TemplatePath).Msg("reading subgraph template")
	m, err := Load(opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	if err := m.Apply(opts.Params); err != nil {
		return nil, fmt.Errorf("%s: %w", opts.TemplatePath, err)
	}

	doc := m.Document()
	t.log.Debug().
		Str("network", opts.Params.Network).
		Str("address", opts.Params.Address).
		Uint64("start_block", opts.Params.StartBlock).
		Int("data_sources", len(doc.DataSources)).
		Int("templates", len(doc.Templates)).
		Msg("applied manifest parameters")

	return m.Bytes()
}

// Apply reads the template, overlays the params and writes the manifest to
// the output path, replacing any existing file.
func (t *Templater) Apply(opts Options) error {
	opts = opts.WithDefaults()

	data, err := t.Render(opts)
	if err != nil {
		return err
	}

	if err := fileutil.WriteFile(opts.OutputPath, data); err != nil {
		return fmt.Errorf("%w: write manifest %s: %w", ErrIO, opts.OutputPath, err)
	}

	t.log.Info().Str("output", opts.OutputPath).Msg("subgraph manifest written")
	return nil
}
