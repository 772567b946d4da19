package manifest

import (
	"errors"
	"strings"
)

// Templating errors.
var (
	// ErrTemplateNotFound indicates the template path does not exist.
	ErrTemplateNotFound = errors.New("subgraph template yaml file not found")

	// ErrIO indicates any other filesystem failure while reading or writing.
	ErrIO = errors.New("manifest i/o failed")

	// ErrParse indicates the template does not match the manifest schema.
	ErrParse = errors.New("invalid subgraph manifest")
)

// SchemaError lists every schema violation found in a manifest.
type SchemaError struct {
	Issues []string
}

func (e *SchemaError) Error() string {
	return "schema violations: " + strings.Join(e.Issues, "; ")
}

// Is lets errors.Is(err, ErrParse) match schema violations.
func (e *SchemaError) Is(target error) bool {
	return target == ErrParse
}
