package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Position hints for inserting source keys that the template omits.
const (
	addressPos    = 0
	startBlockPos = -1
)

// Manifest is a parsed subgraph manifest. It keeps the YAML node tree so
// that passthrough content is written back unchanged.
type Manifest struct {
	root *yaml.Node
	doc  Document
}

// Load reads and parses the manifest template at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, path, err)
		}
		return nil, fmt.Errorf("%w: read template %s: %w", ErrIO, path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse parses manifest YAML and validates its shape.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrParse)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return nil, fmt.Errorf("%w: multiple YAML documents are not supported", ErrParse)
	}

	if len(root.Content) == 0 || resolveAlias(root.Content[0]).Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrParse)
	}

	var generic any
	if err := root.Decode(&generic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := ValidateSchema(generic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	m := &Manifest{root: &root}
	if err := m.decode(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) decode() error {
	var doc Document
	if err := m.root.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	m.doc = doc
	return nil
}

// Document returns the typed view of the manifest.
func (m *Manifest) Document() Document {
	return m.doc
}

// HasTemplates reports whether the manifest has a templates key.
func (m *Manifest) HasTemplates() bool {
	return lookup(m.top(), "templates") != nil
}

func (m *Manifest) top() *yaml.Node {
	return resolveAlias(m.root.Content[0])
}

// Apply overlays p on the manifest. Every data source gets the network,
// address and start block; every template entry gets the network only.
// Empty values in p are replaced by defaults.
func (m *Manifest) Apply(p Params) error {
	p = p.WithDefaults()
	top := m.top()

	// Data source edits must not leak through anchors into templates or
	// other keys that share nodes with them.
	sources := ownedValue(top, "dataSources")
	detach(m.root, sources)
	ownItems(sources)

	for _, ds := range sequence(sources) {
		setString(ds, "network", p.Network, -1)

		src := ownedValue(ds, "source")
		if src == nil || src.Kind != yaml.MappingNode {
			return fmt.Errorf("%w: data source without source mapping", ErrParse)
		}
		setString(src, "address", p.Address, addressPos)
		setUint(src, "startBlock", p.StartBlock, startBlockPos)
	}

	for _, tmpl := range sequence(lookup(top, "templates")) {
		setString(tmpl, "network", p.Network, -1)
	}

	return m.decode()
}

// Bytes encodes the manifest as YAML with two-space indentation.
func (m *Manifest) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.root); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Render parses template data, applies p and returns the encoded manifest.
func Render(data []byte, p Params) ([]byte, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := m.Apply(p); err != nil {
		return nil, err
	}
	return m.Bytes()
}
