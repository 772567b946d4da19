package manifest

// Defaults applied when a parameter is not supplied.
const (
	// DefaultTemplatePath is the template read when no path is given.
	DefaultTemplatePath = "./subgraph.template.yaml"

	// DefaultOutputPath is the manifest written when no path is given.
	DefaultOutputPath = "./subgraph.yaml"

	// DefaultNetwork is the network used for local graph nodes.
	DefaultNetwork = "localhost"

	// DefaultAddress is the all-zero 20-byte contract address.
	DefaultAddress = "0x0000000000000000000000000000000000000000"

	// DefaultStartBlock indexes from genesis.
	DefaultStartBlock uint64 = 0
)

// Document is the typed view of a subgraph manifest.
// Only the fields the templater touches or the schema requires are modeled;
// everything else is carried by the underlying node tree.
type Document struct {
	// SpecVersion is the manifest spec version (e.g., "0.0.5").
	SpecVersion string `yaml:"specVersion"`

	// Schema references the GraphQL schema file.
	Schema Schema `yaml:"schema"`

	// DataSources are the statically indexed contracts.
	DataSources []DataSource `yaml:"dataSources"`

	// Templates are dynamically instantiated data source patterns.
	// Nil when the manifest has no templates key.
	Templates []DataSource `yaml:"templates,omitempty"`
}

// Schema references the GraphQL schema of the subgraph.
type Schema struct {
	File string `yaml:"file"`
}

// DataSource is one indexed contract or event source.
type DataSource struct {
	Kind    string         `yaml:"kind"`
	Name    string         `yaml:"name"`
	Network string         `yaml:"network"`
	Source  Source         `yaml:"source"`
	Mapping map[string]any `yaml:"mapping"`
}

// Source identifies the contract a data source reads from.
type Source struct {
	// Address is nil when the template omits it.
	Address *string `yaml:"address,omitempty"`

	ABI string `yaml:"abi"`

	// StartBlock is nil when the template omits it.
	StartBlock *uint64 `yaml:"startBlock,omitempty"`
}

// Params are the runtime values overlaid on the template.
type Params struct {
	// Network is applied to every data source and template entry.
	Network string

	// Address is applied to every data source.
	Address string

	// StartBlock is applied to every data source.
	StartBlock uint64
}

// WithDefaults returns a copy of p with empty values replaced by defaults.
func (p Params) WithDefaults() Params {
	if p.Network == "" {
		p.Network = DefaultNetwork
	}
	if p.Address == "" {
		p.Address = DefaultAddress
	}
	return p
}

// Options configures a single templating run.
type Options struct {
	// TemplatePath is the template to read.
	TemplatePath string

	// OutputPath is the manifest to write.
	OutputPath string

	// Params are the overrides applied to the template.
	Params Params
}

// WithDefaults returns a copy of o with empty paths and params defaulted.
func (o Options) WithDefaults() Options {
	if o.TemplatePath == "" {
		o.TemplatePath = DefaultTemplatePath
	}
	if o.OutputPath == "" {
		o.OutputPath = DefaultOutputPath
	}
	o.Params = o.Params.WithDefaults()
	return o
}
