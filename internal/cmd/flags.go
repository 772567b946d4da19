package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cameronsjo/subgraphctl/internal/manifest"
)

// manifestFlags are shared by build and deploy.
type manifestFlags struct {
	network      string
	block        uint64
	address      string
	templatePath string
	output       string
	dryRun       bool
}

func (f *manifestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.network, "network", "", "Network written to every data source and template (default \""+manifest.DefaultNetwork+"\")")
	fs.Uint64Var(&f.block, "block", 0, "Start block for every data source")
	fs.StringVar(&f.address, "address", "", "Contract address for every data source (default zero address)")
	fs.StringVar(&f.templatePath, "template-path", "", "Manifest template (default \""+manifest.DefaultTemplatePath+"\")")
	fs.StringVarP(&f.output, "output", "o", "", "Rendered manifest path (default \""+manifest.DefaultOutputPath+"\")")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "Print the manifest and planned commands without running anything")
}

// options layers explicitly set flags over the configured defaults.
func (f *manifestFlags) options(cmd *cobra.Command, base manifest.Options) manifest.Options {
	fs := cmd.Flags()
	if fs.Changed("network") {
		base.Params.Network = f.network
	}
	if fs.Changed("block") {
		base.Params.StartBlock = f.block
	}
	if fs.Changed("address") {
		base.Params.Address = f.address
	}
	if fs.Changed("template-path") {
		base.TemplatePath = f.templatePath
	}
	if fs.Changed("output") {
		base.OutputPath = f.output
	}
	return base.WithDefaults()
}
