package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cameronsjo/subgraphctl/internal/subgraph"
	"github.com/cameronsjo/subgraphctl/internal/ui"
)

func newBuildCmd(ro *rootOptions) *cobra.Command {
	flags := &manifestFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the manifest, then run codegen and build",
		Long: `Render subgraph.yaml from the template and build the subgraph.

Every data source gets the network, address and start block; templates get
the network only. Comments and unknown keys in the template are kept.

Examples:
  subgraphctl build --network mainnet --address 0xC3F6...7049 --block 12345678
  subgraphctl build -n --network goerli       # Print manifest and plan only
  subgraphctl build --template-path manifests/subgraph.template.yaml -o build/subgraph.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, ro.cfg.ManifestOptions())

			pipeline, err := newPipeline(cmd, ro.log, ro.cfg.ToolchainConfig(), flags.dryRun)
			if err != nil {
				return err
			}
			err = runLocked(flags.dryRun, func() error {
				return pipeline.Build(cmd.Context(), subgraph.BuildOptions{Manifest: opts})
			})
			if err != nil {
				return err
			}

			if !flags.dryRun {
				ui.Package("Built subgraph for %s (%s)", opts.Params.Network, opts.OutputPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
