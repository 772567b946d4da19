package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/subgraphctl/internal/subgraph"
	"github.com/cameronsjo/subgraphctl/internal/ui"
)

// EnvAccessToken supplies --token-access when the flag is not given.
const EnvAccessToken = "GRAPH_ACCESS_TOKEN"

func newDeployCmd(ro *rootOptions) *cobra.Command {
	flags := &manifestFlags{}
	var (
		name     string
		endpoint string
		token    string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Build the subgraph, then deploy it",
		Long: `Build the subgraph and deploy it under --subgraph-name.

Routing:
  no --endpoint               graph deploy <name> (direct, after optional auth)
  --endpoint with localhost   graph create, then graph deploy with local IPFS
  any other --endpoint        graph deploy --node <endpoint>

The access token is read from --token-access or ` + EnvAccessToken + ` and is
never printed.

Examples:
  subgraphctl deploy --subgraph-name acme/token --endpoint http://localhost:8020
  subgraphctl deploy --subgraph-name acme/token --network mainnet --token-access $TOKEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("token-access") {
				token = os.Getenv(EnvAccessToken)
			}

			opts := subgraph.DeployOptions{
				Build:       subgraph.BuildOptions{Manifest: flags.options(cmd, ro.cfg.ManifestOptions())},
				Name:        name,
				Endpoint:    endpoint,
				AccessToken: token,
			}

			pipeline, err := newPipeline(cmd, ro.log, ro.cfg.ToolchainConfig(), flags.dryRun, token)
			if err != nil {
				return err
			}
			err = runLocked(flags.dryRun, func() error {
				return pipeline.Deploy(cmd.Context(), opts)
			})
			if err != nil {
				return err
			}

			if !flags.dryRun {
				ui.Rocket("Deployed %s (%s)", name, subgraph.RouteFor(endpoint))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "subgraph-name", "", "Subgraph name, e.g. acme/token")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Graph node URL; empty deploys directly")
	cmd.Flags().StringVar(&token, "token-access", "", "Access token for graph auth (default $"+EnvAccessToken+")")
	cmd.MarkFlagRequired("subgraph-name")

	return cmd
}
