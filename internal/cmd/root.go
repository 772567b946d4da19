// Package cmd provides the CLI commands for subgraphctl.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/subgraphctl/internal/config"
	"github.com/cameronsjo/subgraphctl/internal/logging"
	"github.com/cameronsjo/subgraphctl/internal/toolchain"
	"github.com/cameronsjo/subgraphctl/internal/ui"
)

var version = "0.1.0"

// newRunner builds the process runner for the toolchain. Replaced in tests.
var newRunner = func(log zerolog.Logger) toolchain.Runner {
	return toolchain.NewExecRunner(log)
}

// rootOptions carries persistent flags and the state built from them.
type rootOptions struct {
	debug      bool
	configPath string

	log zerolog.Logger
	cfg *config.Config
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "subgraphctl",
		Short: "Template, build and deploy Graph Protocol subgraphs",
		Long: `subgraphctl - subgraph build and deploy helper

Renders subgraph.yaml from subgraph.template.yaml with the target network,
contract address and start block, then drives graph-cli through npm/npx.

COMMANDS
  build                 Render the manifest, run codegen and build
    --dry-run           Print the manifest and planned commands only
  deploy                Build, then deploy under --subgraph-name
  doctor                Pre-flight checks for npm/npx and friends

CONFIGURATION
  subgraphctl.toml in the working directory (or --config) sets defaults.
  Flags win over environment, environment wins over the file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.ConfigureColor()
			opts.log = logging.New(logging.Options{Debug: opts.debug, Writer: cmd.ErrOrStderr()})

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			if cfg.Path != "" {
				opts.log.Debug().Str("path", cfg.Path).Msg("loaded config")
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ./"+config.DefaultFile+" if present)")

	root.AddCommand(newBuildCmd(opts))
	root.AddCommand(newDeployCmd(opts))
	root.AddCommand(newDoctorCmd(opts))

	root.SetVersionTemplate("subgraphctl version {{.Version}}\n")
	return root
}

// Execute runs the CLI. It is the only place the process exits on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}
