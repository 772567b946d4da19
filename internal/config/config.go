// Package config handles project configuration.
//
// Settings come from an optional subgraphctl.toml in the project directory,
// then environment variables. Command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cameronsjo/subgraphctl/internal/manifest"
	"github.com/cameronsjo/subgraphctl/internal/toolchain"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "subgraphctl.toml"

// Environment overrides.
const (
	EnvPackageRunner = "SUBGRAPHCTL_PACKAGE_RUNNER"
	EnvExecTool      = "SUBGRAPHCTL_EXEC_TOOL"
	EnvLocalIPFS     = "SUBGRAPHCTL_LOCAL_IPFS"
)

// ErrConfig indicates an unreadable or invalid config file.
var ErrConfig = errors.New("invalid config")

// Config holds the subgraphctl project configuration.
type Config struct {
	Manifest  ManifestConfig  `toml:"manifest"`
	Toolchain ToolchainConfig `toml:"toolchain"`
	Deploy    DeployConfig    `toml:"deploy"`

	// Path is the file the config was read from; empty when none was found.
	Path string `toml:"-"`
}

// ManifestConfig holds template defaults.
type ManifestConfig struct {
	TemplatePath string `toml:"template_path"`
	OutputPath   string `toml:"output_path"`
	Network      string `toml:"network"`
	Address      string `toml:"address"`
	StartBlock   uint64 `toml:"start_block"`
}

// ToolchainConfig selects the external binaries.
type ToolchainConfig struct {
	PackageRunner string `toml:"package_runner"`
	ExecTool      string `toml:"exec_tool"`
}

// DeployConfig holds deploy settings.
type DeployConfig struct {
	LocalIPFS    string   `toml:"local_ipfs"`
	VersionLabel string   `toml:"version_label"`
	DirectArgs   []string `toml:"direct_args"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	tc := toolchain.DefaultConfig()
	return &Config{
		Manifest: ManifestConfig{
			TemplatePath: manifest.DefaultTemplatePath,
			OutputPath:   manifest.DefaultOutputPath,
		},
		Toolchain: ToolchainConfig{
			PackageRunner: tc.PackageRunner,
			ExecTool:      tc.ExecTool,
		},
		Deploy: DeployConfig{
			LocalIPFS:    tc.LocalIPFS,
			VersionLabel: tc.VersionLabel,
			DirectArgs:   tc.DirectDeployArgs,
		},
	}
}

// Load reads the config at path and applies environment overrides.
// With an empty path, DefaultFile is used if it exists; a missing default
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err == nil {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	} else if explicit || !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrConfig, path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%w: %s: unknown keys: %s", ErrConfig, path, strings.Join(keys, ", "))
	}

	c.Path = path
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvPackageRunner)); v != "" {
		c.Toolchain.PackageRunner = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExecTool)); v != "" {
		c.Toolchain.ExecTool = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLocalIPFS)); v != "" {
		c.Deploy.LocalIPFS = v
	}
}

// ToolchainConfig converts the settings for toolchain.New.
func (c *Config) ToolchainConfig() toolchain.Config {
	return toolchain.Config{
		PackageRunner:    c.Toolchain.PackageRunner,
		ExecTool:         c.Toolchain.ExecTool,
		LocalIPFS:        c.Deploy.LocalIPFS,
		VersionLabel:     c.Deploy.VersionLabel,
		DirectDeployArgs: c.Deploy.DirectArgs,
	}
}

// ManifestOptions returns the configured templating defaults.
func (c *Config) ManifestOptions() manifest.Options {
	return manifest.Options{
		TemplatePath: c.Manifest.TemplatePath,
		OutputPath:   c.Manifest.OutputPath,
		Params: manifest.Params{
			Network:    c.Manifest.Network,
			Address:    c.Manifest.Address,
			StartBlock: c.Manifest.StartBlock,
		},
	}
}
