// Package toolchain drives the external Graph toolchain.
//
// Runner is the process boundary: ExecRunner spawns commands with inherited
// standard streams so the operator sees the tools' own output live. Toolchain
// builds the concrete invocations (npm scripts and graph-cli commands) on top
// of a Runner. Commands are passed as argument vectors, never through a shell.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/rs/zerolog"
)

// Toolchain defaults.
const (
	DefaultPackageRunner = "npm"
	DefaultExecTool      = "npx"
	DefaultLocalIPFS     = "http://localhost:5001"
	DefaultVersionLabel  = "1"
)

// DefaultDirectDeployArgs deploys by subgraph name only.
var DefaultDirectDeployArgs = []string{"graph", "deploy", "{{ .Name }}"}

const redacted = "****"

// Config selects the binaries and arguments the toolchain uses.
type Config struct {
	// PackageRunner runs package.json scripts (codegen, build).
	PackageRunner string

	// ExecTool runs graph-cli (auth, create, deploy).
	ExecTool string

	// LocalIPFS is the IPFS endpoint passed when deploying to a local node.
	LocalIPFS string

	// VersionLabel is passed as --version-label on endpoint deploys.
	VersionLabel string

	// DirectDeployArgs are the ExecTool arguments for deploys without an
	// endpoint. Each entry is a text/template with sprig functions, rendered
	// with DirectDeployData; entries that render empty are dropped.
	DirectDeployArgs []string
}

// DefaultConfig returns the stock npm/npx configuration.
func DefaultConfig() Config {
	return Config{
		PackageRunner:    DefaultPackageRunner,
		ExecTool:         DefaultExecTool,
		LocalIPFS:        DefaultLocalIPFS,
		VersionLabel:     DefaultVersionLabel,
		DirectDeployArgs: append([]string(nil), DefaultDirectDeployArgs...),
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PackageRunner == "" {
		c.PackageRunner = d.PackageRunner
	}
	if c.ExecTool == "" {
		c.ExecTool = d.ExecTool
	}
	if c.LocalIPFS == "" {
		c.LocalIPFS = d.LocalIPFS
	}
	if c.VersionLabel == "" {
		c.VersionLabel = d.VersionLabel
	}
	if len(c.DirectDeployArgs) == 0 {
		c.DirectDeployArgs = d.DirectDeployArgs
	}
	return c
}

// DirectDeployData is the template data for DirectDeployArgs.
type DirectDeployData struct {
	Name         string
	VersionLabel string
}

// Toolchain issues the codegen, build, auth, create and deploy commands.
type Toolchain struct {
	runner     Runner
	cfg        Config
	directArgs []*template.Template
	log        zerolog.Logger
}

// New creates a Toolchain. It fails if a DirectDeployArgs template does not
// parse.
func New(runner Runner, cfg Config, log zerolog.Logger) (*Toolchain, error) {
	cfg = cfg.withDefaults()

	directArgs := make([]*template.Template, 0, len(cfg.DirectDeployArgs))
	for i, arg := range cfg.DirectDeployArgs {
		tmpl, err := template.New(fmt.Sprintf("direct_args[%d]", i)).
			Funcs(sprig.TxtFuncMap()).
			Option("missingkey=error").
			Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("parse direct deploy argument %q: %w", arg, err)
		}
		directArgs = append(directArgs, tmpl)
	}

	return &Toolchain{
		runner:     runner,
		cfg:        cfg,
		directArgs: directArgs,
		log:        log.With().Str("component", "toolchain").Logger(),
	}, nil
}

// Config returns the effective configuration.
func (t *Toolchain) Config() Config {
	return t.cfg
}

// LocalIPFS returns the IPFS endpoint used for local graph nodes.
func (t *Toolchain) LocalIPFS() string {
	return t.cfg.LocalIPFS
}

// Codegen runs `<pkg-runner> run codegen`.
func (t *Toolchain) Codegen(ctx context.Context) error {
	return t.run(ctx, nil, t.cfg.PackageRunner, "run", "codegen")
}

// Build runs `<pkg-runner> run build`.
func (t *Toolchain) Build(ctx context.Context) error {
	return t.run(ctx, nil, t.cfg.PackageRunner, "run", "build")
}

// Auth stores a hosted-service access token with graph-cli.
func (t *Toolchain) Auth(ctx context.Context, token string) error {
	return t.run(ctx, []string{token}, t.cfg.ExecTool, "graph", "auth", "--product", "hosted-service", token)
}

// CreateNode registers the subgraph name on a graph node.
func (t *Toolchain) CreateNode(ctx context.Context, endpoint, name string) error {
	return t.run(ctx, nil, t.cfg.ExecTool, "graph", "create", "--node", endpoint, name)
}

// DeployWithEndpoint deploys to the graph node at endpoint. The --ipfs flag
// is omitted when ipfs is empty.
func (t *Toolchain) DeployWithEndpoint(ctx context.Context, endpoint, ipfs, name string) error {
	args := []string{"graph", "deploy", "--node", endpoint}
	if ipfs != "" {
		args = append(args, "--ipfs", ipfs)
	}
	args = append(args, name, "--version-label", t.cfg.VersionLabel)
	return t.run(ctx, nil, t.cfg.ExecTool, args...)
}

// DeployDirect deploys without an endpoint, relying on a previous Auth.
func (t *Toolchain) DeployDirect(ctx context.Context, name string) error {
	args, err := t.DirectDeployArgs(name)
	if err != nil {
		return err
	}
	return t.run(ctx, nil, t.cfg.ExecTool, args...)
}

// DirectDeployArgs renders the configured direct deploy arguments.
func (t *Toolchain) DirectDeployArgs(name string) ([]string, error) {
	data := DirectDeployData{Name: name, VersionLabel: t.cfg.VersionLabel}

	args := make([]string, 0, len(t.directArgs))
	for _, tmpl := range t.directArgs {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
		}
		if arg := strings.TrimSpace(buf.String()); arg != "" {
			args = append(args, arg)
		}
	}
	return args, nil
}

// run executes a command, masking secrets in logs and errors.
func (t *Toolchain) run(ctx context.Context, secrets []string, name string, args ...string) error {
	shown := redact(args, secrets)
	t.log.Info().Str("command", name).Strs("args", shown).Msg("running toolchain command")

	err := t.runner.Run(ctx, name, args...)
	if err == nil {
		return nil
	}

	var runErr *RunError
	if errors.As(err, &runErr) {
		runErr.Args = redact(runErr.Args, secrets)
	}
	return err
}

func redact(args, secrets []string) []string {
	if len(secrets) == 0 {
		return args
	}
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		for _, s := range secrets {
			if s != "" && arg == s {
				out[i] = redacted
			}
		}
	}
	return out
}
