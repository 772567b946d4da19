// Package subgraph orchestrates building and deploying a subgraph.
//
// Build writes the manifest and runs codegen and build. Deploy runs Build,
// optionally authenticates, and then picks a deploy path from the endpoint:
//
//	endpoint contains "localhost" -> create node, deploy with local IPFS
//	any other endpoint            -> deploy to that node
//	no endpoint                   -> deploy directly (token based)
//
// Every step is terminal on failure. Errors are returned to the caller
// wrapped with the step that failed; nothing here exits the process.
package subgraph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cameronsjo/subgraphctl/internal/manifest"
)

// localEndpointMarker routes deploys through node creation.
const localEndpointMarker = "localhost"

// ErrMissingName indicates a deploy without a subgraph name.
var ErrMissingName = errors.New("subgraph name is required")

// Step names a stage of the build/deploy flow.
type Step string

// Steps in execution order.
const (
	StepManifest   Step = "manifest"
	StepCodegen    Step = "codegen"
	StepBuild      Step = "build"
	StepAuth       Step = "auth"
	StepCreateNode Step = "create-node"
	StepDeploy     Step = "deploy"
)

// StepError reports the step at which the flow stopped.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// BuildOptions configures Build.
type BuildOptions struct {
	Manifest manifest.Options
}

// DeployOptions configures Deploy.
type DeployOptions struct {
	Build BuildOptions

	// Name is the subgraph name (e.g., "acme/token").
	Name string

	// Endpoint is the graph node URL; empty deploys directly.
	Endpoint string

	// AccessToken triggers an auth step when set.
	AccessToken string
}

// Route is the deploy path chosen from the endpoint.
type Route int

const (
	// RouteDirect deploys by name without an endpoint.
	RouteDirect Route = iota

	// RouteLocal creates the subgraph on a local node, then deploys with IPFS.
	RouteLocal

	// RouteRemote deploys to the given node without an IPFS override.
	RouteRemote
)

func (r Route) String() string {
	switch r {
	case RouteLocal:
		return "local"
	case RouteRemote:
		return "remote"
	default:
		return "direct"
	}
}

// RouteFor picks the deploy route for endpoint.
func RouteFor(endpoint string) Route {
	switch {
	case endpoint == "":
		return RouteDirect
	case strings.Contains(endpoint, localEndpointMarker):
		return RouteLocal
	default:
		return RouteRemote
	}
}

// Pipeline runs the build and deploy flows.
type Pipeline struct {
	templater Templater
	toolchain Toolchain
	log       zerolog.Logger
}

// NewPipeline creates a Pipeline over the given collaborators.
func NewPipeline(templater Templater, toolchain Toolchain, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		templater: templater,
		toolchain: toolchain,
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// Build writes the manifest, then runs codegen and build.
func (p *Pipeline) Build(ctx context.Context, opts BuildOptions) error {
	p.log.Info().Str("template", opts.Manifest.TemplatePath).Msg("building subgraph")

	if err := p.templater.Apply(opts.Manifest); err != nil {
		return &StepError{Step: StepManifest, Err: err}
	}
	if err := p.toolchain.Codegen(ctx); err != nil {
		return &StepError{Step: StepCodegen, Err: err}
	}
	if err := p.toolchain.Build(ctx); err != nil {
		return &StepError{Step: StepBuild, Err: err}
	}
	return nil
}

// Deploy builds the subgraph and deploys it.
func (p *Pipeline) Deploy(ctx context.Context, opts DeployOptions) error {
	if strings.TrimSpace(opts.Name) == "" {
		return ErrMissingName
	}

	if err := p.Build(ctx, opts.Build); err != nil {
		return err
	}

	if opts.AccessToken != "" {
		if err := p.toolchain.Auth(ctx, opts.AccessToken); err != nil {
			return &StepError{Step: StepAuth, Err: err}
		}
	}

	route := RouteFor(opts.Endpoint)
	p.log.Info().Str("name", opts.Name).Stringer("route", route).Msg("deploying subgraph")

	switch route {
	case RouteLocal:
		if err := p.toolchain.CreateNode(ctx, opts.Endpoint, opts.Name); err != nil {
			return &StepError{Step: StepCreateNode, Err: err}
		}
		if err := p.toolchain.DeployWithEndpoint(ctx, opts.Endpoint, p.toolchain.LocalIPFS(), opts.Name); err != nil {
			return &StepError{Step: StepDeploy, Err: err}
		}
	case RouteRemote:
		if err := p.toolchain.DeployWithEndpoint(ctx, opts.Endpoint, "", opts.Name); err != nil {
			return &StepError{Step: StepDeploy, Err: err}
		}
	default:
		if err := p.toolchain.DeployDirect(ctx, opts.Name); err != nil {
			return &StepError{Step: StepDeploy, Err: err}
		}
	}

	return nil
}
