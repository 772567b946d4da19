package subgraph

import (
	"context"

	"github.com/cameronsjo/subgraphctl/internal/manifest"
	"github.com/cameronsjo/subgraphctl/internal/toolchain"
)

// Templater writes the subgraph manifest from its template.
type Templater interface {
	Apply(opts manifest.Options) error
}

// Toolchain runs the external codegen, build and deploy commands.
type Toolchain interface {
	Codegen(ctx context.Context) error
	Build(ctx context.Context) error

	// Auth stores an access token for hosted-service deploys.
	Auth(ctx context.Context, token string) error

	// CreateNode registers the subgraph name on a local graph node.
	CreateNode(ctx context.Context, endpoint, name string) error

	// DeployWithEndpoint deploys to a graph node; ipfs may be empty.
	DeployWithEndpoint(ctx context.Context, endpoint, ipfs, name string) error

	// DeployDirect deploys by name using the stored access token.
	DeployDirect(ctx context.Context, name string) error

	// LocalIPFS is the IPFS endpoint used with local graph nodes.
	LocalIPFS() string
}

// Compile-time interface verification.
var (
	_ Templater = (*manifest.Templater)(nil)
	_ Toolchain = (*toolchain.Toolchain)(nil)
)
