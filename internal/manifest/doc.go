// Package manifest templates subgraph manifests.
//
// It reads a subgraph template (subgraph.template.yaml), overlays the runtime
// parameters and writes the resulting manifest (subgraph.yaml) that the Graph
// toolchain compiles. The pipeline is:
//
//   - Parse the template into a YAML node tree
//   - Decode a typed Document and validate it against the embedded schema
//   - Set network, source.address and source.startBlock on every data source
//   - Set network on every template entry
//   - Encode the node tree and write it atomically
//
// Edits are made on the node tree, so comments, key order and fields this
// package does not know about are written back as they were read.
//
// # Manifest Structure
//
//	specVersion: 0.0.5
//	schema:
//	  file: ./schema.graphql
//	dataSources:
//	  - kind: ethereum
//	    name: Token
//	    network: mainnet
//	    source:
//	      address: "0xC3F675E9610e3E1f00874b1dD46BcEa6aFC57049"
//	      abi: Token
//	      startBlock: 123456
//	    mapping:
//	      ...
//	templates:
//	  - kind: ethereum
//	    name: Pool
//	    network: mainnet
//	    source:
//	      abi: Pool
//	    mapping:
//	      ...
//
// # Quoting
//
// The encoder owns quoting. A string keeps the quote style it had in the
// template; a plain string that would read back as another type (the zero
// address reads as an integer) is double-quoted.
package manifest
