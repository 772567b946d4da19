// Package preflight provides pre-flight validation for the binaries the
// toolchain shells out to.
package preflight

import (
	"os/exec"

	"github.com/cameronsjo/subgraphctl/internal/toolchain"
)

// BinaryCheck represents a binary and its purpose.
type BinaryCheck struct {
	Name        string
	Required    bool   // false = warning only
	InstallHint string // e.g., "brew install node" or "https://..."
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// installHints maps well-known package runners to install instructions.
var installHints = map[string]string{
	"npm":  "Install Node.js (ships npm and npx): https://nodejs.org/en/download",
	"npx":  "Install Node.js (ships npm and npx): https://nodejs.org/en/download",
	"yarn": "Install yarn: npm install --global yarn",
	"pnpm": "Install pnpm: npm install --global pnpm",
	"pnpx": "Install pnpm: npm install --global pnpm",
}

// optionalBinaries are not invoked directly but are worth reporting.
var optionalBinaries = []BinaryCheck{
	{
		Name:        "graph",
		Required:    false,
		InstallHint: "Install graph-cli globally for faster runs: npm install --global @graphprotocol/graph-cli",
	},
	{
		Name:        "ipfs",
		Required:    false,
		InstallHint: "Local deploys need an IPFS node: https://docs.ipfs.tech/install/",
	},
}

// RequiredBinaries returns the binaries the toolchain invokes with cfg.
// Duplicates are reported once.
func RequiredBinaries(cfg toolchain.Config) []BinaryCheck {
	def := toolchain.DefaultConfig()
	if cfg.PackageRunner == "" {
		cfg.PackageRunner = def.PackageRunner
	}
	if cfg.ExecTool == "" {
		cfg.ExecTool = def.ExecTool
	}

	var bins []BinaryCheck
	seen := make(map[string]bool)
	for _, name := range []string{cfg.PackageRunner, cfg.ExecTool} {
		if seen[name] {
			continue
		}
		seen[name] = true

		hint, ok := installHints[name]
		if !ok {
			hint = "Install " + name + " and make sure it is on PATH"
		}
		bins = append(bins, BinaryCheck{Name: name, Required: true, InstallHint: hint})
	}
	return bins
}

// OptionalBinaries returns binaries that are reported as warnings only.
func OptionalBinaries() []BinaryCheck {
	return append([]BinaryCheck(nil), optionalBinaries...)
}

// CheckRequiredBinaries returns the required binaries missing from PATH.
func CheckRequiredBinaries(cfg toolchain.Config) []BinaryCheck {
	return missing(RequiredBinaries(cfg))
}

// CheckOptionalBinaries returns the optional binaries missing from PATH.
func CheckOptionalBinaries() []BinaryCheck {
	return missing(optionalBinaries)
}

// IsBinaryAvailable checks if a specific binary is available in PATH.
func IsBinaryAvailable(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

func missing(bins []BinaryCheck) []BinaryCheck {
	var out []BinaryCheck
	for _, bin := range bins {
		if !IsBinaryAvailable(bin.Name) {
			out = append(out, bin)
		}
	}
	return out
}
