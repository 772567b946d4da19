package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/subgraphctl/internal/toolchain"
)

const testTemplate = `specVersion: 0.0.5
description: Token transfers # shown in the explorer
schema:
  file: ./schema.graphql
dataSources:
  - kind: ethereum/contract
    name: Token
    network: mainnet
    source:
      address: "0xC3F675E9610e3E1f00874b1dD46BcEa6aFC57049"
      abi: Token
      startBlock: 100
    mapping:
      kind: ethereum/events
      apiVersion: 0.0.7
      language: wasm/assemblyscript
      file: ./src/token.ts
templates:
  - kind: ethereum/contract
    name: Pair
    network: mainnet
    source:
      abi: Pair
    mapping:
      kind: ethereum/events
      apiVersion: 0.0.7
      language: wasm/assemblyscript
      file: ./src/pair.ts
`

// recordingRunner records commands instead of running them.
type recordingRunner struct {
	lines  []string
	failOn string
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")
	r.lines = append(r.lines, line)
	if r.failOn != "" && strings.Contains(line, r.failOn) {
		return &toolchain.RunError{Name: name, Args: args, ExitCode: 1, Err: os.ErrProcessDone}
	}
	return nil
}

// useRecordingRunner swaps the process runner for the test's duration.
func useRecordingRunner(t *testing.T) *recordingRunner {
	t.Helper()
	runner := &recordingRunner{}
	orig := newRunner
	newRunner = func(zerolog.Logger) toolchain.Runner { return runner }
	t.Cleanup(func() { newRunner = orig })
	return runner
}

// projectDir creates a working directory holding the test template and
// changes into it.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subgraph.template.yaml"), []byte(testTemplate), 0644))
	t.Chdir(dir)
	t.Setenv("SUBGRAPHCTL_LOG_LEVEL", "")
	t.Setenv("NO_COLOR", "1")
	return dir
}

// executeCmd runs a fresh command tree with args and returns its stdout
// and stderr.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	// Set args to an empty slice rather than nil, which would use os.Args.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
