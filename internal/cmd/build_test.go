package cmd

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/subgraphctl/internal/config"
	"github.com/cameronsjo/subgraphctl/internal/fileutil"
	"github.com/cameronsjo/subgraphctl/internal/lock"
	"github.com/cameronsjo/subgraphctl/internal/manifest"
	"github.com/cameronsjo/subgraphctl/internal/subgraph"
	"github.com/cameronsjo/subgraphctl/internal/toolchain"
)

func TestBuildCmd(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		projectDir(t)
		runner := useRecordingRunner(t)

		_, _, err := executeCmd(t, "build")
		require.NoError(t, err)

		out := readFile(t, manifest.DefaultOutputPath)
		assert.Equal(t, 2, strings.Count(out, "network: localhost"))
		assert.Contains(t, out, `address: "0x0000000000000000000000000000000000000000"`)
		assert.Contains(t, out, "startBlock: 0")
		assert.Contains(t, out, "# shown in the explorer")
		assert.Equal(t, []string{"npm run codegen", "npm run build"}, runner.lines)
	})

	t.Run("flags", func(t *testing.T) {
		projectDir(t)
		useRecordingRunner(t)

		_, _, err := executeCmd(t, "build",
			"--network", "goerli",
			"--block", "5",
			"--address", "0x1111111111111111111111111111111111111111",
			"--output", "build/subgraph.yaml",
		)
		require.NoError(t, err)

		out := readFile(t, "build/subgraph.yaml")
		assert.Equal(t, 2, strings.Count(out, "network: goerli"))
		assert.Contains(t, out, `address: "0x1111111111111111111111111111111111111111"`)
		assert.Contains(t, out, "startBlock: 5")
		assert.False(t, fileutil.Exists(manifest.DefaultOutputPath))
	})

	t.Run("custom template path", func(t *testing.T) {
		projectDir(t)
		useRecordingRunner(t)
		require.NoError(t, os.Rename("subgraph.template.yaml", "custom.yaml"))

		_, _, err := executeCmd(t, "build", "--template-path", "custom.yaml")
		require.NoError(t, err)
		assert.True(t, fileutil.Exists(manifest.DefaultOutputPath))
	})

	t.Run("flags win over config file", func(t *testing.T) {
		projectDir(t)
		useRecordingRunner(t)
		require.NoError(t, os.WriteFile(config.DefaultFile, []byte("[manifest]\nnetwork = \"goerli\"\nstart_block = 10\n"), 0644))

		_, _, err := executeCmd(t, "build", "--network", "mainnet")
		require.NoError(t, err)

		out := readFile(t, manifest.DefaultOutputPath)
		assert.Equal(t, 2, strings.Count(out, "network: mainnet"))
		assert.Contains(t, out, "startBlock: 10")
	})

	t.Run("environment selects package runner", func(t *testing.T) {
		projectDir(t)
		runner := useRecordingRunner(t)
		t.Setenv(config.EnvPackageRunner, "pnpm")

		_, _, err := executeCmd(t, "build")
		require.NoError(t, err)
		assert.Equal(t, []string{"pnpm run codegen", "pnpm run build"}, runner.lines)
	})
}

func TestBuildCmd_DryRun(t *testing.T) {
	projectDir(t)
	runner := useRecordingRunner(t)

	stdout, stderr, err := executeCmd(t, "build", "--dry-run", "--network", "mainnet")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "specVersion: 0.0.5\n"))
	assert.Equal(t, 2, strings.Count(stdout, "network: mainnet"))
	assert.Contains(t, stderr, "$ npm run codegen\n")
	assert.Contains(t, stderr, "$ npm run build\n")

	assert.False(t, fileutil.Exists(manifest.DefaultOutputPath))
	assert.Empty(t, runner.lines)
}

func TestBuildCmd_Errors(t *testing.T) {
	t.Run("missing template", func(t *testing.T) {
		t.Chdir(t.TempDir())
		runner := useRecordingRunner(t)

		_, _, err := executeCmd(t, "build")
		require.Error(t, err)
		assert.ErrorIs(t, err, manifest.ErrTemplateNotFound)
		assert.Empty(t, runner.lines)
	})

	t.Run("build failure leaves manifest on disk", func(t *testing.T) {
		projectDir(t)
		runner := useRecordingRunner(t)
		runner.failOn = "run build"

		_, _, err := executeCmd(t, "build")
		require.Error(t, err)
		assert.ErrorIs(t, err, toolchain.ErrRunner)

		var stepErr *subgraph.StepError
		require.True(t, errors.As(err, &stepErr))
		assert.Equal(t, subgraph.StepBuild, stepErr.Step)
		assert.True(t, fileutil.Exists(manifest.DefaultOutputPath))
	})

	t.Run("concurrent run holds the project lock", func(t *testing.T) {
		projectDir(t)
		runner := useRecordingRunner(t)
		held := lock.New(".", projectLock)
		require.NoError(t, held.Acquire())
		defer held.Release()

		_, _, err := executeCmd(t, "build")
		assert.ErrorIs(t, err, lock.ErrLocked)
		assert.Empty(t, runner.lines)
		assert.False(t, fileutil.Exists(manifest.DefaultOutputPath))

		// Dry runs write nothing and ignore the lock.
		_, _, err = executeCmd(t, "build", "--dry-run")
		assert.NoError(t, err)
	})

	t.Run("lock released after run", func(t *testing.T) {
		projectDir(t)
		useRecordingRunner(t)

		_, _, err := executeCmd(t, "build")
		require.NoError(t, err)
		held := lock.New(".", projectLock)
		require.NoError(t, held.Acquire())
		require.NoError(t, held.Release())
	})

	t.Run("invalid block", func(t *testing.T) {
		projectDir(t)
		useRecordingRunner(t)

		_, _, err := executeCmd(t, "build", "--block", "-1")
		assert.Error(t, err)
	})

	t.Run("positional args rejected", func(t *testing.T) {
		projectDir(t)
		useRecordingRunner(t)

		_, _, err := executeCmd(t, "build", "mainnet")
		assert.Error(t, err)
	})
}
