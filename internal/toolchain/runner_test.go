package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func newBufferedRunner() (*ExecRunner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := NewExecRunner(zerolog.Nop())
	r.Stdin = strings.NewReader("")
	r.Stdout = &stdout
	r.Stderr = &stderr
	return r, &stdout, &stderr
}

func TestExecRunner_Run(t *testing.T) {
	t.Run("zero exit status succeeds", func(t *testing.T) {
		requireBinary(t, "true")
		r, _, _ := newBufferedRunner()
		assert.NoError(t, r.Run(context.Background(), "true"))
	})

	t.Run("non-zero exit status fails", func(t *testing.T) {
		requireBinary(t, "sh")
		r, _, _ := newBufferedRunner()
		err := r.Run(context.Background(), "sh", "-c", "exit 3")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRunner)

		var runErr *RunError
		require.ErrorAs(t, err, &runErr)
		assert.Equal(t, "sh", runErr.Name)
		assert.Equal(t, []string{"-c", "exit 3"}, runErr.Args)
		assert.Equal(t, 3, runErr.ExitCode)
		assert.Contains(t, err.Error(), "exited with status 3")

		var exitErr *exec.ExitError
		assert.True(t, errors.As(err, &exitErr), "underlying cause should be kept")
	})

	t.Run("command not found", func(t *testing.T) {
		r, _, _ := newBufferedRunner()
		err := r.Run(context.Background(), "this-binary-definitely-does-not-exist-xyz123")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRunner)
		assert.ErrorIs(t, err, exec.ErrNotFound)

		var runErr *RunError
		require.ErrorAs(t, err, &runErr)
		assert.Equal(t, -1, runErr.ExitCode)
	})

	t.Run("streams pass through", func(t *testing.T) {
		requireBinary(t, "sh")
		r, stdout, stderr := newBufferedRunner()
		require.NoError(t, r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2"))
		assert.Equal(t, "out\n", stdout.String())
		assert.Equal(t, "err\n", stderr.String())
	})

	t.Run("inherits working directory override", func(t *testing.T) {
		requireBinary(t, "pwd")
		dir := t.TempDir()
		r, stdout, _ := newBufferedRunner()
		r.Dir = dir
		require.NoError(t, r.Run(context.Background(), "pwd"))
		assert.Contains(t, stdout.String(), dir[strings.LastIndex(dir, "/")+1:])
	})

	t.Run("cancelled context", func(t *testing.T) {
		requireBinary(t, "sleep")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r, _, _ := newBufferedRunner()
		err := r.Run(ctx, "sleep", "5")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRunner)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RunError
		want string
	}{
		{
			name: "exit status",
			err:  &RunError{Name: "npm", Args: []string{"run", "build"}, ExitCode: 2, Err: errors.New("exit status 2")},
			want: "npm run build: exited with status 2: exit status 2",
		},
		{
			name: "spawn failure",
			err:  &RunError{Name: "npx", ExitCode: -1, Err: errors.New("not found")},
			want: "npx: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
