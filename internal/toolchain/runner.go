package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrRunner matches every *RunError.
var ErrRunner = errors.New("toolchain command failed")

// Runner executes external commands.
type Runner interface {
	// Run spawns name with args, waits for it and returns nil only on a
	// zero exit status.
	Run(ctx context.Context, name string, args ...string) error
}

// RunError reports a command that could not be spawned or exited non-zero.
type RunError struct {
	Name string
	Args []string

	// ExitCode is -1 when the process never started.
	ExitCode int

	Err error
}

func (e *RunError) Error() string {
	line := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: exited with status %d: %v", line, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", line, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRunner) match any run failure.
func (e *RunError) Is(target error) bool {
	return target == ErrRunner
}

// ExecRunner runs commands as child processes. Standard streams, working
// directory and environment are inherited unless overridden.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Dir is the working directory; empty means the current one.
	Dir string

	// Env is the environment; nil means the parent's.
	Env []string

	log zerolog.Logger
}

// NewExecRunner creates an ExecRunner wired to the process's own streams.
func NewExecRunner(log zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		log:    log.With().Str("component", "runner").Logger(),
	}
}

// Run implements Runner. Cancelling ctx kills the child process.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Dir = r.Dir
	cmd.Env = r.Env

	start := time.Now()
	err := cmd.Run()
	r.log.Debug().Str("command", name).Dur("elapsed", time.Since(start)).Err(err).Msg("process finished")
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}

	return &RunError{Name: name, Args: args, ExitCode: exitCode, Err: err}
}

var _ Runner = (*ExecRunner)(nil)
