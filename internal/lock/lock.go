// Package lock provides a per-project file lock so concurrent runs do not
// overwrite each other's manifest and build output.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is the directory under the project root holding lock files.
const Dir = ".subgraphctl"

// ErrLocked indicates another process holds the lock.
var ErrLocked = errors.New("another subgraphctl run is in progress")

// errHeld is returned by tryLock when the lock is contended.
var errHeld = errors.New("lock held")

// Lock is an exclusive advisory lock on a file.
type Lock struct {
	path string
	file *os.File
}

// New creates a lock named name under projectDir.
func New(projectDir, name string) *Lock {
	return &Lock{path: filepath.Join(projectDir, Dir, name+".lock")}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. It returns ErrLocked if another
// process holds it.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ignore := filepath.Join(filepath.Dir(l.path), ".gitignore")
	if _, err := os.Stat(ignore); os.IsNotExist(err) {
		os.WriteFile(ignore, []byte("*\n"), 0644)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := tryLock(f); err != nil {
		f.Close()
		if errors.Is(err, errHeld) {
			return fmt.Errorf("%w (%s held by pid %s)", ErrLocked, l.path, holder(l.path))
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	// PID is informational only.
	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	l.file = f
	return nil
}

// Release drops the lock. The lock file stays in place so every process
// locks the same inode. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	f := l.file
	l.file = nil
	f.Truncate(0)
	if err := unlock(f); err != nil {
		f.Close()
		return fmt.Errorf("release lock: %w", err)
	}
	return f.Close()
}

// WithLock runs fn while holding the lock named name under projectDir.
func WithLock(projectDir, name string, fn func() error) error {
	l := New(projectDir, name)
	if err := l.Acquire(); err != nil {
		return err
	}
	defer l.Release()

	return fn()
}

func holder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return "unknown"
	}
	return strings.TrimSpace(string(data))
}
