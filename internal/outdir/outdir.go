// Package outdir owns the generated-output directory: it is wiped and
// recreated at the start of every run, guarded against paths that must never
// be removed, and serialized across processes with an advisory lock.
package outdir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"imgprep/internal/faults"
	"imgprep/internal/fileutil"
)

// Reset deletes dir recursively when it exists and recreates it empty.
// protected lists the paths the run reads or patches (inputs and the HTML
// document); dir may not equal or contain any of them.
func Reset(dir string, protected []string) error {
	abs, err := Guard(dir, protected)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		return faults.Wrap(faults.ErrFilesystem, "outdir", "remove", abs, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return faults.Wrap(faults.ErrFilesystem, "outdir", "create", abs, err)
	}
	return nil
}

// Guard returns the absolute form of dir, or an ErrConfiguration error when
// wiping it would destroy the filesystem root, the home directory, the
// working directory or one of the protected paths.
func Guard(dir string, protected []string) (string, error) {
	if dir == "" {
		return "", faults.Wrap(faults.ErrConfiguration, "outdir", "guard", "output directory is empty", nil)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", faults.Wrap(faults.ErrConfiguration, "outdir", "guard", dir, err)
	}

	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return "", refuse(abs, "filesystem root")
	}
	if home, err := os.UserHomeDir(); err == nil && sameDir(abs, home) {
		return "", refuse(abs, "home directory")
	}
	if cwd, err := os.Getwd(); err == nil && fileutil.Within(abs, cwd) {
		return "", refuse(abs, "contains the working directory")
	}
	for _, path := range protected {
		if path == "" {
			continue
		}
		if fileutil.Within(abs, path) {
			return "", refuse(abs, fmt.Sprintf("contains %s", path))
		}
	}
	return abs, nil
}

func refuse(dir, reason string) error {
	return faults.Wrap(faults.ErrConfiguration, "outdir", "guard", fmt.Sprintf("refusing to wipe %s (%s)", dir, reason), nil)
}

func sameDir(a, b string) bool {
	absB, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(absB)
}

// Lock is an exclusive advisory lock scoped to one output directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the lock file used for dir. It lives in the OS temp dir
// because the output directory itself is deleted during a run.
func LockPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "imgprep-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// Acquire takes the lock for dir without blocking. A lock held by another
// process yields ErrLocked.
func Acquire(dir string) (*Lock, error) {
	path, err := LockPath(dir)
	if err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "outdir", "lock", dir, err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "outdir", "lock", path, err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrLocked, "outdir", "lock", fmt.Sprintf("%s is in use (lock %s)", dir, path), nil)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. The lock file stays in place so a waiting process never
// locks an unlinked inode. It is safe to call on nil.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
