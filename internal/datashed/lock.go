package datashed

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	dserrors "github.com/datashed/datashed/internal/errors"
)

// lockFile lives in TmpDir so it is ignored along with other scratch files.
const lockFile = "index.lock"

// Lock is an exclusive cross-process lock on a datashed, held while an
// index is being built so two runs never race on the same artifact.
type Lock struct {
	flock *flock.Flock
}

// TryLock acquires the corpus lock without blocking. It fails with
// ErrCorpusLocked when another process holds it.
func (d *Datashed) TryLock() (*Lock, error) {
	if err := os.MkdirAll(d.TmpDir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := filepath.Join(d.TmpDir(), lockFile)
	fl := flock.New(path)

	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return nil, dserrors.CorpusLocked(path)
	}
	return &Lock{flock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.flock.Path() }

// Unlock releases the lock. Safe to call more than once.
func (l *Lock) Unlock() error {
	if l == nil || !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
