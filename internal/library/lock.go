package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the advisory lock file created inside a library root.
const LockFileName = ".clawbot.lock"

// ErrLocked reports that another writer holds the library lock.
var ErrLocked = errors.New("library is locked by another clawbot process")

// Lock is a held single-writer lock on a library root.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the single-writer lock for root without blocking. The root
// is created if needed so the lock file has somewhere to live.
func AcquireLock(root string) (*Lock, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ensure library root: %w", err)
	}
	lockPath := filepath.Join(root, LockFileName)
	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, lockPath)
	}
	return &Lock{path: lockPath, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks the library root.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
