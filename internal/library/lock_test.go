package library_test

import (
	"errors"
	"path/filepath"
	"testing"

	"clawbot/internal/library"
)

func TestAcquireLockIsExclusive(t *testing.T) {
	root := filepath.Join(t.TempDir(), "library")

	first, err := library.AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if first.Path() != filepath.Join(root, library.LockFileName) {
		t.Fatalf("unexpected lock path %q", first.Path())
	}

	if _, err := library.AcquireLock(root); !errors.Is(err, library.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := library.AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("Release second: %v", err)
	}
}
