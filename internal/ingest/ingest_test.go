package ingest_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clawbot/internal/ingest"
	"clawbot/internal/services"
	"clawbot/internal/testsupport"
)

func TestStoreWritesAndOverwrites(t *testing.T) {
	root := filepath.Join(t.TempDir(), "library")

	path, err := ingest.Store(root, "armv8.pdf", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if path != filepath.Join(root, "armv8.pdf") {
		t.Fatalf("unexpected path %q", path)
	}
	if _, err := ingest.Store(root, "armv8.pdf", strings.NewReader("second")); err != nil {
		t.Fatalf("second Store: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
	if entries := testsupport.ListDir(t, root); len(entries) != 1 {
		t.Fatalf("expected no leftovers, got %v", entries)
	}
}

func TestStoreRejectsUnsafeNames(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"", " ", ".", "..", "../escape.pdf", "sub/doc.pdf", `sub\doc.pdf`, "/etc/passwd"} {
		_, err := ingest.Store(root, name, strings.NewReader("x"))
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("name %q: expected validation error, got %v", name, err)
		}
	}
	if entries := testsupport.ListDir(t, root); len(entries) != 0 {
		t.Fatalf("nothing should be written, got %v", entries)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestStoreReadFailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	_, err := ingest.Store(root, "broken.pdf", failingReader{})
	if !errors.Is(err, services.ErrWrite) {
		t.Fatalf("expected write failure, got %v", err)
	}
	if entries := testsupport.ListDir(t, root); len(entries) != 0 {
		t.Fatalf("expected no partial file, got %v", entries)
	}
}

func TestStoreFile(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "incoming", "manual.pdf")
	testsupport.WriteText(t, src, "%PDF")
	root := filepath.Join(base, "library")

	path, err := ingest.StoreFile(root, src)
	if err != nil {
		t.Fatalf("StoreFile: %v", err)
	}
	if path != filepath.Join(root, "manual.pdf") {
		t.Fatalf("unexpected path %q", path)
	}

	if _, err := ingest.StoreFile(root, filepath.Join(base, "missing.pdf")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
