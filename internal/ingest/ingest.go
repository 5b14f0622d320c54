// Package ingest stores incoming documents in the library root.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"clawbot/internal/services"
)

// Store writes r to root/<name>, overwriting an existing file, and returns the
// stored path. name must be a bare file name.
func Store(root, name string, r io.Reader) (string, error) {
	clean, err := SafeName(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", services.Wrap(services.ErrWrite, "ingest", "ensure library", "Failed to create library directory", err)
	}

	target := filepath.Join(root, clean)
	tmp, err := os.CreateTemp(root, "."+clean+".*.part")
	if err != nil {
		return "", services.Wrap(services.ErrWrite, "ingest", "create temp", "Failed to create temporary file", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", services.Wrap(services.ErrWrite, "ingest", "write", fmt.Sprintf("Failed to store %s", clean), err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", services.Wrap(services.ErrWrite, "ingest", "close", fmt.Sprintf("Failed to store %s", clean), err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", services.Wrap(services.ErrWrite, "ingest", "chmod", fmt.Sprintf("Failed to store %s", clean), err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return "", services.Wrap(services.ErrWrite, "ingest", "rename", fmt.Sprintf("Failed to store %s", clean), err)
	}
	return target, nil
}

// StoreFile copies the file at src into root under its base name.
func StoreFile(root, src string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "ingest", "open source", fmt.Sprintf("Cannot read %s", src), err)
	}
	defer f.Close()
	return Store(root, filepath.Base(src), f)
}

// SafeName validates an upload name. Directory components are rejected rather
// than stripped.
func SafeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "", trimmed == ".", trimmed == "..":
		return "", services.Wrap(services.ErrValidation, "ingest", "validate name", fmt.Sprintf("Invalid file name %q", name), nil)
	case strings.ContainsAny(trimmed, `/\`), strings.ContainsRune(trimmed, 0):
		return "", services.Wrap(services.ErrValidation, "ingest", "validate name", fmt.Sprintf("File name %q must not contain path separators", name), nil)
	}
	return trimmed, nil
}
