// Package fileutil holds the byte-copy helpers shared by the publisher and the
// plan interpreter.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFilePreserve copies src to dst through a temp file in dst's directory,
// carrying over the permission bits and modification time, then renames it
// into place. On failure the temp file is removed and dst is left untouched.
func CopyFilePreserve(src, dst string) (err error) {
	info, err := regularSource(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return fmt.Errorf("copy bytes: %w", err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserve mtime: %w", err)
	}
	if err = os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// CopyFileVerified copies src to a dst that must not exist yet, then re-reads
// dst and compares its size and SHA-256 against the source stream. dst is
// removed when the copy or the verification fails.
func CopyFileVerified(src, dst string) (err error) {
	info, err := regularSource(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	srcHash := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHash))
	if err != nil {
		return fmt.Errorf("copy bytes: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	if written != info.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	dstSum, err := hashFile(dst)
	if err != nil {
		return fmt.Errorf("verify destination: %w", err)
	}
	if !bytes.Equal(srcHash.Sum(nil), dstSum) {
		return fmt.Errorf("copy hash mismatch: %s differs from %s", dst, src)
	}
	return nil
}

func regularSource(src string) (os.FileInfo, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("copy %s: not a regular file", src)
	}
	return info, nil
}

func hashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
