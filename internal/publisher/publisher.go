package publisher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"clawbot/internal/fileutil"
	"clawbot/internal/logging"
	"clawbot/internal/services"
)

// Method records how an artifact came to exist.
type Method string

const (
	MethodSymlink  Method = "symlink"
	MethodCopy     Method = "copy"
	MethodExisting Method = "existing"
)

// Artifact is a published document in the destination directory.
type Artifact struct {
	Path   string
	Source string
	Method Method
}

// Linker publishes documents by symlink with a copy fallback.
type Linker struct {
	logger  *slog.Logger
	symlink func(oldname, newname string) error
	copy    func(src, dst string) error
}

// Option customizes the linker.
type Option func(*Linker)

// WithSymlinkFunc overrides how links are created (used in tests to simulate
// platforms without symlink support).
func WithSymlinkFunc(fn func(oldname, newname string) error) Option {
	return func(l *Linker) {
		if fn != nil {
			l.symlink = fn
		}
	}
}

// WithCopyFunc overrides the fallback copy.
func WithCopyFunc(fn func(src, dst string) error) Option {
	return func(l *Linker) {
		if fn != nil {
			l.copy = fn
		}
	}
}

// NewLinker constructs a Linker.
func NewLinker(logger *slog.Logger, opts ...Option) *Linker {
	l := &Linker{
		logger:  logging.NewComponentLogger(logger, "publisher"),
		symlink: os.Symlink,
		copy:    fileutil.CopyFilePreserve,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Publish exposes source as destDir/basename(source). An existing entry at
// that path is returned without verification.
func (l *Linker) Publish(ctx context.Context, source, destDir string) (Artifact, error) {
	logger := logging.WithContext(ctx, l.logger)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Artifact{}, services.Wrap(services.ErrWrite, "publisher", "ensure destination", "Failed to create publish directory", err)
	}
	target := filepath.Join(destDir, filepath.Base(source))
	artifact := Artifact{Path: target, Source: source}

	if _, err := os.Lstat(target); err == nil {
		artifact.Method = MethodExisting
		logger.Info("artifact already exists", logging.String("artifact", target))
		return artifact, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Artifact{}, services.Wrap(services.ErrWrite, "publisher", "inspect destination", "Failed to inspect publish path", err)
	}

	linkTarget, err := filepath.Abs(source)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrValidation, "publisher", "resolve source", "Failed to resolve source path", err)
	}

	linkErr := l.symlink(linkTarget, target)
	if linkErr == nil {
		artifact.Method = MethodSymlink
		logger.Info("symlink created", logging.String("artifact", target), logging.String("source", linkTarget))
		return artifact, nil
	}
	if !linkUnsupported(linkErr) {
		return Artifact{}, services.Wrap(services.ErrWrite, "publisher", "create symlink", "Failed to link document", linkErr)
	}

	logging.WarnWithContext(logger, "symlink not permitted; copying document instead", "publish_fallback",
		logging.String("artifact", target),
		logging.Error(linkErr),
		logging.String(logging.FieldImpact, "publish directory holds a copy that will not follow source edits"),
		logging.String(logging.FieldErrorHint, "enable symlink privileges to publish by link"),
	)
	if err := l.copy(source, target); err != nil {
		return Artifact{}, services.Wrap(services.ErrWrite, "publisher", "copy fallback", fmt.Sprintf("Failed to copy %s", filepath.Base(source)), err)
	}
	artifact.Method = MethodCopy
	logger.Info("document copied", logging.String("artifact", target))
	return artifact, nil
}

// linkUnsupported reports whether err is the platform telling us links are
// unavailable, as opposed to a genuine I/O failure.
func linkUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errors.ErrUnsupported) {
		return true
	}
	return platformLinkUnsupported(err)
}
