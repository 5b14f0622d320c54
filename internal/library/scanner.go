package library

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"clawbot/internal/logging"
)

// Document identifies one file in the library.
type Document struct {
	// Path is the file location as walked from the scan root.
	Path string
	// Rel is the slash-separated path relative to the scan root.
	Rel  string
	Name string
	Ext  string
}

// Scanner walks a library root and returns documents with a single extension.
type Scanner struct {
	extension string
	logger    *slog.Logger
}

// NewScanner builds a scanner for the given extension (".pdf"). Matching is
// case-insensitive.
func NewScanner(logger *slog.Logger, extension string) *Scanner {
	extension = strings.TrimSpace(extension)
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Scanner{
		extension: extension,
		logger:    logging.NewComponentLogger(logger, "scanner"),
	}
}

// Extension reports the extension this scanner filters on.
func (s *Scanner) Extension() string {
	return s.extension
}

// Scan returns the documents under root in lexical walk order. It never fails:
// a missing root produces an empty slice and unreadable directories are skipped.
func (s *Scanner) Scan(ctx context.Context, root string) []Document {
	logger := logging.WithContext(ctx, s.logger)
	docs := make([]Document, 0)

	// WalkDir does not descend into a root that is itself a symlink.
	walkRoot := root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		walkRoot = resolved
	}

	walkErr := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if path == walkRoot {
				if !errors.Is(err, fs.ErrNotExist) {
					logging.WarnWithContext(logger, "library root unreadable", "scan_root_unreadable",
						logging.String("root", root),
						logging.Error(err),
						logging.String(logging.FieldImpact, "no documents scanned"),
					)
				}
				return fs.SkipAll
			}
			logging.WarnWithContext(logger, "skipping unreadable path", "scan_path_skipped",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "documents below this path are not considered"),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !(d.Type().IsRegular() || d.Type()&fs.ModeSymlink != 0) {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), s.extension) {
			return nil
		}
		rel, relErr := filepath.Rel(walkRoot, path)
		if relErr != nil {
			rel = d.Name()
		}
		docs = append(docs, Document{
			Path: filepath.Join(root, rel),
			Rel:  filepath.ToSlash(rel),
			Name: d.Name(),
			Ext:  filepath.Ext(d.Name()),
		})
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, fs.SkipAll) {
		logger.Debug("scan interrupted", logging.Error(walkErr))
	}

	logger.Info("library scanned",
		logging.String("root", root),
		logging.String("extension", s.extension),
		logging.Int("document_count", len(docs)),
	)
	return docs
}

// RelNames returns the root-relative names of docs, preserving order. This is
// the file list handed to the plan proposer.
func RelNames(docs []Document) []string {
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		names = append(names, doc.Rel)
	}
	return names
}
