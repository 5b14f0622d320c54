package matcher

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"clawbot/internal/library"
	"clawbot/internal/logging"
)

// Classifier decides whether a document is the target.
type Classifier interface {
	IsTarget(ctx context.Context, doc library.Document) bool
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, doc library.Document) bool

// IsTarget calls f.
func (f ClassifierFunc) IsTarget(ctx context.Context, doc library.Document) bool {
	return f(ctx, doc)
}

// Markers configures the marker heuristic.
type Markers struct {
	// Positive must appear in the filename or sibling text.
	Positive string
	// Negative vetoes a filename that contains it. Empty disables the veto.
	Negative string
	// TextExtension names the sibling text file consulted as content fallback.
	TextExtension string
}

const defaultTextExtension = ".txt"

// maxContentBytes bounds how much of a sibling text file is inspected.
const maxContentBytes = 32 << 20

// MarkerClassifier implements Classifier with filename and content markers.
type MarkerClassifier struct {
	positive string
	negative string
	textExt  string
	folder   cases.Caser
	logger   *slog.Logger
}

// NewMarkerClassifier builds a classifier from explicit markers.
func NewMarkerClassifier(logger *slog.Logger, markers Markers) *MarkerClassifier {
	folder := cases.Fold()
	textExt := strings.TrimSpace(markers.TextExtension)
	if textExt == "" {
		textExt = defaultTextExtension
	}
	if !strings.HasPrefix(textExt, ".") {
		textExt = "." + textExt
	}
	return &MarkerClassifier{
		positive: folder.String(strings.TrimSpace(markers.Positive)),
		negative: folder.String(strings.TrimSpace(markers.Negative)),
		textExt:  textExt,
		folder:   folder,
		logger:   logging.NewComponentLogger(logger, "matcher"),
	}
}

// IsTarget applies the filename signal, then the content fallback.
func (m *MarkerClassifier) IsTarget(ctx context.Context, doc library.Document) bool {
	logger := logging.WithContext(ctx, m.logger)
	if m.positive == "" {
		return false
	}

	name := m.folder.String(doc.Name)
	hasPositive := strings.Contains(name, m.positive)
	hasNegative := m.negative != "" && strings.Contains(name, m.negative)
	switch {
	case hasPositive && hasNegative:
		logger.Debug("document vetoed by conflicting marker",
			logging.Args(append(logging.DecisionAttrs("document_match", "rejected", "conflicting_marker"),
				logging.String("document", doc.Path))...)...,
		)
		return false
	case hasPositive:
		logger.Info("document matched by filename",
			logging.Args(append(logging.DecisionAttrs("document_match", "matched", "filename_marker"),
				logging.String("document", doc.Path))...)...,
		)
		return true
	}

	sibling := SiblingTextPath(doc.Path, m.textExt)
	found, err := m.contentContains(sibling)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(logger, "sibling text unreadable", "match_content_unreadable",
				logging.String("text_file", sibling),
				logging.Error(err),
				logging.String(logging.FieldImpact, "document judged by filename only"),
			)
		}
		logger.Debug("document not matched", logging.String("document", doc.Path))
		return false
	}
	if found {
		logger.Info("document matched by content",
			logging.Args(append(logging.DecisionAttrs("document_match", "matched", "content_marker"),
				logging.String("document", doc.Path),
				logging.String("text_file", sibling))...)...,
		)
		return true
	}
	logger.Debug("document not matched", logging.String("document", doc.Path))
	return false
}

// contentContains reads path as UTF-8, substituting U+FFFD for invalid bytes,
// and reports whether the folded text contains the positive marker. A leading
// UTF-16 or UTF-8 byte order mark selects the matching decoder. Only the first
// maxContentBytes are read; markers past that point are not seen.
func (m *MarkerClassifier) contentContains(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	decoded := transform.NewReader(io.LimitReader(file, maxContentBytes), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	content, err := io.ReadAll(decoded)
	if err != nil {
		return false, err
	}
	return strings.Contains(m.folder.String(string(content)), m.positive), nil
}

// SiblingTextPath replaces the final extension of path with textExt.
func SiblingTextPath(path, textExt string) string {
	ext := ""
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 && !strings.ContainsAny(path[idx:], `/\`) {
		ext = path[idx:]
	}
	return strings.TrimSuffix(path, ext) + textExt
}

// FindTarget returns the first document in scan order that the classifier
// accepts. The boolean is false when nothing matches.
func FindTarget(ctx context.Context, docs []library.Document, classifier Classifier) (library.Document, bool) {
	if classifier == nil {
		return library.Document{}, false
	}
	for _, doc := range docs {
		if ctx.Err() != nil {
			return library.Document{}, false
		}
		if classifier.IsTarget(ctx, doc) {
			return doc, true
		}
	}
	return library.Document{}, false
}
