package organizer

import (
	"context"
	"log/slog"
	"strings"

	"clawbot/internal/config"
	"clawbot/internal/library"
	"clawbot/internal/logging"
	"clawbot/internal/matcher"
	"clawbot/internal/metadata"
	"clawbot/internal/publisher"
)

const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
)

// Result is the outcome of one organize pass.
type Result struct {
	Status   string `json:"status"`
	Manual   string `json:"manual,omitempty"`
	Symlink  string `json:"symlink,omitempty"`
	Metadata string `json:"metadata,omitempty"`

	Method publisher.Method `json:"-"`
}

// Found reports whether a target document was organized.
func (r Result) Found() bool {
	return r.Status == StatusOK
}

// Publisher exposes a document in a destination directory.
type Publisher interface {
	Publish(ctx context.Context, source, destDir string) (publisher.Artifact, error)
}

// Options wires the organizer's collaborators.
type Options struct {
	Extension  string
	Classifier matcher.Classifier
	Linker     Publisher
	Stamp      metadata.Stamp
}

// Organizer scans, matches, publishes and annotates.
type Organizer struct {
	scanner    *library.Scanner
	classifier matcher.Classifier
	linker     Publisher
	stamp      metadata.Stamp
	logger     *slog.Logger
}

// NewOrganizer constructs an organizer. A nil Linker publishes with a default
// publisher.Linker; a nil Classifier never matches.
func NewOrganizer(logger *slog.Logger, opts Options) *Organizer {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = matcher.ClassifierFunc(func(context.Context, library.Document) bool { return false })
	}
	linker := opts.Linker
	if linker == nil {
		linker = publisher.NewLinker(logger)
	}
	return &Organizer{
		scanner:    library.NewScanner(logger, opts.Extension),
		classifier: classifier,
		linker:     linker,
		stamp:      opts.Stamp,
		logger:     logging.NewComponentLogger(logger, "organizer"),
	}
}

// NewFromConfig builds an organizer from the matcher and metadata sections.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Organizer {
	return NewOrganizer(logger, Options{
		Extension: cfg.Matcher.Extension,
		Classifier: matcher.NewMarkerClassifier(logger, matcher.Markers{
			Positive:      cfg.Matcher.PositiveMarker,
			Negative:      cfg.Matcher.NegativeMarker,
			TextExtension: cfg.Matcher.TextExtension,
		}),
		Linker: publisher.NewLinker(logger),
		Stamp: metadata.Stamp{
			Version:     cfg.Metadata.Version,
			OrganizedBy: cfg.Metadata.OrganizedBy,
		},
	})
}

// Organize runs one pass over libraryPath, publishing into publishDir.
func (o *Organizer) Organize(ctx context.Context, libraryPath, publishDir string) (Result, error) {
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("starting organization",
		logging.String("library", libraryPath),
		logging.String("publish_dir", publishDir),
	)

	docs := o.scanner.Scan(ctx, libraryPath)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	target, ok := matcher.FindTarget(ctx, docs, o.classifier)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !ok {
		logger.Info("organizer match decision",
			logging.Args(logging.DecisionAttrs("organizer_match", "not_found",
				"no document satisfied the classifier")...)...,
		)
		logger.Info("organization finished", logging.String("status", StatusNotFound), logging.Int("document_count", len(docs)))
		return Result{Status: StatusNotFound}, nil
	}
	logger.Info("organizer match decision",
		logging.Args(append(logging.DecisionAttrs("organizer_match", "matched", "classifier accepted document"),
			logging.String("document", target.Rel))...)...,
	)

	artifact, err := o.linker.Publish(ctx, target.Path, publishDir)
	if err != nil {
		return Result{}, err
	}
	logger.Info("document published",
		logging.String("artifact", artifact.Path),
		logging.String("method", string(artifact.Method)),
	)

	recordPath, err := metadata.Annotate(target.Path, o.stamp)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Status:   StatusOK,
		Manual:   target.Path,
		Symlink:  artifact.Path,
		Metadata: recordPath,
		Method:   artifact.Method,
	}
	logger.Info("organization finished",
		logging.String("status", result.Status),
		logging.String("manual", strings.TrimSpace(result.Manual)),
		logging.String("metadata", recordPath),
	)
	return result, nil
}
