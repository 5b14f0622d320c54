package plan

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"clawbot/internal/fileutil"
	"clawbot/internal/logging"
)

// Interpreter applies plans to a library root.
type Interpreter struct {
	logger *slog.Logger
	rename func(oldpath, newpath string) error
	copy   func(src, dst string) error
}

// InterpreterOption customizes the interpreter.
type InterpreterOption func(*Interpreter)

// WithRenameFunc overrides the move primitive (tests simulate cross-device
// renames with it).
func WithRenameFunc(fn func(oldpath, newpath string) error) InterpreterOption {
	return func(i *Interpreter) {
		if fn != nil {
			i.rename = fn
		}
	}
}

// NewInterpreter constructs an Interpreter.
func NewInterpreter(logger *slog.Logger, opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{
		logger: logging.NewComponentLogger(logger, "plan"),
		rename: os.Rename,
		copy:   fileutil.CopyFileVerified,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Apply runs every action in order against root and returns one outcome per
// action. Only folders created (or found) by this plan may receive moves.
func (i *Interpreter) Apply(ctx context.Context, p Plan, root string) []Outcome {
	logger := logging.WithContext(ctx, i.logger)
	outcomes := make([]Outcome, 0, len(p.Actions))
	established := make(map[string]struct{})

	for index, action := range p.Actions {
		if ctx.Err() != nil {
			outcomes = append(outcomes, Outcome{Index: index, Action: action, Status: StatusSkipped, Reason: ReasonCanceled})
			continue
		}

		var outcome Outcome
		if err := Validate(action); err != nil {
			outcome = skipped(index, action, ReasonInvalidAction)
		} else {
			switch action.Kind {
			case KindCreateFolder:
				outcome = i.createFolder(ctx, index, action, root, established)
			case KindMoveFile:
				outcome = i.moveFile(ctx, index, action, root, established)
			}
		}
		outcomes = append(outcomes, outcome)
		logger.Info("plan action processed",
			logging.Int("index", index),
			logging.String("action", action.Describe()),
			logging.String("outcome", outcome.String()),
		)
	}

	applied, skippedCount := Summarize(outcomes)
	logger.Info("plan applied",
		logging.Int("action_count", len(outcomes)),
		logging.Int("applied", applied),
		logging.Int("skipped", skippedCount),
	)
	return outcomes
}

func (i *Interpreter) createFolder(ctx context.Context, index int, action Action, root string, established map[string]struct{}) Outcome {
	key := folderKey(action.Name)
	dir := filepath.Join(root, key)

	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return skipped(index, action, ReasonNotADirectory)
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			if errors.Is(err, syscall.ENOTDIR) {
				return skipped(index, action, ReasonNotADirectory)
			}
			i.warnIO(ctx, action, err)
			return skipped(index, action, ReasonIOError)
		}
	default:
		if errors.Is(err, syscall.ENOTDIR) {
			return skipped(index, action, ReasonNotADirectory)
		}
		i.warnIO(ctx, action, err)
		return skipped(index, action, ReasonIOError)
	}

	established[key] = struct{}{}
	return Outcome{Index: index, Action: action, Status: StatusApplied}
}

func (i *Interpreter) moveFile(ctx context.Context, index int, action Action, root string, established map[string]struct{}) Outcome {
	targetKey := folderKey(action.Target)
	if _, ok := established[targetKey]; !ok {
		return skipped(index, action, ReasonTargetNotCreated)
	}

	source := filepath.Join(root, filepath.Clean(filepath.FromSlash(action.File)))
	info, err := os.Lstat(source)
	if err != nil {
		return skipped(index, action, ReasonSourceMissing)
	}
	link := info.Mode()&fs.ModeSymlink != 0
	if !link && !info.Mode().IsRegular() {
		return skipped(index, action, ReasonNotRegular)
	}

	destination := filepath.Join(root, targetKey, filepath.Base(source))
	if destination == source {
		return skipped(index, action, ReasonDestinationExists)
	}
	if _, err := os.Lstat(destination); err == nil {
		return skipped(index, action, ReasonDestinationExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		i.warnIO(ctx, action, err)
		return skipped(index, action, ReasonIOError)
	}

	if err := i.move(ctx, source, destination, link); err != nil {
		i.warnIO(ctx, action, err)
		return skipped(index, action, ReasonIOError)
	}
	return Outcome{Index: index, Action: action, Status: StatusApplied}
}

// move renames source to destination, falling back to copy and delete when
// the two live on different devices. A symlink source moves the link itself.
func (i *Interpreter) move(ctx context.Context, source, destination string, link bool) error {
	renameErr := i.rename(source, destination)
	if renameErr == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return renameErr
	}
	if link {
		if err := relink(source, destination); err != nil {
			return err
		}
	} else if err := i.copy(source, destination); err != nil {
		return err
	}
	if err := os.Remove(source); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, i.logger), "failed to remove source after cross-device copy", "plan_source_cleanup_failed",
			logging.String("source", source),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the original file manually"),
			logging.String(logging.FieldImpact, "document now exists in both locations"),
		)
	}
	return nil
}

func relink(source, destination string) error {
	target, err := os.Readlink(source)
	if err != nil {
		return err
	}
	return os.Symlink(target, destination)
}

func (i *Interpreter) warnIO(ctx context.Context, action Action, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, i.logger), "plan action failed", "plan_action_io_error",
		logging.String("action", action.Describe()),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check library permissions and free space"),
		logging.String(logging.FieldImpact, "action skipped; later actions still run"),
	)
}

func folderKey(name string) string {
	return filepath.Clean(filepath.FromSlash(name))
}

func skipped(index int, action Action, reason string) Outcome {
	return Outcome{Index: index, Action: action, Status: StatusSkipped, Reason: reason}
}
