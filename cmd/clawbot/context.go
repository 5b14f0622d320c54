package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clawbot/internal/config"
	"clawbot/internal/history"
	"clawbot/internal/library"
	"clawbot/internal/logging"
	"clawbot/internal/services"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "load config", "Invalid configuration", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "ensure directories", "Cannot create configured directories", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// runContext stamps a fresh run ID and the operation name onto parent so
// every log line of the run can be correlated.
func (c *commandContext) runContext(parent context.Context, operation string) (context.Context, string) {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithOperation(ctx, operation)
	return ctx, runID
}

// withLibraryLock runs fn while holding the library's advisory lock.
func withLibraryLock(root string, fn func() error) error {
	lock, err := library.AcquireLock(root)
	if err != nil {
		if errors.Is(err, library.ErrLocked) {
			return services.Wrap(services.ErrValidation, "cli", "lock library",
				fmt.Sprintf("Another clawbot command is working on %s; retry once it finishes", root), err)
		}
		return services.Wrap(services.ErrWrite, "cli", "lock library", "Failed to lock library", err)
	}
	defer lock.Release()
	return fn()
}

// recordRun stores run in the history database. Failures are logged only: a
// broken history never fails the command that produced it.
func (c *commandContext) recordRun(ctx context.Context, logger *slog.Logger, run history.Run) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return
	}
	store, err := history.Open(cfg.HistoryPath())
	if err == nil {
		defer store.Close()
		err = store.Record(ctx, run)
	}
	if err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_record_failed",
			logging.Error(err),
			logging.String("history_path", cfg.HistoryPath()),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run missing from `clawbot history`"),
		)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
