package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"clawbot/internal/history"
	"clawbot/internal/logging"
	"clawbot/internal/organizer"
	"clawbot/internal/services"
	"clawbot/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var libraryFlag, publishFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run organize whenever library documents change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			libraryDir, publishDir, err := resolveOrganizeDirs(cfg, libraryFlag, publishFlag)
			if err != nil {
				return err
			}

			watcher, err := watch.NewWatcher(logger, []string{cfg.Matcher.Extension, cfg.Matcher.TextExtension}, cfg.WatchDebounce())
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "start watcher", "Failed to create file watcher", err)
			}
			defer watcher.Close()

			org := organizer.NewFromConfig(cfg, logger)
			out := cmd.OutOrStdout()
			organizeOnce := func(parent context.Context) error {
				runCtx, runID := ctx.runContext(parent, "watch")
				runLogger := logging.WithContext(runCtx, logger)
				var result organizer.Result
				run := history.NewRun(runID, history.KindOrganize, libraryDir)
				err := withLibraryLock(libraryDir, func() error {
					var runErr error
					result, runErr = org.Organize(runCtx, libraryDir, publishDir)
					return runErr
				})
				ctx.recordRun(runCtx, runLogger, run.Finish(result.Status, result, err))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSONLine(cmd, result)
				}
				for _, line := range organizeResultLines(result, shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
				return nil
			}

			if err := organizeOnce(cmd.Context()); err != nil {
				logging.WarnWithContext(logger, "initial organize failed", "watch_run_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "fix the error above; watching continues"),
					logging.String(logging.FieldImpact, "library not organized until the next change"),
				)
			}
			return watcher.Run(cmd.Context(), libraryDir, organizeOnce)
		},
	}

	cmd.Flags().StringVar(&libraryFlag, "library", "", "Library directory (defaults to paths.library_dir)")
	cmd.Flags().StringVar(&publishFlag, "publish", "", "Publish directory (defaults to paths.publish_dir)")
	return cmd
}
