package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clawbot/internal/config"
	"clawbot/internal/history"
	"clawbot/internal/logging"
	"clawbot/internal/organizer"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var libraryFlag, publishFlag string

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Publish the target document and stamp its metadata",
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

			runCtx, runID := ctx.runContext(cmd.Context(), "organize")
			logger = logging.WithContext(runCtx, logger)

			var result organizer.Result
			run := history.NewRun(runID, history.KindOrganize, libraryDir)
			err = withLibraryLock(libraryDir, func() error {
				var runErr error
				result, runErr = organizer.NewFromConfig(cfg, logger).Organize(runCtx, libraryDir, publishDir)
				return runErr
			})
			ctx.recordRun(runCtx, logger, run.Finish(result.Status, result, err))
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			for _, line := range organizeResultLines(result, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&libraryFlag, "library", "", "Library directory (defaults to paths.library_dir)")
	cmd.Flags().StringVar(&publishFlag, "publish", "", "Publish directory (defaults to paths.publish_dir)")
	return cmd
}

func resolveOrganizeDirs(cfg *config.Config, libraryFlag, publishFlag string) (string, string, error) {
	libraryDir, err := overridePath(cfg.Paths.LibraryDir, libraryFlag)
	if err != nil {
		return "", "", err
	}
	publishDir, err := overridePath(cfg.Paths.PublishDir, publishFlag)
	if err != nil {
		return "", "", err
	}
	return libraryDir, publishDir, nil
}

func overridePath(configured, flag string) (string, error) {
	if strings.TrimSpace(flag) == "" {
		return configured, nil
	}
	expanded, err := config.ExpandPath(strings.TrimSpace(flag))
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", flag, err)
	}
	return expanded, nil
}
