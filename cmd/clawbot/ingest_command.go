package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clawbot/internal/ingest"
	"clawbot/internal/logging"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var libraryFlag string

	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Copy documents into the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			libraryDir, err := overridePath(cfg.Paths.LibraryDir, libraryFlag)
			if err != nil {
				return err
			}
			runCtx, _ := ctx.runContext(cmd.Context(), "ingest")
			logger = logging.WithContext(runCtx, logger)

			stored := make([]string, 0, len(args))
			err = withLibraryLock(libraryDir, func() error {
				for _, arg := range args {
					path, storeErr := ingest.StoreFile(libraryDir, arg)
					if storeErr != nil {
						return storeErr
					}
					logger.Info("document ingested", logging.String("source", arg), logging.String("stored", path))
					stored = append(stored, path)
				}
				return nil
			})
			if ctx.jsonOutput() && err == nil {
				return writeJSON(cmd, map[string]any{"stored": stored})
			}
			out := cmd.OutOrStdout()
			for _, path := range stored {
				fmt.Fprintf(out, "Stored %s\n", path)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&libraryFlag, "library", "", "Library directory (defaults to paths.library_dir)")
	return cmd
}
