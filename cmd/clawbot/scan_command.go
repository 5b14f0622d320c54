package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clawbot/internal/library"
	"clawbot/internal/logging"
	"clawbot/internal/matcher"
)

type scanEntry struct {
	Path  string `json:"path"`
	Rel   string `json:"rel"`
	Match bool   `json:"match"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var libraryFlag string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List library documents and whether each matches",
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
			libraryDir, err := overridePath(cfg.Paths.LibraryDir, libraryFlag)
			if err != nil {
				return err
			}
			runCtx, _ := ctx.runContext(cmd.Context(), "scan")
			logger = logging.WithContext(runCtx, logger)

			docs := library.NewScanner(logger, cfg.Matcher.Extension).Scan(runCtx, libraryDir)
			classifier := matcher.NewMarkerClassifier(logger, matcher.Markers{
				Positive:      cfg.Matcher.PositiveMarker,
				Negative:      cfg.Matcher.NegativeMarker,
				TextExtension: cfg.Matcher.TextExtension,
			})
			entries := make([]scanEntry, 0, len(docs))
			for _, doc := range docs {
				entries = append(entries, scanEntry{Path: doc.Path, Rel: doc.Rel, Match: classifier.IsTarget(runCtx, doc)})
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No %s documents under %s\n", cfg.Matcher.Extension, libraryDir)
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{strconv.Itoa(i + 1), entry.Rel, yesNo(entry.Match)})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Document", "Match"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVar(&libraryFlag, "library", "", "Library directory (defaults to paths.library_dir)")
	return cmd
}
