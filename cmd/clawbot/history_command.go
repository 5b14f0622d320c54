package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clawbot/internal/history"
)

type historyEntry struct {
	ID         string          `json:"id"`
	Kind       history.Kind    `json:"kind"`
	Status     string          `json:"status"`
	Library    string          `json:"library"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent organize and plan runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				entries := make([]historyEntry, 0, len(runs))
				for _, run := range runs {
					entry := historyEntry{
						ID:         run.ID,
						Kind:       run.Kind,
						Status:     run.Status,
						Library:    run.Library,
						Error:      run.ErrorMessage,
						StartedAt:  run.StartedAt,
						FinishedAt: run.FinishedAt,
					}
					if run.DetailJSON != "" {
						entry.Detail = json.RawMessage(run.DetailJSON)
					}
					entries = append(entries, entry)
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				status := run.Status
				if msg := strings.TrimSpace(run.ErrorMessage); msg != "" {
					status = fmt.Sprintf("%s: %s", status, truncate(msg, 60))
				}
				rows = append(rows, []string{
					shortID(run.ID),
					string(run.Kind),
					status,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Duration().Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Kind", "Status", "Started", "Took"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
