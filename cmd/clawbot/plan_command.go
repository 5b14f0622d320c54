package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clawbot/internal/history"
	"clawbot/internal/library"
	"clawbot/internal/logging"
	"clawbot/internal/plan"
	"clawbot/internal/planner"
	"clawbot/internal/services"
)

type planReport struct {
	RunID    string         `json:"run_id"`
	DryRun   bool           `json:"dry_run"`
	Actions  []plan.Action  `json:"actions"`
	Outcomes []plan.Outcome `json:"outcomes,omitempty"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var fromFlag, libraryFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Propose and apply a folder layout for the library",
		Long: "Ask the reasoning service for a reorganization plan (or read one with --from) " +
			"and apply it to the library. Malformed plans are rejected before anything changes.",
		Args: cobra.NoArgs,
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
			runCtx, runID := ctx.runContext(cmd.Context(), "plan")
			logger = logging.WithContext(runCtx, logger)
			run := history.NewRun(runID, history.KindPlan, libraryDir)

			var proposed plan.Plan
			if path := strings.TrimSpace(fromFlag); path != "" {
				raw, readErr := os.ReadFile(path)
				if readErr != nil {
					return services.Wrap(services.ErrNotFound, "cli", "read plan", fmt.Sprintf("Cannot read plan file %s", path), readErr)
				}
				proposed, err = plan.Parse(raw)
			} else {
				docs := library.NewScanner(logger, cfg.Matcher.Extension).Scan(runCtx, libraryDir)
				proposed, _, err = planner.NewFromConfig(cfg, logger).Plan(runCtx, library.RelNames(docs))
			}
			if err != nil {
				ctx.recordRun(runCtx, logger, run.Finish("rejected", nil, err))
				return err
			}

			logger.Info("plan ready",
				logging.Int("action_count", len(proposed.Actions)),
				logging.Bool("dry_run", dryRun),
				logging.Bool("from_file", strings.TrimSpace(fromFlag) != ""),
			)
			report := planReport{RunID: runID, DryRun: dryRun, Actions: proposed.Actions}
			if !dryRun {
				err = withLibraryLock(libraryDir, func() error {
					report.Outcomes = plan.NewInterpreter(logger).Apply(runCtx, proposed, libraryDir)
					return nil
				})
				status := "applied"
				if applied, skipped := plan.Summarize(report.Outcomes); skipped > 0 && applied == 0 && len(report.Outcomes) > 0 {
					status = "skipped"
				}
				ctx.recordRun(runCtx, logger, run.Finish(status, report, err))
				if err != nil {
					return err
				}
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}
			renderPlanReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Read the plan JSON from this file instead of asking the reasoning service")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without applying it")
	cmd.Flags().StringVar(&libraryFlag, "library", "", "Library directory (defaults to paths.library_dir)")
	return cmd
}

func renderPlanReport(cmd *cobra.Command, report planReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if len(report.Actions) == 0 {
		fmt.Fprintln(out, "Plan contains no actions")
		return
	}

	if report.DryRun {
		rows := make([][]string, 0, len(report.Actions))
		for i, action := range report.Actions {
			rows = append(rows, []string{strconv.Itoa(i + 1), action.Describe()})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "Action"}, rows, []columnAlignment{alignRight, alignLeft}))
		fmt.Fprintln(out, renderStatusLine("Dry run", statusInfo, "no changes made", colorize))
		return
	}

	rows := make([][]string, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		rows = append(rows, []string{strconv.Itoa(outcome.Index + 1), outcome.Action.Describe(), outcome.String()})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Action", "Outcome"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
	fmt.Fprintln(out, planSummaryLine(report.Outcomes, colorize))
}
