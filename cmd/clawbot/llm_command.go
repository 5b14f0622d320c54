package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clawbot/internal/logging"
	"clawbot/internal/services"
	"clawbot/internal/services/llm"
)

func newLLMCommand(ctx *commandContext) *cobra.Command {
	llmCmd := &cobra.Command{
		Use:   "llm",
		Short: "Reasoning service utilities",
	}
	llmCmd.AddCommand(newLLMCheckCommand(ctx))
	return llmCmd
}

func newLLMCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the reasoning service credentials and model",
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
			if err := cfg.ValidateLLM(); err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "llm check", "Reasoning service not configured", err)
			}
			runCtx, _ := ctx.runContext(cmd.Context(), "llm_check")
			logger = logging.WithContext(runCtx, logger)

			started := time.Now()
			checkErr := llm.NewFromConfig(cfg, llm.WithRetryMaxAttempts(1)).HealthCheck(runCtx)
			elapsed := time.Since(started).Round(time.Millisecond)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if checkErr != nil {
				logger.Info("reasoning service check failed", logging.Error(checkErr))
				fmt.Fprintln(out, renderStatusLine("LLM", statusError, checkErr.Error(), colorize))
				return services.Wrap(services.ErrExternalService, "cli", "llm check", "Reasoning service unavailable", checkErr)
			}
			fmt.Fprintln(out, renderStatusLine("LLM", statusOK, fmt.Sprintf("%s responded in %s", cfg.LLM.Model, elapsed), colorize))
			return nil
		},
	}
}
