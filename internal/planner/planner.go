package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clawbot/internal/config"
	"clawbot/internal/logging"
	"clawbot/internal/plan"
	"clawbot/internal/services"
	"clawbot/internal/services/llm"
)

// Temperature keeps proposals close to deterministic.
const Temperature = 0.2

const systemPrompt = "You are LibraryAI, an assistant that organizes a document library. Respond with JSON only."

const userPromptTemplate = `You can only reason about these PDF files:
%s

Organize them into folders by topic. Respond ONLY in JSON with this format:
{
  "actions": [
    {"action": "create_folder", "name": "..."},
    {"action": "move_file", "file": "...", "target": "..."}
  ]
}
Use paths relative to the library root exactly as listed. Every move_file target must be created by an earlier create_folder action.`

// Completer issues JSON-only chat completions.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Planner proposes plans through a Completer.
type Planner struct {
	client  Completer
	timeout time.Duration
	logger  *slog.Logger
}

// Option customizes the planner.
type Option func(*Planner)

// WithTimeout bounds each proposal. Zero disables the deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Planner) {
		if timeout >= 0 {
			p.timeout = timeout
		}
	}
}

// NewPlanner constructs a planner around client.
func NewPlanner(logger *slog.Logger, client Completer, opts ...Option) *Planner {
	p := &Planner{
		client: client,
		logger: logging.NewComponentLogger(logger, "planner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromConfig wires the configured LLM client and planner deadline.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Planner {
	client := llm.NewFromConfig(cfg, llm.WithTemperature(Temperature))
	return NewPlanner(logger, client, WithTimeout(cfg.PlannerTimeout()))
}

// UserPrompt renders the prompt sent for files.
func UserPrompt(files []string) string {
	var b strings.Builder
	for _, file := range files {
		b.WriteString("- ")
		b.WriteString(file)
		b.WriteByte('\n')
	}
	return fmt.Sprintf(userPromptTemplate, strings.TrimRight(b.String(), "\n"))
}

// Propose returns the raw plan text for files.
func (p *Planner) Propose(ctx context.Context, files []string) (string, error) {
	logger := logging.WithContext(ctx, p.logger)
	if p.client == nil {
		return "", services.Wrap(services.ErrConfiguration, "planner", "propose", "Reasoning service client not configured", nil)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	logger.Info("requesting reorganization plan", logging.Int("file_count", len(files)))
	started := time.Now()
	raw, err := p.client.CompleteJSON(ctx, systemPrompt, UserPrompt(files))
	if err != nil {
		logging.WarnWithContext(logger, "reasoning service request failed", "planner_request_failed",
			logging.Error(err),
			logging.Duration("elapsed", time.Since(started)),
			logging.String(logging.FieldErrorHint, "run `clawbot llm check` to verify connectivity and credentials"),
			logging.String(logging.FieldImpact, "no plan proposed; library left unchanged"),
		)
		return "", services.Wrap(services.ErrExternalService, "planner", "propose", "Reasoning service request failed", err)
	}
	logger.Info("plan proposal received",
		logging.Int("response_bytes", len(raw)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return raw, nil
}

// Plan proposes and parses a plan. A rejected answer returns the raw text
// alongside the schema error.
func (p *Planner) Plan(ctx context.Context, files []string) (plan.Plan, string, error) {
	raw, err := p.Propose(ctx, files)
	if err != nil {
		return plan.Plan{}, "", err
	}
	parsed, err := plan.Parse([]byte(raw))
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "plan proposal rejected", "plan_rejected",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the model answered outside the plan schema; retry or use --from with a hand-written plan"),
			logging.String(logging.FieldImpact, "no actions applied"),
		)
		return plan.Plan{}, raw, err
	}
	return parsed, raw, nil
}
