package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clawbot/internal/config"
	"clawbot/internal/services"
)

const (
	jsonResponseType   = "json_object"
	defaultHTTPTimeout = 15 * time.Second
	defaultBaseURL     = "https://api.openai.com/v1/chat/completions"
)

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Client wraps an OpenAI-compatible chat completion endpoint.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	temperature float64
	retry       retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts caps the number of requests per call. Values below one
// mean a single attempt.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retry.attempts = attempts
	}
}

// WithRetryBackoff sets the first retry delay and the ceiling it doubles up to.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retry.base = baseDelay
		c.retry.ceiling = maxDelay
	}
}

// WithTemperature sets the sampling temperature used by CompleteJSON.
func WithTemperature(temperature float64) Option {
	return func(c *Client) {
		if temperature >= 0 {
			c.temperature = temperature
		}
	}
}

// WithSleeper replaces the retry wait, typically with a recorder in tests.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.retry.sleeper = sleeper
	}
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		retry:      defaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

// NewFromConfig builds a client from the [llm] config section.
func NewFromConfig(cfg *config.Config, opts ...Option) *Client {
	settings := cfg.GetLLM()
	return NewClient(Config{
		APIKey:         settings.APIKey,
		BaseURL:        settings.BaseURL,
		Model:          settings.Model,
		Referer:        settings.Referer,
		Title:          settings.Title,
		TimeoutSeconds: settings.TimeoutSeconds,
	}, opts...)
}

// Model reports the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) requireAPIKey(op string) error {
	if c.cfg.APIKey != "" {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "llm", op,
		"API key required; set llm.api_key, CLAWBOT_LLM_API_KEY or OPENAI_API_KEY", nil)
}

// CompleteJSON sends a JSON-mode chat completion built from the two prompts
// and returns the model's raw payload. Transient failures are retried.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	switch {
	case systemPrompt == "":
		return "", errors.New("llm complete: system prompt required")
	case userPrompt == "":
		return "", errors.New("llm complete: user prompt required")
	}
	if err := c.requireAPIKey("complete"); err != nil {
		return "", err
	}
	return c.complete(ctx, "llm complete", newJSONRequest(c.cfg.Model, c.temperature, systemPrompt, userPrompt))
}

// HealthCheck asks the model for a fixed JSON reply to prove the key, endpoint
// and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.requireAPIKey("health"); err != nil {
		return err
	}
	req := newJSONRequest(c.cfg.Model, 0, "You must respond with JSON only.", `Respond with {"ok":true}`)
	content, err := c.complete(ctx, "llm health", req)
	if err != nil {
		return err
	}
	var reply struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(content, &reply); err != nil {
		return fmt.Errorf("llm health: parse payload: %w", err)
	}
	if !reply.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}

// complete runs req until it yields content, the retry policy gives up, or
// ctx ends.
func (c *Client) complete(ctx context.Context, op string, req chatCompletionRequest) (string, error) {
	attempts := c.retry.maxAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		content, err := c.attempt(ctx, op, req)
		if err == nil {
			return content, nil
		}
		lastErr = err
		delay, retry := c.retry.next(ctx, err, attempt)
		if !retry {
			return "", err
		}
		if err := c.retry.wait(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, op string, req chatCompletionRequest) (string, error) {
	resp, body, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices", op)
	}
	content, finishReason := resp.payload()
	if content == "" {
		return "", &emptyContentError{
			Op:           op,
			FinishReason: finishReason,
			Refusal:      resp.refusal(),
			Snippet:      summarizePayloadSnippet(string(body)),
		}
	}
	return content, nil
}

func (c *Client) timeoutDuration() time.Duration {
	if c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}
