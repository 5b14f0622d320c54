// Package llm provides an OpenAI-compatible chat client for the reasoning
// service that proposes library reorganization plans.
//
// # Configuration
//
// Requires api_key and model; base_url, referer, title and timeout are
// optional. NewFromConfig reads the [llm] section.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive the raw JSON text.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: tolerant decode for callers that accept fenced payloads.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions and network
// timeouts with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default). Context cancellation aborts retries immediately.
package llm
