package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clawbot/internal/services"
	"clawbot/internal/testsupport"
)

const planPayload = `{"actions":[{"action":"create_folder","name":"cpu"}]}`

func completionServer(t *testing.T, choice map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{"choices": []any{choice}}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{
						"content": `{"ok":true}`,
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckCodeFence(t *testing.T) {
	server := completionServer(t, map[string]any{
		"message": map[string]any{"content": "```json\n{\"ok\":true}\n```"},
	})

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:0", Model: "demo"})
	_, err := client.CompleteJSON(context.Background(), "system", "user")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestClientCompleteJSONSendsPromptsAndTemperature(t *testing.T) {
	var received chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": planPayload}}},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"}, WithTemperature(0.2))
	content, err := client.CompleteJSON(context.Background(), "You are LibraryAI.", "Files: a.pdf")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != planPayload {
		t.Fatalf("unexpected content %q", content)
	}
	if received.Model != "demo-model" || received.Temperature != 0.2 {
		t.Fatalf("unexpected request %+v", received)
	}
	if len(received.Messages) != 2 || received.Messages[0].Role != "system" || received.Messages[1].Content != "Files: a.pdf" {
		t.Fatalf("unexpected messages %+v", received.Messages)
	}
	if received.ResponseFormat["type"] != jsonResponseType {
		t.Fatalf("expected JSON response format, got %v", received.ResponseFormat)
	}
}

func TestClientCompleteJSONToolCallsArguments(t *testing.T) {
	server := completionServer(t, map[string]any{
		"finish_reason": "tool_calls",
		"message": map[string]any{
			"content": "",
			"tool_calls": []any{
				map[string]any{
					"type": "function",
					"id":   "call_1",
					"function": map[string]any{
						"name":      "propose_plan",
						"arguments": planPayload,
					},
				},
			},
		},
	})

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if !strings.Contains(content, `"actions"`) {
		t.Fatalf("expected tool call arguments, got %q", content)
	}
}

func TestClientCompleteJSONEmptyContentHasSnippet(t *testing.T) {
	server := completionServer(t, map[string]any{
		"finish_reason": "stop",
		"message":       map[string]any{"content": ""},
	})

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.CompleteJSON(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected completion to fail")
	}
	if !strings.Contains(err.Error(), "empty content") || !strings.Contains(err.Error(), "response_snippet=") {
		t.Fatalf("expected empty-content error to include snippet, got %v", err)
	}
}

func TestClientCompleteJSONDeltaContent(t *testing.T) {
	server := completionServer(t, map[string]any{
		"finish_reason": "",
		"delta":         map[string]any{"content": planPayload},
	})

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != planPayload {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestClientCompleteJSONLegacyText(t *testing.T) {
	server := completionServer(t, map[string]any{
		"finish_reason": "stop",
		"text":          planPayload,
	})

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != planPayload {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{"content": planPayload},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != planPayload {
		t.Fatalf("unexpected content %q", content)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestClientRetriesOnEmptyContentThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		content := ""
		if calls >= 3 {
			content = planPayload
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"finish_reason": "stop",
					"message":       map[string]any{"content": content},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(5),
	)
	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != planPayload {
		t.Fatalf("unexpected content %q", content)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLLMBaseURL("http://example.invalid/v1/chat/completions"))
	client := NewFromConfig(cfg)
	if client.Model() != cfg.LLM.Model {
		t.Fatalf("expected model %q, got %q", cfg.LLM.Model, client.Model())
	}
	if client.cfg.BaseURL != "http://example.invalid/v1/chat/completions" {
		t.Fatalf("unexpected base url %q", client.cfg.BaseURL)
	}
	if client.timeoutDuration() != time.Duration(cfg.LLM.TimeoutSeconds)*time.Second {
		t.Fatalf("unexpected timeout %s", client.timeoutDuration())
	}
}

func TestDecodeLLMJSONStripsCodeFence(t *testing.T) {
	var target struct {
		Actions []map[string]string `json:"actions"`
	}
	if err := DecodeLLMJSON("```json\n"+planPayload+"\n```", &target); err != nil {
		t.Fatalf("DecodeLLMJSON: %v", err)
	}
	if len(target.Actions) != 1 {
		t.Fatalf("unexpected decode %+v", target)
	}
}
