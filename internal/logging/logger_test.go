package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clawbot/internal/config"
	"clawbot/internal/logging"
	"clawbot/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("organizer ready")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "clawbot.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "organizer ready") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "debug",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPrintsComponentPrefix(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")

	logger, err := logging.New(logging.Options{
		Format:           "console",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "publisher").Info("symlink created", logging.String("artifact", "/tmp/view/a b.pdf"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO publisher: symlink created") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, `artifact="/tmp/view/a b.pdf"`) {
		t.Fatalf("expected quoted attribute, got %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "context.log")
	logger, err := logging.New(logging.Options{
		Format:           "json",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-xyz")
	ctx = services.WithOperation(ctx, "organize")
	logging.WithContext(ctx, logger).Info("contextual log")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if record[logging.FieldRunID] != "run-xyz" {
		t.Fatalf("expected run id field, got %v", record)
	}
	if record[logging.FieldOperation] != "organize" {
		t.Fatalf("expected operation field, got %v", record)
	}
	if record["msg"] != "contextual log" {
		t.Fatalf("expected msg key, got %v", record)
	}
}

func TestJSONLoggerKeepsTypedAttrs(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "typed.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("plan ready", logging.Int("action_count", 3), logging.Bool("dry_run", true))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if record["dry_run"] != true {
		t.Fatalf("expected boolean dry_run, got %#v", record["dry_run"])
	}
	if record["action_count"] != float64(3) {
		t.Fatalf("expected numeric action_count, got %#v", record["action_count"])
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{
		Format:           "json",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "symlink refused", "publish_fallback", logging.String(logging.FieldImpact, "artifact copied"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldEventType] != "publish_fallback" {
		t.Fatalf("expected event type, got %v", record)
	}
	if record[logging.FieldImpact] != "artifact copied" {
		t.Fatalf("expected caller impact preserved, got %v", record)
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error hint, got %v", record)
	}
}

func TestConsoleLoggerFlattensGroupsAndBoundAttrs(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "groups.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	scoped := logger.With(logging.String(logging.FieldRunID, "run-1")).WithGroup("plan")
	scoped.Info("action applied", logging.Int("index", 2), logging.String(logging.FieldComponent, "interpreter"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{"run_id=run-1", "plan.index=2", "plan.component=interpreter"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "interpreter: ") {
		t.Fatalf("grouped component must not become the prefix: %q", line)
	}
}
