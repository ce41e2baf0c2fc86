package logging_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contactbook/internal/config"
	"contactbook/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "info"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, "contactbook.log"))
	if !strings.Contains(content, `"msg":"hello from test"`) {
		t.Fatalf("expected JSON record in log file, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "addressbook")
	component.Info("merged contact", logging.Args(
		logging.String(logging.FieldContactID, "abc"),
		logging.String("name", "John Doe"),
	)...)

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO addressbook: merged contact") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if !strings.Contains(content, `contact_id=abc`) || !strings.Contains(content, `name="John Doe"`) {
		t.Fatalf("expected formatted fields, got %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerShape(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("filtered out")
	logging.WarnWithContext(logger, "state missing", "addressbook_state_missing",
		logging.Error(errors.New("no file")))

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), lines)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("unexpected level %v", payload["level"])
	}
	if payload[logging.FieldEventType] != "addressbook_state_missing" {
		t.Fatalf("missing event type: %v", payload)
	}
	if _, ok := payload[logging.FieldImpact]; !ok {
		t.Fatalf("expected default impact field: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key: %v", payload)
	}
}

func TestErrorWithContextInjectsHint(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "error.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "error", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "below level", "ignored")
	logging.ErrorWithContext(logger, "command failed", "command_failed",
		logging.Error(errors.New("contact x not found")))

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), lines)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "error" || payload[logging.FieldEventType] != "command_failed" {
		t.Fatalf("unexpected record: %v", payload)
	}
	if payload[logging.FieldErrorHint] != "check logs for details" {
		t.Fatalf("expected default error hint: %v", payload)
	}
	if _, ok := payload[logging.FieldImpact]; ok {
		t.Fatalf("error records carry no default impact: %v", payload)
	}
	logging.ErrorWithContext(nil, "ignored", "ignored")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), 100) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "ignored")
}
