package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := Init(WithFormat("yaml")); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

// Basic logging test (slog-backed; no Sugar)
func TestLoggerBasic(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "test message", String("k", "v"), Int("n", 3), Error(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"test message", "k=v", "n=3", "error=boom", "source=logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	namedLogger.Info(context.Background(), "test message")
	if !strings.Contains(buf.String(), "logger=test") {
		t.Errorf("named logger output missing name: %q", buf.String())
	}
}

func TestLoggerJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat("json"), WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := ContextWithRequestID(context.Background(), "abc123")
	if got := RequestIDFromContext(ctx); got != "abc123" {
		t.Fatalf("request id = %q", got)
	}
	Get().Warn(ctx, "with id", Strings("has", []string{"phone", "email"}))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if rec["request_id"] != "abc123" {
		t.Errorf("request_id = %v", rec["request_id"])
	}
	if rec["level"] != "WARN" {
		t.Errorf("level = %v", rec["level"])
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Debug(ctx, "hidden")
	if err := SetLevelString("DEBUG"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	Get().Debug(ctx, "shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected level filtering: %q", buf.String())
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	if err := Init(WithFile(path)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	Get().Error(context.Background(), "to file")
	if err := Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file content %q", data)
	}

	// Switch back so other tests don't write into a removed temp dir.
	if err := Init(WithOutput(os.Stdout)); err != nil {
		t.Fatalf("reinit: %v", err)
	}
}
