package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSONMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("resolved",
		"api_key", "sk-or-v1-abcdefghijklmnop",
		"header", "Bearer abcdefghijklmnop",
		"value", "sk-live-1234567890",
		"provider", "openrouter",
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
	if rec["api_key"] != "sk-o***mnop" {
		t.Errorf("expected masked key, got %v", rec["api_key"])
	}
	if rec["header"] != "Bearer abcd***mnop" {
		t.Errorf("expected masked bearer token, got %v", rec["header"])
	}
	if rec["value"] != "sk-l***7890" {
		t.Errorf("expected masked secret-like value, got %v", rec["value"])
	}
	if rec["provider"] != "openrouter" {
		t.Errorf("expected plain value untouched, got %v", rec["provider"])
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn to be written, got %q", out)
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", "text"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; expected %v", in, got, err, want)
		}
	}
}

func TestRedact(t *testing.T) {
	if got := Redact("short"); got != "***" {
		t.Errorf("expected ***, got %q", got)
	}
	if got := Redact("abcdefghij"); got != "abcd***ghij" {
		t.Errorf("expected abcd***ghij, got %q", got)
	}
}
