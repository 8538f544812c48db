// Package logging builds the process logger.
//
// Information Hiding:
// - Handler choice (text or JSON) and level parsing
// - Secret masking applied to every attribute before it is written
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// secretKeys are attribute-name fragments whose values are always masked.
var secretKeys = []string{"key", "token", "secret", "password", "authorization", "api_key", "apikey", "bearer"}

var secretLike = regexp.MustCompile(`(?i)^(sk-|sk_)[a-z0-9_\-]{8,}$`)

// New creates a logger writing to out. level is one of debug, info, warn,
// error; format is "json" or "text".
func New(out io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl, ReplaceAttr: maskSecrets}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(out, opts)
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q (expected text or json)", format)
	}
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// maskSecrets redacts string values that look like credentials.
func maskSecrets(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()

	lowerKey := strings.ToLower(a.Key)
	for _, p := range secretKeys {
		if strings.Contains(lowerKey, p) {
			return slog.String(a.Key, Redact(s))
		}
	}

	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return slog.String(a.Key, "Bearer "+Redact(s[len("bearer "):]))
	}
	if secretLike.MatchString(s) {
		return slog.String(a.Key, Redact(s))
	}
	return a
}

// Redact keeps the first and last four characters of long values.
func Redact(s string) string {
	n := len(s)
	if n <= 8 {
		return "***"
	}
	return fmt.Sprintf("%s***%s", s[:4], s[n-4:])
}
