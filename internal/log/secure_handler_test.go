package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// logOutput runs fn against a secure logger and returns the text output.
func logOutput(t *testing.T, fn func(*slog.Logger)) string {
	t.Helper()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	fn(logger)
	return buf.String()
}

// TestSecureHandlerMasksSensitiveKeys tests key-based masking.
func TestSecureHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	t.Run("masks api_key attribute", func(t *testing.T) {
		t.Parallel()

		out := logOutput(t, func(l *slog.Logger) {
			l.Info("resolving", "api_key", "0123456789ABCDEF0123456789ABCDEF")
		})
		if strings.Contains(out, "0123456789ABCDEF") {
			t.Errorf("api key leaked into log output: %s", out)
		}
		if !strings.Contains(out, MaskValue) {
			t.Errorf("expected mask value in output: %s", out)
		}
	})

	t.Run("masks password and token attributes", func(t *testing.T) {
		t.Parallel()

		out := logOutput(t, func(l *slog.Logger) {
			l.Info("login", "password", "hunter2", "token", "abc")
		})
		if strings.Contains(out, "hunter2") {
			t.Errorf("password leaked: %s", out)
		}
	})

	t.Run("masks attributes inside groups", func(t *testing.T) {
		t.Parallel()

		out := logOutput(t, func(l *slog.Logger) {
			l.Info("request", slog.Group("http", slog.String("cookie", "session=abc")))
		})
		if strings.Contains(out, "session=abc") {
			t.Errorf("cookie leaked: %s", out)
		}
	})

	t.Run("keeps ordinary attributes", func(t *testing.T) {
		t.Parallel()

		out := logOutput(t, func(l *slog.Logger) {
			l.Info("visit", "profile", "76561198056686440")
		})
		if !strings.Contains(out, "76561198056686440") {
			t.Errorf("ordinary attribute was masked: %s", out)
		}
	})
}

// TestSecureHandlerMasksURLKeys tests masking of keys embedded in URLs.
func TestSecureHandlerMasksURLKeys(t *testing.T) {
	t.Parallel()

	out := logOutput(t, func(l *slog.Logger) {
		l.Info("request",
			"url", "https://api.steampowered.com/ISteamUser/ResolveVanityURL/v0001/?key=SECRETKEY123&vanityurl=gabe")
	})

	if strings.Contains(out, "SECRETKEY123") {
		t.Errorf("url-embedded key leaked: %s", out)
	}
	if !strings.Contains(out, "vanityurl=gabe") {
		t.Errorf("non-secret query parameters should survive: %s", out)
	}
}

// TestSecureHandlerMasksValuePatterns tests value-based masking.
func TestSecureHandlerMasksValuePatterns(t *testing.T) {
	t.Parallel()

	out := logOutput(t, func(l *slog.Logger) {
		l.Info("header", "value", "Bearer abc.def.ghi")
	})
	if strings.Contains(out, "abc.def.ghi") {
		t.Errorf("bearer token leaked: %s", out)
	}
}

// TestSecureLoggerLevels tests the verbose switch.
func TestSecureLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, false)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output should be suppressed when not verbose: %s", buf.String())
	}

	logger.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info output should be logged when not verbose")
	}
}
