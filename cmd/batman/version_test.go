package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version string resolution.
func TestGetVersion(t *testing.T) {
	if got := getVersion(); got == "" {
		t.Error("expected non-empty version")
	}

	// ldflags value takes precedence over build info.
	orig := version
	version = "v1.2.3"
	t.Cleanup(func() { version = orig })

	if got := getVersion(); got != "v1.2.3" {
		t.Errorf("expected ldflags version, got %q", got)
	}
}

// TestGetCommit tests commit hash resolution.
func TestGetCommit(t *testing.T) {
	orig := commit
	commit = "abcdef1"
	t.Cleanup(func() { commit = orig })

	if got := getCommit(); got != "abcdef1" {
		t.Errorf("expected ldflags commit, got %q", got)
	}
}

// TestGetDate tests build date resolution.
func TestGetDate(t *testing.T) {
	orig := date
	date = "2025-08-10"
	t.Cleanup(func() { date = orig })

	if got := getDate(); got != "2025-08-10" {
		t.Errorf("expected ldflags date, got %q", got)
	}
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "batman version") {
		t.Errorf("output missing version line: %q", out)
	}
	if !strings.Contains(out, "commit:") || !strings.Contains(out, "built:") {
		t.Errorf("output missing commit or build date: %q", out)
	}
}
