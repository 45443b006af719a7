// ABOUTME: Tests for version command
// ABOUTME: Verifies text and JSON build info output

package commands

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func runVersion(t *testing.T) string {
	t.Helper()
	cmd := NewVersionCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	return output.String()
}

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestVersionCmd_Text(t *testing.T) {
	original := buildInfo
	defer func() { buildInfo = original }()

	SetVersion("1.2.3", "abc123", "2026-01-31")

	got := strings.TrimSpace(runVersion(t))
	want := "folio 1.2.3 (abc123, built 2026-01-31, " + runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH + ")"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	original := buildInfo
	defer func() { buildInfo = original }()
	outputFormat = "json"
	defer func() { outputFormat = "auto" }()

	SetVersion("1.2.3", "abc123", "2026-01-31")

	var got BuildInfo
	if err := json.Unmarshal([]byte(runVersion(t)), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Version != "1.2.3" || got.Commit != "abc123" || got.GoVersion != runtime.Version() {
		t.Errorf("build info = %+v", got)
	}
}
