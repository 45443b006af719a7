// ABOUTME: Tests for MCP command structure
// ABOUTME: Verifies MCP command configuration

package commands

import (
	"strings"
	"testing"
)

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}

	if !strings.Contains(cmd.Long, "Model Context Protocol") {
		t.Error("Long description should mention MCP")
	}

	for _, tool := range []string{"ask_portfolio", "search_portfolio", "list_passages"} {
		if !strings.Contains(cmd.Long, tool) {
			t.Errorf("Long description should list %s", tool)
		}
	}

	if !strings.Contains(cmd.Example, "claude_desktop_config") {
		t.Error("Example should mention Claude Desktop config")
	}
}

func TestNewServeCmd(t *testing.T) {
	cmd := NewServeCmd()

	if cmd.Use != "serve" {
		t.Errorf("Use = %q, want serve", cmd.Use)
	}

	addr := cmd.Flags().Lookup("addr")
	if addr == nil {
		t.Fatal("--addr flag not found")
	}
	if addr.DefValue != "" {
		t.Errorf("--addr default = %q, want empty (falls back to FOLIO_ADDR)", addr.DefValue)
	}

	if !strings.Contains(cmd.Long, "/api/ask") {
		t.Error("Long description should document the ask endpoint")
	}
}
