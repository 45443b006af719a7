// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents query the portfolio over stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/folio/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs folio as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to ask about and search the portfolio via stdio.

Tools: ask_portfolio, search_portfolio, list_passages.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  folio mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "folio": {
  #       "command": "folio",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Watch(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}

	server := mcpserver.NewMCPServer(
		"Folio Portfolio",
		buildInfo.Version,
	)
	mcp.RegisterTools(server, a.Asker)

	if !quiet {
		log.Println("Folio MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
