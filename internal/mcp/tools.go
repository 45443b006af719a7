// ABOUTME: MCP tool definitions and registration for the folio server
// ABOUTME: Exposes ask, search and passage listing over the Model Context Protocol
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, pipeline Pipeline) *Handlers {
	handlers := NewHandlers(pipeline)

	// 1. ask_portfolio - answer a question from the portfolio corpus
	server.AddTool(mcp.Tool{
		Name:        "ask_portfolio",
		Description: "Answer a question about the site owner using their bio and projects as context. Returns the answer and the ids of the passages it was grounded on.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskPortfolio)

	// 2. search_portfolio - rank passages without generating an answer
	server.AddTool(mcp.Tool{
		Name:        "search_portfolio",
		Description: "Rank portfolio passages by semantic similarity to a query without calling the completion model.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of passages to return (default: 3)",
					"default":     3,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchPortfolio)

	// 3. list_passages - dump the corpus
	server.AddTool(mcp.Tool{
		Name:        "list_passages",
		Description: "List every passage in the portfolio corpus in order.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListPassages)

	return handlers
}
