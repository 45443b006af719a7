// ABOUTME: MCP tool handler implementations for the folio server
// ABOUTME: Tool failures are returned as error results, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/models"
)

// Pipeline is the part of core.Asker the tools need
type Pipeline interface {
	Ask(ctx context.Context, q models.Query) (*core.Answer, error)
	Search(ctx context.Context, q models.Query, k int) ([]models.ScoredPassage, error)
	Passages(ctx context.Context) ([]models.Passage, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	pipeline Pipeline
}

// NewHandlers creates tool handlers over pipeline
func NewHandlers(pipeline Pipeline) *Handlers {
	return &Handlers{pipeline: pipeline}
}

// AskPortfolio handles the ask_portfolio tool
func (h *Handlers) AskPortfolio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	answer, err := h.pipeline.Ask(ctx, models.Query{Prompt: question})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", err)), nil
	}

	text, err := answer.Collect()
	response := map[string]interface{}{
		"answer":  text,
		"sources": answer.SourceIDs(),
	}
	if err != nil {
		response["interrupted"] = true
	}

	return jsonResult(response)
}

// SearchPortfolio handles the search_portfolio tool
func (h *Handlers) SearchPortfolio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	maxResults := request.GetInt("max_results", core.DefaultTopK)

	results, err := h.pipeline.Search(ctx, models.Query{Prompt: query}, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	passages := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		passages = append(passages, map[string]interface{}{
			"id":    r.Passage.ID,
			"text":  r.Passage.Text,
			"score": r.Score,
		})
	}

	return jsonResult(map[string]interface{}{"passages": passages})
}

// ListPassages handles the list_passages tool
func (h *Handlers) ListPassages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	passages, err := h.pipeline.Passages(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load corpus: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"passages": passages,
		"count":    len(passages),
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
