package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
)

// toolError is the classified error object surfaced to the agent.
type toolError struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	RetryAfter string `json:"retryAfter,omitempty"`
	Status     int    `json:"status,omitempty"`
	Body       string `json:"body,omitempty"`
}

func textResult(body []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}
}

// errorResult renders a classified call error as a structured tool result
// the agent can present verbatim.
func errorResult(err error) *mcp.CallToolResult {
	te := toolError{Kind: string(finscreener.KindFatal), Message: err.Error()}

	var callErr *finscreener.CallError
	if errors.As(err, &callErr) {
		te.Kind = string(callErr.Kind)
		te.Message = callErr.Message
		te.Status = callErr.Status
		te.Body = string(callErr.Body)

		if !callErr.RetryAfter.IsZero() {
			te.RetryAfter = callErr.RetryAfter.Format(time.RFC3339)
		}
	}

	text, merr := json.Marshal(te)
	if merr != nil {
		text = []byte(`{"kind":"Fatal","message":"failed to encode error"}`)
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
	}
}

// inputErrorResult reports invalid tool arguments without making any
// remote call.
func inputErrorResult(msg string) *mcp.CallToolResult {
	text, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		text = []byte(`{"error":"invalid input"}`)
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
	}
}

// invoke proxies one tool call through the client and wraps the outcome,
// recording failures on the span.
func (s *FinscreenerMCPServer) invoke(ctx context.Context, span trace.Span, tool string, params finscreener.Params) (*mcp.CallToolResult, any, error) {
	body, err := s.client.Invoke(ctx, tool, params)
	if err != nil {
		span.SetStatus(codes.Error, "tool call failed")
		span.RecordError(err)

		return errorResult(err), nil, nil
	}

	return textResult(body), nil, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}

	if limit > max {
		return max
	}

	return limit
}

// rowsFrom decodes a screener or watchlist response into its result rows,
// looking under the usual envelope keys before falling back to a top-level
// array. Compound tools are the only place response bodies are interpreted.
func rowsFrom(body []byte) []map[string]any {
	envelope := struct {
		Results []map[string]any `json:"results"`
		Data    []map[string]any `json:"data"`
	}{}

	if err := json.Unmarshal(body, &envelope); err == nil {
		if len(envelope.Results) > 0 {
			return envelope.Results
		}

		if len(envelope.Data) > 0 {
			return envelope.Data
		}
	}

	rows := []map[string]any{}
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows
	}

	return nil
}

// watchlistRows pulls the entity rows out of a watchlist detail response.
func watchlistRows(body []byte) []map[string]any {
	doc := map[string]any{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}

	if inner, ok := doc["data"].(map[string]any); ok {
		doc = inner
	}

	for _, key := range []string{"items", "entities"} {
		list, ok := doc[key].([]any)
		if !ok {
			continue
		}

		rows := make([]map[string]any, 0, len(list))

		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				rows = append(rows, m)
			}
		}

		return rows
	}

	return nil
}

// stringField returns the first non-empty string value among the given
// keys. Remote responses are inconsistent about key casing.
func stringField(row map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k].(string); ok && v != "" {
			return v
		}
	}

	return ""
}
