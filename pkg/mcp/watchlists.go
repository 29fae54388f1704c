package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
)

var validWatchlistTypes = map[string]struct{}{
	"company":  {},
	"director": {},
	"gst":      {},
}

// WatchlistItem is one entity to track in a watchlist.
type WatchlistItem struct {
	Number string `json:"number" jsonschema:"entity identifier (CIN, DIN or GSTIN)"`
	Name   string `json:"name,omitempty" jsonschema:"display name of the entity"`
}

// ListWatchlists lists all watchlists owned by the current user.
func (s *FinscreenerMCPServer) ListWatchlists(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.ListWatchlists")
	defer span.End()

	return s.invoke(ctx, span, "list_watchlists", finscreener.Params{})
}

// GetWatchlistDetailsInput is the input for the get_watchlist_details tool.
type GetWatchlistDetailsInput struct {
	WatchlistID string `json:"watchlist_id" jsonschema:"ID of the watchlist to inspect"`
	Page        int    `json:"page,omitempty" jsonschema:"page number, default 1"`
	Limit       int    `json:"limit,omitempty" jsonschema:"items per page, default 10"`
	SearchQuery string `json:"search_query,omitempty" jsonschema:"optional text filter for entity name or identifier"`
}

// GetWatchlistDetails gets the contents of a specific watchlist.
func (s *FinscreenerMCPServer) GetWatchlistDetails(ctx context.Context, req *mcp.CallToolRequest, args GetWatchlistDetailsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetWatchlistDetails")
	defer span.End()

	span.SetAttributes(attribute.String("watchlist-id", args.WatchlistID))

	page := args.Page
	if page <= 0 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(clampLimit(args.Limit, 10, 100)))

	if args.SearchQuery != "" {
		q.Set("search_query", args.SearchQuery)
	}

	return s.invoke(ctx, span, "get_watchlist_entities", finscreener.Params{
		Path:  map[string]string{"watchlist_id": args.WatchlistID},
		Query: q,
	})
}

// CreateWatchlistInput is the input for the create_watchlist tool.
type CreateWatchlistInput struct {
	Name  string          `json:"name" jsonschema:"display name for the watchlist"`
	Type  string          `json:"watchlist_type" jsonschema:"type of entities: company, director or gst"`
	Items []WatchlistItem `json:"items,omitempty" jsonschema:"optional entities to add"`
}

// CreateWatchlist creates a new watchlist with optional initial entities.
func (s *FinscreenerMCPServer) CreateWatchlist(ctx context.Context, req *mcp.CallToolRequest, args CreateWatchlistInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.CreateWatchlist")
	defer span.End()

	if _, ok := validWatchlistTypes[args.Type]; !ok {
		return inputErrorResult(fmt.Sprintf("invalid watchlist type %q, must be company, director or gst", args.Type)), nil, nil
	}

	payload := map[string]any{
		"name":           args.Name,
		"watchlist_type": args.Type,
	}

	if len(args.Items) > 0 {
		entities := make([]map[string]string, 0, len(args.Items))
		for _, item := range args.Items {
			entities = append(entities, map[string]string{
				"identifier": item.Number,
				"name":       item.Name,
			})
		}

		payload["entities"] = entities
	}

	return s.invoke(ctx, span, "create_watchlist", finscreener.Params{Body: payload})
}

// DeleteWatchlistInput is the input for the delete_watchlist tool.
type DeleteWatchlistInput struct {
	WatchlistID string `json:"watchlist_id" jsonschema:"ID of the watchlist to delete"`
}

// DeleteWatchlist deletes a watchlist.
func (s *FinscreenerMCPServer) DeleteWatchlist(ctx context.Context, req *mcp.CallToolRequest, args DeleteWatchlistInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.DeleteWatchlist")
	defer span.End()

	span.SetAttributes(attribute.String("watchlist-id", args.WatchlistID))

	return s.invoke(ctx, span, "delete_watchlist", finscreener.Params{
		Path: map[string]string{"watchlist_id": args.WatchlistID},
	})
}
