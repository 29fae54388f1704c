package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
)

// RunScreenerInput is the input for the run_screener tool. The query is an
// opaque FQL expression evaluated by the remote API; it is never parsed
// locally.
type RunScreenerInput struct {
	Query string `json:"query" jsonschema:"FQL query string, field names are case-sensitive"`
	Type  string `json:"type" jsonschema:"entity type: company or gst"`
	Page  int    `json:"page,omitempty" jsonschema:"page number, default 1"`
	Limit int    `json:"limit,omitempty" jsonschema:"results per page, default 10, max 100"`
}

// RunScreener executes an FQL query against companies or GST registrations.
func (s *FinscreenerMCPServer) RunScreener(ctx context.Context, req *mcp.CallToolRequest, args RunScreenerInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.RunScreener")
	defer span.End()

	span.SetAttributes(attribute.String("type", args.Type))

	if args.Type != "company" && args.Type != "gst" {
		return inputErrorResult(fmt.Sprintf("invalid type %q, must be company or gst", args.Type)), nil, nil
	}

	page := args.Page
	if page <= 0 {
		page = 1
	}

	return s.invoke(ctx, span, "run_screener", finscreener.Params{Body: map[string]any{
		"query": args.Query,
		"type":  args.Type,
		"page":  page,
		"limit": clampLimit(args.Limit, 10, 100),
	}})
}

// CreateScreenerInput is the input for the create_screener tool.
type CreateScreenerInput struct {
	Name        string `json:"name" jsonschema:"display name for the screener"`
	Query       string `json:"query" jsonschema:"FQL query string to save"`
	Type        string `json:"type" jsonschema:"entity type: company or gst"`
	Description string `json:"description,omitempty" jsonschema:"optional description"`
}

// CreateScreener saves an FQL query as a reusable screener.
func (s *FinscreenerMCPServer) CreateScreener(ctx context.Context, req *mcp.CallToolRequest, args CreateScreenerInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.CreateScreener")
	defer span.End()

	if args.Type != "company" && args.Type != "gst" {
		return inputErrorResult(fmt.Sprintf("invalid type %q, must be company or gst", args.Type)), nil, nil
	}

	payload := map[string]any{
		"name":  args.Name,
		"query": args.Query,
		"type":  args.Type,
	}

	if args.Description != "" {
		payload["description"] = args.Description
	}

	return s.invoke(ctx, span, "create_screener", finscreener.Params{Body: payload})
}

// ListScreeners lists all saved screeners owned by the current user.
func (s *FinscreenerMCPServer) ListScreeners(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.ListScreeners")
	defer span.End()

	return s.invoke(ctx, span, "list_screeners", finscreener.Params{})
}

// GetScreenerInput is the input for the get_screener tool.
type GetScreenerInput struct {
	ScreenerID string `json:"screener_id" jsonschema:"ID of the screener to fetch"`
}

// GetScreener fetches a saved screener by ID.
func (s *FinscreenerMCPServer) GetScreener(ctx context.Context, req *mcp.CallToolRequest, args GetScreenerInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetScreener")
	defer span.End()

	span.SetAttributes(attribute.String("screener-id", args.ScreenerID))

	return s.invoke(ctx, span, "get_screener", finscreener.Params{
		Path: map[string]string{"screener_id": args.ScreenerID},
	})
}

// UpdateScreenerInput is the input for the update_screener tool. Empty
// fields keep their current values.
type UpdateScreenerInput struct {
	ScreenerID  string `json:"screener_id" jsonschema:"ID of the screener to update"`
	Name        string `json:"name,omitempty" jsonschema:"new name"`
	Query       string `json:"query,omitempty" jsonschema:"new FQL query"`
	Type        string `json:"type,omitempty" jsonschema:"new entity type"`
	Description string `json:"description,omitempty" jsonschema:"new description"`
}

// UpdateScreener updates a saved screener, merging the supplied fields
// into its current state.
func (s *FinscreenerMCPServer) UpdateScreener(ctx context.Context, req *mcp.CallToolRequest, args UpdateScreenerInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.UpdateScreener")
	defer span.End()

	span.SetAttributes(attribute.String("screener-id", args.ScreenerID))

	current, err := s.getScreenerDoc(ctx, args.ScreenerID)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch screener")
		span.RecordError(err)

		return errorResult(err), nil, nil
	}

	payload := map[string]any{
		"name":  firstNonEmpty(args.Name, stringField(current, "name")),
		"query": firstNonEmpty(args.Query, stringField(current, "query")),
		"type":  firstNonEmpty(args.Type, stringField(current, "type")),
	}

	if desc := firstNonEmpty(args.Description, stringField(current, "description")); desc != "" {
		payload["description"] = desc
	}

	return s.invoke(ctx, span, "update_screener", finscreener.Params{
		Path: map[string]string{"screener_id": args.ScreenerID},
		Body: payload,
	})
}

// DeleteScreenerInput is the input for the delete_screener tool.
type DeleteScreenerInput struct {
	ScreenerID string `json:"screener_id" jsonschema:"ID of the screener to delete"`
}

// DeleteScreener deletes a saved screener.
func (s *FinscreenerMCPServer) DeleteScreener(ctx context.Context, req *mcp.CallToolRequest, args DeleteScreenerInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.DeleteScreener")
	defer span.End()

	span.SetAttributes(attribute.String("screener-id", args.ScreenerID))

	return s.invoke(ctx, span, "delete_screener", finscreener.Params{
		Path: map[string]string{"screener_id": args.ScreenerID},
	})
}

// ScreenerToWatchlistInput is the input for the screener_to_watchlist tool.
type ScreenerToWatchlistInput struct {
	WatchlistName string `json:"watchlist_name" jsonschema:"name for the new watchlist"`
	WatchlistType string `json:"watchlist_type" jsonschema:"type of entities: company, director or gst"`
	Query         string `json:"query" jsonschema:"FQL query to execute"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum entities to add, default 100, max 500"`
}

// ScreenerToWatchlist runs an FQL query and turns its results into a
// watchlist for monitoring.
func (s *FinscreenerMCPServer) ScreenerToWatchlist(ctx context.Context, req *mcp.CallToolRequest, args ScreenerToWatchlistInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.ScreenerToWatchlist")
	defer span.End()

	if _, ok := validWatchlistTypes[args.WatchlistType]; !ok {
		return inputErrorResult(fmt.Sprintf("invalid watchlist type %q", args.WatchlistType)), nil, nil
	}

	screenerType := "company"
	if args.WatchlistType == "gst" {
		screenerType = "gst"
	}

	limit := clampLimit(args.Limit, 100, 500)

	body, err := s.client.Invoke(ctx, "run_screener", finscreener.Params{Body: map[string]any{
		"query": args.Query,
		"type":  screenerType,
		"page":  1,
		"limit": limit,
	}})
	if err != nil {
		return s.recordError(span, err), nil, nil
	}

	rows := rowsFrom(body)
	if len(rows) == 0 {
		return inputErrorResult(fmt.Sprintf("no results found for query: %s", args.Query)), nil, nil
	}

	entities := make([]map[string]string, 0, len(rows))

	for _, row := range rows {
		if len(entities) >= limit {
			break
		}

		identifier, name := entityFields(row, args.WatchlistType)
		if identifier == "" {
			continue
		}

		entities = append(entities, map[string]string{"identifier": identifier, "name": name})
	}

	if len(entities) == 0 {
		return inputErrorResult("no valid entities found in screener results"), nil, nil
	}

	s.logger.Debug("creating watchlist from screener results",
		zap.String("name", args.WatchlistName),
		zap.Int("entities", len(entities)),
	)

	return s.invoke(ctx, span, "create_watchlist", finscreener.Params{Body: map[string]any{
		"name":           args.WatchlistName,
		"watchlist_type": args.WatchlistType,
		"entities":       entities,
	}})
}

// ScreenerToOrderInput is the input for the screener_to_order tool. Provide
// either query or screener_id.
type ScreenerToOrderInput struct {
	OrderName     string `json:"order_name" jsonschema:"name for the order"`
	PaymentOption string `json:"payment_option" jsonschema:"credits or paylater"`
	Query         string `json:"query,omitempty" jsonschema:"FQL query to execute, if not using screener_id"`
	ScreenerID    string `json:"screener_id,omitempty" jsonschema:"ID of a saved screener, if not using query"`
	Type          string `json:"type,omitempty" jsonschema:"entity type when using query: company, director or gst"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum items to include, default 100"`
}

// ScreenerToOrder creates an order for detailed data from the results of an
// FQL query or a saved screener.
func (s *FinscreenerMCPServer) ScreenerToOrder(ctx context.Context, req *mcp.CallToolRequest, args ScreenerToOrderInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.ScreenerToOrder")
	defer span.End()

	payment, ok := normalizePayment(args.PaymentOption)
	if !ok {
		return inputErrorResult(fmt.Sprintf("invalid payment_option %q", args.PaymentOption)), nil, nil
	}

	query, entityType := args.Query, args.Type

	if args.ScreenerID != "" && query == "" {
		doc, err := s.getScreenerDoc(ctx, args.ScreenerID)
		if err != nil {
			return s.recordError(span, err), nil, nil
		}

		query = stringField(doc, "query")

		if entityType == "" {
			entityType = stringField(doc, "type")
		}
	}

	if query == "" {
		return inputErrorResult("either query or screener_id is required"), nil, nil
	}

	if _, ok := validWatchlistTypes[entityType]; !ok {
		return inputErrorResult(fmt.Sprintf("invalid type %q, must be company, director or gst", entityType)), nil, nil
	}

	limit := clampLimit(args.Limit, 100, 500)

	body, err := s.client.Invoke(ctx, "run_screener", finscreener.Params{Body: map[string]any{
		"query": query,
		"type":  entityType,
		"page":  1,
		"limit": limit,
	}})
	if err != nil {
		return s.recordError(span, err), nil, nil
	}

	rows := rowsFrom(body)
	if len(rows) == 0 {
		return inputErrorResult(fmt.Sprintf("no results for query: %s", query)), nil, nil
	}

	items := make([]map[string]any, 0, len(rows))

	for _, row := range rows {
		if len(items) >= limit {
			break
		}

		identifier, name := entityFields(row, entityType)
		if identifier == "" {
			continue
		}

		items = append(items, map[string]any{
			"type":   entityType,
			"name":   name,
			"number": identifier,
			"price":  bulkItemPrice,
		})
	}

	if len(items) == 0 {
		return inputErrorResult("no valid items for order"), nil, nil
	}

	return s.invoke(ctx, span, "create_order", finscreener.Params{Body: map[string]any{
		"orderName":     args.OrderName,
		"paymentOption": payment,
		"items":         items,
	}})
}

// getScreenerDoc fetches a saved screener and unwraps its data envelope.
func (s *FinscreenerMCPServer) getScreenerDoc(ctx context.Context, screenerID string) (map[string]any, error) {
	body, err := s.client.Invoke(ctx, "get_screener", finscreener.Params{
		Path: map[string]string{"screener_id": screenerID},
	})
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("bad screener response: %w", err)
	}

	if inner, ok := doc["data"].(map[string]any); ok {
		return inner, nil
	}

	return doc, nil
}

func (s *FinscreenerMCPServer) recordError(span trace.Span, err error) *mcp.CallToolResult {
	span.SetStatus(codes.Error, "tool call failed")
	span.RecordError(err)

	return errorResult(err)
}

// entityFields extracts the identifier and display name from one screener
// result row, tolerating the remote API's inconsistent key casing.
func entityFields(row map[string]any, entityType string) (identifier, name string) {
	switch entityType {
	case "company":
		identifier = stringField(row, "CIN", "cin")
		name = stringField(row, "company", "companyName")
	case "director":
		identifier = stringField(row, "DIN", "din")
		name = stringField(row, "directorName", "name")
	default:
		identifier = stringField(row, "GSTIN", "gstin")
		name = stringField(row, "TradeName", "tradeName", "LegalName")
	}

	if name == "" {
		name = "Unknown"
	}

	return identifier, name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
