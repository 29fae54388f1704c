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

// credit pricing per order item type
var creditPrices = map[string]int{
	"company":     1,
	"director":    1,
	"gst":         1,
	"fullcompany": 5,
}

// price attached to items generated in bulk from screeners and watchlists
const bulkItemPrice = 10.0

// normalizePayment validates the payment option. The remote API spells
// pay-later as "cashfree".
func normalizePayment(option string) (string, bool) {
	switch option {
	case "credits", "cashfree":
		return option, true
	case "paylater":
		return "cashfree", true
	default:
		return "", false
	}
}

// ListOrdersInput is the input for the list_orders tool.
type ListOrdersInput struct {
	Page   int    `json:"page,omitempty" jsonschema:"page number, default 1"`
	Limit  int    `json:"limit,omitempty" jsonschema:"orders per page, default 10"`
	Status string `json:"status,omitempty" jsonschema:"optional order status filter"`
	Search string `json:"search,omitempty" jsonschema:"optional search in order ID or name"`
}

// ListOrders lists the current user's orders.
func (s *FinscreenerMCPServer) ListOrders(ctx context.Context, req *mcp.CallToolRequest, args ListOrdersInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.ListOrders")
	defer span.End()

	page := args.Page
	if page <= 0 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(clampLimit(args.Limit, 10, 100)))

	if args.Status != "" {
		q.Set("status", args.Status)
	}

	if args.Search != "" {
		q.Set("search", args.Search)
	}

	return s.invoke(ctx, span, "list_orders", finscreener.Params{Query: q})
}

// GetOrderDetailsInput is the input for the get_order_details tool.
type GetOrderDetailsInput struct {
	OrderID string `json:"order_id" jsonschema:"ID of the order to fetch"`
}

// GetOrderDetails fetches a single order including its contact data.
func (s *FinscreenerMCPServer) GetOrderDetails(ctx context.Context, req *mcp.CallToolRequest, args GetOrderDetailsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetOrderDetails")
	defer span.End()

	span.SetAttributes(attribute.String("order-id", args.OrderID))

	return s.invoke(ctx, span, "get_order", finscreener.Params{
		Path: map[string]string{"order_id": args.OrderID},
	})
}

// ExportOrderInput is the input for the export_order tool.
type ExportOrderInput struct {
	OrderID string `json:"order_id" jsonschema:"ID of the order to export"`
}

// ExportOrder exports a paid order's data.
func (s *FinscreenerMCPServer) ExportOrder(ctx context.Context, req *mcp.CallToolRequest, args ExportOrderInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.ExportOrder")
	defer span.End()

	span.SetAttributes(attribute.String("order-id", args.OrderID))

	return s.invoke(ctx, span, "export_order", finscreener.Params{
		Path: map[string]string{"order_id": args.OrderID},
	})
}

// OrderItem is one entity in an order.
type OrderItem struct {
	Type   string  `json:"type" jsonschema:"item type: company, director, gst or fullcompany"`
	Name   string  `json:"name,omitempty" jsonschema:"display name of the entity"`
	Number string  `json:"number" jsonschema:"entity identifier (CIN, DIN or GSTIN)"`
	Price  float64 `json:"price,omitempty" jsonschema:"optional price override"`
}

// CreateOrderInput is the input for the create_order tool.
type CreateOrderInput struct {
	OrderName     string      `json:"order_name" jsonschema:"name describing the order"`
	PaymentOption string      `json:"payment_option" jsonschema:"credits or cashfree"`
	Items         []OrderItem `json:"items" jsonschema:"items to order"`
}

// CreateOrder creates a new order for contact data. Item types price at 1
// credit each, fullcompany at 5.
func (s *FinscreenerMCPServer) CreateOrder(ctx context.Context, req *mcp.CallToolRequest, args CreateOrderInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.CreateOrder")
	defer span.End()

	payment, ok := normalizePayment(args.PaymentOption)
	if !ok {
		return inputErrorResult(fmt.Sprintf("invalid payment_option %q, must be credits or cashfree", args.PaymentOption)), nil, nil
	}

	if len(args.Items) == 0 {
		return inputErrorResult("at least one item is required to create an order"), nil, nil
	}

	items := make([]map[string]any, 0, len(args.Items))

	for i, item := range args.Items {
		credits, ok := creditPrices[item.Type]
		if !ok {
			return inputErrorResult(fmt.Sprintf("item %d has invalid type %q", i+1, item.Type)), nil, nil
		}

		if item.Number == "" {
			return inputErrorResult(fmt.Sprintf("item %d is missing number (CIN/DIN/GSTIN)", i+1)), nil, nil
		}

		price := item.Price
		if price == 0 {
			price = float64(credits)
		}

		name := item.Name
		if name == "" {
			name = item.Number
		}

		items = append(items, map[string]any{
			"type":   item.Type,
			"name":   name,
			"number": item.Number,
			"price":  price,
		})
	}

	return s.invoke(ctx, span, "create_order", finscreener.Params{Body: map[string]any{
		"orderName":     args.OrderName,
		"paymentOption": payment,
		"items":         items,
	}})
}

// WatchlistToOrderInput is the input for the watchlist_to_order tool.
type WatchlistToOrderInput struct {
	WatchlistID   string `json:"watchlist_id" jsonschema:"ID of the watchlist to convert"`
	OrderName     string `json:"order_name" jsonschema:"name for the order"`
	PaymentOption string `json:"payment_option" jsonschema:"credits or cashfree"`
}

// WatchlistToOrder creates an order from all entities in a watchlist.
func (s *FinscreenerMCPServer) WatchlistToOrder(ctx context.Context, req *mcp.CallToolRequest, args WatchlistToOrderInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.WatchlistToOrder")
	defer span.End()

	span.SetAttributes(attribute.String("watchlist-id", args.WatchlistID))

	payment, ok := normalizePayment(args.PaymentOption)
	if !ok {
		return inputErrorResult(fmt.Sprintf("invalid payment_option %q, must be credits or cashfree", args.PaymentOption)), nil, nil
	}

	body, err := s.client.Invoke(ctx, "get_watchlist", finscreener.Params{
		Path: map[string]string{"watchlist_id": args.WatchlistID},
	})
	if err != nil {
		return s.recordError(span, err), nil, nil
	}

	rows := watchlistRows(body)
	if len(rows) == 0 {
		return inputErrorResult("watchlist is empty"), nil, nil
	}

	items := make([]map[string]any, 0, len(rows))

	for _, row := range rows {
		number := stringField(row, "number", "identifier")
		if number == "" {
			continue
		}

		itemType := stringField(row, "type")
		if itemType == "" {
			itemType = "company"
		}

		name := stringField(row, "name")
		if name == "" {
			name = number
		}

		items = append(items, map[string]any{
			"type":   itemType,
			"name":   name,
			"number": number,
			"price":  bulkItemPrice,
		})
	}

	if len(items) == 0 {
		return inputErrorResult("watchlist has no usable entities"), nil, nil
	}

	return s.invoke(ctx, span, "create_order", finscreener.Params{Body: map[string]any{
		"orderName":     args.OrderName,
		"paymentOption": payment,
		"items":         items,
	}})
}

// GetUserCredits returns the current user's profile and credit balance.
func (s *FinscreenerMCPServer) GetUserCredits(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetUserCredits")
	defer span.End()

	return s.invoke(ctx, span, "get_user", finscreener.Params{})
}
