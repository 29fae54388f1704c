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

var validLeadTypes = map[string]struct{}{
	"company":     {},
	"director":    {},
	"gst":         {},
	"fullcompany": {},
}

// ListCRMOrdersInput is the input for the list_crm_orders tool.
type ListCRMOrdersInput struct {
	Page  int `json:"page,omitempty" jsonschema:"page number, default 1"`
	Limit int `json:"limit,omitempty" jsonschema:"orders per page, default 20, max 100"`
}

// ListCRMOrders lists orders available for CRM export.
func (s *FinscreenerMCPServer) ListCRMOrders(ctx context.Context, req *mcp.CallToolRequest, args ListCRMOrdersInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.ListCRMOrders")
	defer span.End()

	page := args.Page
	if page <= 0 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(clampLimit(args.Limit, 20, 100)))

	return s.invoke(ctx, span, "list_crm_orders", finscreener.Params{Query: q})
}

// GetOrderLeadsInput is the input for the get_order_leads tool.
type GetOrderLeadsInput struct {
	OrderID string `json:"order_id" jsonschema:"ID of the order to get leads for"`
}

// GetOrderLeads returns a paid order's items as Zoho-ready leads.
func (s *FinscreenerMCPServer) GetOrderLeads(ctx context.Context, req *mcp.CallToolRequest, args GetOrderLeadsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetOrderLeads")
	defer span.End()

	span.SetAttributes(attribute.String("order-id", args.OrderID))

	return s.invoke(ctx, span, "get_order_leads", finscreener.Params{
		Path: map[string]string{"order_id": args.OrderID},
	})
}

// GetEntityAsLeadInput is the input for the get_entity_as_lead tool.
type GetEntityAsLeadInput struct {
	EntityType string `json:"entity_type" jsonschema:"company, director, gst or fullcompany"`
	Identifier string `json:"identifier" jsonschema:"CIN, DIN or GSTIN"`
}

// GetEntityAsLead previews how an entity will appear as a Zoho lead before
// ordering it.
func (s *FinscreenerMCPServer) GetEntityAsLead(ctx context.Context, req *mcp.CallToolRequest, args GetEntityAsLeadInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetEntityAsLead")
	defer span.End()

	if _, ok := validLeadTypes[args.EntityType]; !ok {
		return inputErrorResult(fmt.Sprintf("invalid entity_type %q, must be company, director, gst or fullcompany", args.EntityType)), nil, nil
	}

	if args.Identifier == "" {
		return inputErrorResult("identifier is required (CIN, DIN or GSTIN)"), nil, nil
	}

	return s.invoke(ctx, span, "create_crm_lead", finscreener.Params{Body: map[string]string{
		"entity_type": args.EntityType,
		"identifier":  args.Identifier,
	}})
}
