package mcp

import (
	"context"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
)

// GetCompanyDetailsInput is the input for the get_company_details tool.
type GetCompanyDetailsInput struct {
	CIN string `json:"cin" jsonschema:"Corporate Identification Number of the company"`
}

// GetCompanyDetails fetches full company details. Detail endpoints are
// quota limited to 100 calls per day.
func (s *FinscreenerMCPServer) GetCompanyDetails(ctx context.Context, req *mcp.CallToolRequest, args GetCompanyDetailsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetCompanyDetails")
	defer span.End()

	span.SetAttributes(attribute.String("cin", args.CIN))

	q := url.Values{}
	q.Set("cin", args.CIN)

	return s.invoke(ctx, span, "get_company_details", finscreener.Params{Query: q})
}

// GetDirectorDetailsInput is the input for the get_director_details tool.
type GetDirectorDetailsInput struct {
	DIN string `json:"din" jsonschema:"Director Identification Number of the director"`
}

// GetDirectorDetails fetches full director details.
func (s *FinscreenerMCPServer) GetDirectorDetails(ctx context.Context, req *mcp.CallToolRequest, args GetDirectorDetailsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetDirectorDetails")
	defer span.End()

	span.SetAttributes(attribute.String("din", args.DIN))

	q := url.Values{}
	q.Set("din", args.DIN)

	return s.invoke(ctx, span, "get_director_details", finscreener.Params{Query: q})
}

// GetGSTDetailsInput is the input for the get_gst_details tool.
type GetGSTDetailsInput struct {
	GSTIN string `json:"gstin" jsonschema:"15-character GST Identification Number"`
}

// GetGSTDetails fetches full GST registration details.
func (s *FinscreenerMCPServer) GetGSTDetails(ctx context.Context, req *mcp.CallToolRequest, args GetGSTDetailsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.GetGSTDetails")
	defer span.End()

	span.SetAttributes(attribute.String("gstin", args.GSTIN))

	q := url.Values{}
	q.Set("gstin", args.GSTIN)

	return s.invoke(ctx, span, "get_gst_details", finscreener.Params{Query: q})
}
