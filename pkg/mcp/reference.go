package mcp

import (
	"context"
	"net/url"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
)

// LookupCodeInput is the shared input for the classification lookup tools.
// Either code or search must be provided.
type LookupCodeInput struct {
	Code   string `json:"code,omitempty" jsonschema:"exact or partial classification code"`
	Search string `json:"search,omitempty" jsonschema:"keyword to search descriptions"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum results, default 10, max 50"`
}

// LookupNICCode looks up NIC (National Industrial Classification) codes
// used in company industry data.
func (s *FinscreenerMCPServer) LookupNICCode(ctx context.Context, req *mcp.CallToolRequest, args LookupCodeInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.LookupNICCode")
	defer span.End()

	return s.lookupCode(ctx, span, "lookup_nic", args)
}

// LookupHSNCode looks up HSN (Harmonized System of Nomenclature) codes for
// goods in GST data.
func (s *FinscreenerMCPServer) LookupHSNCode(ctx context.Context, req *mcp.CallToolRequest, args LookupCodeInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.LookupHSNCode")
	defer span.End()

	return s.lookupCode(ctx, span, "lookup_hsn", args)
}

// LookupSACCode looks up SAC (Services Accounting Code) codes for services
// in GST data.
func (s *FinscreenerMCPServer) LookupSACCode(ctx context.Context, req *mcp.CallToolRequest, args LookupCodeInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.LookupSACCode")
	defer span.End()

	return s.lookupCode(ctx, span, "lookup_sac", args)
}

func (s *FinscreenerMCPServer) lookupCode(ctx context.Context, span trace.Span, tool string, args LookupCodeInput) (*mcp.CallToolResult, any, error) {
	if args.Code == "" && args.Search == "" {
		return inputErrorResult("provide either code or search"), nil, nil
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(args.Limit, 10, 50)))

	if args.Code != "" {
		q.Set("code", args.Code)
	}

	if args.Search != "" {
		q.Set("search", args.Search)
	}

	return s.invoke(ctx, span, tool, finscreener.Params{Query: q})
}
