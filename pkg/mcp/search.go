package mcp

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
)

// SearchCompanyInput is the input for the search_company tool.
type SearchCompanyInput struct {
	Query string `json:"query" jsonschema:"company name fragment or 21-character CIN (a full CIN is much faster)"`
	State string `json:"state,omitempty" jsonschema:"optional state filter"`
	City  string `json:"city,omitempty" jsonschema:"optional city filter"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum results, default 10, max 100"`
}

// SearchCompany searches companies by name or CIN.
func (s *FinscreenerMCPServer) SearchCompany(ctx context.Context, req *mcp.CallToolRequest, args SearchCompanyInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.SearchCompany")
	defer span.End()

	span.SetAttributes(attribute.String("query", args.Query))

	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(clampLimit(args.Limit, 10, 100)))

	// a full CIN is an exact-match lookup, far cheaper than a name scan
	if looksLikeCIN(args.Query) {
		q.Set("CIN", args.Query)
	} else {
		q.Set("company", args.Query)
	}

	if args.State != "" {
		q.Set("state", args.State)
	}

	if args.City != "" {
		q.Set("city", args.City)
	}

	return s.invoke(ctx, span, "search_company", finscreener.Params{Query: q})
}

// SearchDirectorInput is the input for the search_director tool.
type SearchDirectorInput struct {
	Query string `json:"query" jsonschema:"director name or 8-digit DIN"`
	State string `json:"state,omitempty" jsonschema:"optional state filter"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum results, default 10, max 100"`
}

// SearchDirector searches directors by name or DIN.
func (s *FinscreenerMCPServer) SearchDirector(ctx context.Context, req *mcp.CallToolRequest, args SearchDirectorInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.SearchDirector")
	defer span.End()

	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(clampLimit(args.Limit, 10, 100)))

	if looksLikeDIN(args.Query) {
		q.Set("DIN", args.Query)
	} else if parts := strings.Fields(args.Query); len(parts) >= 2 {
		q.Set("firstName", parts[0])
		q.Set("lastName", parts[len(parts)-1])
	} else if len(parts) == 1 {
		q.Set("firstName", parts[0])
	}

	if args.State != "" {
		q.Set("state", args.State)
	}

	return s.invoke(ctx, span, "search_director", finscreener.Params{Query: q})
}

// SearchGSTInput is the input for the search_gst tool.
type SearchGSTInput struct {
	Query  string `json:"query" jsonschema:"trade name fragment or 15-character GSTIN"`
	State  string `json:"state,omitempty" jsonschema:"optional state filter"`
	Status string `json:"status,omitempty" jsonschema:"optional registration status filter"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum results, default 10, max 100"`
}

// SearchGST searches GST registrations by trade name or GSTIN.
func (s *FinscreenerMCPServer) SearchGST(ctx context.Context, req *mcp.CallToolRequest, args SearchGSTInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "FinscreenerMCPServer.SearchGST")
	defer span.End()

	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(clampLimit(args.Limit, 10, 100)))

	if looksLikeGSTIN(args.Query) {
		q.Set("GSTIN", args.Query)
	} else {
		q.Set("TradeName", args.Query)
	}

	if args.State != "" {
		q.Set("State", args.State)
	}

	if args.Status != "" {
		q.Set("Status", args.Status)
	}

	return s.invoke(ctx, span, "search_gst", finscreener.Params{Query: q})
}

func looksLikeCIN(s string) bool {
	return len(s) == 21 && unicode.IsLetter(rune(s[0]))
}

func looksLikeDIN(s string) bool {
	if len(s) != 8 {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

func looksLikeGSTIN(s string) bool {
	return len(s) == 15 && unicode.IsDigit(rune(s[0])) && unicode.IsDigit(rune(s[1]))
}
