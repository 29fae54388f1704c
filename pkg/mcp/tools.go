package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *FinscreenerMCPServer) registerTools() {
	// search
	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "search_company", Description: "Search companies by name or CIN. For industry-based search, prefer lookup_nic_code + run_screener, which is much faster than a name scan"},
		s.SearchCompany,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "search_director", Description: "Search directors by name or DIN (Director Identification Number)"},
		s.SearchDirector,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "search_gst", Description: "Search GST registrations by trade name or GSTIN"},
		s.SearchGST,
	)

	// details, quota limited to 100 calls per day
	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_company_details", Description: "Get full company details by CIN: incorporation date, capital, status, registered address, directors. Rate limited to 100 calls/day"},
		s.GetCompanyDetails,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_director_details", Description: "Get full director details by DIN: profile, disqualification status, associated companies. Rate limited to 100 calls/day"},
		s.GetDirectorDetails,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_gst_details", Description: "Get full GST registration details by GSTIN: status, taxpayer type, registration date, address. Rate limited to 100 calls/day"},
		s.GetGSTDetails,
	)

	// watchlists
	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "list_watchlists", Description: "List all watchlists owned by the current user"},
		s.ListWatchlists,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_watchlist_details", Description: "Get the contents of a specific watchlist"},
		s.GetWatchlistDetails,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "create_watchlist", Description: "Create a new watchlist to track companies, directors or GST registrations"},
		s.CreateWatchlist,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "delete_watchlist", Description: "Delete a watchlist"},
		s.DeleteWatchlist,
	)

	// screeners
	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "run_screener", Description: "Execute an FQL query to filter companies or GST registrations. Field names are case-sensitive; see the finscreener://guide/fql resource for syntax"},
		s.RunScreener,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "create_screener", Description: "Save an FQL query as a reusable screener"},
		s.CreateScreener,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "list_screeners", Description: "List all saved screeners owned by the current user"},
		s.ListScreeners,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_screener", Description: "Get a saved screener by ID"},
		s.GetScreener,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "update_screener", Description: "Update an existing screener's properties; omitted fields keep their current values"},
		s.UpdateScreener,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "delete_screener", Description: "Delete a saved screener"},
		s.DeleteScreener,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "screener_to_watchlist", Description: "Run an FQL query and convert its results into a watchlist for monitoring"},
		s.ScreenerToWatchlist,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "screener_to_order", Description: "Create an order for detailed data from screener results; provide either an FQL query or a saved screener ID"},
		s.ScreenerToOrder,
	)

	// orders
	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "list_orders", Description: "List the current user's orders with optional status and search filters"},
		s.ListOrders,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_order_details", Description: "Get full details for a specific order, including purchased contact data"},
		s.GetOrderDetails,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "export_order", Description: "Export a paid order's data"},
		s.ExportOrder,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "create_order", Description: "Create an order for contact data. Item types: company, director, gst (1 credit each) or fullcompany (5 credits)"},
		s.CreateOrder,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "watchlist_to_order", Description: "Create an order from all entities in a watchlist"},
		s.WatchlistToOrder,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_user_credits", Description: "Check the current user's credit balance; call this before creating orders paid with credits"},
		s.GetUserCredits,
	)

	// CRM export
	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "list_crm_orders", Description: "List orders available for CRM integration (Zoho export)"},
		s.ListCRMOrders,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_order_leads", Description: "Get a paid order's items as Zoho-ready leads for CRM import"},
		s.GetOrderLeads,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "get_entity_as_lead", Description: "Preview an entity as a Zoho-ready lead before creating an order"},
		s.GetEntityAsLead,
	)

	// classification lookups
	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "lookup_nic_code", Description: "Look up NIC (National Industrial Classification) codes by code or keyword; use the codes with NICCode IN [...] in screener queries"},
		s.LookupNICCode,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "lookup_hsn_code", Description: "Look up HSN (Harmonized System of Nomenclature) codes for goods; use with hsncd IN [...] in GST screener queries"},
		s.LookupHSNCode,
	)

	mcp.AddTool(
		s.server,
		&mcp.Tool{Name: "lookup_sac_code", Description: "Look up SAC (Services Accounting Code) codes for services; use with saccd IN [...] in GST screener queries"},
		s.LookupSACCode,
	)
}
