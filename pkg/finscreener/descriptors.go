package finscreener

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Class categorizes remote operations for quota and timeout policy.
type Class string

// Endpoint classes.
const (
	ClassSearch    Class = "search"
	ClassDetail    Class = "detail"
	ClassScreener  Class = "screener"
	ClassWatchlist Class = "watchlist"
	ClassOrder     Class = "order"
	ClassCRM       Class = "crm"
	ClassReference Class = "reference"
)

const (
	defaultCallTimeout = 30 * time.Second

	// screener execution evaluates the FQL query server-side and can run
	// far longer than any other endpoint
	screenerCallTimeout = 240 * time.Second
)

// EndpointDescriptor maps a tool name to a remote operation. Path is a
// template relative to the API root; segments of the form {name} are
// substituted from Params.Path at call time.
type EndpointDescriptor struct {
	Tool    string
	Method  string
	Path    string
	Class   Class
	Timeout time.Duration
}

// descriptor table for every remote operation. Timeout zero means the
// default for the class.
var endpointTable = []EndpointDescriptor{
	{Tool: "search_company", Method: http.MethodGet, Path: "/company/company-filter", Class: ClassSearch},
	{Tool: "search_director", Method: http.MethodGet, Path: "/company/director-filter", Class: ClassSearch},
	{Tool: "search_gst", Method: http.MethodGet, Path: "/gst/gst-filter", Class: ClassSearch},

	{Tool: "get_company_details", Method: http.MethodGet, Path: "/company/details", Class: ClassDetail},
	{Tool: "get_director_details", Method: http.MethodGet, Path: "/company/director-details", Class: ClassDetail},
	{Tool: "get_gst_details", Method: http.MethodGet, Path: "/gst/details", Class: ClassDetail},

	{Tool: "list_watchlists", Method: http.MethodGet, Path: "/watchlist", Class: ClassWatchlist},
	{Tool: "get_watchlist", Method: http.MethodGet, Path: "/watchlist/{watchlist_id}", Class: ClassWatchlist},
	{Tool: "get_watchlist_entities", Method: http.MethodGet, Path: "/watchlist/{watchlist_id}/entities", Class: ClassWatchlist},
	{Tool: "create_watchlist", Method: http.MethodPost, Path: "/watchlist", Class: ClassWatchlist},
	{Tool: "delete_watchlist", Method: http.MethodDelete, Path: "/watchlist/{watchlist_id}", Class: ClassWatchlist},

	{Tool: "run_screener", Method: http.MethodPost, Path: "/screener/search", Class: ClassScreener, Timeout: screenerCallTimeout},
	{Tool: "list_screeners", Method: http.MethodGet, Path: "/screener/screeners", Class: ClassScreener},
	{Tool: "get_screener", Method: http.MethodGet, Path: "/screener/screeners/{screener_id}", Class: ClassScreener},
	{Tool: "create_screener", Method: http.MethodPost, Path: "/screener/screeners", Class: ClassScreener},
	{Tool: "update_screener", Method: http.MethodPut, Path: "/screener/screeners/{screener_id}", Class: ClassScreener},
	{Tool: "delete_screener", Method: http.MethodDelete, Path: "/screener/screeners/{screener_id}", Class: ClassScreener},

	{Tool: "list_orders", Method: http.MethodGet, Path: "/orders", Class: ClassOrder},
	{Tool: "get_order", Method: http.MethodGet, Path: "/orders/{order_id}", Class: ClassOrder},
	{Tool: "export_order", Method: http.MethodGet, Path: "/orders/{order_id}/export", Class: ClassOrder},
	{Tool: "create_order", Method: http.MethodPost, Path: "/orders/normal", Class: ClassOrder},
	{Tool: "get_user", Method: http.MethodGet, Path: "/users/me", Class: ClassOrder},

	{Tool: "list_crm_orders", Method: http.MethodGet, Path: "/crm/orders", Class: ClassCRM},
	{Tool: "get_order_leads", Method: http.MethodGet, Path: "/crm/orders/{order_id}/leads", Class: ClassCRM},
	{Tool: "create_crm_lead", Method: http.MethodPost, Path: "/crm/newlead", Class: ClassCRM},

	{Tool: "lookup_nic", Method: http.MethodGet, Path: "/reference/nic", Class: ClassReference},
	{Tool: "lookup_hsn", Method: http.MethodGet, Path: "/reference/hsn", Class: ClassReference},
	{Tool: "lookup_sac", Method: http.MethodGet, Path: "/reference/sac", Class: ClassReference},
}

var validClasses = map[Class]struct{}{
	ClassSearch:    {},
	ClassDetail:    {},
	ClassScreener:  {},
	ClassWatchlist: {},
	ClassOrder:     {},
	ClassCRM:       {},
	ClassReference: {},
}

var validMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodDelete: {},
}

// newRegistry builds the tool lookup table from the static descriptor
// table, rejecting malformed entries.
func newRegistry() (map[string]*EndpointDescriptor, error) {
	registry := make(map[string]*EndpointDescriptor, len(endpointTable))

	for i := range endpointTable {
		desc := endpointTable[i]

		if desc.Tool == "" {
			return nil, fmt.Errorf("%w: empty tool name", ErrBadDescriptor)
		}

		if _, ok := registry[desc.Tool]; ok {
			return nil, fmt.Errorf("%w: duplicate tool %q", ErrBadDescriptor, desc.Tool)
		}

		if _, ok := validMethods[desc.Method]; !ok {
			return nil, fmt.Errorf("%w: tool %q has unsupported method %q", ErrBadDescriptor, desc.Tool, desc.Method)
		}

		if _, ok := validClasses[desc.Class]; !ok {
			return nil, fmt.Errorf("%w: tool %q has unknown class %q", ErrBadDescriptor, desc.Tool, desc.Class)
		}

		if err := checkPathTemplate(desc.Path); err != nil {
			return nil, fmt.Errorf("%w: tool %q: %v", ErrBadDescriptor, desc.Tool, err)
		}

		if desc.Timeout == 0 {
			desc.Timeout = defaultCallTimeout
		}

		registry[desc.Tool] = &desc
	}

	return registry, nil
}

func checkPathTemplate(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path %q must start with /", path)
	}

	for _, seg := range strings.Split(path, "/")[1:] {
		if seg == "" {
			return fmt.Errorf("path %q has an empty segment", path)
		}

		placeholder := strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
		if placeholder && len(seg) == 2 {
			return fmt.Errorf("path %q has an empty placeholder", path)
		}

		if !placeholder && strings.ContainsAny(seg, "{}") {
			return fmt.Errorf("path %q has a malformed placeholder segment %q", path, seg)
		}
	}

	return nil
}
