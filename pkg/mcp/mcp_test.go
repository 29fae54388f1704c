package mcp

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
)

var testLoginResponse = []byte(`{"token": {"access_token": "test-token", "expires_in": 3600}}`)

// mockHTTPDoer answers the token exchange itself and routes every other
// request to the test's handler.
type mockHTTPDoer struct {
	t  *testing.T
	do func(req *http.Request) (*http.Response, error)

	mu   sync.Mutex
	reqs []*http.Request
}

func (m *mockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	if strings.HasSuffix(req.URL.Path, "/auth/api-key/login") {
		return httpResponse(http.StatusOK, testLoginResponse), nil
	}

	m.mu.Lock()
	m.reqs = append(m.reqs, req)
	m.mu.Unlock()

	if m.do == nil {
		m.t.Error("unexpected request", req.Method, req.URL.String())
		return httpResponse(http.StatusInternalServerError, nil), nil
	}

	return m.do(req)
}

func (m *mockHTTPDoer) requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*http.Request{}, m.reqs...)
}

func httpResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func newTestServer(t *testing.T, do func(req *http.Request) (*http.Response, error)) (*FinscreenerMCPServer, *mockHTTPDoer) {
	t.Helper()

	doer := &mockHTTPDoer{t: t, do: do}

	client, err := finscreener.NewClient(
		finscreener.WithAPIKey("fsk_testkey"),
		finscreener.WithURL("https://fin.example.com"),
		finscreener.WithHTTPClient(doer),
		finscreener.WithMetricsRegisterer(prometheus.NewRegistry()),
	)
	if err != nil {
		t.Fatal(err)
	}

	return NewFinscreenerMCPServer(client), doer
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	if !assert.Len(t, res.Content, 1) {
		t.FailNow()
	}

	text, ok := res.Content[0].(*mcp.TextContent)
	if !assert.True(t, ok, "content must be text") {
		t.FailNow()
	}

	return text.Text
}

func requestBody(t *testing.T, req *http.Request) []byte {
	t.Helper()

	b, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatal(err)
	}

	return b
}
