package mcp

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestGetCompanyDetails(t *testing.T) {
	detail := []byte(`{"data": {"cin": "L12345MH2000PLC123456", "companyName": "Acme"}}`)

	s, doer := newTestServer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusOK, detail), nil
	})

	res, _, err := s.GetCompanyDetails(context.TODO(), nil, GetCompanyDetailsInput{CIN: "L12345MH2000PLC123456"})
	assert.NoError(t, err)
	assert.False(t, res.IsError)

	// the remote payload reaches the agent untouched
	assert.Equal(t, string(detail), resultText(t, res))

	reqs := doer.requests()
	if assert.Len(t, reqs, 1) {
		assert.Equal(t, "/api/company/details", reqs[0].URL.Path)
		assert.Equal(t, "L12345MH2000PLC123456", reqs[0].URL.Query().Get("cin"))
	}
}

func TestGetDirectorDetails(t *testing.T) {
	s, doer := newTestServer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusOK, []byte(`{"data": {}}`)), nil
	})

	_, _, err := s.GetDirectorDetails(context.TODO(), nil, GetDirectorDetailsInput{DIN: "01234567"})
	assert.NoError(t, err)

	reqs := doer.requests()
	if assert.Len(t, reqs, 1) {
		assert.Equal(t, "/api/company/director-details", reqs[0].URL.Path)
		assert.Equal(t, "01234567", reqs[0].URL.Query().Get("din"))
	}
}

func TestGetGSTDetails_RemoteQuotaDenied(t *testing.T) {
	s, _ := newTestServer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusTooManyRequests, []byte(`{"detail": {"resets_at": "2026-01-16T09:00:00Z"}}`)), nil
	})

	res, _, err := s.GetGSTDetails(context.TODO(), nil, GetGSTDetailsInput{GSTIN: "27AAPFU0939F1ZV"})
	assert.NoError(t, err)
	assert.True(t, res.IsError)

	te := toolError{}
	assert.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &te))
	assert.Equal(t, "QuotaExceeded", te.Kind)
	assert.Equal(t, "2026-01-16T09:00:00Z", te.RetryAfter)
}
