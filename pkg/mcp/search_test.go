package mcp

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeCIN(t *testing.T) {
	assert.True(t, looksLikeCIN("L12345MH2000PLC123456"))
	assert.False(t, looksLikeCIN("112345MH2000PLC123456"))
	assert.False(t, looksLikeCIN("L12345"))
	assert.False(t, looksLikeCIN(""))
}

func TestLooksLikeDIN(t *testing.T) {
	assert.True(t, looksLikeDIN("01234567"))
	assert.False(t, looksLikeDIN("0123456"))
	assert.False(t, looksLikeDIN("0123456a"))
	assert.False(t, looksLikeDIN("ramesh"))
}

func TestLooksLikeGSTIN(t *testing.T) {
	assert.True(t, looksLikeGSTIN("27AAPFU0939F1ZV"))
	assert.False(t, looksLikeGSTIN("A7AAPFU0939F1ZV"))
	assert.False(t, looksLikeGSTIN("27AAPFU"))
}

func TestSearchCompany(t *testing.T) {
	tests := []struct {
		name      string
		args      SearchCompanyInput
		wantQuery map[string]string
	}{
		{
			name: "name search",
			args: SearchCompanyInput{Query: "acme industries", State: "Maharashtra"},
			wantQuery: map[string]string{
				"company": "acme industries",
				"state":   "Maharashtra",
				"page":    "1",
				"limit":   "10",
			},
		},
		{
			name: "full CIN becomes an exact lookup",
			args: SearchCompanyInput{Query: "L12345MH2000PLC123456", Limit: 5},
			wantQuery: map[string]string{
				"CIN":   "L12345MH2000PLC123456",
				"page":  "1",
				"limit": "5",
			},
		},
		{
			name: "limit is clamped",
			args: SearchCompanyInput{Query: "acme", Limit: 5000},
			wantQuery: map[string]string{
				"company": "acme",
				"page":    "1",
				"limit":   "100",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, doer := newTestServer(t, func(_ *http.Request) (*http.Response, error) {
				return httpResponse(http.StatusOK, []byte(`{"results": []}`)), nil
			})

			res, _, err := s.SearchCompany(context.TODO(), nil, tt.args)
			assert.NoError(t, err)
			assert.False(t, res.IsError)

			reqs := doer.requests()
			if assert.Len(t, reqs, 1) {
				assert.Equal(t, "/api/company/company-filter", reqs[0].URL.Path)

				q := reqs[0].URL.Query()
				for k, v := range tt.wantQuery {
					assert.Equal(t, v, q.Get(k), "query param %s", k)
				}
			}
		})
	}
}

func TestSearchDirector(t *testing.T) {
	tests := []struct {
		name      string
		args      SearchDirectorInput
		wantQuery map[string]string
	}{
		{
			name: "full name splits into first and last",
			args: SearchDirectorInput{Query: "Ramesh Kumar Sharma"},
			wantQuery: map[string]string{
				"firstName": "Ramesh",
				"lastName":  "Sharma",
			},
		},
		{
			name:      "single name",
			args:      SearchDirectorInput{Query: "Ramesh"},
			wantQuery: map[string]string{"firstName": "Ramesh"},
		},
		{
			name:      "DIN lookup",
			args:      SearchDirectorInput{Query: "01234567"},
			wantQuery: map[string]string{"DIN": "01234567"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, doer := newTestServer(t, func(_ *http.Request) (*http.Response, error) {
				return httpResponse(http.StatusOK, []byte(`{"results": []}`)), nil
			})

			_, _, err := s.SearchDirector(context.TODO(), nil, tt.args)
			assert.NoError(t, err)

			reqs := doer.requests()
			if assert.Len(t, reqs, 1) {
				q := reqs[0].URL.Query()
				for k, v := range tt.wantQuery {
					assert.Equal(t, v, q.Get(k), "query param %s", k)
				}
			}
		})
	}
}

func TestSearchGST(t *testing.T) {
	s, doer := newTestServer(t, func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusOK, []byte(`{"results": []}`)), nil
	})

	_, _, err := s.SearchGST(context.TODO(), nil, SearchGSTInput{Query: "27AAPFU0939F1ZV"})
	assert.NoError(t, err)

	reqs := doer.requests()
	if assert.Len(t, reqs, 1) {
		assert.Equal(t, "/api/gst/gst-filter", reqs[0].URL.Path)
		assert.Equal(t, "27AAPFU0939F1ZV", reqs[0].URL.Query().Get("GSTIN"))
	}
}
