package finscreener

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRegistry(t *testing.T) {
	registry, err := newRegistry()
	assert.NoError(t, err)
	assert.Len(t, registry, len(endpointTable))

	for _, desc := range registry {
		assert.NotZero(t, desc.Timeout, "tool %q has no timeout after defaulting", desc.Tool)
	}

	// screener execution gets the long timeout, the rest of the screener
	// management surface keeps the default
	assert.Equal(t, screenerCallTimeout, registry["run_screener"].Timeout)
	assert.Equal(t, defaultCallTimeout, registry["list_screeners"].Timeout)
	assert.Equal(t, defaultCallTimeout, registry["get_company_details"].Timeout)
}

func TestCheckPathTemplate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name: "plain path",
			path: "/watchlist",
		},
		{
			name: "placeholder",
			path: "/watchlist/{watchlist_id}",
		},
		{
			name: "placeholder mid path",
			path: "/crm/orders/{order_id}/leads",
		},
		{
			name:    "missing leading slash",
			path:    "watchlist",
			wantErr: true,
		},
		{
			name:    "empty segment",
			path:    "/watchlist//entities",
			wantErr: true,
		},
		{
			name:    "empty placeholder",
			path:    "/watchlist/{}",
			wantErr: true,
		},
		{
			name:    "unbalanced brace",
			path:    "/watchlist/{watchlist_id",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPathTemplate(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}
