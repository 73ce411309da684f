package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = "https://provider/US/{symbol}.png"

func newTestClient(endpoint string) *Client {
	return NewClient(endpoint, testTemplate, nil, zerolog.Nop())
}

func TestClientFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/NVDA", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"logo_url":"https://cdn/nvda.png","alternates":["https://alt/nvda.png"]}`))
	}))
	defer srv.Close()

	rec := newTestClient(srv.URL).Fetch(context.Background(), "NVDA")

	assert.Equal(t, "NVDA", rec.Symbol)
	assert.Equal(t, "https://cdn/nvda.png", rec.Primary)
	assert.Equal(t, []string{"https://alt/nvda.png", "https://provider/US/NVDA.png"}, rec.Fallbacks)
	assert.False(t, rec.Degraded)
	assert.False(t, rec.RecordedAt.IsZero())
}

func TestClientFetchNoAlternates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"logo_url":"https://cdn/nvda.png","alternates":[]}`))
	}))
	defer srv.Close()

	rec := newTestClient(srv.URL).Fetch(context.Background(), "NVDA")

	require.Len(t, rec.Fallbacks, 1)
	assert.Equal(t, "https://provider/US/NVDA.png", rec.Fallbacks[0],
		"deterministic fallback must always be appended")
}

func TestClientFetchDeterministicNotDuplicated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"alternates":["https://provider/US/NVDA.png"]}`))
	}))
	defer srv.Close()

	rec := newTestClient(srv.URL).Fetch(context.Background(), "NVDA")

	assert.Equal(t, []string{"https://provider/US/NVDA.png"}, rec.Fallbacks)
	assert.Empty(t, rec.Primary)
	assert.False(t, rec.Degraded, "a well-formed response without a logo is still a successful lookup")
}

func TestClientFetchDegraded(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"logo_url": not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			rec := newTestClient(srv.URL).Fetch(context.Background(), "TSLA")

			assert.True(t, rec.Degraded)
			assert.Empty(t, rec.Primary)
			assert.Equal(t, []string{"https://provider/US/TSLA.png"}, rec.Fallbacks,
				"degraded record carries only the deterministic fallback")
		})
	}
}

func TestClientFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	rec := newTestClient(srv.URL).Fetch(context.Background(), "AMD")

	assert.True(t, rec.Degraded)
	assert.Equal(t, []string{"https://provider/US/AMD.png"}, rec.Fallbacks)
}
