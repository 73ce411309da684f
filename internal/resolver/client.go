package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRequestTimeout bounds a single metadata lookup. The resolver has
// no timeout of its own; this is the transport-level bound.
const DefaultRequestTimeout = 10 * time.Second

// metadataResponse is the wire shape returned by the internal metadata
// endpoint. The endpoint is untrusted: any field may be missing.
type metadataResponse struct {
	LogoURL    string   `json:"logo_url"`
	Alternates []string `json:"alternates"`
}

// Client resolves a single symbol against the internal metadata endpoint.
//
// Fetch never returns an error: transport failures, non-2xx statuses and
// malformed payloads are all absorbed into a degraded Record carrying only
// the deterministic fallback URL. Retry happens naturally because degraded
// records expire on the short TTL. The client performs no retries itself.
type Client struct {
	httpClient       *http.Client
	endpoint         string
	fallbackTemplate string
	log              zerolog.Logger
}

// NewClient creates a Client for the given metadata endpoint and
// deterministic fallback URL template. A nil httpClient gets a default
// with DefaultRequestTimeout.
func NewClient(endpoint, fallbackTemplate string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	return &Client{
		httpClient:       httpClient,
		endpoint:         strings.TrimRight(endpoint, "/"),
		fallbackTemplate: fallbackTemplate,
		log:              log,
	}
}

// Fetch issues one GET for key and normalizes the response into a Record.
// key must already be normalized. The returned Record is always complete
// and immediately usable.
func (c *Client) Fetch(ctx context.Context, key string) Record {
	deterministic := FallbackURL(c.fallbackTemplate, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+url.PathEscape(key), nil)
	if err != nil {
		return c.degraded(key, deterministic, "building request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.degraded(key, deterministic, "metadata request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Debug().
			Str("component", "resolver").
			Str("symbol", key).
			Int("status", resp.StatusCode).
			Msg("metadata endpoint returned non-2xx")
		return c.degraded(key, deterministic, "", nil)
	}

	var meta metadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return c.degraded(key, deterministic, "decoding metadata payload", err)
	}

	fallbacks := make([]string, 0, len(meta.Alternates)+1)
	seen := false
	for _, alt := range meta.Alternates {
		if alt == "" {
			continue
		}
		if alt == deterministic {
			seen = true
		}
		fallbacks = append(fallbacks, alt)
	}
	if !seen {
		fallbacks = append(fallbacks, deterministic)
	}

	return Record{
		Symbol:     key,
		Primary:    meta.LogoURL,
		Fallbacks:  fallbacks,
		RecordedAt: time.Now(),
	}
}

// degraded builds the record written after a failed lookup: no primary,
// only the deterministic fallback, short TTL class.
func (c *Client) degraded(key, deterministic, msg string, err error) Record {
	if msg != "" {
		c.log.Debug().
			Str("component", "resolver").
			Str("symbol", key).
			Err(err).
			Msg(msg)
	}
	return Record{
		Symbol:     key,
		Fallbacks:  []string{deterministic},
		RecordedAt: time.Now(),
		Degraded:   true,
	}
}
