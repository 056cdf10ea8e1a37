package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PharmaDigest/internal/config"
)

func TestFetchBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))

		var req scrapeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://www.biospace.com/a1", req.URL)
		assert.Equal(t, []string{"markdown"}, req.Formats)

		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"  # Lilly\n\nBody text  ","metadata":{"title":" Lilly raises funds "}}}`))
	}))
	defer server.Close()

	c := NewClient(config.FirecrawlConfig{Endpoint: server.URL + "/v1/", APIKey: "fc-key"})
	title, body, err := c.FetchBody(context.Background(), "https://www.biospace.com/a1")

	require.NoError(t, err)
	assert.Equal(t, "Lilly raises funds", title)
	assert.Equal(t, "# Lilly\n\nBody text", body)
}

func TestFetchBodyErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":"credits exhausted"}`))
	}))
	defer server.Close()

	c := NewClient(config.FirecrawlConfig{Endpoint: server.URL})
	_, _, err := c.FetchBody(context.Background(), "https://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credits exhausted")
}

func TestFetchBodyReportedFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"blocked by robots"}`))
	}))
	defer server.Close()

	c := NewClient(config.FirecrawlConfig{Endpoint: server.URL})
	_, _, err := c.FetchBody(context.Background(), "https://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked by robots")
}
