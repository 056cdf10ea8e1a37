package shortener

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"PharmaDigest/internal/config"
	"PharmaDigest/internal/ports"
)

// TinyURL shortens links through the authenticated API when a key is configured and
// through the public endpoint otherwise. Successful results are cached.
type TinyURL struct {
	endpoint       string
	publicEndpoint string
	apiKey         string
	client         *http.Client
	cache          *gocache.Cache
	logger         *slog.Logger
}

var _ ports.Shortener = (*TinyURL)(nil)

// NewTinyURL builds a shortener from configuration.
func NewTinyURL(cfg config.TinyURLConfig, logger *slog.Logger) *TinyURL {
	return &TinyURL{
		endpoint:       cfg.Endpoint,
		publicEndpoint: cfg.PublicEndpoint,
		apiKey:         cfg.APIKey,
		client:         &http.Client{Timeout: 10 * time.Second},
		cache:          gocache.New(24*time.Hour, time.Hour),
		logger:         logger,
	}
}

// Shorten returns a short link, or longURL itself when every attempt fails.
func (t *TinyURL) Shorten(ctx context.Context, longURL string) string {
	if cached, ok := t.cache.Get(longURL); ok {
		return cached.(string)
	}

	short, err := t.shorten(ctx, longURL)
	if err != nil {
		t.warn("url shortening failed", "url", longURL, "error", err)
		return longURL
	}

	t.cache.SetDefault(longURL, short)
	return short
}

func (t *TinyURL) shorten(ctx context.Context, longURL string) (string, error) {
	if t.apiKey != "" && t.endpoint != "" {
		short, err := t.createAuthenticated(ctx, longURL)
		if err == nil {
			return short, nil
		}
		t.warn("tinyurl api failed, trying public endpoint", "error", err)
	}
	if t.publicEndpoint == "" {
		return "", fmt.Errorf("no public endpoint configured")
	}
	return t.createPublic(ctx, longURL)
}

func (t *TinyURL) createAuthenticated(ctx context.Context, longURL string) (string, error) {
	payload, err := json.Marshal(map[string]string{"url": longURL})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("tinyurl error: %s", resp.Status)
	}

	var decoded struct {
		Data struct {
			TinyURL string `json:"tiny_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Data.TinyURL == "" {
		return "", fmt.Errorf("tinyurl response without tiny_url")
	}
	return decoded.Data.TinyURL, nil
}

func (t *TinyURL) createPublic(ctx context.Context, longURL string) (string, error) {
	endpoint := t.publicEndpoint + "?url=" + url.QueryEscape(longURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tinyurl public endpoint: %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	short := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(short, "http") {
		return "", fmt.Errorf("unexpected public response %q", short)
	}
	return short, nil
}

func (t *TinyURL) warn(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}
