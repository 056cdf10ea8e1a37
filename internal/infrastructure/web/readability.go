// Package web extracts article text straight from the publisher page. It is used when
// no scraping API key is configured.
package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"PharmaDigest/internal/ports"
)

const (
	maxPageBytes = 5 << 20
	userAgent    = "PharmaDigest/1.0"
)

// ReadabilityFetcher downloads a page and extracts its main text.
type ReadabilityFetcher struct {
	client *http.Client
}

var _ ports.BodyFetcher = (*ReadabilityFetcher)(nil)

// NewReadabilityFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewReadabilityFetcher(client *http.Client) *ReadabilityFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ReadabilityFetcher{client: client}
}

// FetchBody returns the page title and readable text, one paragraph per line.
func (f *ReadabilityFetcher) FetchBody(ctx context.Context, pageURL string) (string, string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid url %s: %w", pageURL, err)
	}

	raw, err := f.download(ctx, pageURL)
	if err != nil {
		return "", "", err
	}

	article, err := readability.FromReader(bytes.NewReader(raw), parsedURL)
	if err != nil {
		return "", "", fmt.Errorf("extract article: %w", err)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = metaTitle(raw)
	}

	return title, compactLines(article.TextContent), nil
}

func (f *ReadabilityFetcher) download(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return raw, nil
}

// metaTitle falls back to og:title, then <title>.
func metaTitle(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func compactLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
