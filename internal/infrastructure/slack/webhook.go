package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PharmaDigest/internal/ports"
	"PharmaDigest/internal/report"
)

// Webhook posts report documents to a Slack incoming webhook.
type Webhook struct {
	url    string
	client *http.Client
}

var _ ports.DocumentPublisher = (*Webhook)(nil)

// NewWebhook wires the webhook URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

// PublishDocument sends the document blocks with a plain-text fallback built from the
// header.
func (w *Webhook) PublishDocument(ctx context.Context, doc report.Document) error {
	if w.url == "" {
		return fmt.Errorf("slack webhook misconfigured")
	}

	header, _ := doc.Header()
	body, err := json.Marshal(struct {
		Text   string         `json:"text"`
		Blocks []report.Block `json:"blocks"`
	}{Text: header, Blocks: doc.Blocks})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}
