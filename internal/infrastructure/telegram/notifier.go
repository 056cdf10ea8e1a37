package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"PharmaDigest/internal/config"
	"PharmaDigest/internal/ports"
)

// maxMessageRunes is the Bot API limit for a single sendMessage text.
const maxMessageRunes = 4096

// Notifier sends digests to a Telegram chat via bot API.
type Notifier struct {
	baseURL   string
	botToken  string
	chatID    string
	parseMode string
	client    *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(cfg config.TelegramConfig) *Notifier {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &Notifier{
		baseURL:   baseURL,
		botToken:  cfg.BotToken,
		chatID:    cfg.ChatID,
		parseMode: cfg.ParseMode,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// PublishDigest posts the digest, split at section boundaries when it exceeds the
// message size limit.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	for i, part := range splitMessage(digest, maxMessageRunes) {
		if err := n.send(ctx, part); err != nil {
			return fmt.Errorf("send part %d: %w", i+1, err)
		}
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("disable_web_page_preview", "true")
	if n.parseMode != "" {
		form.Set("parse_mode", n.parseMode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}

// splitMessage packs blank-line separated blocks into parts of at most limit runes.
// A single block longer than limit is cut by runes.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		parts   []string
		current string
	)
	flush := func() {
		if current != "" {
			parts = append(parts, current)
			current = ""
		}
	}

	for _, block := range strings.Split(text, "\n\n") {
		candidate := block
		if current != "" {
			candidate = current + "\n\n" + block
		}
		if utf8.RuneCountInString(candidate) <= limit {
			current = candidate
			continue
		}
		flush()
		for utf8.RuneCountInString(block) > limit {
			runes := []rune(block)
			parts = append(parts, string(runes[:limit]))
			block = string(runes[limit:])
		}
		current = block
	}
	flush()

	return parts
}
