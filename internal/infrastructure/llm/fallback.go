package llm

import (
	"context"
	"strings"

	"PharmaDigest/internal/ports"
)

const defaultFallbackLines = 3

// FallbackSummarizer returns the first lines of the body. It is used when no model
// credentials are configured and never fails.
type FallbackSummarizer struct {
	Lines int
}

var _ ports.Summarizer = FallbackSummarizer{}

// Summarize returns up to Lines non-blank lines of body, trimmed.
func (f FallbackSummarizer) Summarize(_ context.Context, _ string, body string) (string, error) {
	limit := f.Lines
	if limit <= 0 {
		limit = defaultFallbackLines
	}

	kept := make([]string, 0, limit)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
		if len(kept) == limit {
			break
		}
	}
	return strings.Join(kept, "\n"), nil
}
