package usecase

import (
	"context"
	"errors"
	"fmt"

	"PharmaDigest/internal/report"
)

// Send re-parses the document into a chat message and delivers it. The optional
// document publisher receives the document itself; its failure is only logged.
func (p *Pipeline) Send(ctx context.Context, doc report.Document) error {
	if p.notifier == nil {
		return errors.New("send: notifier is required")
	}

	digest := report.Reparse(doc)
	parsed := 0
	for _, entry := range digest.Entries {
		if entry.Parsed {
			parsed++
			continue
		}
		p.logger.Debug("section kept verbatim", "text", entry.Raw)
	}
	p.logger.Info("report re-parsed", "sections", len(digest.Entries), "structured", parsed, "verbatim", len(digest.Entries)-parsed)

	if p.publisher != nil {
		if err := p.publisher.PublishDocument(ctx, doc); err != nil {
			p.logger.Warn("document publish failed", "error", err)
		}
	}

	if err := p.notifier.PublishDigest(ctx, digest.Message()); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}
	p.logger.Info("digest delivered")
	return nil
}
