package usecase

import (
	"context"
	"errors"
	"fmt"

	"PharmaDigest/internal/domain"
	"PharmaDigest/internal/report"
	"PharmaDigest/internal/section"
)

// BuildReport summarizes the shortlist and assembles the report document. Articles that
// cannot be summarized are skipped; the document is padded to its fixed size.
func (p *Pipeline) BuildReport(ctx context.Context, articles []domain.Article) (report.Document, error) {
	if p.summarizer == nil {
		return report.Document{}, errors.New("report: summarizer is required")
	}

	day := p.now()
	sections := make([]string, 0, report.SectionCount)
	reported := make([]domain.ReportedArticle, 0, report.SectionCount)

	for i, article := range articles {
		if len(sections) == report.SectionCount {
			p.logger.Warn("shortlist longer than report, ignoring the rest", "dropped", len(articles)-i)
			break
		}
		if !article.Complete() {
			p.logger.Warn("article title or body empty, skipping", "position", i+1, "url", article.URL)
			continue
		}

		if err := p.pacer.Wait(ctx); err != nil {
			return report.Document{}, fmt.Errorf("pacing: %w", err)
		}

		p.logger.Info("summarizing article", "position", i+1, "total", len(articles), "url", article.URL)
		summary, err := p.summarizer.Summarize(ctx, article.Title, article.Body)
		if err != nil {
			p.logger.Warn("summarization failed, skipping", "url", article.URL, "error", err)
			continue
		}

		link := article.URL
		if p.shortener != nil {
			link = p.shortener.Shorten(ctx, article.URL)
		}

		sections = append(sections, section.Format(summary, link))
		reported = append(reported, domain.ReportedArticle{URL: article.URL, Title: article.Title, ReportDate: day})
	}

	doc := report.Assemble(sections, day, p.reportOpts)
	p.logger.Info("report assembled", "summarized", len(sections), "placeholders", report.SectionCount-len(sections))

	if p.repository != nil {
		archiveDay := day
		if p.reportOpts.Location != nil {
			archiveDay = day.In(p.reportOpts.Location)
		}
		if err := p.repository.SaveReport(ctx, archiveDay, doc, reported); err != nil {
			p.logger.Warn("report archive failed", "error", err)
		}
	}

	return doc, nil
}
