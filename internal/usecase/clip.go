package usecase

import (
	"context"
	"errors"
	"fmt"

	"PharmaDigest/internal/domain"
	"PharmaDigest/internal/filter"
)

// Clip lists candidates, fetches each body and returns the shortlist. A failed fetch
// only drops that article; a failed listing aborts the stage.
func (p *Pipeline) Clip(ctx context.Context) ([]domain.Article, error) {
	if p.source == nil || p.fetcher == nil {
		return nil, errors.New("clip: article source and body fetcher are required")
	}

	candidates, err := p.source.FetchArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	p.logger.Info("candidate articles listed", "count", len(candidates))

	candidates = p.dropReported(ctx, candidates)

	articles := make([]domain.Article, 0, len(candidates))
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.logger.Info("fetching article", "position", i+1, "total", len(candidates), "url", candidate.URL)
		title, body, err := p.fetcher.FetchBody(ctx, candidate.URL)
		if err != nil {
			p.logger.Warn("article fetch failed, skipping", "url", candidate.URL, "error", err)
			continue
		}
		if title == "" {
			title = candidate.Title
		}

		article := domain.Article{URL: candidate.URL, Title: title, Body: body}
		if !article.Complete() {
			p.logger.Warn("article title or body empty, skipping", "url", candidate.URL)
			continue
		}
		articles = append(articles, article)
	}

	shortlist := filter.Select(articles, p.classifier, p.limit)
	p.logger.Info("shortlist selected", "fetched", len(articles), "selected", len(shortlist))
	for _, a := range shortlist {
		verdict := p.classifier.Classify(a.Title + " " + a.Body)
		p.logger.Debug("shortlisted",
			"url", a.URL,
			"policy", verdict.HasPolicy,
			"include", verdict.HasInclude,
			"exclude", verdict.HasExclude,
			"backfill", !verdict.Admissible())
	}

	return shortlist, nil
}

func (p *Pipeline) dropReported(ctx context.Context, candidates []domain.Article) []domain.Article {
	if !p.skipReported || p.repository == nil || len(candidates) == 0 {
		return candidates
	}

	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.URL
	}

	reported, err := p.repository.AlreadyReported(ctx, urls)
	if err != nil {
		p.logger.Warn("report archive lookup failed, keeping all candidates", "error", err)
		return candidates
	}

	fresh := make([]domain.Article, 0, len(candidates))
	for _, c := range candidates {
		if reported[c.URL] {
			p.logger.Debug("already reported, skipping", "url", c.URL)
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh
}
