package feed

import (
	"context"
	"fmt"
	"log/slog"

	"PharmaDigest/internal/config"
	"PharmaDigest/internal/domain"
	"PharmaDigest/internal/ports"
	"PharmaDigest/internal/scanner"
)

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// FetchArticles runs every configured source in order and concatenates the results,
// dropping links already listed by an earlier source.
func (s *StrategySource) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch articles", "sources", len(s.sources))

	var aggregated []domain.Article
	seen := map[string]struct{}{}
	for _, src := range s.sources {
		s.debug("process source", "source", src.Name, "scanner", src.Scanner, "url", src.URL)
		strategy, err := s.registry.Resolve(src.Scanner)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		results, err := strategy.Scan(ctx, scanner.Request{
			SiteName: src.Name,
			URL:      src.URL,
			Limit:    src.Limit,
			Options:  src.Options,
		})
		if err != nil {
			return nil, fmt.Errorf("scan source %s: %w", src.Name, err)
		}

		for _, article := range results {
			if _, ok := seen[article.Key()]; ok {
				continue
			}
			seen[article.Key()] = struct{}{}
			aggregated = append(aggregated, article)
		}
		s.debug("source produced articles", "source", src.Name, "count", len(results))
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
