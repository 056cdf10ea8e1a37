package ports

import (
	"context"
	"time"

	"PharmaDigest/internal/domain"
	"PharmaDigest/internal/report"
)

// ArticleSource lists candidate articles from upstream feeds. Bodies are not filled in.
type ArticleSource interface {
	FetchArticles(ctx context.Context) ([]domain.Article, error)
}

// BodyFetcher retrieves the title and full text of a single article.
type BodyFetcher interface {
	FetchBody(ctx context.Context, url string) (title, body string, err error)
}

// Summarizer turns an article into the free-text summary the formatter consumes.
type Summarizer interface {
	Summarize(ctx context.Context, title, body string) (string, error)
}

// Shortener shortens a link. It never fails; the original URL is returned instead.
type Shortener interface {
	Shorten(ctx context.Context, url string) string
}

// Notifier streams the rendered digest to Telegram or other chat channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// DocumentPublisher posts the structured report document as is (Slack blocks).
type DocumentPublisher interface {
	PublishDocument(ctx context.Context, doc report.Document) error
}

// ReportRepository archives delivered reports and the articles they carried.
type ReportRepository interface {
	AlreadyReported(ctx context.Context, urls []string) (map[string]bool, error)
	SaveReport(ctx context.Context, day time.Time, doc report.Document, articles []domain.ReportedArticle) error
}
