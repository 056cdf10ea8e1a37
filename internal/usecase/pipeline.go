package usecase

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"PharmaDigest/internal/filter"
	"PharmaDigest/internal/ports"
	"PharmaDigest/internal/report"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Fetcher    ports.BodyFetcher
	Summarizer ports.Summarizer
	Shortener  ports.Shortener
	Notifier   ports.Notifier
	Publisher  ports.DocumentPublisher
	Repository ports.ReportRepository

	Classifier   *filter.Classifier
	Limit        int
	SkipReported bool
	Report       report.Options
	Pacing       time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// Pipeline implements the clip → report → send workflow. Every stage runs
// sequentially; one article finishes its external round-trips before the next starts.
type Pipeline struct {
	source     ports.ArticleSource
	fetcher    ports.BodyFetcher
	summarizer ports.Summarizer
	shortener  ports.Shortener
	notifier   ports.Notifier
	publisher  ports.DocumentPublisher
	repository ports.ReportRepository

	classifier   *filter.Classifier
	limit        int
	skipReported bool
	reportOpts   report.Options
	pacer        *rate.Limiter

	logger *slog.Logger
	now    func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	limit := deps.Limit
	if limit <= 0 {
		limit = filter.DefaultLimit
	}

	pacer := rate.NewLimiter(rate.Inf, 1)
	if deps.Pacing > 0 {
		pacer = rate.NewLimiter(rate.Every(deps.Pacing), 1)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Pipeline{
		source:       deps.Source,
		fetcher:      deps.Fetcher,
		summarizer:   deps.Summarizer,
		shortener:    deps.Shortener,
		notifier:     deps.Notifier,
		publisher:    deps.Publisher,
		repository:   deps.Repository,
		classifier:   deps.Classifier,
		limit:        limit,
		skipReported: deps.SkipReported,
		reportOpts:   deps.Report,
		pacer:        pacer,
		logger:       logger,
		now:          now,
	}
}
