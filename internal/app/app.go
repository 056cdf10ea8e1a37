package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"PharmaDigest/internal/config"
	"PharmaDigest/internal/filter"
	"PharmaDigest/internal/infrastructure/feed"
	"PharmaDigest/internal/infrastructure/filestore"
	"PharmaDigest/internal/infrastructure/firecrawl"
	"PharmaDigest/internal/infrastructure/llm"
	"PharmaDigest/internal/infrastructure/shortener"
	"PharmaDigest/internal/infrastructure/slack"
	"PharmaDigest/internal/infrastructure/storage"
	"PharmaDigest/internal/infrastructure/telegram"
	"PharmaDigest/internal/infrastructure/web"
	"PharmaDigest/internal/logging"
	"PharmaDigest/internal/ports"
	"PharmaDigest/internal/report"
	"PharmaDigest/internal/scanner"
	"PharmaDigest/internal/usecase"
)

// Application wires configs to use cases and runs the clip, report and send stages.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	db       *sql.DB
	logger   *slog.Logger
}

// New builds the application. Missing credentials degrade the matching adapter with a
// warning; only an unreachable archive database is an error.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry(feed.NewRSSScanner(nil))
	source := feed.NewStrategySource(registry, cfg.Sources, baseLogger.With("component", "source"))

	var fetcher ports.BodyFetcher
	if cfg.Firecrawl.APIKey != "" {
		fetcher = firecrawl.NewClient(cfg.Firecrawl)
	} else {
		baseLogger.Warn("FIRECRAWL_API_KEY not set, extracting article text locally")
		fetcher = web.NewReadabilityFetcher(nil)
	}

	var summarizer ports.Summarizer
	if s, err := llm.NewOpenAISummarizer(cfg.OpenAI); err != nil {
		baseLogger.Warn("OpenAI summarizer unavailable, using leading body lines", "error", err)
		summarizer = llm.FallbackSummarizer{}
	} else {
		summarizer = s
	}

	if cfg.TinyURL.APIKey == "" {
		baseLogger.Warn("TINYURL_API_KEY not set, using the public shortening endpoint")
	}
	short := shortener.NewTinyURL(cfg.TinyURL, baseLogger.With("component", "shortener"))

	var notifier ports.Notifier
	if cfg.RequireTelegram() == nil {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram)
	}

	var publisher ports.DocumentPublisher
	if cfg.Notifications.Slack.WebhookURL != "" {
		publisher = slack.NewWebhook(cfg.Notifications.Slack.WebhookURL)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	var repository ports.ReportRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open archive database: %w", err)
		}
		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare archive schema: %w", err)
		}
		a.db = db
		repository = repo
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Fetcher:    fetcher,
		Summarizer: summarizer,
		Shortener:  short,
		Notifier:   notifier,
		Publisher:  publisher,
		Repository: repository,
		Classifier: filter.NewClassifier(filter.Policy{
			Include: cfg.Keywords.Include,
			Policy:  cfg.Keywords.Policy,
			Exclude: cfg.Keywords.Exclude,
		}),
		Limit:        cfg.Report.Limit,
		SkipReported: cfg.Database.SkipReported,
		Report: report.Options{
			Title:    cfg.Report.Title,
			Subtitle: cfg.Report.Subtitle,
			Channel:  cfg.Report.Channel,
			Location: cfg.Report.Location(),
		},
		Pacing: cfg.OpenAI.Pacing(),
		Logger: baseLogger.With("component", "pipeline"),
	})

	return a, nil
}

// Close releases the archive connection, if any.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// RunClip lists, fetches and filters articles, then writes the clipped-news file.
func (a *Application) RunClip(ctx context.Context) error {
	articles, err := a.pipeline.Clip(ctx)
	if err != nil {
		return err
	}

	path := a.cfg.Files.ClippedNewsPath()
	if err := filestore.SaveArticles(path, articles); err != nil {
		return err
	}
	a.logger.Info("clipped news saved", "path", path, "count", len(articles))
	return nil
}

// RunReport reads the clipped-news file and writes the report document.
func (a *Application) RunReport(ctx context.Context) error {
	articles, err := filestore.LoadArticles(a.cfg.Files.ClippedNewsPath())
	if err != nil {
		return err
	}

	doc, err := a.pipeline.BuildReport(ctx, articles)
	if err != nil {
		return err
	}

	path := a.cfg.Files.DailyReportPath()
	if err := filestore.SaveDocument(path, doc); err != nil {
		return err
	}
	a.logger.Info("daily report saved", "path", path)
	return nil
}

// RunSend reads the report document and delivers it.
func (a *Application) RunSend(ctx context.Context) error {
	if err := a.cfg.RequireTelegram(); err != nil {
		return err
	}

	doc, err := filestore.LoadDocument(a.cfg.Files.DailyReportPath())
	if err != nil {
		return err
	}
	return a.pipeline.Send(ctx, doc)
}

// Run chains all three stages. Delivery configuration is checked before any work.
func (a *Application) Run(ctx context.Context) error {
	if err := a.cfg.RequireTelegram(); err != nil {
		return err
	}

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"clip", a.RunClip},
		{"report", a.RunReport},
		{"send", a.RunSend},
	}
	for _, stage := range stages {
		a.logger.Info("stage started", "stage", stage.name)
		if err := stage.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", stage.name, err)
		}
	}
	return nil
}
