package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"PharmaDigest/internal/domain"
	"PharmaDigest/internal/ports"
	"PharmaDigest/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_reports (
    report_date DATE NOT NULL,
    channel     TEXT NOT NULL,
    document    JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (report_date, channel)
);
CREATE TABLE IF NOT EXISTS reported_articles (
    url         TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    report_date DATE NOT NULL
);`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository archives delivered reports into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ReportRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the archive tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// AlreadyReported returns the subset of urls that earlier reports already carried.
func (r *PostgresRepository) AlreadyReported(ctx context.Context, urls []string) (map[string]bool, error) {
	if r.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := psql.Select("url").
		From("reported_articles").
		Where(sq.Expr("url = ANY(?)", pq.StringArray(urls))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reported: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveReport upserts the day's document and records its articles in one transaction.
func (r *PostgresRepository) SaveReport(ctx context.Context, day time.Time, doc report.Document, articles []domain.ReportedArticle) (err error) {
	if r.db == nil {
		return nil
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	reportDate := day.Format("2006-01-02")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query, args, err := psql.Insert("daily_reports").
		Columns("report_date", "channel", "document").
		Values(reportDate, doc.Channel, string(payload)).
		Suffix("ON CONFLICT (report_date, channel) DO UPDATE SET document = EXCLUDED.document, created_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build report upsert: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}

	if len(articles) > 0 {
		insert := psql.Insert("reported_articles").Columns("url", "title", "report_date")
		for _, a := range articles {
			insert = insert.Values(a.URL, a.Title, reportDate)
		}
		query, args, err = insert.Suffix("ON CONFLICT (url) DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("build article insert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert articles: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
