package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"PharmaDigest/internal/domain"
	"PharmaDigest/internal/report"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestRepository_AlreadyReported(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT url FROM reported_articles WHERE url = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"url"}).AddRow("https://a"))

	got, err := repo.AlreadyReported(context.Background(), []string{"https://a", "https://b"})
	if err != nil {
		t.Fatalf("AlreadyReported() error = %v", err)
	}
	if !got["https://a"] || got["https://b"] {
		t.Fatalf("unexpected result %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRepository_AlreadyReportedEmptyInput(t *testing.T) {
	repo, mock := newMock(t)

	got, err := repo.AlreadyReported(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected queries: %v", err)
	}
}

func TestRepository_SaveReport(t *testing.T) {
	repo, mock := newMock(t)

	day := time.Date(2025, time.May, 11, 9, 0, 0, 0, time.UTC)
	doc := report.Assemble(nil, day, report.Options{Title: "T", Channel: "research"})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO daily_reports (report_date,channel,document) VALUES ($1,$2,$3) ON CONFLICT")).
		WithArgs("2025-05-11", "research", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reported_articles (url,title,report_date) VALUES ($1,$2,$3),($4,$5,$6) ON CONFLICT (url) DO NOTHING")).
		WithArgs("https://a", "A", "2025-05-11", "https://b", "B", "2025-05-11").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.SaveReport(context.Background(), day, doc, []domain.ReportedArticle{
		{URL: "https://a", Title: "A"},
		{URL: "https://b", Title: "B"},
	})
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRepository_SaveReportRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO daily_reports").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.SaveReport(context.Background(), time.Now(), report.Document{Channel: "research"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS daily_reports").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRepository_NilDB(t *testing.T) {
	t.Parallel()

	repo := NewPostgresRepository(nil)
	if err := repo.SaveReport(context.Background(), time.Now(), report.Document{}, nil); err != nil {
		t.Fatalf("nil db should be a no-op: %v", err)
	}
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("nil db should be a no-op: %v", err)
	}
}
