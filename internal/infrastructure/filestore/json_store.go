// Package filestore persists the hand-off artifacts between pipeline stages as
// indented JSON files.
package filestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"PharmaDigest/internal/domain"
	"PharmaDigest/internal/report"
)

// SaveArticles writes the clipped shortlist.
func SaveArticles(path string, articles []domain.Article) error {
	if articles == nil {
		articles = []domain.Article{}
	}
	return writeJSON(path, articles)
}

// LoadArticles reads a shortlist written by SaveArticles.
func LoadArticles(path string) ([]domain.Article, error) {
	var articles []domain.Article
	if err := readJSON(path, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// SaveDocument writes the report document.
func SaveDocument(path string, doc report.Document) error {
	return writeJSON(path, doc)
}

// LoadDocument reads a report document written by SaveDocument.
func LoadDocument(path string) (report.Document, error) {
	var doc report.Document
	if err := readJSON(path, &doc); err != nil {
		return report.Document{}, err
	}
	return doc, nil
}

// writeJSON replaces path atomically so a reader never sees a partial file.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
