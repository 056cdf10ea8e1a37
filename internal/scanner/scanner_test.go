package scanner

import (
	"context"
	"errors"
	"testing"

	"PharmaDigest/internal/domain"
)

type namedScanner string

func (n namedScanner) Name() string { return string(n) }

func (n namedScanner) Scan(context.Context, Request) ([]domain.Article, error) {
	return []domain.Article{{URL: "https://example.com/" + string(n)}}, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(namedScanner("rss"), nil, namedScanner("atom"))

	s, err := reg.Resolve("rss")
	if err != nil {
		t.Fatalf("resolve rss: %v", err)
	}
	if s.Name() != "rss" {
		t.Fatalf("unexpected scanner %q", s.Name())
	}

	if got := reg.Names(); len(got) != 2 || got[0] != "atom" || got[1] != "rss" {
		t.Fatalf("unexpected names %v", got)
	}

	_, err = reg.Resolve("sitemap")
	if !errors.Is(err, ErrUnknownScanner) {
		t.Fatalf("expected ErrUnknownScanner, got %v", err)
	}
}

func TestZeroRegistryRegister(t *testing.T) {
	t.Parallel()

	var reg Registry
	reg.Register(namedScanner("rss"))
	if _, err := reg.Resolve("rss"); err != nil {
		t.Fatalf("resolve after register on zero value: %v", err)
	}
}
