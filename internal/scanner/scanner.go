// Package scanner resolves the listing strategy configured for each news source.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"PharmaDigest/internal/domain"
)

// ErrUnknownScanner is returned when a source names a strategy nobody registered.
var ErrUnknownScanner = errors.New("unknown scanner")

// Request describes one source listing: where to read it and how many items to keep.
type Request struct {
	SiteName string
	URL      string
	Limit    int
	Options  map[string]string
}

// Scanner lists candidate articles (URL and feed title) for one source.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry maps strategy names, as written in the sources config, to scanners.
type Registry struct {
	scanners map[string]Scanner
}

func NewRegistry(scanners ...Scanner) *Registry {
	r := &Registry{scanners: make(map[string]Scanner, len(scanners))}
	for _, s := range scanners {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a scanner. Nil scanners are ignored.
func (r *Registry) Register(s Scanner) {
	if s == nil {
		return
	}
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[s.Name()] = s
}

// Resolve returns the scanner registered under name.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if s, ok := r.scanners[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w %q (registered: %v)", ErrUnknownScanner, name, r.Names())
}

// Names lists registered strategies in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
