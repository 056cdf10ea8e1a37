// Package filter decides which clipped articles make it into the daily shortlist.
package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/unicode/norm"
)

// Policy lists keywords per category. Policy keywords override exclusion.
type Policy struct {
	Include []string
	Policy  []string
	Exclude []string
}

// Classification is the per-article keyword verdict.
type Classification struct {
	HasPolicy  bool
	HasInclude bool
	HasExclude bool
}

// Admissible applies the selection rule: a policy hit wins, otherwise an include hit
// without any exclude hit.
func (c Classification) Admissible() bool {
	if c.HasPolicy {
		return true
	}
	return c.HasInclude && !c.HasExclude
}

// Classifier holds compiled keyword sets. It is immutable once built and safe for
// concurrent use.
type Classifier struct {
	include keywordSet
	policy  keywordSet
	exclude keywordSet
}

// NewClassifier compiles a policy.
func NewClassifier(p Policy) *Classifier {
	return &Classifier{
		include: newKeywordSet(p.Include),
		policy:  newKeywordSet(p.Policy),
		exclude: newKeywordSet(p.Exclude),
	}
}

// Classify reports which keyword categories occur in text as whole words.
func (c *Classifier) Classify(text string) Classification {
	if c == nil {
		return Classification{}
	}
	normalized := normalize(text)
	return Classification{
		HasPolicy:  c.policy.matches(normalized),
		HasInclude: c.include.matches(normalized),
		HasExclude: c.exclude.matches(normalized),
	}
}

type keywordSet struct {
	keywords []string
	matcher  *ahocorasick.Matcher
}

func newKeywordSet(words []string) keywordSet {
	seen := make(map[string]struct{}, len(words))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		kw := normalize(strings.TrimSpace(w))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return keywordSet{}
	}
	return keywordSet{
		keywords: keywords,
		matcher:  ahocorasick.NewStringMatcher(keywords),
	}
}

// matches expects text already normalized. The automaton only yields candidates;
// each one is confirmed against word boundaries.
func (s keywordSet) matches(text string) bool {
	if s.matcher == nil || text == "" {
		return false
	}
	for _, idx := range s.matcher.MatchThreadSafe([]byte(text)) {
		if containsWord(text, s.keywords[idx]) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return norm.NFC.String(strings.ToLower(s))
}

// containsWord finds kw in text bounded on both sides the way a Unicode-aware \b does.
func containsWord(text, kw string) bool {
	if kw == "" {
		return false
	}
	offset := 0
	for offset < len(text) {
		i := strings.Index(text[offset:], kw)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(kw)
		if isBoundary(text, start) && isBoundary(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isBoundary(text string, pos int) bool {
	before, after := false, false
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:pos])
		before = isWordRune(r)
	}
	if pos < len(text) {
		r, _ := utf8.DecodeRuneInString(text[pos:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
