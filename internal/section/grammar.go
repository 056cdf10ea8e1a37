// Package section owns the textual contract shared by the report producer and the
// downstream re-parser. Format and Parse are kept side by side so that a change to one
// is visible next to the other.
//
// A formatted section looks like:
//
//	▷ Subject (#tag1 #tag2)
//	• first bullet
//	• second bullet
//	https://tinyurl.com/abc
//
// The subject marker and *emphasis* around the subject are optional. The hashtag group
// on the first line is required for a section to be recognized.
package section

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// Placeholder stands in for a missing or empty summary.
	Placeholder = "(뉴스 없음)"
	// SubjectMarker prefixes the subject line in rendered messages.
	SubjectMarker = "▷"
	// SourceBullet is the glyph the summarizer uses for bullets.
	SourceBullet = "•"
	// HeaderDateLayout is the localized date stamp of a report header.
	HeaderDateLayout = "2006년 01월 02일"
)

var (
	subjectExpr = regexp.MustCompile(`^(?:` + SubjectMarker + `\s*)?(?:\*(.+?)\*|(.+?))\s*\((#[^)]*)\)\s*$`)
	urlExpr     = regexp.MustCompile(`^https?://\S+$`)
	headerExpr  = regexp.MustCompile(`^(.+) (\d{4})년 (\d{2})월 (\d{2})일$`)
	bulletGlyph = []string{SourceBullet, "·", "-"}
)

// Parsed is a section recovered from its text form.
type Parsed struct {
	Subject  string
	Hashtags string
	Bullets  []string
	Link     string
}

// Format turns a free-text summary and a short link into a section. The trailing
// hashtag line is folded into the subject line; an existing parenthetical group on the
// subject line absorbs the hashtags instead of a second group being added.
func Format(summary, shortURL string) string {
	lines := splitLines(summary)
	if len(lines) == 0 {
		return Placeholder
	}

	if len(lines) > 1 && strings.HasPrefix(lines[len(lines)-1], "#") {
		hashtags := lines[len(lines)-1]
		lines = lines[:len(lines)-1]
		lines[0] = attachHashtags(lines[0], hashtags)
	}

	if link := strings.TrimSpace(shortURL); link != "" {
		lines = append(lines, link)
	}

	return strings.Join(lines, "\n")
}

func attachHashtags(subject, hashtags string) string {
	if strings.Contains(subject, "(") && strings.HasSuffix(subject, ")") {
		return strings.TrimSuffix(subject, ")") + " " + hashtags + ")"
	}
	return subject + " (" + hashtags + ")"
}

// Parse recovers the fields of a formatted section. ok is false when the text does not
// follow the grammar; callers must then fall back to the raw text.
func Parse(text string) (Parsed, bool) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return Parsed{}, false
	}

	m := subjectExpr.FindStringSubmatch(lines[0])
	if m == nil {
		return Parsed{}, false
	}

	subject := m[1]
	if subject == "" {
		subject = m[2]
	}
	p := Parsed{
		Subject:  strings.TrimSpace(subject),
		Hashtags: strings.TrimSpace(m[3]),
	}
	if p.Subject == "" {
		return Parsed{}, false
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case urlExpr.MatchString(line):
			if p.Link != "" {
				p.Bullets = append(p.Bullets, p.Link)
			}
			p.Link = line
		default:
			p.Bullets = append(p.Bullets, stripBullet(line))
		}
	}

	return p, true
}

// String renders the section back into its canonical text form.
func (p Parsed) String() string {
	var b strings.Builder
	b.WriteString(p.Subject)
	if p.Hashtags != "" {
		fmt.Fprintf(&b, " (%s)", p.Hashtags)
	}
	for _, bullet := range p.Bullets {
		b.WriteString("\n" + SourceBullet + " " + bullet)
	}
	if p.Link != "" {
		b.WriteString("\n" + p.Link)
	}
	return b.String()
}

// IsURL reports whether a whole line is a bare link.
func IsURL(line string) bool {
	return urlExpr.MatchString(strings.TrimSpace(line))
}

// FormatHeader builds the dated report title.
func FormatHeader(title string, day time.Time) string {
	return strings.TrimSpace(title) + " " + day.Format(HeaderDateLayout)
}

// ParseHeader splits a dated report title produced by FormatHeader.
func ParseHeader(text string) (string, time.Time, bool) {
	m := headerExpr.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", time.Time{}, false
	}
	year, _ := strconv.Atoi(m[2])
	month, _ := strconv.Atoi(m[3])
	day, _ := strconv.Atoi(m[4])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", time.Time{}, false
	}
	return m[1], time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func stripBullet(line string) string {
	for _, glyph := range bulletGlyph {
		if strings.HasPrefix(line, glyph) {
			return strings.TrimSpace(strings.TrimPrefix(line, glyph))
		}
	}
	return line
}

func splitLines(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return lines
}
