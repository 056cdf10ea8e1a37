package report

import (
	"strings"

	"PharmaDigest/internal/section"
)

// MessageBullet replaces the summarizer's bullet glyph in chat messages.
const MessageBullet = "-"

// Entry is one section recovered from a document. When Parsed is false the section did
// not follow the grammar and Raw is delivered as is.
type Entry struct {
	Section section.Parsed
	Raw     string
	Parsed  bool
}

// Digest is the re-parsed form of a document.
type Digest struct {
	Header  string
	Entries []Entry
}

// Reparse recovers structure from a document. Only the first header is used and only
// the first SectionCount sections are considered. No section is ever dropped.
func Reparse(doc Document) Digest {
	var digest Digest
	if header, ok := doc.Header(); ok {
		digest.Header = header
	}

	sections := doc.Sections()
	if len(sections) > SectionCount {
		sections = sections[:SectionCount]
	}

	digest.Entries = make([]Entry, 0, len(sections))
	for _, text := range sections {
		parsed, ok := section.Parse(text)
		digest.Entries = append(digest.Entries, Entry{Section: parsed, Raw: text, Parsed: ok})
	}
	return digest
}

// Message renders the digest as a chat message with one blank line between sections.
func (d Digest) Message() string {
	var lines []string

	if d.Header != "" {
		lines = append(lines, headerLine(d.Header), "")
	}

	for _, entry := range d.Entries {
		if !entry.Parsed {
			lines = append(lines, entry.Raw, "")
			continue
		}
		s := entry.Section
		lines = append(lines, section.SubjectMarker+" "+s.Subject+" ("+s.Hashtags+")")
		for _, bullet := range s.Bullets {
			if section.IsURL(bullet) {
				lines = append(lines, bullet)
				continue
			}
			lines = append(lines, MessageBullet+" "+bullet)
		}
		if s.Link != "" {
			lines = append(lines, s.Link)
		}
		lines = append(lines, "")
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// headerLine shortens a dated header to "<title MM/DD>".
func headerLine(header string) string {
	if title, day, ok := section.ParseHeader(header); ok {
		return "<" + title + " " + day.Format("01/02") + ">"
	}
	return "<" + header + ">"
}
