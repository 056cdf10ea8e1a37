// Package report assembles formatted sections into the daily report document and turns
// that document back into a chat message for the second delivery channel.
package report

import (
	"strings"
	"time"

	"PharmaDigest/internal/section"
)

// SectionCount is the fixed number of sections every report carries.
const SectionCount = 5

// Block types used in a Document.
const (
	BlockHeader  = "header"
	BlockSection = "section"
	BlockDivider = "divider"
)

// Text object types.
const (
	TextPlain    = "plain_text"
	TextMarkdown = "mrkdwn"
)

// TextObject is the text payload of a block.
type TextObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Block is a single layout element of the document.
type Block struct {
	Type string      `json:"type"`
	Text *TextObject `json:"text,omitempty"`
}

// Document is the persisted hand-off between the report builder and the message
// delivery stage. Field names are stable.
type Document struct {
	Channel string  `json:"channel"`
	Blocks  []Block `json:"blocks"`
}

// Options controls the header of an assembled document.
type Options struct {
	Title    string
	Subtitle string
	Channel  string
	Location *time.Location
}

// Assemble wraps sections with a dated header. The result always carries exactly
// SectionCount sections: extra ones are dropped and missing ones are filled with the
// placeholder.
func Assemble(sections []string, now time.Time, opts Options) Document {
	if opts.Location != nil {
		now = now.In(opts.Location)
	}

	blocks := make([]Block, 0, SectionCount+3)
	blocks = append(blocks, headerBlock(section.FormatHeader(opts.Title, now)))
	if subtitle := strings.TrimSpace(opts.Subtitle); subtitle != "" {
		blocks = append(blocks, headerBlock(subtitle))
	}
	blocks = append(blocks, Block{Type: BlockDivider})

	for i := 0; i < SectionCount; i++ {
		text := section.Placeholder
		if i < len(sections) && strings.TrimSpace(sections[i]) != "" {
			text = sections[i]
		}
		blocks = append(blocks, Block{
			Type: BlockSection,
			Text: &TextObject{Type: TextMarkdown, Text: text},
		})
	}

	return Document{Channel: opts.Channel, Blocks: blocks}
}

// Header returns the text of the first header block.
func (d Document) Header() (string, bool) {
	for _, block := range d.Blocks {
		if block.Type == BlockHeader && block.Text != nil {
			return block.Text.Text, true
		}
	}
	return "", false
}

// Sections returns the text of every section block in order.
func (d Document) Sections() []string {
	var out []string
	for _, block := range d.Blocks {
		if block.Type == BlockSection && block.Text != nil {
			out = append(out, block.Text.Text)
		}
	}
	return out
}

func headerBlock(text string) Block {
	return Block{
		Type: BlockHeader,
		Text: &TextObject{Type: TextPlain, Text: text, Emoji: true},
	}
}
