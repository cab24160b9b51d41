// Package prompt compiles an event form into the ordered image attachments
// and the single instruction text sent to the poster model.
package prompt

import (
	"fmt"
	"strings"
)

// Attachment is one binary part sent ahead of the instruction text.
type Attachment struct {
	Label    string
	MimeType string
	Data     []byte
}

// Builder accumulates attachments and instruction text. The instruction
// refers to attachments as "Image N" where N is the value returned by Attach,
// so numbers are only ever consumed by attachments that were appended.
type Builder struct {
	attachments []Attachment
	text        strings.Builder
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Attach appends an attachment and returns its 1-based position.
func (b *Builder) Attach(a Attachment) int {
	b.attachments = append(b.attachments, a)
	return len(b.attachments)
}

// Count returns the number of attachments so far.
func (b *Builder) Count() int {
	return len(b.attachments)
}

// Text appends a fragment to the instruction.
func (b *Builder) Text(fragment string) {
	b.text.WriteString(fragment)
}

// Textf appends a formatted fragment to the instruction.
func (b *Builder) Textf(format string, args ...interface{}) {
	fmt.Fprintf(&b.text, format, args...)
}

// Build returns the compiled result. The builder may not be reused.
func (b *Builder) Build() *Compiled {
	return &Compiled{
		Attachments: b.attachments,
		Instruction: b.text.String(),
	}
}

// Compiled is the model input: attachments in order, then the instruction.
type Compiled struct {
	Attachments []Attachment
	Instruction string
}

// Part is one element of the request sequence. Exactly one of Attachment
// or Text is set.
type Part struct {
	Attachment *Attachment
	Text       string
}

// Parts returns the request sequence with the instruction text last.
func (c *Compiled) Parts() []Part {
	parts := make([]Part, 0, len(c.Attachments)+1)
	for i := range c.Attachments {
		parts = append(parts, Part{Attachment: &c.Attachments[i]})
	}
	return append(parts, Part{Text: c.Instruction})
}

// Summary lists the attachments one per line, for dry runs.
func (c *Compiled) Summary() string {
	var sb strings.Builder
	for i, a := range c.Attachments {
		fmt.Fprintf(&sb, "Image %d\t%s\t%s\t%s\n", i+1, a.Label, a.MimeType, formatSize(len(a.Data)))
	}
	fmt.Fprintf(&sb, "Text\tinstruction\ttext/plain\t%s\n", formatSize(len(c.Instruction)))
	return sb.String()
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
