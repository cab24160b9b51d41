package main

import (
	"fmt"
	"io"
	"strings"

	"postergen/internal/prompt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#0075C9")
	muted  = lipgloss.Color("#6B7280")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)

// renderAttachments draws the numbered image list as a bordered table.
func renderAttachments(compiled *prompt.Compiled) string {
	if len(compiled.Attachments) == 0 {
		return boxStyle.Render(mutedStyle.Render("no images attached"))
	}

	cols := [][]string{{"#"}, {"Label"}, {"MIME"}, {"Size"}}
	for i, a := range compiled.Attachments {
		cols[0] = append(cols[0], fmt.Sprintf("Image %d", i+1))
		cols[1] = append(cols[1], a.Label)
		cols[2] = append(cols[2], a.MimeType)
		cols[3] = append(cols[3], formatBytes(len(a.Data)))
	}

	rendered := make([]string, len(cols))
	for i, col := range cols {
		width := 0
		for _, cell := range col {
			width = max(width, lipgloss.Width(cell))
		}
		lines := make([]string, len(col))
		for j, cell := range col {
			style := cellStyle
			if j == 0 {
				style = headerStyle
			}
			lines[j] = style.Width(width + 2).Render(cell)
		}
		rendered[i] = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	return boxStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

// renderPrompt writes the attachment table and the instruction. With raw
// set, the plain summary and instruction text are written instead.
func renderPrompt(w io.Writer, compiled *prompt.Compiled, raw bool) error {
	if raw {
		_, err := fmt.Fprintf(w, "%s\n\n%s", compiled.Summary(), compiled.Instruction)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	body, err := r.Render(compiled.Instruction)
	if err != nil {
		return fmt.Errorf("render prompt: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Poster prompt (%d images)", len(compiled.Attachments))))
	sb.WriteString("\n")
	sb.WriteString(renderAttachments(compiled))
	sb.WriteString("\n")
	sb.WriteString(body)
	_, err = io.WriteString(w, sb.String())
	return err
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
