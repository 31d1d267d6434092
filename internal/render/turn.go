package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/diogo/chatmate/internal/models"
)

// Payload is the displayable form of one turn.
type Payload struct {
	Sender models.Sender
	// Terminal is the text shown in the TUI and one-shot output.
	Terminal string
	// HTML is the sanitized markup used by transcript export.
	HTML       string
	CodeBlocks []CodeBlock
}

// HasCode reports whether the payload offers copyable code blocks
func (p Payload) HasCode() bool {
	return len(p.CodeBlocks) > 0
}

// RenderTurn builds the payload for turn. It does not mutate anything and
// returns the same payload for the same turn and options.
func RenderTurn(turn models.Turn, opts Options) (Payload, error) {
	if turn.IsUser() {
		return Payload{
			Sender:   turn.Sender,
			Terminal: PlainText(turn.Text),
			HTML:     UserHTML(turn.Text),
		}, nil
	}

	htmlOut, err := AssistantHTML(turn.Text)
	if err != nil {
		return Payload{}, err
	}

	terminal, err := Markdown(turn.Text, opts)
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		Sender:     turn.Sender,
		Terminal:   strings.TrimRight(terminal, "\n"),
		HTML:       htmlOut,
		CodeBlocks: ExtractCodeBlocks(turn.Text),
	}, nil
}

// PlainText makes literal text safe for the terminal: escape sequences are
// stripped and remaining control characters other than newline and tab are dropped.
func PlainText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = ansi.Strip(line)
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, strings.Join(lines, "\n"))
}
