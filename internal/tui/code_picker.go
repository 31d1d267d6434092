package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/diogo/chatmate/internal/render"
)

// writeClipboard is the system clipboard writer; tests replace it.
var writeClipboard = clipboard.WriteAll

// pickedCode is a code block together with the transcript turn it came from
type pickedCode struct {
	Turn  int
	Block render.CodeBlock
}

// copyCode puts the exact block text on the clipboard.
func copyCode(p pickedCode) (string, error) {
	if err := writeClipboard(p.Block.Code); err != nil {
		return "", fmt.Errorf("failed to copy code: %w", err)
	}
	return fmt.Sprintf("Copied %s to clipboard", blockName(p.Block)), nil
}

func blockName(b render.CodeBlock) string {
	if b.Language != "" {
		return fmt.Sprintf("code block %d (%s)", b.Index+1, b.Language)
	}
	return fmt.Sprintf("code block %d", b.Index+1)
}

const pickerMaxItems = 8

// codePicker is the overlay listing copyable code blocks, newest first
type codePicker struct {
	styles Styles
	items  []pickedCode
	cursor int
	open   bool
	width  int
}

// Open shows the picker over blocks with the most recent one selected.
func (p codePicker) Open(blocks []pickedCode) codePicker {
	p.items = make([]pickedCode, 0, len(blocks))
	for i := len(blocks) - 1; i >= 0; i-- {
		p.items = append(p.items, blocks[i])
	}
	p.cursor = 0
	p.open = true
	return p
}

// Update moves the cursor; enter returns the selected block and closes.
func (p codePicker) Update(msg tea.KeyMsg) (codePicker, *pickedCode) {
	switch msg.String() {
	case "esc", "ctrl+y", "q":
		p.open = false

	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}

	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}

	case "enter":
		p.open = false
		if p.cursor < len(p.items) {
			selected := p.items[p.cursor]
			return p, &selected
		}
	}
	return p, nil
}

func (p codePicker) View() string {
	width := p.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder
	content.WriteString(p.styles.OverlayTitle.Render("⧉ Copy a code block"))
	content.WriteString("\n\n")

	startIdx := 0
	if p.cursor >= pickerMaxItems {
		startIdx = p.cursor - pickerMaxItems + 1
	}
	endIdx := startIdx + pickerMaxItems
	if endIdx > len(p.items) {
		endIdx = len(p.items)
	}

	if startIdx > 0 {
		content.WriteString(p.styles.Hint.Render("  ↑ more above") + "\n")
	}

	for i := startIdx; i < endIdx; i++ {
		item := p.items[i]
		cursor := "  "
		nameStyle := p.styles.MenuItem
		if i == p.cursor {
			cursor = p.styles.Cursor.Render("▸ ")
			nameStyle = p.styles.MenuSelected
		}

		line := cursor + nameStyle.Render(blockName(item.Block))
		line += p.styles.Value.Render(fmt.Sprintf("  reply %d · %d lines", item.Turn+1, strings.Count(item.Block.Code, "\n")+1))
		content.WriteString(line + "\n")
	}

	if endIdx < len(p.items) {
		content.WriteString(p.styles.Hint.Render("  ↓ more below") + "\n")
	}

	if p.cursor < len(p.items) {
		content.WriteString("\n" + preview(p.items[p.cursor].Block, p.styles.Theme.ChromaStyle, width-6) + "\n")
	}

	content.WriteString("\n")
	content.WriteString(p.styles.statusBar(width-6, [][2]string{
		{"↑↓", "Navigate"},
		{"Enter", "Copy"},
		{"Esc", "Cancel"},
	}))

	return p.styles.Overlay.Width(width).Render(content.String())
}

// preview shows the first lines of a block, highlighted
func preview(b render.CodeBlock, style string, width int) string {
	lines := strings.Split(b.Code, "\n")
	more := 0
	if len(lines) > 6 {
		more = len(lines) - 6
		lines = lines[:6]
	}
	for i, l := range lines {
		// truncate by cells: wide runes take two
		lines[i] = ansi.Truncate(l, width, "...")
	}

	out := render.Highlight(strings.Join(lines, "\n"), b.Language, style)
	if more > 0 {
		out += fmt.Sprintf("\n… %d more lines", more)
	}
	return out
}
