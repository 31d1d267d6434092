// Package render turns conversation turns and summaries into displayable
// payloads: styled terminal text, sanitized HTML and copyable code blocks.
package render

import "github.com/diogo/chatmate/internal/config"

// Options configures the terminal markdown renderer.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light") or a path to a JSON style
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	md := config.DefaultMarkdownConfig()
	return Options{
		Width:            80,
		Style:            md.Style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width < 20 {
		width = 20
	}
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// ForTheme selects the glamour style matching a UI theme unless a custom
// style path was configured.
func (o Options) ForTheme(theme string) Options {
	if o.Style == config.ThemeDark || o.Style == config.ThemeLight || o.Style == "" {
		o.Style = theme
	}
	return o
}
