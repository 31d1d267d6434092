package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatmate/internal/config"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// ChromaStyle names the chroma style used for code previews
	ChromaStyle string
}

var (
	DarkTheme = TUITheme{
		Name: config.ThemeDark,

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		ChromaStyle: "monokai",
	}

	LightTheme = TUITheme{
		Name: config.ThemeLight,

		Background: lipgloss.Color("#f5f5f5"),
		Surface:    lipgloss.Color("#e6e6e6"),
		Border:     lipgloss.Color("#b4b4b4"),

		Primary:   lipgloss.Color("#2e59a8"),
		Secondary: lipgloss.Color("#3f7d20"),
		Accent:    lipgloss.Color("#8839ef"),
		Warning:   lipgloss.Color("#b26b00"),
		Error:     lipgloss.Color("#c0243c"),

		Text:     lipgloss.Color("#1f2328"),
		TextDim:  lipgloss.Color("#57606a"),
		TextMute: lipgloss.Color("#8c959f"),

		ChromaStyle: "github",
	}
)

// ThemeByName returns the theme for name, falling back to dark.
func ThemeByName(name string) TUITheme {
	if name == config.ThemeLight {
		return LightTheme
	}
	return DarkTheme
}

// Toggled returns the opposite theme.
func (t TUITheme) Toggled() TUITheme {
	if t.Name == config.ThemeLight {
		return DarkTheme
	}
	return LightTheme
}
