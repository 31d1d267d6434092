package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatmate/internal/errors"
	"github.com/diogo/chatmate/internal/render"
)

// Styles holds every lipgloss style the views draw with. It is built from a
// theme and rebuilt whenever the theme changes.
type Styles struct {
	Theme render.TUITheme

	// Layout
	Header       lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Hint         lipgloss.Style
	MessagesArea lipgloss.Style

	// Tabs
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Messages
	UserBubble      lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantBubble lipgloss.Style
	AssistantLabel  lipgloss.Style
	CodeFooter      lipgloss.Style

	// Input
	InputPanel lipgloss.Style
	InputLabel lipgloss.Style
	Loading    lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusDesc lipgloss.Style
	Notice     lipgloss.Style
	Error      lipgloss.Style

	// Home
	Welcome      lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeIcon  lipgloss.Style
	Feature      lipgloss.Style

	// Overlays
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style
	Cursor       lipgloss.Style
	Value        lipgloss.Style

	// Alert
	Alert      lipgloss.Style
	AlertTitle lipgloss.Style

	// Summary pages
	PageLabel         lipgloss.Style
	PageLabelSelected lipgloss.Style
	PageBody          lipgloss.Style

	// Gradient drives the loading animation
	Gradient []lipgloss.Color
}

// NewStyles builds the style set for theme.
func NewStyles(theme render.TUITheme) Styles {
	s := Styles{Theme: theme}

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2).
		MarginBottom(1)

	s.Title = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.Hint = lipgloss.NewStyle().
		Foreground(theme.TextMute).
		Italic(true)

	s.MessagesArea = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1)

	s.Tab = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Padding(0, 1)

	s.ActiveTab = lipgloss.NewStyle().
		Foreground(theme.Background).
		Background(theme.Primary).
		Bold(true).
		Padding(0, 1)

	s.UserBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginLeft(4)

	s.UserLabel = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		MarginLeft(4)

	s.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginRight(4)

	s.AssistantLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.CodeFooter = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Italic(true)

	s.InputPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		MarginTop(1)

	s.InputLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginRight(1)

	s.Loading = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(theme.TextMute).
		MarginTop(1)

	s.StatusKey = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Bold(true)

	s.StatusDesc = lipgloss.NewStyle().
		Foreground(theme.TextMute)

	s.Notice = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Italic(true)

	s.Error = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)

	s.Welcome = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2).
		MarginBottom(1).
		Align(lipgloss.Center)

	s.WelcomeTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginBottom(1)

	s.WelcomeIcon = lipgloss.NewStyle().
		Foreground(theme.Accent).
		MarginBottom(1)

	s.Feature = lipgloss.NewStyle().
		Foreground(theme.Text).
		PaddingLeft(2)

	s.Overlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(1, 2)

	s.OverlayTitle = lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		MarginBottom(1)

	s.MenuItem = lipgloss.NewStyle().
		Foreground(theme.Text)

	s.MenuSelected = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	s.Cursor = lipgloss.NewStyle().
		Foreground(theme.Accent)

	s.Value = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	s.Alert = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.Error).
		Padding(1, 3).
		Align(lipgloss.Center)

	s.AlertTitle = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		MarginBottom(1)

	s.PageLabel = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	s.PageLabelSelected = lipgloss.NewStyle().
		Foreground(theme.Background).
		Background(theme.Secondary).
		Bold(true)

	s.PageBody = lipgloss.NewStyle().
		Foreground(theme.Text).
		PaddingLeft(2)

	s.Gradient = []lipgloss.Color{theme.Primary, theme.Accent, theme.Secondary, theme.Warning}

	return s
}

// statusBar renders key hints separated by bars
func (s Styles) statusBar(width int, shortcuts [][2]string) string {
	items := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		items = append(items, s.StatusKey.Render(sc[0])+s.StatusDesc.Render(" "+sc[1]))
	}
	return s.StatusBar.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// FormatError returns a styled error message with additional context
// extracted from the structured error types.
func (s Styles) FormatError(err error) string {
	if err == nil {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(s.Theme.TextDim)

	var sb strings.Builder
	sb.WriteString(s.Error.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dim.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dim.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}
	if hint := errorHint(err); hint != "" {
		sb.WriteString(dim.Render("\n  Hint: " + hint))
	}

	return sb.String()
}

func errorHint(err error) string {
	switch {
	case errors.IsUploadError(err):
		return "choose a readable PDF up to 50MB"
	case errors.IsTimeoutError(err):
		return "the backend may be waking up, try again in a moment"
	case errors.IsNetworkError(err):
		return "check the base URL and your connection"
	case errors.IsParseError(err):
		return "the backend returned an unexpected response"
	case errors.GetHTTPStatus(err) >= 500:
		return "the backend failed, try again later"
	}
	return ""
}
