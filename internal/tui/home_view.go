package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type feature struct {
	icon  string
	title string
	desc  string
	key   string
}

var homeFeatures = []feature{
	{
		icon:  "💬",
		title: "Chat with AI",
		desc:  "Engage in real-time conversations with your AI assistant to ask questions, generate ideas, and get code or answers instantly.",
		key:   "c",
	},
	{
		icon:  "📄",
		title: "PDF Summarizer",
		desc:  "Upload any PDF document and let the AI summarize it into concise, readable insights for quick understanding.",
		key:   "s",
	},
}

// renderHome draws the landing screen
func renderHome(styles Styles, width, height int, baseURL string) string {
	if width < 40 {
		width = 40
	}
	inner := width - 8
	if inner > 90 {
		inner = 90
	}

	icon := styles.WelcomeIcon.Width(inner).Align(lipgloss.Center).Render("✦")
	title := styles.WelcomeTitle.Width(inner).Align(lipgloss.Center).Render("Welcome to chatmate")
	subtitle := styles.Subtitle.Width(inner).Align(lipgloss.Center).Render("Your AI assistant for conversations and documents")

	var cards []string
	for _, f := range homeFeatures {
		body := lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render(f.icon+" "+f.title),
			"",
			styles.Feature.UnsetPaddingLeft().Width(inner/2-8).Render(f.desc),
			"",
			styles.StatusKey.Render(f.key)+styles.StatusDesc.Render(" to open"),
		)
		cards = append(cards, styles.Welcome.Align(lipgloss.Left).Width(inner/2-2).Render(body))
	}

	hint := styles.Hint.Width(inner).Align(lipgloss.Center).Render(
		"Use the tabs or ctrl+n to navigate between Chat and PDF Summarizer.")
	backend := styles.Value.Width(inner).Align(lipgloss.Center).Render("Backend: " + baseURL)

	content := lipgloss.JoinVertical(lipgloss.Center,
		icon,
		title,
		subtitle,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		hint,
		backend,
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}
