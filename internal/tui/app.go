// Package tui implements the interactive terminal interface: a home screen,
// the chat view and the PDF summarize view.
package tui

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatmate/internal/api"
	"github.com/diogo/chatmate/internal/config"
	"github.com/diogo/chatmate/internal/render"
)

// View identifies a screen of the app
type View int

const (
	ViewHome View = iota
	ViewChat
	ViewSummarize
)

var viewNames = []string{"Home", "Chat", "Summarize"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// Options configures the app
type Options struct {
	Client    api.ClientInterface
	Config    config.Config
	Logger    *slog.Logger
	StartView View
}

// App is the root model. It owns the theme and routes messages to the views.
// Leaving the chat or summarize view discards its state; replies still in
// flight for a discarded view are dropped.
type App struct {
	client     api.ClientInterface
	logger     *slog.Logger
	theme      render.TUITheme
	styles     Styles
	renderOpts render.Options

	view      View
	chat      chatView
	summarize summarizeView
	// sessions counts views created so far
	sessions int

	width  int
	height int
	ready  bool
}

// NewApp creates the root model
func NewApp(opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	theme := render.ThemeByName(opts.Config.Theme)
	styles := NewStyles(theme)
	renderOpts := render.OptionsFromConfig(opts.Config).ForTheme(theme.Name)

	return App{
		client:     opts.Client,
		logger:     logger,
		theme:      theme,
		styles:     styles,
		renderOpts: renderOpts,
		view:       opts.StartView,
		chat:       newChatView(opts.Client, logger, styles, renderOpts),
		summarize:  newSummarizeView(opts.Client, logger, styles, renderOpts),
	}
}

// Theme returns the active theme
func (m App) Theme() render.TUITheme {
	return m.theme
}

// CurrentView returns the view being shown
func (m App) CurrentView() View {
	return m.view
}

// Init initializes the model
func (m App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, textinput.Blink)
}

// Update handles messages and updates the model
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.chat.setSize(msg.Width, msg.Height)
		m.summarize.setSize(msg.Width, msg.Height)
		return m, nil

	case chatReplyMsg, animationTickMsg:
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case summaryMsg, askReplyMsg:
		m.summarize, cmd = m.summarize.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var chatCmd, sumCmd tea.Cmd
		m.chat, chatCmd = m.chat.Update(msg)
		m.summarize, sumCmd = m.summarize.Update(msg)
		return m, tea.Batch(chatCmd, sumCmd)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	switch m.view {
	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
	case ViewSummarize:
		m.summarize, cmd = m.summarize.Update(msg)
	}
	return m, cmd
}

func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	}

	// overlays take every other key until dismissed
	modal := (m.view == ViewChat && m.chat.picker.open) ||
		(m.view == ViewSummarize && m.summarize.alerting())

	if !modal {
		switch msg.String() {
		case "ctrl+n":
			m.switchTo((m.view + 1) % View(len(viewNames)))
			return m, nil
		case "esc":
			if m.view == ViewHome {
				return m, tea.Quit
			}
			m.switchTo(ViewHome)
			return m, nil
		}
	}

	switch m.view {
	case ViewHome:
		switch msg.String() {
		case "c", "enter":
			m.switchTo(ViewChat)
		case "s":
			m.switchTo(ViewSummarize)
		case "q":
			return m, tea.Quit
		}
	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
	case ViewSummarize:
		m.summarize, cmd = m.summarize.Update(msg)
	}
	return m, cmd
}

// switchTo shows v. The view being left is replaced by a fresh one.
func (m *App) switchTo(v View) {
	if v == m.view {
		return
	}

	switch m.view {
	case ViewChat:
		m.sessions++
		m.chat = newChatView(m.client, m.logger, m.styles, m.renderOpts)
		m.chat.session = m.sessions
		if m.ready {
			m.chat.setSize(m.width, m.height)
		}
	case ViewSummarize:
		m.sessions++
		m.summarize = newSummarizeView(m.client, m.logger, m.styles, m.renderOpts)
		m.summarize.session = m.sessions
		if m.ready {
			m.summarize.setSize(m.width, m.height)
		}
	}

	m.logger.Debug("view changed", "from", m.view.String(), "to", v.String())
	m.view = v
}

// toggleTheme switches dark and light and rebuilds everything derived from
// the theme.
func (m *App) toggleTheme() {
	previous := m.renderOpts.Style
	m.theme = m.theme.Toggled()
	m.styles = NewStyles(m.theme)
	m.renderOpts = m.renderOpts.ForTheme(m.theme.Name)
	m.chat.setStyles(m.styles, m.renderOpts)
	m.summarize.setStyles(m.styles, m.renderOpts)
	if previous != m.renderOpts.Style {
		render.ReleaseStyle(previous)
	}
	m.logger.Debug("theme changed", "theme", m.theme.Name)
}

// View renders the TUI
func (m App) View() string {
	if !m.ready {
		return m.styles.Loading.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	header := m.styles.Header.Width(contentWidth).Render(m.renderTabs())

	var body string
	switch m.view {
	case ViewChat:
		body = m.chat.View()
	case ViewSummarize:
		body = m.summarize.View()
	default:
		body = renderHome(m.styles, m.width, m.height-6, m.client.BaseURL()) + "\n" +
			m.styles.statusBar(contentWidth, [][2]string{
				{"c", "Chat"},
				{"s", "Summarize"},
				{"Ctrl+T", "Theme"},
				{"q", "Quit"},
			})
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (m App) renderTabs() string {
	tabs := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		if View(i) == m.view {
			tabs = append(tabs, m.styles.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(name))
		}
	}

	parts := []string{
		m.styles.Title.Render("✦ chatmate"),
		m.styles.Hint.Render("  •  "),
		strings.Join(tabs, " "),
		m.styles.Hint.Render("  •  "),
		m.styles.Subtitle.Render(m.theme.Name),
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// Run starts the TUI and blocks until it exits
func Run(opts Options) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
