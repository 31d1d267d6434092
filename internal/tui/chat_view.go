package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatmate/internal/api"
	"github.com/diogo/chatmate/internal/chat"
	"github.com/diogo/chatmate/internal/history"
	"github.com/diogo/chatmate/internal/models"
	"github.com/diogo/chatmate/internal/render"
)

// chatReplyMsg carries the outcome of one chat request. session identifies
// the chat view that sent it.
type chatReplyMsg struct {
	session  int
	response string
	err      error
}

// animationTickMsg advances the loading animation. Ticks from an earlier
// request or chat session are dropped so only one loop runs.
type animationTickMsg struct {
	session int
	request int
}

// animationTick returns a command that sends animation tick messages
func animationTick(session, request int) tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(time.Time) tea.Msg {
		return animationTickMsg{session: session, request: request}
	})
}

// chatView is the conversation screen. Transcript state lives in the
// controller; the view only renders it.
type chatView struct {
	client     api.ClientInterface
	controller *chat.Controller
	session    int
	logger     *slog.Logger
	styles     Styles
	renderOpts render.Options

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	picker   codePicker

	// rendered caches one payload per transcript turn
	rendered       []render.Payload
	notice         string
	err            error
	animationFrame int
	// requests counts submissions; it tags the animation loop
	requests int

	width  int
	height int
	ready  bool
}

func newChatView(client api.ClientInterface, logger *slog.Logger, styles Styles, opts render.Options) chatView {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	// enter submits; newlines come from alt+enter and ctrl+j
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points

	v := chatView{
		client:     client,
		controller: chat.New(client, chat.WithLogger(logger)),
		logger:     logger,
		textarea:   ta,
		spinner:    s,
		viewport:   viewport.New(76, 10),
	}
	v.setStyles(styles, opts)
	return v
}

// setStyles applies a theme; every turn is rendered again with the new options.
func (m *chatView) setStyles(styles Styles, opts render.Options) {
	m.styles = styles
	m.renderOpts = opts
	m.rendered = nil

	m.textarea.FocusedStyle.CursorLine = lipgloss.NewStyle()
	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(styles.Theme.Text)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.Theme.TextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle
	m.spinner.Style = styles.Loading

	m.picker.styles = styles
	m.updateViewport()
}

func (m *chatView) setSize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4 // Header panel with border
	inputHeight := 6  // Input panel with border
	statusHeight := 1 // Status bar
	padding := 2      // Extra spacing

	vpHeight := height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := width - 4
	m.viewport.Width = contentWidth
	m.viewport.Height = vpHeight
	m.textarea.SetWidth(contentWidth - 4)
	m.picker.width = width
	m.ready = true

	m.rendered = nil
	m.updateViewport()
	m.viewport.GotoBottom()
}

func (m chatView) Update(msg tea.Msg) (chatView, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.picker.open {
		if key, ok := msg.(tea.KeyMsg); ok {
			var copied *pickedCode
			m.picker, copied = m.picker.Update(key)
			if copied != nil {
				m.notice, m.err = copyCode(*copied)
			}
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.submit()

		case "alt+enter", "ctrl+j":
			m.textarea.InsertString("\n")
			m.controller.SetPendingInput(m.textarea.Value())
			return m, nil

		case "ctrl+y":
			if blocks := m.codeBlocks(); len(blocks) > 0 {
				m.picker = m.picker.Open(blocks)
			} else {
				m.notice = "No code blocks to copy"
			}
			return m, nil

		case "pgup", "pgdown", "up", "down":
			if strings.TrimSpace(m.textarea.Value()) == "" || msg.String() == "pgup" || msg.String() == "pgdown" {
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

		m.textarea, cmd = m.textarea.Update(msg)
		m.controller.SetPendingInput(m.textarea.Value())
		cmds = append(cmds, cmd)

	case chatReplyMsg:
		if msg.session != m.session {
			m.logger.Debug("dropped reply for a closed chat", "session", msg.session)
			return m, nil
		}
		if _, err := m.controller.Resolve(msg.response, msg.err); err != nil {
			m.logger.Warn("dropped chat reply", "error", err)
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.controller.IsAwaitingResponse() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if msg.session != m.session || msg.request != m.requests {
			return m, nil
		}
		if m.controller.IsAwaitingResponse() {
			m.animationFrame++
			m.updateViewport()
			cmds = append(cmds, animationTick(m.session, m.requests))
		}

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit handles the enter key: slash commands first, then the controller.
func (m chatView) submit() (chatView, tea.Cmd) {
	raw := m.textarea.Value()
	input := strings.TrimSpace(raw)

	switch {
	case input == "/exit" || input == "/quit":
		return m, tea.Quit

	case input == "/export" || strings.HasPrefix(input, "/export "):
		m.textarea.Reset()
		m.controller.SetPendingInput("")
		m.notice, m.err = m.export(strings.TrimSpace(strings.TrimPrefix(input, "/export")))
		return m, nil
	}

	message, ok := m.controller.Begin(raw)
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.notice = ""
	m.err = nil
	m.animationFrame = 0
	m.requests++
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.sendMessage(message),
		m.spinner.Tick,
		animationTick(m.session, m.requests),
	)
}

func (m chatView) sendMessage(message string) tea.Cmd {
	client, session := m.client, m.session
	return func() tea.Msg {
		response, err := client.Chat(context.Background(), message)
		return chatReplyMsg{session: session, response: response, err: err}
	}
}

func (m chatView) export(path string) (string, error) {
	if path == "" {
		return "Usage: /export <path> (.md or .json)", nil
	}

	opts := history.DefaultExportOptions()
	opts.Format = history.FormatForPath(path)
	opts.Backend = m.client.BaseURL()

	if err := history.WriteTranscript(path, m.controller.Transcript(), opts); err != nil {
		return "", err
	}
	return "Transcript exported to " + path, nil
}

// codeBlocks lists every copyable block in transcript order.
func (m chatView) codeBlocks() []pickedCode {
	var blocks []pickedCode
	for turn, p := range m.rendered {
		for _, b := range p.CodeBlocks {
			blocks = append(blocks, pickedCode{Turn: turn, Block: b})
		}
	}
	return blocks
}

// updateViewport refreshes the viewport content with styled messages
func (m *chatView) updateViewport() {
	transcript := m.controller.Transcript()
	if len(m.rendered) > len(transcript) {
		m.rendered = nil
	}

	bubbleWidth := m.viewport.Width - 6
	opts := m.renderOpts.WithWidth(bubbleWidth - 4)

	for i := len(m.rendered); i < len(transcript); i++ {
		payload, err := render.RenderTurn(transcript[i], opts)
		if err != nil {
			m.logger.Error("render failed", "turn", transcript[i].ID, "error", err)
			payload = render.Payload{Sender: transcript[i].Sender, Terminal: render.PlainText(transcript[i].Text)}
		}
		m.rendered = append(m.rendered, payload)
	}

	var content strings.Builder
	for i, p := range m.rendered {
		if i > 0 {
			content.WriteString("\n")
		}

		if p.Sender == models.SenderUser {
			label := m.styles.UserLabel.Render("⬤ You")
			bubble := m.styles.UserBubble.Width(bubbleWidth).Render(p.Terminal)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := m.styles.AssistantLabel.Render("✦ Assistant")
			bubble := m.styles.AssistantBubble.Width(bubbleWidth).Render(p.Terminal)
			content.WriteString(label + "\n" + bubble)
			if p.HasCode() {
				content.WriteString("\n" + m.styles.CodeFooter.Render(codeFooter(len(p.CodeBlocks))))
			}
		}
		content.WriteString("\n")
	}

	if m.controller.IsAwaitingResponse() {
		content.WriteString("\n" + m.renderLoadingAnimation() + "\n")
	}

	m.viewport.SetContent(content.String())
}

func codeFooter(n int) string {
	if n == 1 {
		return "  ⧉ 1 code block · ctrl+y to copy"
	}
	return fmt.Sprintf("  ⧉ %d code blocks · ctrl+y to copy", n)
}

func (m chatView) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}
	gradient := m.styles.Gradient
	if len(gradient) == 0 {
		gradient = []lipgloss.Color{m.styles.Theme.Accent}
	}

	frame := m.animationFrame
	spin := lipgloss.NewStyle().Foreground(gradient[frame%len(gradient)]).Bold(true).Render(chars[frame%len(chars)])

	var bar strings.Builder
	for i := 0; i < 12; i++ {
		style := lipgloss.NewStyle().Foreground(gradient[(i+frame)%len(gradient)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	text := lipgloss.NewStyle().Foreground(m.styles.Theme.Text).Render(" Assistant is typing ")
	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

func (m chatView) View() string {
	if m.picker.open {
		return m.picker.View()
	}

	var sections []string
	contentWidth := m.width - 4

	var messages string
	if m.controller.Len() == 0 && !m.controller.IsAwaitingResponse() {
		messages = m.renderEmpty()
	} else {
		messages = m.viewport.View()
	}
	sections = append(sections, m.styles.MessagesArea.Width(contentWidth).Height(m.viewport.Height).Render(messages))

	label := m.styles.InputLabel.Render("You")
	if m.controller.IsAwaitingResponse() {
		label += " " + m.spinner.View()
	}
	input := lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	sections = append(sections, m.styles.InputPanel.Width(contentWidth).Render(input))

	sections = append(sections, m.styles.statusBar(contentWidth, [][2]string{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Ctrl+Y", "Copy code"},
		{"/export", "Save"},
		{"/quit", "Quit"},
		{"Esc", "Home"},
	}))

	if m.err != nil {
		sections = append(sections, m.styles.FormatError(m.err))
	} else if m.notice != "" {
		sections = append(sections, m.styles.Notice.Render("  "+m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m chatView) renderEmpty() string {
	width := m.viewport.Width - 4
	icon := m.styles.WelcomeIcon.Width(width).Align(lipgloss.Center).Render("✦")
	title := m.styles.WelcomeTitle.Width(width).Align(lipgloss.Center).Render("Start a conversation")
	hint := m.styles.Hint.Width(width).Align(lipgloss.Center).Render("Type a message below and press Enter")

	content := lipgloss.JoinVertical(lipgloss.Center, "", icon, title, hint)
	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}
