package tui

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/diogo/chatmate/internal/api"
	"github.com/diogo/chatmate/internal/chat"
	"github.com/diogo/chatmate/internal/models"
	"github.com/diogo/chatmate/internal/render"
)

const (
	alertNoFile        = "Please choose a PDF file first."
	alertSummarizeFail = "Something went wrong while summarizing the PDF."
)

// summaryMsg carries the outcome of one upload
type summaryMsg struct {
	session int
	summary *models.Summary
	err     error
}

// askReplyMsg carries the answer to a question about the loaded summary
type askReplyMsg struct {
	session  int
	response string
	err      error
}

type summarizeFocus int

const (
	focusPath summarizeFocus = iota
	focusPages
	focusQuestion
)

// summarizeView uploads a PDF, shows its per-page summaries and answers
// questions about them.
type summarizeView struct {
	client     api.ClientInterface
	logger     *slog.Logger
	styles     Styles
	renderOpts render.Options
	session    int

	pathInput     textinput.Model
	questionInput textinput.Model
	viewport      viewport.Model
	spinner       spinner.Model
	focus         summarizeFocus

	loading bool
	asking  bool
	summary *models.Summary
	// selected is the page questions are asked about; -1 means all pages
	selected int
	question string
	answer   string
	askErr   error
	alert    string
	alertErr error
	width    int
	height   int
}

func newSummarizeView(client api.ClientInterface, logger *slog.Logger, styles Styles, opts render.Options) summarizeView {
	path := textinput.New()
	path.Placeholder = "Path to a PDF file"
	path.Prompt = "📄 "
	path.CharLimit = 1024
	path.Focus()

	question := textinput.New()
	question.Placeholder = "Ask about the document..."
	question.Prompt = "? "
	question.CharLimit = 2000

	s := spinner.New()
	s.Spinner = spinner.Points

	v := summarizeView{
		client:        client,
		logger:        logger,
		pathInput:     path,
		questionInput: question,
		viewport:      viewport.New(76, 10),
		spinner:       s,
		selected:      -1,
	}
	v.setStyles(styles, opts)
	return v
}

func (m *summarizeView) setStyles(styles Styles, opts render.Options) {
	m.styles = styles
	m.renderOpts = opts
	m.spinner.Style = styles.Loading
	m.pathInput.PromptStyle = styles.InputLabel
	m.pathInput.TextStyle = lipgloss.NewStyle().Foreground(styles.Theme.Text)
	m.pathInput.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.Theme.TextDim)
	m.questionInput.PromptStyle = styles.InputLabel
	m.questionInput.TextStyle = m.pathInput.TextStyle
	m.questionInput.PlaceholderStyle = m.pathInput.PlaceholderStyle
	m.updateViewport()
}

func (m *summarizeView) setSize(width, height int) {
	m.width = width
	m.height = height

	// header, path panel, question panel, status bar
	vpHeight := height - 4 - 4 - 4 - 2
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := width - 4
	m.viewport.Width = contentWidth
	m.viewport.Height = vpHeight
	m.pathInput.Width = contentWidth - 8
	m.questionInput.Width = contentWidth - 8
	m.updateViewport()
}

// alerting reports whether the blocking alert is shown
func (m summarizeView) alerting() bool {
	return m.alert != ""
}

func (m summarizeView) Update(msg tea.Msg) (summarizeView, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case summaryMsg:
		if msg.session != m.session {
			m.logger.Debug("dropped summary for a closed view", "session", msg.session)
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.logger.Error("summarize failed", "error", msg.err)
			m.summary = nil
			m.showAlert(alertSummarizeFail, msg.err)
		} else {
			m.summary = msg.summary
			m.selected = -1
			m.answer, m.askErr, m.question = "", nil, ""
		}
		m.updateViewport()
		m.viewport.GotoTop()
		return m, nil

	case askReplyMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.asking = false
		if msg.err != nil {
			m.logger.Error("ask with context failed", "error", msg.err)
			m.answer, m.askErr = "", msg.err
		} else {
			m.answer, m.askErr = chat.StripCitations(msg.response), nil
		}
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.asking {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.alerting() {
			switch msg.String() {
			case "enter", "esc", " ":
				m.alert, m.alertErr = "", nil
			}
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m summarizeView) handleKey(msg tea.KeyMsg) (summarizeView, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "tab":
		m.setFocus(m.nextFocus())
		return m, nil

	case "pgup", "pgdown":
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case focusPath:
		if msg.String() == "enter" {
			return m.submitFile()
		}
		m.pathInput, cmd = m.pathInput.Update(msg)

	case focusPages:
		switch msg.String() {
		case "up", "k":
			if m.selected >= 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < m.summary.Len()-1 {
				m.selected++
			}
		case "enter":
			m.setFocus(focusQuestion)
		}
		m.updateViewport()

	case focusQuestion:
		if msg.String() == "enter" {
			return m.submitQuestion()
		}
		m.questionInput, cmd = m.questionInput.Update(msg)
	}

	return m, cmd
}

func (m summarizeView) nextFocus() summarizeFocus {
	if m.summary.Len() == 0 {
		return focusPath
	}
	return (m.focus + 1) % 3
}

func (m *summarizeView) setFocus(f summarizeFocus) {
	m.focus = f
	m.pathInput.Blur()
	m.questionInput.Blur()
	switch f {
	case focusPath:
		m.pathInput.Focus()
	case focusQuestion:
		m.questionInput.Focus()
	}
}

func (m *summarizeView) showAlert(message string, err error) {
	m.alert = message
	m.alertErr = err
}

// submitFile starts one upload. It is ignored while an upload is in flight.
func (m summarizeView) submitFile() (summarizeView, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		m.showAlert(alertNoFile, nil)
		return m, nil
	}
	path = expandHome(path)

	m.loading = true
	m.summary = nil
	m.answer, m.askErr, m.question = "", nil, ""
	m.updateViewport()

	client, session := m.client, m.session
	return m, tea.Batch(
		func() tea.Msg {
			summary, err := client.Summarize(context.Background(), path)
			return summaryMsg{session: session, summary: summary, err: err}
		},
		m.spinner.Tick,
	)
}

func (m summarizeView) submitQuestion() (summarizeView, tea.Cmd) {
	question := strings.TrimSpace(m.questionInput.Value())
	if m.asking || question == "" || m.summary.Len() == 0 {
		return m, nil
	}

	pageText := m.summary.ContextText(m.selectedLabel())
	m.asking = true
	m.question = question
	m.answer, m.askErr = "", nil
	m.questionInput.Reset()
	m.updateViewport()
	m.viewport.GotoBottom()

	client, session := m.client, m.session
	return m, tea.Batch(
		func() tea.Msg {
			response, err := client.AskWithContext(context.Background(), question, pageText)
			return askReplyMsg{session: session, response: response, err: err}
		},
		m.spinner.Tick,
	)
}

func (m summarizeView) selectedLabel() string {
	if m.summary == nil || m.selected < 0 || m.selected >= len(m.summary.Pages) {
		return ""
	}
	return m.summary.Pages[m.selected].Label
}

func (m *summarizeView) updateViewport() {
	var content strings.Builder
	width := m.viewport.Width - 4

	if m.summary.Len() == 0 {
		m.viewport.SetContent("")
		return
	}

	header := "Summary"
	if m.summary.FileName != "" {
		header += " of " + m.summary.FileName
	}
	content.WriteString(m.styles.Title.Render(header) + "\n\n")

	allLabel := m.styles.PageLabel.Render("All pages")
	if m.selected == -1 && m.focus == focusPages {
		allLabel = m.styles.PageLabelSelected.Render("All pages")
	}
	content.WriteString(allLabel + "\n\n")

	for i, page := range m.summary.Pages {
		label := m.styles.PageLabel.Render(page.Label)
		if i == m.selected {
			label = m.styles.PageLabelSelected.Render(page.Label)
		}
		content.WriteString(label + "\n")
		content.WriteString(m.styles.PageBody.Render(render.SummaryToText(page.HTML, width-2)))
		content.WriteString("\n\n")
	}

	if m.question != "" {
		content.WriteString(m.styles.UserLabel.UnsetMarginLeft().Render("? "+m.question) + "\n")
		switch {
		case m.asking:
			content.WriteString(m.styles.Loading.Render("  Thinking...") + "\n")
		case m.askErr != nil:
			content.WriteString(m.styles.Error.Render("  "+chat.FallbackMessage) + "\n")
		case m.answer != "":
			content.WriteString(m.renderAnswer(width-2) + "\n")
		}
	}

	m.viewport.SetContent(content.String())
}

// renderAnswer shows the answer as Markdown, like an assistant chat turn
func (m summarizeView) renderAnswer(width int) string {
	out, err := render.Markdown(m.answer, m.renderOpts.WithWidth(width))
	if err != nil {
		m.logger.Warn("answer render failed", "error", err)
		return m.styles.PageBody.Render(wordwrap.String(m.answer, width))
	}
	return strings.TrimRight(out, "\n")
}

func (m summarizeView) View() string {
	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if m.alerting() {
		return m.renderAlert(contentWidth)
	}

	var sections []string

	pathLabel := m.styles.InputLabel.Render("PDF file")
	if m.loading {
		pathLabel += " " + m.spinner.View() + m.styles.Loading.Render(" Summarizing...")
	}
	sections = append(sections, m.styles.InputPanel.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, pathLabel, m.pathInput.View()),
	))

	var body string
	if m.summary.Len() == 0 {
		body = m.styles.Hint.Render("Enter the path of a PDF and press Enter to summarize it page by page.")
	} else {
		body = m.viewport.View()
	}
	sections = append(sections, m.styles.MessagesArea.Width(contentWidth).Height(m.viewport.Height).Render(body))

	if m.summary.Len() > 0 {
		scope := "all pages"
		if label := m.selectedLabel(); label != "" {
			scope = label
		}
		qLabel := m.styles.InputLabel.Render("Ask about " + scope)
		if m.asking {
			qLabel += " " + m.spinner.View()
		}
		sections = append(sections, m.styles.InputPanel.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, qLabel, m.questionInput.View()),
		))
	}

	sections = append(sections, m.styles.statusBar(contentWidth, [][2]string{
		{"Enter", "Submit"},
		{"Tab", "Focus"},
		{"↑↓", "Page"},
		{"PgUp/PgDn", "Scroll"},
		{"Esc", "Home"},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m summarizeView) renderAlert(width int) string {
	var content strings.Builder
	content.WriteString(m.styles.AlertTitle.Render("⚠ " + m.alert))
	if m.alertErr != nil {
		content.WriteString("\n\n" + m.styles.FormatError(m.alertErr))
	}
	content.WriteString("\n\n" + m.styles.Hint.Render("Press Enter to dismiss"))

	box := m.styles.Alert.Render(content.String())
	height := m.height - 4
	if height < lipgloss.Height(box) {
		height = lipgloss.Height(box)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
