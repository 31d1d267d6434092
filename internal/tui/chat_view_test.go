package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/chatmate/internal/api"
	"github.com/diogo/chatmate/internal/chat"
	"github.com/diogo/chatmate/internal/models"
)

// sendTurn submits text and feeds reply back without running the request
func sendTurn(t *testing.T, m App, text, reply string) App {
	t.Helper()
	m = typeText(t, m, text)
	m, cmd := update(t, m, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatalf("submit %q returned no command", text)
	}
	m, _ = update(t, m, chatReplyMsg{response: reply})
	return m
}

func TestChat_SubmitAndReply(t *testing.T) {
	client := &api.MockClient{ChatVal: "Hello there[1]. Welcome [23]  "}
	m := newTestApp(t, client, ViewChat)

	m = typeText(t, m, "  Hello  ")
	m, cmd := update(t, m, key(tea.KeyEnter))

	transcript := m.chat.controller.Transcript()
	if len(transcript) != 1 {
		t.Fatalf("transcript len = %d, want 1", len(transcript))
	}
	if transcript[0].Text != "  Hello  " || transcript[0].Sender != models.SenderUser {
		t.Errorf("user turn = %+v, text must be stored untrimmed", transcript[0])
	}
	if !m.chat.controller.IsAwaitingResponse() {
		t.Error("controller should be awaiting")
	}
	if m.chat.textarea.Value() != "" || m.chat.controller.PendingInput() != "" {
		t.Error("compose buffer should be cleared")
	}

	var reply chatReplyMsg
	found := false
	for _, msg := range collectMsgs(cmd) {
		if r, ok := msg.(chatReplyMsg); ok {
			reply, found = r, true
		}
	}
	if !found {
		t.Fatal("submit did not issue a chat request")
	}
	if calls := client.Calls(); len(calls) != 1 || calls[0] != "Hello" {
		t.Errorf("backend calls = %q, want [\"Hello\"]", calls)
	}

	m, _ = update(t, m, reply)
	transcript = m.chat.controller.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript len = %d, want 2", len(transcript))
	}
	if got := transcript[1].Text; got != "Hello there. Welcome" {
		t.Errorf("assistant text = %q", got)
	}
	if m.chat.controller.State() != chat.Idle {
		t.Error("controller should be idle")
	}
}

func TestChat_IgnoredSubmissions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, m App) App
		input string
		want  int
	}{
		{
			name:  "blank input",
			setup: func(t *testing.T, m App) App { return m },
			input: "   ",
			want:  0,
		},
		{
			name: "while awaiting",
			setup: func(t *testing.T, m App) App {
				m = typeText(t, m, "first")
				m, _ = update(t, m, key(tea.KeyEnter))
				return m
			},
			input: "second",
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.setup(t, newTestApp(t, &api.MockClient{}, ViewChat))
			m = typeText(t, m, tt.input)

			m, cmd := update(t, m, key(tea.KeyEnter))
			if cmd != nil {
				t.Error("ignored submission should not issue a command")
			}
			if got := m.chat.controller.Len(); got != tt.want {
				t.Errorf("transcript len = %d, want %d", got, tt.want)
			}
			if m.chat.textarea.Value() != tt.input {
				t.Errorf("compose buffer = %q, want %q kept", m.chat.textarea.Value(), tt.input)
			}
		})
	}
}

func TestChat_FailureShowsFallback(t *testing.T) {
	m := newTestApp(t, &api.MockClient{}, ViewChat)
	m = typeText(t, m, "Hello")
	m, _ = update(t, m, key(tea.KeyEnter))
	m, _ = update(t, m, chatReplyMsg{err: errors.New("connection refused")})

	transcript := m.chat.controller.Transcript()
	if len(transcript) != 2 || transcript[1].Text != chat.FallbackMessage {
		t.Fatalf("transcript = %+v", transcript)
	}
	if m.chat.controller.IsAwaitingResponse() {
		t.Error("controller should be idle after a failure")
	}
	if !strings.Contains(m.View(), "Something went wrong") {
		t.Error("fallback should be shown inline")
	}
}

func TestChat_NewlineKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEnter, Alt: true}, {Type: tea.KeyCtrlJ}} {
		t.Run(k.String(), func(t *testing.T) {
			m := newTestApp(t, &api.MockClient{}, ViewChat)
			m = typeText(t, m, "a")
			m, cmd := update(t, m, k)
			m = typeText(t, m, "b")

			if cmd != nil {
				t.Error("newline must not submit")
			}
			if m.chat.textarea.Value() != "a\nb" {
				t.Errorf("textarea = %q, want %q", m.chat.textarea.Value(), "a\nb")
			}
			if m.chat.controller.PendingInput() != "a\nb" {
				t.Errorf("pending input = %q", m.chat.controller.PendingInput())
			}
			if m.chat.controller.Len() != 0 {
				t.Error("transcript should be empty")
			}
		})
	}
}

func TestChat_AutoScroll(t *testing.T) {
	m := newTestApp(t, &api.MockClient{}, ViewChat)
	long := strings.Repeat("line\n\n", 10)

	for i := 0; i < 6; i++ {
		m = sendTurn(t, m, "question", long)
		if !m.chat.viewport.AtBottom() {
			t.Fatalf("viewport not at bottom after reply %d", i+1)
		}
	}

	m = typeText(t, m, "one more")
	m, _ = update(t, m, key(tea.KeyEnter))
	if !m.chat.viewport.AtBottom() {
		t.Error("viewport not at bottom after the loading indicator appeared")
	}
}

func TestChat_CopyCodeBlock(t *testing.T) {
	var copied []string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m := newTestApp(t, &api.MockClient{}, ViewChat)
	m = sendTurn(t, m, "code please", "Here:\n\n```go\nfmt.Println(1)\n```\n\nand\n\n```\necho hi\n\n```\n")

	if !strings.Contains(m.chat.viewport.View(), "2 code blocks") {
		t.Error("assistant turn should advertise its code blocks")
	}

	m, _ = update(t, m, key(tea.KeyCtrlY))
	if !m.chat.picker.open {
		t.Fatal("ctrl+y should open the picker")
	}
	if !strings.Contains(m.View(), "code block 1 (go)") {
		t.Error("picker should list the go block")
	}

	// newest block is first
	m, _ = update(t, m, key(tea.KeyEnter))
	m, _ = update(t, m, key(tea.KeyCtrlY))
	m, _ = update(t, m, key(tea.KeyDown))
	m, _ = update(t, m, key(tea.KeyEnter))

	want := []string{"echo hi\n", "fmt.Println(1)"}
	if len(copied) != 2 || copied[0] != want[0] || copied[1] != want[1] {
		t.Errorf("copied = %q, want %q", copied, want)
	}
	if m.chat.picker.open {
		t.Error("picker should close after copying")
	}
	if !strings.Contains(m.chat.notice, "Copied code block 1 (go)") {
		t.Errorf("notice = %q", m.chat.notice)
	}
}

func TestChat_CopyWithoutCode(t *testing.T) {
	m := newTestApp(t, &api.MockClient{}, ViewChat)
	m = sendTurn(t, m, "hi", "plain answer with `inline` code")

	m, _ = update(t, m, key(tea.KeyCtrlY))
	if m.chat.picker.open {
		t.Error("picker should not open without fenced blocks")
	}
	if m.chat.notice != "No code blocks to copy" {
		t.Errorf("notice = %q", m.chat.notice)
	}
}

func TestChat_CopyFailure(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard utility") }
	t.Cleanup(func() { writeClipboard = orig })

	m := newTestApp(t, &api.MockClient{}, ViewChat)
	m = sendTurn(t, m, "code", "```\nx\n```")
	m, _ = update(t, m, key(tea.KeyCtrlY))
	m, _ = update(t, m, key(tea.KeyEnter))

	if m.chat.err == nil || !strings.Contains(m.chat.err.Error(), "no clipboard utility") {
		t.Errorf("err = %v", m.chat.err)
	}
}

func TestChat_Export(t *testing.T) {
	m := newTestApp(t, &api.MockClient{}, ViewChat)
	m = sendTurn(t, m, "Hello", "Hi **there**")

	path := filepath.Join(t.TempDir(), "out", "chat.md")
	m = typeText(t, m, "/export "+path)
	m, cmd := update(t, m, key(tea.KeyEnter))

	if cmd != nil {
		t.Error("export should not issue a request")
	}
	if m.chat.controller.Len() != 2 {
		t.Errorf("transcript len = %d, export must not add turns", m.chat.controller.Len())
	}
	if m.chat.err != nil {
		t.Fatalf("export error: %v", m.chat.err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "Hello") || !strings.Contains(string(data), "Hi **there**") {
		t.Errorf("export content = %s", data)
	}
	if !strings.Contains(m.chat.notice, path) {
		t.Errorf("notice = %q", m.chat.notice)
	}
}

func TestChat_ExportErrors(t *testing.T) {
	m := newTestApp(t, &api.MockClient{}, ViewChat)

	m = typeText(t, m, "/export")
	m, _ = update(t, m, key(tea.KeyEnter))
	if !strings.HasPrefix(m.chat.notice, "Usage") {
		t.Errorf("notice = %q", m.chat.notice)
	}

	m = typeText(t, m, "/export "+filepath.Join(t.TempDir(), "empty.md"))
	m, _ = update(t, m, key(tea.KeyEnter))
	if m.chat.err == nil {
		t.Error("exporting an empty transcript should fail")
	}
}

func TestChat_ExitCommands(t *testing.T) {
	tests := []struct {
		input    string
		wantQuit bool
	}{
		{input: "/exit", wantQuit: true},
		{input: "/quit", wantQuit: true},
		{input: "exit", wantQuit: false},
		{input: "quit", wantQuit: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			client := &api.MockClient{ChatVal: "ok"}
			m := newTestApp(t, client, ViewChat)
			m = typeText(t, m, tt.input)
			m, cmd := update(t, m, key(tea.KeyEnter))

			if tt.wantQuit {
				if !isQuit(cmd) {
					t.Errorf("%q should quit", tt.input)
				}
				return
			}
			if m.chat.controller.Len() != 1 || !m.chat.controller.IsAwaitingResponse() {
				t.Errorf("%q should be sent as a message", tt.input)
			}
		})
	}
}

func TestChat_UserTextIsLiteral(t *testing.T) {
	m := newTestApp(t, &api.MockClient{}, ViewChat)
	m = sendTurn(t, m, "**not bold** \x1b[31mred", "ok")

	view := m.chat.viewport.View()
	if !strings.Contains(view, "**not bold**") {
		t.Error("user markdown must not be interpreted")
	}
	if strings.Contains(view, "\x1b[31m") {
		t.Error("user escape sequences must be stripped")
	}
}

func TestChat_AnimationSingleLoop(t *testing.T) {
	m := newTestApp(t, &api.MockClient{}, ViewChat)
	m = sendTurn(t, m, "first", "done")
	m = typeText(t, m, "second")
	m, _ = update(t, m, key(tea.KeyEnter))
	if m.chat.requests != 2 {
		t.Fatalf("requests = %d, want 2", m.chat.requests)
	}

	// the tick still pending from the first request
	m, cmd := update(t, m, animationTickMsg{session: m.chat.session, request: 1})
	if cmd != nil || m.chat.animationFrame != 0 {
		t.Fatalf("stale tick advanced the animation: frame = %d", m.chat.animationFrame)
	}

	m, cmd = update(t, m, animationTickMsg{session: m.chat.session, request: 2})
	if cmd == nil || m.chat.animationFrame != 1 {
		t.Errorf("current tick: frame = %d, cmd = %v", m.chat.animationFrame, cmd != nil)
	}

	m, _ = update(t, m, animationTickMsg{session: m.chat.session + 1, request: 2})
	if m.chat.animationFrame != 1 {
		t.Error("tick from another chat session advanced the animation")
	}
}
