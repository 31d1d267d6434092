package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/diogo/chatmate/internal/models"
)

func TestRenderTurn_User(t *testing.T) {
	turn := models.NewTurn(models.SenderUser, "**hi** <b>there</b>\x1b[31m red\x1b[0m")

	payload, err := RenderTurn(turn, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderTurn() error: %v", err)
	}
	if payload.Terminal != "**hi** <b>there</b> red" {
		t.Errorf("Terminal = %q", payload.Terminal)
	}
	if strings.Contains(payload.HTML, "<b>") {
		t.Errorf("HTML not escaped: %s", payload.HTML)
	}
	if payload.HasCode() {
		t.Error("user turns never expose code blocks")
	}
}

func TestRenderTurn_UserCodeIsLiteral(t *testing.T) {
	turn := models.NewTurn(models.SenderUser, "```go\nx\n```")

	payload, _ := RenderTurn(turn, DefaultOptions())
	if payload.Terminal != "```go\nx\n```" {
		t.Errorf("Terminal = %q", payload.Terminal)
	}
	if payload.HasCode() {
		t.Error("fences in user text must stay literal")
	}
}

func TestRenderTurn_AssistantCopy(t *testing.T) {
	turn := models.NewTurn(models.SenderAssistant, "Here:\n```python\nprint(\"x\")\n```")

	payload, err := RenderTurn(turn, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderTurn() error: %v", err)
	}
	if len(payload.CodeBlocks) != 1 {
		t.Fatalf("code blocks = %d, want 1", len(payload.CodeBlocks))
	}
	if payload.CodeBlocks[0].Code != `print("x")` {
		t.Errorf("copy text = %q, want exactly print(\"x\")", payload.CodeBlocks[0].Code)
	}
	if !strings.Contains(ansi.Strip(payload.Terminal), "Here") {
		t.Errorf("Terminal = %q", payload.Terminal)
	}
}

func TestRenderTurn_AssistantScriptSanitized(t *testing.T) {
	turn := models.NewTurn(models.SenderAssistant, "ok <script>alert(1)</script>")

	payload, err := RenderTurn(turn, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderTurn() error: %v", err)
	}
	if strings.Contains(payload.HTML, "<script") {
		t.Errorf("script survived: %s", payload.HTML)
	}
}

func TestRenderTurn_Idempotent(t *testing.T) {
	turns := []models.Turn{
		models.NewTurn(models.SenderUser, "hello\nworld"),
		models.NewTurn(models.SenderAssistant, "# T\n\n```go\nfmt.Println(1)\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |"),
	}

	for _, turn := range turns {
		first, err := RenderTurn(turn, DefaultOptions())
		if err != nil {
			t.Fatalf("RenderTurn() error: %v", err)
		}
		second, _ := RenderTurn(turn, DefaultOptions())

		if first.Terminal != second.Terminal || first.HTML != second.HTML {
			t.Errorf("render of %s turn is not idempotent", turn.Sender)
		}
		if len(first.CodeBlocks) != len(second.CodeBlocks) {
			t.Errorf("code blocks differ between renders")
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a\nb\tc", "a\nb\tc"},
		{"\x1b[1mbold\x1b[0m", "bold"},
		{"bell\x07 and \x00null", "bell and null"},
		{"cr\r\nlf", "cr\nlf"},
	}

	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
