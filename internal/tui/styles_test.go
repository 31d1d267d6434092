package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	apierrors "github.com/diogo/chatmate/internal/errors"
	"github.com/diogo/chatmate/internal/render"
)

func TestNewStyles(t *testing.T) {
	for _, theme := range []render.TUITheme{render.DarkTheme, render.LightTheme} {
		t.Run(theme.Name, func(t *testing.T) {
			s := NewStyles(theme)
			if s.Theme.Name != theme.Name {
				t.Errorf("Theme = %q, want %q", s.Theme.Name, theme.Name)
			}
			if len(s.Gradient) == 0 {
				t.Error("gradient should not be empty")
			}
			if s.Title.GetForeground() != theme.Primary {
				t.Errorf("title color = %v, want %v", s.Title.GetForeground(), theme.Primary)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	s := NewStyles(render.DarkTheme)

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{"plain", errors.New("boom"), []string{"boom"}},
		{"api", apierrors.NewAPIError(503, "/chat", "unavailable"), []string{"HTTP Status: 503", "Endpoint: /chat", "try again later"}},
		{"network", apierrors.NewNetworkErrorWithEndpoint("chat", "/chat", errors.New("refused")), []string{"check the base URL"}},
		{"timeout", apierrors.NewTimeoutError("slow"), []string{"waking up"}},
		{"upload", apierrors.NewUploadError("a.txt", "not a PDF", nil), []string{"readable PDF"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.FormatError(tt.err)
			if tt.err == nil {
				if got != "" {
					t.Errorf("FormatError(nil) = %q", got)
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestCodePicker(t *testing.T) {
	blocks := []pickedCode{
		{Turn: 1, Block: render.CodeBlock{Index: 0, Language: "go", Code: "a := 1"}},
		{Turn: 3, Block: render.CodeBlock{Index: 0, Code: "ls -la"}},
	}
	p := codePicker{styles: NewStyles(render.DarkTheme), width: 100}.Open(blocks)

	if !p.open || p.cursor != 0 || p.items[0].Turn != 3 {
		t.Fatalf("picker = %+v, newest block should be first", p)
	}

	p, picked := p.Update(key(tea.KeyEsc))
	if p.open || picked != nil {
		t.Error("esc should close without picking")
	}

	p = p.Open(blocks)
	p, _ = p.Update(key(tea.KeyUp))
	p, _ = p.Update(key(tea.KeyDown))
	p, _ = p.Update(key(tea.KeyDown))
	if p.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", p.cursor)
	}
	if !strings.Contains(p.View(), "code block 1 (go)") {
		t.Error("view should list the go block")
	}

	p, picked = p.Update(key(tea.KeyEnter))
	if picked == nil || picked.Block.Code != "a := 1" {
		t.Errorf("picked = %+v", picked)
	}
}

func TestPreview_Truncates(t *testing.T) {
	code := strings.Repeat("x\n", 10) + "x"
	out := preview(render.CodeBlock{Code: code}, "monokai", 40)
	if !strings.Contains(out, "5 more lines") {
		t.Errorf("preview = %q", out)
	}
}

func TestPreview_WideRunes(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		width int
	}{
		{name: "cjk wider than rune count", code: strings.Repeat("漢", 30), width: 40},
		{name: "cjk within rune capacity", code: strings.Repeat("漢", 30), width: 34},
		{name: "mixed", code: "fmt.Println(\"" + strings.Repeat("字a", 25) + "\")", width: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(preview(render.CodeBlock{Code: tt.code}, "monokai", tt.width))
			if strings.ContainsRune(out, 0) {
				t.Errorf("preview contains NUL runes: %q", out)
			}
			for _, line := range strings.Split(out, "\n") {
				if w := ansi.StringWidth(line); w > tt.width {
					t.Errorf("line width = %d, want <= %d: %q", w, tt.width, line)
				}
			}
			if !strings.Contains(out, "...") {
				t.Errorf("long line not truncated: %q", out)
			}
		})
	}
}
