package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/chatmate/internal/api"
)

func writeContext(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAskWithContextFile(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{AskVal: "The notes mention a release.[3]"})
	notes := writeContext(t, "notes.txt", "v2 ships on Friday")

	if err := env.run("ask", "--context-file", notes, "  What ships?  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.client.AskCalls) != 1 {
		t.Fatalf("AskWithContext calls = %d, want 1", len(env.client.AskCalls))
	}
	call := env.client.AskCalls[0]
	if call.Message != "What ships?" {
		t.Errorf("Message = %q", call.Message)
	}
	if call.PageText != "v2 ships on Friday" {
		t.Errorf("PageText = %q", call.PageText)
	}
	if got := env.stdout.String(); got != "The notes mention a release.\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestAskErrors(t *testing.T) {
	tests := []struct {
		name    string
		client  *api.MockClient
		args    func(t *testing.T) []string
		wantErr string
	}{
		{
			name:   "missing context flag",
			client: &api.MockClient{},
			args: func(t *testing.T) []string {
				return []string{"ask", "question"}
			},
			wantErr: "context-file",
		},
		{
			name:   "unreadable context",
			client: &api.MockClient{},
			args: func(t *testing.T) []string {
				return []string{"ask", "--context-file", filepath.Join(t.TempDir(), "nope.txt"), "q"}
			},
			wantErr: "failed to read context file",
		},
		{
			name:   "blank question",
			client: &api.MockClient{},
			args: func(t *testing.T) []string {
				return []string{"ask", "--context-file", writeContext(t, "c.txt", "x"), "   "}
			},
			wantErr: "question cannot be empty",
		},
		{
			name:   "backend failure",
			client: &api.MockClient{AskErr: errors.New("boom")},
			args: func(t *testing.T) []string {
				return []string{"ask", "--context-file", writeContext(t, "c.txt", "x"), "q"}
			},
			wantErr: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.client)

			err := env.run(tt.args(t)...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
			if env.stdout.Len() != 0 {
				t.Errorf("stdout = %q, want nothing", env.stdout.String())
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		path string
		data string
		want bool
	}{
		{"doc.pdf", "", true},
		{"DOC.PDF", "", true},
		{"doc.bin", "%PDF-1.7\n", true},
		{"notes.txt", "plain text", false},
	}

	for _, tt := range tests {
		if got := isPDF(tt.path, []byte(tt.data)); got != tt.want {
			t.Errorf("isPDF(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadContextFileRejectsBrokenPDF(t *testing.T) {
	path := writeContext(t, "broken.pdf", "%PDF-1.4 not really")

	if _, err := readContextFile(path); err == nil {
		t.Fatal("expected error for a broken PDF")
	}
}
