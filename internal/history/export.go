// Package history exports in-memory conversation transcripts.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/chatmate/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how transcripts are exported
type ExportOptions struct {
	Format ExportFormat
	Title  string
	// Backend is recorded in the header so an export says where replies came from.
	Backend string
	// IncludeTimestamps adds the time of each turn to its heading.
	IncludeTimestamps bool
}

// DefaultExportOptions returns the defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:            ExportFormatMarkdown,
		Title:             "Chat transcript",
		IncludeTimestamps: true,
	}
}

// FormatForPath picks JSON for .json files and Markdown otherwise.
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// ExportToMarkdown renders turns as a Markdown document
func ExportToMarkdown(turns []models.Turn, opts ExportOptions) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	if opts.Backend != "" {
		sb.WriteString("**Backend:** ")
		sb.WriteString(opts.Backend)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Turns:** %d\n\n---\n\n", len(turns)))

	for i, turn := range turns {
		sb.WriteString("## ")
		sb.WriteString(turn.Sender.String())
		if opts.IncludeTimestamps && !turn.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(turn.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		if turn.IsUser() {
			// User text is literal; quote it so markdown in it stays inert.
			for _, line := range strings.Split(turn.Text, "\n") {
				sb.WriteString("> ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		} else {
			sb.WriteString(turn.Text)
			sb.WriteString("\n")
		}

		if i < len(turns)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportTurn struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type exportTranscript struct {
	Title      string       `json:"title"`
	Backend    string       `json:"backend,omitempty"`
	ExportedAt time.Time    `json:"exported_at"`
	Turns      []exportTurn `json:"turns"`
}

// ExportToJSON renders turns as indented JSON
func ExportToJSON(turns []models.Turn, opts ExportOptions) ([]byte, error) {
	export := exportTranscript{
		Title:      opts.Title,
		Backend:    opts.Backend,
		ExportedAt: time.Now().UTC(),
		Turns:      make([]exportTurn, len(turns)),
	}
	for i, turn := range turns {
		export.Turns[i] = exportTurn{
			ID:        turn.ID,
			Sender:    string(turn.Sender),
			Text:      turn.Text,
			Timestamp: turn.Timestamp,
		}
	}
	return json.MarshalIndent(export, "", "  ")
}

// WriteTranscript writes turns to path in the format implied by its extension.
func WriteTranscript(path string, turns []models.Turn, opts ExportOptions) error {
	if len(turns) == 0 {
		return fmt.Errorf("nothing to export")
	}

	opts.Format = FormatForPath(path)

	var data []byte
	switch opts.Format {
	case ExportFormatJSON:
		out, err := ExportToJSON(turns, opts)
		if err != nil {
			return fmt.Errorf("failed to encode transcript: %w", err)
		}
		data = out
	default:
		data = []byte(ExportToMarkdown(turns, opts))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
