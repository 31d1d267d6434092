package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/chatmate/internal/models"
	"github.com/diogo/chatmate/internal/render"
	"github.com/diogo/chatmate/internal/tui"
)

func newSummarizeCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [file.pdf]",
		Short: "Summarize a PDF page by page",
		Long: `Upload a PDF to the backend and print a summary of every page.

Without a file the interactive summarizer opens, where you can also ask
questions about the summarized pages.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runTUI(deps, opts, tui.ViewSummarize)
			}
			return runSummarize(deps, opts, args[0])
		},
	}
}

func runSummarize(deps *Dependencies, opts *rootOptions, path string) error {
	cfg, err := loadSettings(deps, opts)
	if err != nil {
		return err
	}
	logger := newCommandLogger(deps, cfg)

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	spin := startProgress(deps, "Summarizing "+filepath.Base(path))
	summary, err := client.Summarize(context.Background(), path)
	if err != nil {
		spin.fail()
		logger.Error("summarize failed", "file", path, "error", err)
		return err
	}
	spin.success(fmt.Sprintf("Summarized %d pages", summary.Len()))

	fmt.Fprint(deps.Stdout, formatSummary(summary, getTerminalWidth(), deps.StdoutIsTerminal()))
	return nil
}

// formatSummary prints each page label followed by its flattened summary
func formatSummary(summary *models.Summary, width int, decorated bool) string {
	if width > 100 {
		width = 100
	}
	labelStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	var sb strings.Builder
	for i, page := range summary.Pages {
		if i > 0 {
			sb.WriteString("\n")
		}
		if decorated {
			sb.WriteString(labelStyle.Render(page.Label))
		} else {
			sb.WriteString(page.Label)
		}
		sb.WriteString("\n")
		sb.WriteString(render.SummaryToText(page.HTML, width))
		sb.WriteString("\n")
	}
	return sb.String()
}
