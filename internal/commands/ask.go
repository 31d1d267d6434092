package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/chatmate/internal/chat"
	"github.com/diogo/chatmate/internal/server"
)

func newAskCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var contextFile string

	cmd := &cobra.Command{
		Use:   "ask --context-file FILE \"question\"",
		Short: "Ask a question about a document",
		Long: `Ask the backend a question grounded on a document.

The context file may be plain text or a PDF; the text of every PDF page
is extracted locally and sent along with the question.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(deps, opts, contextFile, args[0])
		},
	}

	cmd.Flags().StringVar(&contextFile, "context-file", "", "Text or PDF file used as context")
	_ = cmd.MarkFlagRequired("context-file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")

	return cmd
}

func runAsk(deps *Dependencies, opts *rootOptions, contextFile, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}

	pageText, err := readContextFile(contextFile)
	if err != nil {
		return err
	}

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

	logger.Debug("asking with context", "file", contextFile, "context_chars", len(pageText))
	spin := startProgress(deps, "Reading "+filepath.Base(contextFile))
	response, err := client.AskWithContext(context.Background(), question, pageText)
	if err != nil {
		spin.fail()
		logger.Error("ask failed", "error", err)
		return err
	}
	spin.success("Done")

	return writeReply(deps, opts, cfg, chat.StripCitations(response))
}

// readContextFile returns the text of a plain file, or the page texts of a
// PDF joined by blank lines.
func readContextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read context file: %w", err)
	}

	if !isPDF(path, data) {
		return string(data), nil
	}

	pages, err := server.ExtractPDFPages(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read context file: %w", err)
	}
	return strings.Join(pages, "\n\n"), nil
}

func isPDF(path string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf") || bytes.HasPrefix(data, []byte("%PDF-"))
}
