package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/chatmate/internal/chat"
	"github.com/diogo/chatmate/internal/config"
	apierrors "github.com/diogo/chatmate/internal/errors"
	"github.com/diogo/chatmate/internal/render"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// runQuery sends a single message through the conversation controller and
// prints the cleaned reply. Output is decorated only when stdout is a terminal.
func runQuery(deps *Dependencies, opts *rootOptions, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
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

	controller := chat.New(client, chat.WithLogger(logger))
	message, _ := controller.Begin(prompt)

	logger.Debug("sending message", "base_url", cfg.BaseURL, "chars", len(message))
	spin := startProgress(deps, "Waiting for the assistant")

	start := time.Now()
	response, reqErr := client.Chat(context.Background(), message)
	turn, err := controller.Resolve(response, reqErr)
	if err != nil {
		return err
	}

	if reqErr != nil {
		spin.fail()
	} else {
		spin.success("Done")
	}
	logger.Debug("request finished", "elapsed", time.Since(start).Round(time.Millisecond))

	if err := writeReply(deps, opts, cfg, turn.Text); err != nil {
		return err
	}
	return reqErr
}

// writeReply prints text, copies it and saves it as configured
func writeReply(deps *Dependencies, opts *rootOptions, cfg config.Config, text string) error {
	decorated := deps.StdoutIsTerminal()

	if decorated && cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", opts.output)))
		}
		return nil
	}

	if !decorated {
		fmt.Fprintln(deps.Stdout, text)
		return nil
	}

	printBubble(deps.Stdout, cfg, "✦ Assistant", text)
	return nil
}

// printBubble renders markdown inside the assistant bubble
func printBubble(w io.Writer, cfg config.Config, label, text string) {
	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	renderOpts := render.OptionsFromConfig(cfg).ForTheme(cfg.Theme).WithWidth(bubbleWidth - 4)
	rendered, err := render.Markdown(text, renderOpts)
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	fmt.Fprintln(w, assistantLabelStyle.Render(label))
	fmt.Fprintln(w, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	// the backend's body usually carries its {"error": ...} message
	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check the backend URL (--base-url or " + config.EnvBaseURL + ") and your connection"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. The backend may be cold-starting, try again"))
	case apierrors.IsUploadError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Pass a readable PDF no larger than 50MB"))
	case apierrors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The backend answered with an unexpected payload"))
	}

	return sb.String()
}
