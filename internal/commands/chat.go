package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/chatmate/internal/tui"
)

func newChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the assistant.

Press Enter to send and Alt+Enter (or Ctrl+J) for a new line.
Ctrl+Y copies a code block from a reply, /export <path> saves the
transcript and Ctrl+T toggles the theme.
Type /quit or press Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(deps, opts, tui.ViewChat)
		},
	}
}
