package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/chatmate/internal/api"
	"github.com/diogo/chatmate/internal/config"
	"github.com/diogo/chatmate/internal/server"
	"github.com/diogo/chatmate/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig reads the user configuration.
	LoadConfig func() (config.Config, error)

	// NewClient creates the backend client for a resolved configuration.
	NewClient func(cfg config.Config, logger *slog.Logger) (api.ClientInterface, error)

	// NewCompleter creates the LLM used by `serve`.
	NewCompleter func(cfg config.ServerConfig) (server.Completer, error)

	// RunTUI starts the interactive interface.
	RunTUI func(opts tui.Options) error

	// Clipboard copies text to the system clipboard.
	Clipboard func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsTerminal reports whether input comes from a terminal rather
	// than a pipe or file.
	StdinIsTerminal func() bool
	// StdoutIsTerminal reports whether decorated output should be printed.
	StdoutIsTerminal func() bool
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:       config.LoadConfig,
		NewClient:        newAPIClient,
		NewCompleter:     newCompleter,
		RunTUI:           tui.Run,
		Clipboard:        clipboard.WriteAll,
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		StdinIsTerminal:  func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		StdoutIsTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
}

func newAPIClient(cfg config.Config, logger *slog.Logger) (api.ClientInterface, error) {
	client, err := api.NewClient(
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newCompleter(cfg config.ServerConfig) (server.Completer, error) {
	return server.NewOpenAICompleter(cfg.LLMBaseURL, os.Getenv(cfg.APIKeyEnv), cfg.Model, cfg.Temperature)
}
