package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/chatmate/internal/server"
)

type serveOptions struct {
	addr       string
	model      string
	llmBaseURL string
}

func newServeCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	sopts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference chat backend",
		Long: `Run an HTTP backend implementing POST /chat, /summarize and
/ask_with_context on top of an OpenAI-compatible LLM.

The API key is read from the environment variable named by
server.api_key_env in the config file (PPLX_API_KEY by default).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, deps, opts, sopts)
		},
	}

	cmd.Flags().StringVar(&sopts.addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&sopts.model, "model", "", "LLM model name")
	cmd.Flags().StringVar(&sopts.llmBaseURL, "llm-base-url", "", "OpenAI-compatible API base URL")

	return cmd
}

func runServe(ctx context.Context, deps *Dependencies, opts *rootOptions, sopts *serveOptions) error {
	cfg, err := loadSettings(deps, opts)
	if err != nil {
		return err
	}

	scfg := cfg.Server
	if sopts.addr != "" {
		scfg.Addr = sopts.addr
	}
	if sopts.model != "" {
		scfg.Model = sopts.model
	}
	if sopts.llmBaseURL != "" {
		scfg.LLMBaseURL = sopts.llmBaseURL
	}

	logger := newInfoLogger(deps.Stderr)
	if cfg.Verbose {
		logger = newLogger(deps.Stderr, true)
	}

	completer, err := deps.NewCompleter(scfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	srv := server.New(completer,
		server.WithLogger(logger),
		server.WithMaxUploadBytes(int64(scfg.MaxUploadMB)<<20),
	)

	logger.Info("starting backend", "addr", scfg.Addr, "model", scfg.Model, "llm_base_url", scfg.LLMBaseURL)
	return srv.ListenAndServe(ctx, scfg.Addr)
}
