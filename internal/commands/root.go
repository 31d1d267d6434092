// Package commands provides CLI commands for chatmate.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/chatmate/internal/config"
	"github.com/diogo/chatmate/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flags shared by every command
type rootOptions struct {
	baseURL string
	theme   string
	verbose bool

	output  string
	file    string
	version bool
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chatmate [prompt]",
		Short: "Chat with an AI assistant and summarize PDFs",
		Long: `chatmate is a terminal client for an LLM chat backend. It offers a
conversational chat with rendered Markdown and copyable code blocks, and
page-by-page PDF summaries you can ask questions about.

Examples:
  chatmate                              Open the interactive interface
  chatmate chat                         Start chatting right away
  chatmate "What is Go?"                Send a single message
  chatmate -f prompt.md                 Read the message from a file
  cat prompt.md | chatmate              Read the message from stdin
  chatmate "Hello" -o response.md       Save the reply to a file
  chatmate summarize report.pdf         Summarize a PDF page by page
  chatmate ask --context-file notes.txt "What changed?"
  chatmate serve                        Run the reference backend`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(deps.Stdout, "chatmate %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if opts.file != "" {
				data, err := os.ReadFile(opts.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runQuery(deps, opts, string(data))
			}

			if len(args) > 0 {
				return runQuery(deps, opts, args[0])
			}

			if !deps.StdinIsTerminal() {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				if strings.TrimSpace(string(data)) != "" {
					return runQuery(deps, opts, string(data))
				}
				return cmd.Help()
			}

			return runTUI(deps, opts, tui.ViewHome)
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Backend base URL (overrides "+config.EnvBaseURL+")")
	cmd.PersistentFlags().StringVar(&opts.theme, "theme", "", "Initial theme: dark or light")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log debug diagnostics")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVarP(&opts.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(
		newChatCmd(deps, opts),
		newSummarizeCmd(deps, opts),
		newAskCmd(deps, opts),
		newServeCmd(deps, opts),
		newConfigCmd(deps, opts),
	)

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// loadSettings reads the config file and applies flags and environment on top.
func loadSettings(deps *Dependencies, opts *rootOptions) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return cfg, err
	}

	cfg.BaseURL = cfg.ResolveBaseURL(opts.baseURL)

	switch opts.theme {
	case "":
	case config.ThemeDark, config.ThemeLight:
		cfg.Theme = opts.theme
	default:
		return cfg, fmt.Errorf("unknown theme %q (want %s or %s)", opts.theme, config.ThemeDark, config.ThemeLight)
	}

	if opts.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// runTUI starts the interactive interface at view
func runTUI(deps *Dependencies, opts *rootOptions, view tui.View) error {
	cfg, err := loadSettings(deps, opts)
	if err != nil {
		return err
	}

	logger, closeLog := newFileLogger(cfg)
	defer closeLog()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	logger.Info("starting tui", "view", view.String(), "base_url", cfg.BaseURL)
	return deps.RunTUI(tui.Options{
		Client:    client,
		Config:    cfg,
		Logger:    logger,
		StartView: view,
	})
}

// newCommandLogger returns the stderr logger used by one-shot commands
func newCommandLogger(deps *Dependencies, cfg config.Config) *slog.Logger {
	return newLogger(deps.Stderr, cfg.Verbose)
}
