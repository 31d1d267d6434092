package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/chatmate/internal/config"
)

func newConfigCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration chatmate would use, after applying the
config file, the ` + config.EnvBaseURL + ` environment variable and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowConfig(deps, opts)
		},
	}

	cmd.AddCommand(newConfigInitCmd(deps))
	return cmd
}

func newConfigInitCmd(deps *Dependencies) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}
			if err := config.SaveConfig(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, "Wrote "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runShowConfig(deps *Dependencies, opts *rootOptions) error {
	cfg, err := loadSettings(deps, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path, err := config.GetConfigPath()
	if err != nil {
		path = "unknown"
	}

	header := "# " + path
	if deps.StdoutIsTerminal() {
		header = lipgloss.NewStyle().Foreground(colorTextDim).Render(header)
	}
	fmt.Fprintln(deps.Stdout, header)
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}
