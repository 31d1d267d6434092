// Package config handles configuration for chatmate.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL is the backend serving /chat and /summarize.
const DefaultBaseURL = "https://llm-chatbot-1-0nez.onrender.com"

// EnvBaseURL overrides the configured backend base URL.
const EnvBaseURL = "CHATMATE_API_BASE"

// Theme names understood by the TUI and the markdown renderer
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// ServerConfig configures the reference backend started by `chatmate serve`.
type ServerConfig struct {
	Addr        string  `json:"addr"`
	Model       string  `json:"model"`
	LLMBaseURL  string  `json:"llm_base_url"`
	Temperature float64 `json:"temperature"`
	// APIKeyEnv names the environment variable holding the LLM API key.
	APIKeyEnv string `json:"api_key_env"`
	// MaxUploadMB caps the size of PDFs accepted by /summarize.
	MaxUploadMB int `json:"max_upload_mb"`
}

// Config represents the user configuration
type Config struct {
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds each backend call. 0 disables the timeout.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Theme is the initial TUI theme; ctrl+t toggles it at runtime.
	Theme string `json:"theme"`
	// Verbose lowers the diagnostic log level to debug.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
	Server          ServerConfig   `json:"server,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultServerConfig listens on port 5040 and answers with Perplexity sonar at 0.6.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        "0.0.0.0:5040",
		Model:       "sonar",
		LLMBaseURL:  "https://api.perplexity.ai",
		Temperature: 0.6,
		APIKeyEnv:   "PPLX_API_KEY",
		MaxUploadMB: 50,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		TimeoutSeconds:  0,
		Theme:           ThemeDark,
		Verbose:         false,
		CopyToClipboard: false,
		Markdown:        DefaultMarkdownConfig(),
		Server:          DefaultServerConfig(),
	}
}

// Timeout returns the per-request timeout, or 0 when disabled.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveBaseURL applies the precedence flag > environment > file > default
// and normalizes away a trailing slash.
func (c Config) ResolveBaseURL(flag string) string {
	base := c.BaseURL
	if env := os.Getenv(EnvBaseURL); env != "" {
		base = env
	}
	if flag != "" {
		base = flag
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatmate"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path of the diagnostic log written while the TUI runs
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "chatmate.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from an explicit path.
// A missing file yields the defaults.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Theme != ThemeDark && cfg.Theme != ThemeLight {
		cfg.Theme = ThemeDark
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(filepath.Join(configDir, "config.json"), cfg)
}

// SaveConfigTo writes the configuration to an explicit path
func SaveConfigTo(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
