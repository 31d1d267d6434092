package commands

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/diogo/chatmate/internal/api"
	"github.com/diogo/chatmate/internal/config"
	"github.com/diogo/chatmate/internal/server"
	"github.com/diogo/chatmate/internal/tui"
)

// testEnv captures everything a command run touches
type testEnv struct {
	deps      *Dependencies
	client    *api.MockClient
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	clientCfg config.Config
	tuiOpts   *tui.Options
	copied    []string
}

func newTestEnv(t *testing.T, client *api.MockClient) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvBaseURL, "")

	env := &testEnv{
		client: client,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.deps = &Dependencies{
		LoadConfig: func() (config.Config, error) { return config.DefaultConfig(), nil },
		NewClient: func(cfg config.Config, logger *slog.Logger) (api.ClientInterface, error) {
			env.clientCfg = cfg
			return client, nil
		},
		NewCompleter: func(cfg config.ServerConfig) (server.Completer, error) {
			t.Fatal("unexpected completer")
			return nil, nil
		},
		RunTUI: func(opts tui.Options) error {
			env.tuiOpts = &opts
			return nil
		},
		Clipboard: func(text string) error {
			env.copied = append(env.copied, text)
			return nil
		},
		Stdin:            strings.NewReader(""),
		Stdout:           env.stdout,
		Stderr:           env.stderr,
		StdinIsTerminal:  func() bool { return true },
		StdoutIsTerminal: func() bool { return false },
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}
