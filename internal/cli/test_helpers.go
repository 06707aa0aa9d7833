package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"storyflow/internal/config"
)

// testConfig returns a default configuration with the story file in a
// temporary directory and progress lines turned off.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "stories.yaml")
	cfg.Output.Progress = false
	cfg.Log.Level = "error"
	return cfg
}

// newTestApp builds an App from cfg that prints into the returned buffer.
func newTestApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	app, err := NewApp(cfg, buf)
	require.NoError(t, err)
	return app, buf
}

// runCommand executes the root command with args. Command output and styled
// output land in the same buffer.
func runCommand(t *testing.T, app *App, buf *bytes.Buffer, args ...string) error {
	t.Helper()
	rootCmd := NewRootCommand(app)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
