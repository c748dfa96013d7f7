package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GANTT_TITLE", "Night rota")
	t.Setenv("GANTT_OUTPUT", "out/rota.svg")
	t.Setenv("GANTT_FONT_FILE", "/fonts/DejaVuSans.ttf")
	t.Setenv("GANTT_LOG_LEVEL", "debug")
	t.Setenv("GANTT_THEME", "dark")
	t.Setenv("GANTT_INTERACTIVE", "false")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "Night rota", cfg.Chart.Title)
	assert.Equal(t, "out/rota.svg", cfg.Output.Path)
	assert.Equal(t, "/fonts/DejaVuSans.ttf", cfg.Output.FontFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "dark", cfg.Display.Theme)
	assert.False(t, cfg.Display.Interactive)
}

func TestConfig_EnvOverridesIgnoreBadBool(t *testing.T) {
	clearEnv(t)
	t.Setenv("GANTT_INTERACTIVE", "sometimes")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.True(t, cfg.Display.Interactive)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".gantt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart:\n  title: From file\n"), 0644))
	t.Setenv("GANTT_TITLE", "From env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From env", cfg.Chart.Title)
}

func TestLoad_DotEnvBesideConfig(t *testing.T) {
	clearEnv(t)
	// godotenv does not overwrite variables that are already set, and
	// t.Setenv("", ...) counts as set, so unset it for this test.
	require.NoError(t, os.Unsetenv("GANTT_OUTPUT"))
	t.Cleanup(func() { os.Unsetenv("GANTT_OUTPUT") })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GANTT_OUTPUT=from-dotenv.svg\n"), 0644))

	cfg, err := Load(filepath.Join(dir, ".gantt.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.svg", cfg.Output.Path)
}
