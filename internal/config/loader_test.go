package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSearchPath, cfg.SearchPath)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.False(t, cfg.Server.Watch)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ConfigFileName), `
search_path: ./reports
verbose: true
server:
  port: 9000
  watch: true
`)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "./reports", cfg.SearchPath)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Server.Watch)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("nope.yaml", nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ConfigFileName), "search_path: ./from-file\n")
	t.Setenv("SEMGRAPH_SEARCH_PATH", "./from-env")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "./from-env", cfg.SearchPath)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ConfigFileName), "search_path: ./from-file\nserver:\n  port: 9000\n")
	t.Setenv("SEMGRAPH_SEARCH_PATH", "./from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("search-path", "", "")
	flags.Int("port", 0, "")
	require.NoError(t, flags.Parse([]string{"--search-path", "./from-flag", "--port", "7777"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "./from-flag", cfg.SearchPath)
	assert.Equal(t, 7777, cfg.Server.Port)
}

// Unset flags must not clobber file or env values.
func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ConfigFileName), "search_path: ./from-file\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("search-path", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "./from-file", cfg.SearchPath)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
