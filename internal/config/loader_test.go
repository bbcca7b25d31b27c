package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions_MissingFileUsesDefaults(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./data", opts.StorageRoot)
	assert.Equal(t, DefaultLLMTimeout, opts.LLMTimeout)
	assert.Equal(t, DefaultMaxCSVBytes, opts.MaxCSVBytes)
	assert.Equal(t, "127.0.0.1", opts.Server.Host)
}

func TestLoadOptions_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_root: /tmp/strategies\nmax_csv_rows: 42\n"), 0o600))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/strategies", opts.StorageRoot)
	assert.Equal(t, 42, opts.MaxCSVRows)
}

func TestLoadOptions_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_root: /tmp/from-yaml\n"), 0o600))

	t.Setenv("STORAGE_ROOT", "/tmp/from-env")
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", opts.StorageRoot)
}

func TestLoadOptions_EnvParsesDuration(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "15s")
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, opts.LLMTimeout)
}

func TestOptions_ValidateRequiresStorageRoot(t *testing.T) {
	opts := &Options{}
	assert.Error(t, opts.Validate())

	opts.StorageRoot = "./data"
	assert.NoError(t, opts.Validate())
}

func TestGetConfigPath_FallsBackWithoutEnv(t *testing.T) {
	assert.Equal(t, "./default.yaml", GetConfigPath("./default.yaml"))
}

func TestGetConfigPath_PrefersEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/strategist/config.yaml")
	assert.Equal(t, "/etc/strategist/config.yaml", GetConfigPath("./default.yaml"))
}
