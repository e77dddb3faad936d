package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHEETD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SHEETD_LOG_LEVEL", "")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7050", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMergesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: 0.0.0.0:9000\nlog_level: debug\n"), 0o644))

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))

	cfg, err := Load([]string{"--config", path, "--log-level", "warn", "0.0.0.0:1234"})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:1234", cfg.Addr)
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: valid: yaml: at all:::"), 0o644))

	_, err := Load([]string{"--config", path})
	assert.Error(t, err)
}

func TestLoadEnvLogLevelOverridesFileNotFlagDefault(t *testing.T) {
	t.Setenv("SHEETD_LOG_LEVEL", "warn")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))
	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
