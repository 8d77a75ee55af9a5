package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, Init(""))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Empty(t, cfg.BaseURL)
	assert.False(t, cfg.Debug)
	assert.NotNil(t, cfg.Logger)
}

func TestLoad_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := `
host: "acme.example.com"
base-url: "http://127.0.0.1:8000/"
debug: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	viper.Reset()
	require.NoError(t, Init(configPath))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "acme.example.com", cfg.Host)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
	assert.True(t, cfg.Debug)
}

func TestLoad_DefaultConfigFileLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".cohort"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".cohort", "config.yaml"), []byte("host: school.example.org\n"), 0o600))

	viper.Reset()
	require.NoError(t, Init(""))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "school.example.org", cfg.Host)
}

func TestLoad_EnvironmentVariablePrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("host: file.example.com\n"), 0o644))

	t.Setenv("COHORT_HOST", "env.example.com")
	t.Setenv("COHORT_NON_INTERACTIVE", "true")

	viper.Reset()
	require.NoError(t, Init(configPath))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env.example.com", cfg.Host)
	assert.True(t, cfg.NonInteractive)
}

func TestLoad_Validation(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, Init(""))

	viper.Set("base-url", "127.0.0.1:8000")
	_, err := Load()
	assert.ErrorContains(t, err, "must start with http")

	viper.Set("base-url", "")
	viper.Set("host", "  ")
	_, err = Load()
	assert.ErrorContains(t, err, "a host is required")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	assert.Error(t, Init(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestContextInjection(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { MustFromContext(context.Background()) })

	cfg := &GlobalConfig{Host: "acme.localhost"}
	ctx := InjectConfig(context.Background(), cfg)
	assert.Same(t, cfg, MustFromContext(ctx))
}
