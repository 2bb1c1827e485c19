package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huanfeng/storesim/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, &want, cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  simulator_config: "listing.xml"
  watch: true
locale:
  lang: "de-DE"
log:
  level: "debug"
`), 0644))

	loader := NewLoader()
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, loader.ConfigFileUsed())
	assert.Equal(t, "listing.xml", cfg.Store.SimulatorConfig)
	assert.True(t, cfg.Store.Watch)
	assert.Equal(t, "de-DE", cfg.Locale.Lang)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults
	assert.Equal(t, "simulator", cfg.Store.Mode)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("store:\n  manifest: app.apk\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "app.apk", cfg.Store.Manifest)
}

func TestLoadEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORESIM_STORE_SIMULATOR_CONFIG", "/tmp/env.xml")
	t.Setenv("STORESIM_LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.xml", cfg.Store.SimulatorConfig)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, Validate(&cfg))

	cfg = Default()
	cfg.Store.Mode = "sandbox"
	assert.ErrorIs(t, Validate(&cfg), errors.ErrInvalidMode)

	cfg = Default()
	cfg.Log.Format = "xml"
	assert.ErrorIs(t, Validate(&cfg), errors.ErrConfigMalformedField)

	cfg = Default()
	cfg.Store.LinkFormat = "https://example.com/app"
	assert.ErrorIs(t, Validate(&cfg), errors.ErrConfigMalformedField)
}

func TestSaveTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, SaveTemplate(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "simulator", cfg.Store.Mode)
	assert.Equal(t, "WindowsStoreProxy.xml", cfg.Store.SimulatorConfig)
	assert.Equal(t, Default().Store.LinkFormat, cfg.Store.LinkFormat)
}
