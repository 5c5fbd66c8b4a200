package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./overlay.db", cfg.SQLitePath)
	assert.Equal(t, "overlay1", cfg.OverlayName)
	assert.Equal(t, 1920, cfg.ImageWidth)
	assert.Equal(t, 1080, cfg.ImageHeight)
	assert.Equal(t, 1280, cfg.ViewWidth)
	assert.Equal(t, 720, cfg.ViewHeight)
	assert.Equal(t, "./extradata", cfg.DataDir)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxImageUploadBytes)
	assert.Empty(t, cfg.DBHost)
}

func TestLoadFromFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	content := `{
		"appPort": "9090",
		"logLevel": "debug",
		"db": {"host": "db.local", "database": "allsky"},
		"editor": {"overlayName": "allsky-cam", "imageWidth": 4056, "imageHeight": 3040}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overlay-service.cfg.json"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "db.local", cfg.DBHost)
	assert.Equal(t, "allsky", cfg.DBName)
	assert.Equal(t, "allsky-cam", cfg.OverlayName)
	assert.Equal(t, 4056, cfg.ImageWidth)
	assert.Equal(t, 3040, cfg.ImageHeight)
	// Unset keys keep their defaults.
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 1280, cfg.ViewWidth)
}

func TestLoadRejectsBadDimensions(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	content := `{"editor": {"imageWidth": 0}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overlay-service.cfg.json"), []byte(content), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overlay-service.cfg.json"), []byte("{not json"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
