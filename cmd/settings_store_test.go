package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickdesk/internal/storage"
	"tickdesk/internal/ui/preferences"
)

func TestSettingsStoreDoesNotPersistFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	opts, err := parseOptions([]string{"--config", path, "--metrics", "--log-level", "debug"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.True(t, opts.Settings.MetricsEnabled)
	require.False(t, opts.Stored.MetricsEnabled)

	store := newSettingsStore(opts)
	updated := store.Current()
	updated.Use24Hour = true
	require.NoError(t, store.Apply(updated))

	assert.Equal(t, updated, store.Current())
	assert.True(t, store.Current().MetricsEnabled)

	saved, err := storage.LoadSettings(path)
	require.NoError(t, err)
	assert.True(t, saved.Use24Hour)
	assert.False(t, saved.MetricsEnabled)
	assert.Equal(t, preferences.DefaultSettings().LogLevel, saved.LogLevel)
}

func TestSettingsStorePersistsEditedOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	opts, err := parseOptions([]string{"--config", path, "--metrics"}, &bytes.Buffer{})
	require.NoError(t, err)

	store := newSettingsStore(opts)
	updated := store.Current()
	updated.MetricsEnabled = false
	updated.MetricsPort = 9400
	require.NoError(t, store.Apply(updated))

	saved, err := storage.LoadSettings(path)
	require.NoError(t, err)
	assert.False(t, saved.MetricsEnabled)
	assert.Equal(t, 9400, saved.MetricsPort)
}
