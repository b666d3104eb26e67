package main

import (
	"fmt"

	"tickdesk/internal/storage"
	"tickdesk/internal/ui/preferences"
)

// settingsStore tracks the settings in effect next to the settings file
// content, so flag overrides are never written back.
type settingsStore struct {
	path    string
	stored  preferences.Settings
	current preferences.Settings
}

func newSettingsStore(opts options) *settingsStore {
	return &settingsStore{
		path:    opts.ConfigPath,
		stored:  opts.Stored,
		current: opts.Settings,
	}
}

// Current returns the settings in effect.
func (store *settingsStore) Current() preferences.Settings {
	return store.current
}

// Apply saves the fields that differ between the settings in effect and
// updated, then makes updated current.
func (store *settingsStore) Apply(updated preferences.Settings) error {
	stored := store.stored.WithChanges(store.current, updated)
	if err := storage.SaveSettings(store.path, stored); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	store.stored = stored
	store.current = updated
	return nil
}
