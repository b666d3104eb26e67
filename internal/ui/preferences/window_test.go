package preferences

import (
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelSaveAppliesEdits(t *testing.T) {
	test.NewTempApp(t)

	var saved []Settings
	prefs := New(DefaultSettings(), func(settings Settings) error {
		saved = append(saved, settings)
		return nil
	})

	test.Tap(prefs.use24Hour)
	prefs.refresh.SetText("40")
	prefs.logLevel.SetSelected("debug")
	test.Tap(prefs.saveButton)

	require.Len(t, saved, 1)
	assert.True(t, saved[0].Use24Hour)
	assert.Equal(t, 40*time.Millisecond, saved[0].StopwatchRefresh)
	assert.Equal(t, "debug", saved[0].LogLevel)
	assert.Equal(t, saved[0], prefs.Settings())
	assert.Equal(t, "Saved", prefs.status.Text)
}

func TestPanelRejectsInvalidSettings(t *testing.T) {
	test.NewTempApp(t)

	called := false
	prefs := New(DefaultSettings(), func(Settings) error {
		called = true
		return nil
	})

	prefs.refresh.SetText("5000")
	test.Tap(prefs.saveButton)

	assert.False(t, called)
	assert.Contains(t, prefs.status.Text, "stopwatch refresh out of range")
	assert.Equal(t, DefaultSettings(), prefs.Settings())
}

func TestPanelKeepsSettingsWhenSaveFails(t *testing.T) {
	test.NewTempApp(t)

	prefs := New(DefaultSettings(), func(Settings) error {
		return errors.New("write settings file: disk full")
	})

	test.Tap(prefs.use24Hour)
	test.Tap(prefs.saveButton)

	assert.False(t, prefs.Settings().Use24Hour)
	assert.Equal(t, "write settings file: disk full", prefs.status.Text)
}

func TestPanelRejectsUnparsableNumbers(t *testing.T) {
	tests := []struct {
		name    string
		refresh string
		port    string
		want    []string
	}{
		{name: "Refresh", refresh: "abc", port: "9311", want: []string{"stopwatch refresh out of range", `"abc"`}},
		{name: "Port", refresh: "100", port: "-1", want: []string{"invalid metrics address", `"-1"`}},
		{name: "Both", refresh: "", port: "x", want: []string{"stopwatch refresh out of range", "invalid metrics address"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.NewTempApp(t)

			called := false
			prefs := New(DefaultSettings(), func(Settings) error {
				called = true
				return nil
			})

			prefs.refresh.SetText(tt.refresh)
			prefs.metricsPort.SetText(tt.port)
			test.Tap(prefs.saveButton)

			assert.False(t, called)
			assert.NotEqual(t, "Saved", prefs.status.Text)
			for _, fragment := range tt.want {
				assert.Contains(t, prefs.status.Text, fragment)
			}
			assert.Equal(t, DefaultSettings(), prefs.Settings())
		})
	}
}
