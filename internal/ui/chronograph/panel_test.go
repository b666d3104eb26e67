package chronograph

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickdesk/internal/core/model"
	"tickdesk/internal/core/stopwatch"
)

func newPanel(t *testing.T) (*Panel, *stopwatch.Engine, *clock.Mock) {
	t.Helper()
	test.NewTempApp(t)
	mock := clock.NewMock()
	engine := stopwatch.New(model.StopwatchConfig{RefreshInterval: time.Second}, mock)
	t.Cleanup(engine.Close)
	return New(engine, nil), engine, mock
}

func TestPanelInitialState(t *testing.T) {
	panel, _, _ := newPanel(t)

	assert.Equal(t, "0:00:00", panel.display.Text)
	assert.False(t, panel.startButton.Disabled())
	assert.True(t, panel.pauseButton.Disabled())
	assert.True(t, panel.splitButton.Disabled())
	assert.True(t, panel.stopButton.Disabled())
	assert.True(t, panel.resetButton.Disabled())
}

func TestPanelRunPauseResume(t *testing.T) {
	panel, engine, mock := newPanel(t)

	test.Tap(panel.startButton)
	require.Equal(t, stopwatch.StateRunning, engine.State())
	assert.True(t, panel.startButton.Disabled())
	assert.False(t, panel.splitButton.Disabled())

	mock.Add(65 * time.Second)
	test.Tap(panel.pauseButton)
	assert.Equal(t, stopwatch.StatePaused, engine.State())
	assert.Equal(t, "Resume", panel.pauseButton.Text)
	assert.Equal(t, "0:01:05", panel.display.Text)

	test.Tap(panel.pauseButton)
	assert.Equal(t, stopwatch.StateRunning, engine.State())
	assert.Equal(t, "Pause", panel.pauseButton.Text)
}

func TestPanelSplitAndStop(t *testing.T) {
	panel, engine, mock := newPanel(t)

	test.Tap(panel.startButton)
	mock.Add(2 * time.Second)
	test.Tap(panel.splitButton)
	mock.Add(3 * time.Second)
	test.Tap(panel.splitButton)

	assert.Equal(t, []time.Duration{2 * time.Second, 5 * time.Second}, panel.laps)
	assert.Equal(t, 2, panel.lapList.Length())

	test.Tap(panel.stopButton)
	assert.Equal(t, stopwatch.StateStopped, engine.State())
	assert.Equal(t, "0:00:00", panel.display.Text)
	assert.Empty(t, panel.laps)
	assert.False(t, panel.resetButton.Disabled())

	test.Tap(panel.resetButton)
	assert.Equal(t, stopwatch.StateIdle, engine.State())
}

func TestPanelHandleProgress(t *testing.T) {
	panel, _, _ := newPanel(t)

	panel.Handle(stopwatch.Event{Type: stopwatch.EventProgress, Elapsed: 3723 * time.Second})
	assert.Equal(t, "1:02:03", panel.display.Text)
}
