// Package chronograph renders the stopwatch tab.
package chronograph

import (
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tickdesk/internal/core/stopwatch"
	"tickdesk/internal/core/timefmt"
	"tickdesk/internal/logging"
)

// Panel handles the stopwatch tab.
type Panel struct {
	content fyne.CanvasObject
	engine  *stopwatch.Engine
	logger  *slog.Logger
	laps    []time.Duration

	display     *widget.Label
	startButton *widget.Button
	pauseButton *widget.Button
	splitButton *widget.Button
	stopButton  *widget.Button
	resetButton *widget.Button
	lapList     *widget.List
}

// New creates the stopwatch tab bound to engine.
func New(engine *stopwatch.Engine, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.Default()
	}
	panel := &Panel{
		engine:  engine,
		logger:  logger,
		display: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true}),
	}

	panel.startButton = widget.NewButton("Start", func() { panel.run("start", engine.Start) })
	panel.pauseButton = widget.NewButton("Pause", panel.togglePause)
	panel.splitButton = widget.NewButton("Split", panel.split)
	panel.stopButton = widget.NewButton("Stop", func() { panel.run("stop", engine.Stop) })
	panel.resetButton = widget.NewButton("Reset", func() { panel.run("reset", engine.Reset) })

	panel.lapList = widget.NewList(
		func() int { return len(panel.laps) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(index widget.ListItemID, object fyne.CanvasObject) {
			if index < 0 || index >= len(panel.laps) {
				return
			}
			object.(*widget.Label).SetText(timefmt.FormatLap(index+1, panel.laps[index]))
		},
	)

	buttons := container.NewGridWithColumns(5,
		panel.startButton, panel.pauseButton, panel.splitButton, panel.stopButton, panel.resetButton)
	panel.content = container.NewBorder(container.NewVBox(panel.display, buttons), nil, nil, nil, panel.lapList)

	panel.Apply(engine.Snapshot())
	return panel
}

// Content returns the tab root object.
func (panel *Panel) Content() fyne.CanvasObject {
	return panel.content
}

// Apply renders a snapshot. Must run on the UI goroutine.
func (panel *Panel) Apply(snapshot stopwatch.Snapshot) {
	panel.display.SetText(timefmt.FormatDuration(snapshot.Elapsed))
	panel.applyState(snapshot.State)
	if len(snapshot.Laps) != len(panel.laps) {
		panel.laps = snapshot.Laps
		panel.lapList.Refresh()
	}
}

// Handle renders a stopwatch event. Must run on the UI goroutine.
func (panel *Panel) Handle(event stopwatch.Event) {
	switch event.Type {
	case stopwatch.EventProgress:
		panel.display.SetText(timefmt.FormatDuration(event.Elapsed))
	default:
		panel.Apply(panel.engine.Snapshot())
	}
}

func (panel *Panel) togglePause() {
	if panel.engine.State() == stopwatch.StatePaused {
		panel.run("resume", panel.engine.Resume)
		return
	}
	panel.run("pause", panel.engine.Pause)
}

func (panel *Panel) split() {
	if _, ok := panel.engine.Split(); !ok {
		return
	}
	panel.Apply(panel.engine.Snapshot())
}

func (panel *Panel) run(command string, action func() error) {
	if err := action(); err != nil {
		panel.logger.Warn("stopwatch command rejected", slog.String("command", command), logging.ErrAttr(err))
	}
	panel.Apply(panel.engine.Snapshot())
}

func (panel *Panel) applyState(state stopwatch.State) {
	setEnabled(panel.startButton, state == stopwatch.StateIdle || state == stopwatch.StateStopped)
	setEnabled(panel.pauseButton, state == stopwatch.StateRunning || state == stopwatch.StatePaused)
	setEnabled(panel.splitButton, state == stopwatch.StateRunning)
	setEnabled(panel.stopButton, state == stopwatch.StateRunning || state == stopwatch.StatePaused)
	setEnabled(panel.resetButton, state == stopwatch.StateStopped)

	if state == stopwatch.StatePaused {
		panel.pauseButton.SetText("Resume")
	} else {
		panel.pauseButton.SetText("Pause")
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
	} else {
		button.Disable()
	}
}
