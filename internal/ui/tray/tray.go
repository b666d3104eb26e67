package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"tickdesk/internal/core/alarm"
	"tickdesk/internal/core/stopwatch"
	"tickdesk/internal/core/timefmt"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow            func()
	OnToggleStopwatch func()
	OnToggle24Hour    func()
	OnQuit            func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	showItem   *fyne.MenuItem
	watchItem  *fyne.MenuItem
	formatItem *fyne.MenuItem
	quitItem   *fyne.MenuItem
	callbacks  Callbacks
}

// New creates a tray manager with the provided callbacks. app may be nil,
// in which case menu state is tracked without a visible tray.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("No alarms", nil)
	manager.statusItem.Disabled = true

	manager.showItem = fyne.NewMenuItem("Show", func() {
		if manager.callbacks.OnShow != nil {
			manager.callbacks.OnShow()
		}
	})

	manager.watchItem = fyne.NewMenuItem("Start stopwatch", func() {
		if manager.callbacks.OnToggleStopwatch != nil {
			manager.callbacks.OnToggleStopwatch()
		}
	})

	manager.formatItem = fyne.NewMenuItem("24 Hour Format", func() {
		if manager.callbacks.OnToggle24Hour != nil {
			manager.callbacks.OnToggle24Hour()
		}
	})

	manager.quitItem = fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})

	manager.refreshMenu()
	return manager
}

// SetNextAlarm shows the next enabled alarm, or that none is pending.
// at is marked "tomorrow" when it falls on a later day than now.
func (manager *Manager) SetNextAlarm(next alarm.Alarm, at time.Time, ok bool, now time.Time, use24Hour bool) {
	status := "No alarms"
	if ok {
		label := timefmt.FormatClock(next.Hour, next.Minute, next.Second, use24Hour)
		if !sameDay(at, now) {
			label += " tomorrow"
		}
		status = fmt.Sprintf("Next alarm: %s", label)
	}
	if status == manager.statusItem.Label {
		return
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

// SetStopwatchState relabels the stopwatch item for state.
func (manager *Manager) SetStopwatchState(state stopwatch.State) {
	switch state {
	case stopwatch.StateRunning:
		manager.watchItem.Label = "Pause stopwatch"
	case stopwatch.StatePaused:
		manager.watchItem.Label = "Resume stopwatch"
	default:
		manager.watchItem.Label = "Start stopwatch"
	}
	manager.refreshMenu()
}

// SetUse24Hour marks the format item.
func (manager *Manager) SetUse24Hour(use24Hour bool) {
	manager.formatItem.Checked = use24Hour
	manager.refreshMenu()
}

// Status returns the status line.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(fyne.NewMenu("tickdesk",
			manager.statusItem,
			fyne.NewMenuItemSeparator(),
			manager.showItem,
			manager.watchItem,
			manager.formatItem,
			fyne.NewMenuItemSeparator(),
			manager.quitItem,
		))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
