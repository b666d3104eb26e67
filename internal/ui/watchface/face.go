// Package watchface renders the wall clock together with the alarm form and list.
package watchface

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"tickdesk/internal/core/alarm"
	"tickdesk/internal/core/timefmt"
)

// Face handles the clock tab.
type Face struct {
	content   fyne.CanvasObject
	scheduler *alarm.Scheduler
	use24Hour bool
	alarms    []alarm.Alarm
	onChange  func()

	timeLabel   *widget.Label
	ringing     *widget.Label
	addToggle   *widget.Button
	form        *fyne.Container
	entry       *widget.Entry
	period      *widget.Select
	addButton   *widget.Button
	formError   *widget.Label
	alarmList   *widget.List
	emptyNotice *widget.Label
}

// New creates the clock tab. onChange runs after the alarm collection changes.
func New(scheduler *alarm.Scheduler, use24Hour bool, onChange func()) *Face {
	face := &Face{
		scheduler:   scheduler,
		use24Hour:   use24Hour,
		onChange:    onChange,
		timeLabel:   widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true}),
		ringing:     widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		entry:       widget.NewEntry(),
		period:      widget.NewSelect(periodOptions(), nil),
		formError:   widget.NewLabel(""),
		emptyNotice: widget.NewLabel("No alarms yet."),
	}

	face.period.SetSelected(string(alarm.PeriodAM))
	face.addButton = widget.NewButton("Add", face.handleAdd)
	face.addToggle = widget.NewButton("Add Alarm", face.toggleForm)
	face.form = container.NewVBox(
		container.NewBorder(nil, nil, nil, container.NewHBox(face.period, face.addButton), face.entry),
		face.formError,
	)
	face.form.Hide()
	face.ringing.Hide()

	face.alarmList = widget.NewList(
		func() int { return len(face.alarms) },
		func() fyne.CanvasObject { return widget.NewCheck("", nil) },
		face.updateRow,
	)

	face.applyFormat()
	face.refreshAlarms()

	header := container.NewVBox(face.timeLabel, face.ringing, face.addToggle, face.form, face.emptyNotice)
	face.content = container.NewBorder(header, nil, nil, nil, face.alarmList)
	return face
}

// Content returns the tab root object.
func (face *Face) Content() fyne.CanvasObject {
	return face.content
}

// SetTime shows the current instant. Must run on the UI goroutine.
func (face *Face) SetTime(now time.Time) {
	face.timeLabel.SetText(timefmt.FormatInstant(now, face.use24Hour))
}

// SetUse24Hour switches the display format of the clock and the alarm list.
func (face *Face) SetUse24Hour(use24Hour bool) {
	if face.use24Hour == use24Hour {
		return
	}
	face.use24Hour = use24Hour
	face.applyFormat()
	face.alarmList.Refresh()
}

// ShowRinging announces fired alarms.
func (face *Face) ShowRinging(alarms []alarm.Alarm) {
	if len(alarms) == 0 {
		face.ringing.Hide()
		return
	}
	labels := make([]string, 0, len(alarms))
	for _, fired := range alarms {
		labels = append(labels, face.formatAlarm(fired))
	}
	face.ringing.SetText(fmt.Sprintf("Alarm: %s", strings.Join(labels, ", ")))
	face.ringing.Show()
}

// DismissRinging hides the fired-alarm banner.
func (face *Face) DismissRinging() {
	face.ringing.Hide()
}

func (face *Face) toggleForm() {
	if face.form.Visible() {
		face.form.Hide()
		face.addToggle.SetText("Add Alarm")
		return
	}
	face.formError.SetText("")
	face.form.Show()
	face.addToggle.SetText("Cancel")
}

func (face *Face) handleAdd() {
	period, err := alarm.ParsePeriod(face.period.Selected)
	if err != nil {
		period = alarm.PeriodAM
	}

	hour, minute, second, err := alarm.ParseInput(face.entry.Text, face.use24Hour, period)
	if err != nil {
		face.formError.SetText(err.Error())
		return
	}
	if _, err := face.scheduler.Add(hour, minute, second); err != nil {
		face.formError.SetText(err.Error())
		return
	}

	face.entry.SetText("")
	face.formError.SetText("")
	face.form.Hide()
	face.addToggle.SetText("Add Alarm")
	face.refreshAlarms()
}

func (face *Face) toggle(id uuid.UUID) {
	if _, err := face.scheduler.ToggleID(id); err != nil {
		return
	}
	face.refreshAlarms()
}

func (face *Face) refreshAlarms() {
	face.alarms = face.scheduler.List()
	if len(face.alarms) == 0 {
		face.emptyNotice.Show()
	} else {
		face.emptyNotice.Hide()
	}
	face.alarmList.Refresh()
	if face.onChange != nil {
		face.onChange()
	}
}

func (face *Face) updateRow(index widget.ListItemID, object fyne.CanvasObject) {
	check := object.(*widget.Check)
	if index < 0 || index >= len(face.alarms) {
		return
	}
	current := face.alarms[index]

	check.OnChanged = nil
	check.SetText(face.formatAlarm(current))
	check.SetChecked(current.Enabled)
	check.OnChanged = func(bool) {
		face.toggle(current.ID)
	}
}

func (face *Face) applyFormat() {
	if face.use24Hour {
		face.period.Hide()
		face.entry.SetPlaceHolder("HH:MM[:SS] (00-23)")
	} else {
		face.period.Show()
		face.entry.SetPlaceHolder("HH:MM[:SS] (1-12)")
	}
}

func (face *Face) formatAlarm(value alarm.Alarm) string {
	return timefmt.FormatClock(value.Hour, value.Minute, value.Second, face.use24Hour)
}

func periodOptions() []string {
	options := make([]string, 0, len(alarm.Periods))
	for _, period := range alarm.Periods {
		options = append(options, string(period))
	}
	return options
}
