package watchface

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickdesk/internal/core/alarm"
)

func TestSetTimeFollowsFormat(t *testing.T) {
	test.NewTempApp(t)
	face := New(alarm.NewScheduler(), false, nil)

	now := time.Date(2026, time.October, 19, 0, 5, 9, 0, time.Local)
	face.SetTime(now)
	assert.Equal(t, "12:05:09 AM", face.timeLabel.Text)

	face.SetUse24Hour(true)
	face.SetTime(now)
	assert.Equal(t, "0:05:09", face.timeLabel.Text)
	assert.False(t, face.period.Visible())
}

func TestAddAlarmTwelveHour(t *testing.T) {
	test.NewTempApp(t)
	scheduler := alarm.NewScheduler()
	changes := 0
	face := New(scheduler, false, func() { changes++ })

	test.Tap(face.addToggle)
	require.True(t, face.form.Visible())
	assert.Equal(t, "Cancel", face.addToggle.Text)

	face.entry.SetText("7:30")
	face.period.SetSelected(string(alarm.PeriodPM))
	test.Tap(face.addButton)

	alarms := scheduler.List()
	require.Len(t, alarms, 1)
	assert.Equal(t, 19, alarms[0].Hour)
	assert.Equal(t, 30, alarms[0].Minute)
	assert.True(t, alarms[0].Enabled)

	assert.False(t, face.form.Visible())
	assert.Empty(t, face.entry.Text)
	assert.False(t, face.emptyNotice.Visible())
	assert.Equal(t, 2, changes)
}

func TestAddAlarmRejectsInvalidInput(t *testing.T) {
	test.NewTempApp(t)
	scheduler := alarm.NewScheduler()
	face := New(scheduler, true, nil)

	test.Tap(face.addToggle)
	face.entry.SetText("24:00")
	test.Tap(face.addButton)

	assert.Zero(t, scheduler.Len())
	assert.Contains(t, face.formError.Text, "invalid time value")
	assert.True(t, face.form.Visible())
}

func TestToggleAlarmFromList(t *testing.T) {
	test.NewTempApp(t)
	scheduler := alarm.NewScheduler()
	added, err := scheduler.Add(6, 45, 0)
	require.NoError(t, err)

	face := New(scheduler, true, nil)
	require.Len(t, face.alarms, 1)

	face.toggle(added.ID)
	assert.False(t, face.alarms[0].Enabled)
	assert.Zero(t, scheduler.EnabledCount())
}

func TestShowRinging(t *testing.T) {
	test.NewTempApp(t)
	face := New(alarm.NewScheduler(), false, nil)

	face.ShowRinging([]alarm.Alarm{{Hour: 14, Minute: 30}})
	assert.True(t, face.ringing.Visible())
	assert.Equal(t, "Alarm: 2:30:00 PM", face.ringing.Text)

	face.DismissRinging()
	assert.False(t, face.ringing.Visible())
}
