// Package alarm keeps the sorted set of daily alarms and decides when they fire.
package alarm

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduler owns the alarm collection.
type Scheduler struct {
	mu     sync.Mutex
	alarms []Alarm
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add inserts an enabled alarm at its sorted position.
// Alarms with equal times keep insertion order. Duplicates are allowed.
func (scheduler *Scheduler) Add(hour, minute, second int) (Alarm, error) {
	if err := ValidateTime(hour, minute, second); err != nil {
		return Alarm{}, fmt.Errorf("add alarm: %w", err)
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	created := Alarm{
		ID:      uuid.New(),
		Hour:    hour,
		Minute:  minute,
		Second:  second,
		Enabled: true,
	}

	// First position whose alarm sorts strictly after the new one.
	position := sort.Search(len(scheduler.alarms), func(i int) bool {
		return created.before(scheduler.alarms[i])
	})
	scheduler.alarms = append(scheduler.alarms, Alarm{})
	copy(scheduler.alarms[position+1:], scheduler.alarms[position:])
	scheduler.alarms[position] = created

	return created, nil
}

// AddWithPeriod adds an alarm entered on a 12-hour clock.
func (scheduler *Scheduler) AddWithPeriod(hour, minute, second int, period Period) (Alarm, error) {
	canonical, err := To24Hour(hour, period)
	if err != nil {
		return Alarm{}, fmt.Errorf("add alarm: %w", err)
	}
	return scheduler.Add(canonical, minute, second)
}

// Toggle flips the enabled flag of the alarm at index in List order.
func (scheduler *Scheduler) Toggle(index int) (Alarm, error) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if index < 0 || index >= len(scheduler.alarms) {
		return Alarm{}, fmt.Errorf("toggle alarm %d: %w", index, ErrInvalidIndex)
	}
	scheduler.alarms[index].Enabled = !scheduler.alarms[index].Enabled
	return scheduler.alarms[index], nil
}

// ToggleID flips the enabled flag of the alarm with the given id.
func (scheduler *Scheduler) ToggleID(id uuid.UUID) (Alarm, error) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	for i := range scheduler.alarms {
		if scheduler.alarms[i].ID == id {
			scheduler.alarms[i].Enabled = !scheduler.alarms[i].Enabled
			return scheduler.alarms[i], nil
		}
	}
	return Alarm{}, fmt.Errorf("toggle alarm %s: %w", id, ErrInvalidIndex)
}

// List returns a sorted copy of all alarms.
func (scheduler *Scheduler) List() []Alarm {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return append([]Alarm(nil), scheduler.alarms...)
}

// Len returns the number of alarms.
func (scheduler *Scheduler) Len() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return len(scheduler.alarms)
}

// EnabledCount returns the number of enabled alarms.
func (scheduler *Scheduler) EnabledCount() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	count := 0
	for _, alarm := range scheduler.alarms {
		if alarm.Enabled {
			count++
		}
	}
	return count
}

// CheckDue returns the enabled alarms whose time equals now truncated to the second.
// An alarm fires at most once per instant: repeated calls within the same
// second return it only the first time, the next day it fires again.
func (scheduler *Scheduler) CheckDue(now time.Time) []Alarm {
	instant := now.Truncate(time.Second)

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	var due []Alarm
	for i := range scheduler.alarms {
		alarm := &scheduler.alarms[i]
		if !alarm.Enabled || !alarm.Matches(instant) {
			continue
		}
		if alarm.lastFired.Equal(instant) {
			continue
		}
		alarm.lastFired = instant
		due = append(due, *alarm)
	}
	return due
}

// NextDue returns the earliest enabled alarm ringing strictly after now,
// together with the instant it rings. Alarms already past today ring tomorrow.
func (scheduler *Scheduler) NextDue(now time.Time) (Alarm, time.Time, bool) {
	instant := now.Truncate(time.Second)

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	var (
		next   Alarm
		nextAt time.Time
		found  bool
	)
	for _, alarm := range scheduler.alarms {
		if !alarm.Enabled {
			continue
		}
		at := alarm.On(instant)
		if !at.After(instant) {
			at = alarm.On(instant.AddDate(0, 0, 1))
		}
		if !found || at.Before(nextAt) {
			next, nextAt, found = alarm, at, true
		}
	}
	return next, nextAt, found
}
