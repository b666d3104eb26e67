package timekeeper

import (
	"time"

	"tickdesk/internal/core/alarm"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventTick EventType = "tick"
)

// Event represents a TimeKeeper update for observers. Alarms holds the
// alarms that fired at At.
type Event struct {
	Type   EventType
	At     time.Time
	Alarms []alarm.Alarm
}

// Fired reports whether any alarm fired at this instant.
func (event Event) Fired() bool {
	return len(event.Alarms) > 0
}
