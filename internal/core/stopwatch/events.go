package stopwatch

import "time"

// State represents the current stopwatch mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

// EventType defines the type of stopwatch event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventLap         EventType = "lap"
)

// Event represents a stopwatch update for observers.
type Event struct {
	Type    EventType
	State   State
	Elapsed time.Duration
	Lap     time.Duration
	Laps    int
	At      time.Time
}

// Snapshot is a consistent view of the stopwatch.
type Snapshot struct {
	State   State
	Elapsed time.Duration
	Laps    []time.Duration
}
