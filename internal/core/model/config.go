package model

import "time"

// ClockConfig contains runtime settings for the wall clock.
type ClockConfig struct {
	// Resolution is the tick period; ticks land on multiples of it.
	Resolution time.Duration
	// Buffer is the default channel buffer for subscribers.
	Buffer int
}

// StopwatchConfig contains runtime settings for the stopwatch engine.
type StopwatchConfig struct {
	RefreshInterval time.Duration
}

// EngineConfig groups the settings of every engine component.
type EngineConfig struct {
	Clock     ClockConfig
	Stopwatch StopwatchConfig
	Use24Hour bool
}

// DefaultEngineConfig returns the settings used when nothing is configured.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Clock: ClockConfig{
			Resolution: time.Second,
			Buffer:     4,
		},
		Stopwatch: StopwatchConfig{
			RefreshInterval: 100 * time.Millisecond,
		},
	}
}
