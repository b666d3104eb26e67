// Package timefmt renders instants, alarm times and stopwatch durations for display.
package timefmt

import (
	"fmt"
	"time"
)

const (
	periodAM = "AM"
	periodPM = "PM"
)

// FormatInstant renders the time of day of t.
// 12-hour output looks like "2:05:09 PM", 24-hour output like "14:05:09".
func FormatInstant(t time.Time, use24Hour bool) string {
	return FormatClock(t.Hour(), t.Minute(), t.Second(), use24Hour)
}

// FormatClock renders canonical 24-hour fields. The hour is not zero-padded.
func FormatClock(hour, minute, second int, use24Hour bool) string {
	if use24Hour {
		return fmt.Sprintf("%d:%02d:%02d", hour, minute, second)
	}
	period := periodAM
	if hour >= 12 {
		period = periodPM
	}
	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}
	return fmt.Sprintf("%d:%02d:%02d %s", displayHour, minute, second, period)
}

// FormatDuration renders an elapsed span as hours:minutes:seconds.
// Hours are unbounded and sub-second precision is truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// FormatLap renders a numbered lap line, e.g. "Lap 3  0:01:07".
func FormatLap(number int, d time.Duration) string {
	return fmt.Sprintf("Lap %d  %s", number, FormatDuration(d))
}
