package alarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTimeValue indicates a malformed or out-of-range hour, minute, second or period.
	ErrInvalidTimeValue = errors.New("invalid time value")
	// ErrInvalidIndex indicates a reference to a nonexistent alarm.
	ErrInvalidIndex = errors.New("invalid alarm index")
)

// Period is the half of the day for 12-hour input.
type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

// Periods lists the selectable periods in display order.
var Periods = []Period{PeriodAM, PeriodPM}

// ParsePeriod accepts "AM"/"PM" in any case.
func ParsePeriod(value string) (Period, error) {
	switch Period(strings.ToUpper(strings.TrimSpace(value))) {
	case PeriodAM:
		return PeriodAM, nil
	case PeriodPM:
		return PeriodPM, nil
	default:
		return "", fmt.Errorf("parse period %q: %w", value, ErrInvalidTimeValue)
	}
}

// Alarm is a daily alarm stored in canonical 24-hour form.
type Alarm struct {
	ID      uuid.UUID
	Hour    int
	Minute  int
	Second  int
	Enabled bool

	lastFired time.Time
}

// Matches reports whether the alarm's fields equal the time of day of now.
func (alarm Alarm) Matches(now time.Time) bool {
	return alarm.Hour == now.Hour() && alarm.Minute == now.Minute() && alarm.Second == now.Second()
}

// On returns the instant the alarm rings on the day of reference.
func (alarm Alarm) On(reference time.Time) time.Time {
	year, month, day := reference.Date()
	return time.Date(year, month, day, alarm.Hour, alarm.Minute, alarm.Second, 0, reference.Location())
}

// LastFired returns the instant the alarm last fired, zero if never.
func (alarm Alarm) LastFired() time.Time {
	return alarm.lastFired
}

func (alarm Alarm) before(other Alarm) bool {
	if alarm.Hour != other.Hour {
		return alarm.Hour < other.Hour
	}
	if alarm.Minute != other.Minute {
		return alarm.Minute < other.Minute
	}
	return alarm.Second < other.Second
}

// ValidateTime checks canonical 24-hour fields.
func ValidateTime(hour, minute, second int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour %d: %w", hour, ErrInvalidTimeValue)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("minute %d: %w", minute, ErrInvalidTimeValue)
	}
	if second < 0 || second > 59 {
		return fmt.Errorf("second %d: %w", second, ErrInvalidTimeValue)
	}
	return nil
}

// To24Hour converts a 12-hour clock hour to its canonical value.
// 12 AM is 0 and 12 PM is 12; an hour of 0 is read as 12.
func To24Hour(hour int, period Period) (int, error) {
	if hour < 0 || hour > 12 {
		return 0, fmt.Errorf("12-hour value %d: %w", hour, ErrInvalidTimeValue)
	}
	switch period {
	case PeriodAM:
		return hour % 12, nil
	case PeriodPM:
		return hour%12 + 12, nil
	default:
		return 0, fmt.Errorf("period %q: %w", period, ErrInvalidTimeValue)
	}
}

// ParseInput parses "HH:MM" or "HH:MM:SS" as typed in the alarm form.
// In 12-hour mode the hour is read together with period.
func ParseInput(value string, use24Hour bool, period Period) (hour, minute, second int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("parse alarm time %q: %w", value, ErrInvalidTimeValue)
	}

	fields := make([]int, 3)
	for i, part := range parts {
		parsed, convErr := strconv.Atoi(part)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("parse alarm time %q: %w", value, ErrInvalidTimeValue)
		}
		fields[i] = parsed
	}

	hour, minute, second = fields[0], fields[1], fields[2]
	if !use24Hour {
		if hour, err = To24Hour(hour, period); err != nil {
			return 0, 0, 0, err
		}
	}
	if err := ValidateTime(hour, minute, second); err != nil {
		return 0, 0, 0, err
	}
	return hour, minute, second, nil
}

// ParseSpec parses a self-contained alarm spec such as "07:30", "7:30:15 PM" or "19:30".
// A trailing AM/PM switches to 12-hour parsing.
func ParseSpec(value string) (hour, minute, second int, err error) {
	fields := strings.Fields(value)
	switch len(fields) {
	case 1:
		return ParseInput(fields[0], true, "")
	case 2:
		period, err := ParsePeriod(fields[1])
		if err != nil {
			return 0, 0, 0, err
		}
		return ParseInput(fields[0], false, period)
	default:
		return 0, 0, 0, fmt.Errorf("parse alarm spec %q: %w", value, ErrInvalidTimeValue)
	}
}
