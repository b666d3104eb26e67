package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInstant(t *testing.T) {
	tests := []struct {
		name      string
		hour      int
		use24Hour bool
		want      string
	}{
		{name: "midnight 12h", hour: 0, want: "12:00:00 AM"},
		{name: "noon 12h", hour: 12, want: "12:00:00 PM"},
		{name: "late 12h", hour: 23, want: "11:00:00 PM"},
		{name: "morning 12h", hour: 9, want: "9:00:00 AM"},
		{name: "midnight 24h", hour: 0, use24Hour: true, want: "0:00:00"},
		{name: "noon 24h", hour: 12, use24Hour: true, want: "12:00:00"},
		{name: "late 24h", hour: 23, use24Hour: true, want: "23:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant := time.Date(2026, time.March, 4, tt.hour, 0, 0, 0, time.Local)
			assert.Equal(t, tt.want, FormatInstant(instant, tt.use24Hour))
		})
	}
}

func TestFormatInstantPadsMinutesAndSeconds(t *testing.T) {
	instant := time.Date(2026, time.March, 4, 14, 5, 9, 999_000_000, time.Local)

	assert.Equal(t, "2:05:09 PM", FormatInstant(instant, false))
	assert.Equal(t, "14:05:09", FormatInstant(instant, true))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		value time.Duration
		want  string
	}{
		{value: 0, want: "0:00:00"},
		{value: 999 * time.Millisecond, want: "0:00:00"},
		{value: 61 * time.Second, want: "0:01:01"},
		{value: 12*time.Hour + 30*time.Minute, want: "12:30:00"},
		{value: 27*time.Hour + 4*time.Second, want: "27:00:04"},
		{value: -5 * time.Second, want: "0:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.value))
		})
	}
}

func TestFormatLap(t *testing.T) {
	assert.Equal(t, "Lap 2  0:01:07", FormatLap(2, 67*time.Second+300*time.Millisecond))
}
