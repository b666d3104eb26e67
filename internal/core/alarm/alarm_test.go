package alarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		use24Hour bool
		period    Period
		want      [3]int
	}{
		{name: "24h minutes", value: "14:30", use24Hour: true, want: [3]int{14, 30, 0}},
		{name: "24h seconds", value: "07:05:09", use24Hour: true, want: [3]int{7, 5, 9}},
		{name: "12h pm", value: "2:30", period: PeriodPM, want: [3]int{14, 30, 0}},
		{name: "12h midnight", value: "12:00:00", period: PeriodAM, want: [3]int{0, 0, 0}},
		{name: "12h noon", value: "12:15", period: PeriodPM, want: [3]int{12, 15, 0}},
		{name: "time input with pm", value: "00:10", period: PeriodPM, want: [3]int{12, 10, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, second, err := ParseInput(tt.value, tt.use24Hour, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, [3]int{hour, minute, second})
		})
	}
}

func TestParseInputRejectsMalformed(t *testing.T) {
	for _, value := range []string{"", "7", "7:", "a:30", "25:00", "12:60", "1:2:3:4", "12:00:61"} {
		_, _, _, err := ParseInput(value, true, "")
		assert.ErrorIs(t, err, ErrInvalidTimeValue, value)
	}

	_, _, _, err := ParseInput("13:00", false, PeriodPM)
	assert.ErrorIs(t, err, ErrInvalidTimeValue)
	_, _, _, err = ParseInput("1:00", false, "")
	assert.ErrorIs(t, err, ErrInvalidTimeValue)
}

func TestParseSpec(t *testing.T) {
	hour, minute, second, err := ParseSpec("7:30:15 pm")
	require.NoError(t, err)
	assert.Equal(t, [3]int{19, 30, 15}, [3]int{hour, minute, second})

	hour, minute, second, err = ParseSpec("06:45")
	require.NoError(t, err)
	assert.Equal(t, [3]int{6, 45, 0}, [3]int{hour, minute, second})

	_, _, _, err = ParseSpec("7:30 noon")
	assert.ErrorIs(t, err, ErrInvalidTimeValue)
	_, _, _, err = ParseSpec("")
	assert.ErrorIs(t, err, ErrInvalidTimeValue)
}

func TestAlarmOn(t *testing.T) {
	alarm := Alarm{Hour: 6, Minute: 5, Second: 4}
	reference := at(23, 0, 0)

	assert.True(t, alarm.On(reference).Equal(at(6, 5, 4)))
	assert.True(t, alarm.Matches(at(6, 5, 4)))
	assert.False(t, alarm.Matches(at(6, 5, 5)))
}
