package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickdesk/internal/core/alarm"
	"tickdesk/internal/core/stopwatch"
	"tickdesk/internal/core/timekeeper"
)

func TestCollectorObservesEvents(t *testing.T) {
	scheduler := alarm.NewScheduler()
	_, err := scheduler.Add(7, 0, 0)
	require.NoError(t, err)
	_, err = scheduler.Add(8, 0, 0)
	require.NoError(t, err)
	_, err = scheduler.Toggle(1)
	require.NoError(t, err)

	collector := NewCollector(scheduler, false)
	collector.ObserveClock(timekeeper.Event{Type: timekeeper.EventTick, At: time.Now()})
	collector.ObserveClock(timekeeper.Event{Type: timekeeper.EventTick, At: time.Now()})
	collector.ObserveClock(timekeeper.Event{Type: timekeeper.EventTick, At: time.Now(), Alarms: scheduler.List()[:1]})
	collector.ObserveStopwatch(stopwatch.Event{Type: stopwatch.EventStateChange, State: stopwatch.StateRunning})
	collector.ObserveStopwatch(stopwatch.Event{Type: stopwatch.EventLap})
	collector.ObserveStopwatch(stopwatch.Event{Type: stopwatch.EventProgress})

	assert.Equal(t, 3.0, testutil.ToFloat64(collector.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.alarmsFired))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.laps))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.transitions.WithLabelValues("running")))

	expected := `
# HELP tickdesk_alarm_enabled Number of enabled alarms.
# TYPE tickdesk_alarm_enabled gauge
tickdesk_alarm_enabled 1
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry, strings.NewReader(expected), "tickdesk_alarm_enabled"))
}

func TestNewServerInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{name: "EmptyHost", cfg: NewConfig(WithHost("")), wantErr: ErrEmptyHost},
		{name: "ZeroPort", cfg: NewConfig(WithPort(0)), wantErr: ErrInvalidPort},
		{name: "HugePort", cfg: NewConfig(WithPort(70000)), wantErr: ErrInvalidPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServer(tt.cfg, NewCollector(nil, false).Registry)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServerHandlerServesMetrics(t *testing.T) {
	collector := NewCollector(nil, false)
	collector.ObserveClock(timekeeper.Event{Type: timekeeper.EventTick})

	server, err := NewServer(NewConfig(), collector.Registry)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9311", NewConfig().Address())

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "tickdesk_clock_ticks_total 1")
}
