// Package metrics exposes engine activity as Prometheus metrics.
//
// All metrics live in the "tickdesk" namespace and use base units.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tickdesk/internal/core/stopwatch"
	"tickdesk/internal/core/timekeeper"
)

const namespace = "tickdesk"

// AlarmCounter reports the alarm collection size.
type AlarmCounter interface {
	Len() int
	EnabledCount() int
}

// Collector owns a private registry and the engine metrics registered in it.
type Collector struct {
	Registry *prometheus.Registry

	ticks       prometheus.Counter
	alarmsFired prometheus.Counter
	transitions *prometheus.CounterVec
	laps        prometheus.Counter
}

// NewCollector registers the engine metrics. alarms may be nil.
func NewCollector(alarms AlarmCounter, withGoMetrics bool) *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	collector := &Collector{
		Registry: registry,
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clock",
			Name:      "ticks_total",
			Help:      "Number of wall-clock ticks published.",
		}),
		alarmsFired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alarm",
			Name:      "fired_total",
			Help:      "Number of alarms that fired.",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stopwatch",
			Name:      "transitions_total",
			Help:      "Number of stopwatch state transitions by target state.",
		}, []string{"state"}),
		laps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stopwatch",
			Name:      "laps_total",
			Help:      "Number of laps captured.",
		}),
	}

	if alarms != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alarm",
			Name:      "configured",
			Help:      "Number of configured alarms.",
		}, func() float64 { return float64(alarms.Len()) })
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alarm",
			Name:      "enabled",
			Help:      "Number of enabled alarms.",
		}, func() float64 { return float64(alarms.EnabledCount()) })
	}

	if withGoMetrics {
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return collector
}

// ObserveClock records a TimeKeeper event.
func (collector *Collector) ObserveClock(event timekeeper.Event) {
	if event.Type != timekeeper.EventTick {
		return
	}
	collector.ticks.Inc()
	if event.Fired() {
		collector.alarmsFired.Add(float64(len(event.Alarms)))
	}
}

// ObserveStopwatch records a stopwatch event.
func (collector *Collector) ObserveStopwatch(event stopwatch.Event) {
	switch event.Type {
	case stopwatch.EventStateChange:
		collector.transitions.WithLabelValues(string(event.State)).Inc()
	case stopwatch.EventLap:
		collector.laps.Inc()
	}
}
