// Package stopwatch implements a pausable stopwatch with lap capture.
package stopwatch

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"tickdesk/internal/core/broadcast"
	"tickdesk/internal/core/model"
)

// ErrInvalidTransition indicates a command that is not valid in the current state.
var ErrInvalidTransition = errors.New("invalid stopwatch transition")

// Engine is the stopwatch state machine.
//
// While running, elapsed time is now minus anchor. Resume re-bases the
// anchor to now minus the frozen elapsed value, so pauses are skipped.
type Engine struct {
	mu          sync.Mutex
	config      model.StopwatchConfig
	clock       clock.Clock
	state       State
	anchor      time.Time
	accumulated time.Duration
	laps        []time.Duration
	hub         *broadcast.Hub[Event]
	refreshStop chan struct{}

	// outbox queues events in command order; flush hands them to the hub
	// outside mu, serialized by emitMu.
	outbox   []outgoing
	emitMu   sync.Mutex
	closed   chan struct{}
	closeOne sync.Once
}

type outgoing struct {
	event Event
	lossy bool
}

// New creates an idle stopwatch reading time from source.
// A nil source means the system clock.
func New(config model.StopwatchConfig, source clock.Clock) *Engine {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = 100 * time.Millisecond
	}
	if source == nil {
		source = clock.New()
	}
	return &Engine{
		config: config,
		clock:  source,
		state:  StateIdle,
		hub:    broadcast.NewHub[Event](),
		closed: make(chan struct{}),
	}
}

// Subscribe registers a new observer channel. Progress events are dropped
// when the channel is full; state changes and laps wait for room. Handlers
// must not issue commands synchronously while their channel is full.
func (engine *Engine) Subscribe(buffer int) *broadcast.Subscription[Event] {
	return engine.hub.Subscribe(buffer)
}

// SubscribeFunc calls handler for every event until the subscription is cancelled.
func (engine *Engine) SubscribeFunc(buffer int, handler func(Event)) *broadcast.Subscription[Event] {
	return engine.hub.SubscribeFunc(buffer, handler)
}

// Start begins a new run from zero. Valid from Idle and Stopped.
func (engine *Engine) Start() error {
	defer engine.flush()
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.state != StateIdle && engine.state != StateStopped {
		return fmt.Errorf("start from %s: %w", engine.state, ErrInvalidTransition)
	}
	now := engine.clock.Now()
	engine.anchor = now
	engine.accumulated = 0
	engine.laps = nil
	engine.state = StateRunning
	engine.startRefreshLocked()
	engine.emitStateLocked(now)
	return nil
}

// Pause freezes elapsed time. Valid from Running.
func (engine *Engine) Pause() error {
	defer engine.flush()
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.state != StateRunning {
		return fmt.Errorf("pause from %s: %w", engine.state, ErrInvalidTransition)
	}
	now := engine.clock.Now()
	engine.accumulated = engine.elapsedLocked(now)
	engine.anchor = time.Time{}
	engine.state = StatePaused
	engine.stopRefreshLocked()
	engine.emitStateLocked(now)
	return nil
}

// Resume continues counting from the frozen value. Valid from Paused.
func (engine *Engine) Resume() error {
	defer engine.flush()
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.state != StatePaused {
		return fmt.Errorf("resume from %s: %w", engine.state, ErrInvalidTransition)
	}
	now := engine.clock.Now()
	engine.anchor = now.Add(-engine.accumulated)
	engine.state = StateRunning
	engine.startRefreshLocked()
	engine.emitStateLocked(now)
	return nil
}

// Split records the current elapsed time as a lap. Outside Running it is a
// no-op and reports false.
func (engine *Engine) Split() (time.Duration, bool) {
	defer engine.flush()
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.state != StateRunning {
		return 0, false
	}
	now := engine.clock.Now()
	lap := engine.elapsedLocked(now)
	engine.laps = append(engine.laps, lap)
	engine.outbox = append(engine.outbox, outgoing{event: Event{
		Type:    EventLap,
		State:   engine.state,
		Elapsed: lap,
		Lap:     lap,
		Laps:    len(engine.laps),
		At:      now,
	}})
	return lap, true
}

// Stop ends the run and discards elapsed time and laps.
// Valid from Running and Paused.
func (engine *Engine) Stop() error {
	defer engine.flush()
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.state != StateRunning && engine.state != StatePaused {
		return fmt.Errorf("stop from %s: %w", engine.state, ErrInvalidTransition)
	}
	engine.accumulated = 0
	engine.anchor = time.Time{}
	engine.laps = nil
	engine.state = StateStopped
	engine.stopRefreshLocked()
	engine.emitStateLocked(engine.clock.Now())
	return nil
}

// Reset returns a stopped stopwatch to Idle.
func (engine *Engine) Reset() error {
	defer engine.flush()
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.state != StateStopped {
		return fmt.Errorf("reset from %s: %w", engine.state, ErrInvalidTransition)
	}
	engine.state = StateIdle
	engine.emitStateLocked(engine.clock.Now())
	return nil
}

// Elapsed returns 0 when idle or stopped, the live value when running and
// the frozen value when paused.
func (engine *Engine) Elapsed() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.elapsedLocked(engine.clock.Now())
}

// Laps returns a copy of the captured laps in capture order.
func (engine *Engine) Laps() []time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return append([]time.Duration(nil), engine.laps...)
}

// State returns the current run-state.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Snapshot returns state, elapsed time and laps read under one lock.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return Snapshot{
		State:   engine.state,
		Elapsed: engine.elapsedLocked(engine.clock.Now()),
		Laps:    append([]time.Duration(nil), engine.laps...),
	}
}

// Close stops the refresh ticker, abandons undelivered events and closes
// all subscriptions.
func (engine *Engine) Close() {
	engine.closeOne.Do(func() {
		close(engine.closed)
	})
	engine.mu.Lock()
	engine.stopRefreshLocked()
	engine.outbox = nil
	engine.mu.Unlock()
	engine.hub.Close()
}

func (engine *Engine) elapsedLocked(now time.Time) time.Duration {
	switch engine.state {
	case StateRunning:
		elapsed := now.Sub(engine.anchor)
		if elapsed < 0 {
			return 0
		}
		return elapsed
	case StatePaused:
		return engine.accumulated
	default:
		return 0
	}
}

func (engine *Engine) emitStateLocked(now time.Time) {
	engine.outbox = append(engine.outbox, outgoing{event: Event{
		Type:    EventStateChange,
		State:   engine.state,
		Elapsed: engine.elapsedLocked(now),
		Laps:    len(engine.laps),
		At:      now,
	}})
}

// flush delivers queued events in order. It must be called without mu held.
func (engine *Engine) flush() {
	engine.emitMu.Lock()
	defer engine.emitMu.Unlock()

	engine.mu.Lock()
	pending := engine.outbox
	engine.outbox = nil
	engine.mu.Unlock()

	for _, item := range pending {
		if item.lossy {
			engine.hub.Publish(item.event)
			continue
		}
		if !engine.hub.Deliver(item.event, engine.closed) {
			return
		}
	}
}

func (engine *Engine) startRefreshLocked() {
	engine.stopRefreshLocked()
	stop := make(chan struct{})
	engine.refreshStop = stop
	ticker := engine.clock.Ticker(engine.config.RefreshInterval)
	go engine.refresh(ticker, stop)
}

func (engine *Engine) stopRefreshLocked() {
	if engine.refreshStop != nil {
		close(engine.refreshStop)
		engine.refreshStop = nil
	}
}

func (engine *Engine) refresh(ticker *clock.Ticker, stop <-chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			engine.mu.Lock()
			// A pause or stop may have won the lock after this tick was queued.
			select {
			case <-stop:
				engine.mu.Unlock()
				return
			default:
			}
			now := engine.clock.Now()
			engine.outbox = append(engine.outbox, outgoing{lossy: true, event: Event{
				Type:    EventProgress,
				State:   engine.state,
				Elapsed: engine.elapsedLocked(now),
				Laps:    len(engine.laps),
				At:      now,
			}})
			engine.mu.Unlock()
			engine.flush()
		}
	}
}
