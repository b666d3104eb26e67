package timekeeper

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"

	"tickdesk/internal/core/alarm"
	"tickdesk/internal/core/broadcast"
	"tickdesk/internal/core/model"
)

// AlarmChecker decides which alarms are due at an instant.
type AlarmChecker interface {
	CheckDue(now time.Time) []alarm.Alarm
}

// TimeKeeper is the wall clock. It ticks on second boundaries and
// evaluates alarms against each tick.
type TimeKeeper struct {
	mu      sync.Mutex
	config  model.ClockConfig
	clock   clock.Clock
	checker AlarmChecker
	hub     *broadcast.Hub[Event]
	last    time.Time
	ticks   atomic.Uint64
	stopCh  chan struct{}
	done    chan struct{}
	running bool
	stopped bool
}

// New creates a TimeKeeper reading time from source.
// A nil source means the system clock.
func New(config model.ClockConfig, source clock.Clock) *TimeKeeper {
	if config.Resolution <= 0 {
		config.Resolution = time.Second
	}
	if config.Buffer <= 0 {
		config.Buffer = 1
	}
	if source == nil {
		source = clock.New()
	}

	return &TimeKeeper{
		config: config,
		clock:  source,
		hub:    broadcast.NewHub[Event](),
	}
}

// SetAlarmChecker injects the alarm checker evaluated on every tick.
func (keeper *TimeKeeper) SetAlarmChecker(checker AlarmChecker) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.checker = checker
}

// Subscribe registers a new observer channel. Plain ticks are dropped when the
// channel is full; ticks carrying fired alarms wait for room, so subscribers
// must keep draining or cancel.
func (keeper *TimeKeeper) Subscribe(buffer int) *broadcast.Subscription[Event] {
	if buffer <= 0 {
		buffer = keeper.config.Buffer
	}
	return keeper.hub.Subscribe(buffer)
}

// SubscribeFunc calls handler for every event until the subscription is cancelled.
func (keeper *TimeKeeper) SubscribeFunc(handler func(Event)) *broadcast.Subscription[Event] {
	return keeper.hub.SubscribeFunc(keeper.config.Buffer, handler)
}

// Now returns the current instant truncated to the second.
func (keeper *TimeKeeper) Now() time.Time {
	return keeper.clock.Now().Truncate(time.Second)
}

// Last returns the instant of the most recent tick, zero before the first one.
func (keeper *TimeKeeper) Last() time.Time {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.last
}

// Ticks returns the number of ticks published so far.
func (keeper *TimeKeeper) Ticks() uint64 {
	return keeper.ticks.Load()
}

// Start launches the ticking loop. A stopped TimeKeeper cannot be restarted.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.running || keeper.stopped {
		return
	}
	keeper.running = true
	keeper.stopCh = make(chan struct{})
	keeper.done = make(chan struct{})

	// The first timer is armed before Start returns.
	timer := keeper.clock.Timer(UntilNextTick(keeper.clock.Now(), keeper.config.Resolution))
	go keeper.run(timer, keeper.stopCh, keeper.done)
}

// Stop terminates the ticking loop, waits for it to release its timer
// and closes all subscriptions.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if !keeper.running {
		keeper.mu.Unlock()
		return
	}
	close(keeper.stopCh)
	keeper.running = false
	keeper.stopped = true
	done := keeper.done
	keeper.mu.Unlock()

	<-done
	keeper.hub.Close()
}

func (keeper *TimeKeeper) run(timer *clock.Timer, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		timer.Stop()
	}()

	for {
		select {
		case <-stopCh:
			return
		case fired := <-timer.C:
			// Re-armed before publishing.
			timer = keeper.clock.Timer(UntilNextTick(keeper.clock.Now(), keeper.config.Resolution))
			keeper.tick(fired, stopCh)
		}
	}
}

// tick records the instant, evaluates alarms against it and publishes one
// event. Events carrying alarms are delivered even to full subscribers, since
// the scheduler has already marked those alarms as fired.
func (keeper *TimeKeeper) tick(fired time.Time, stopCh <-chan struct{}) {
	instant := fired.Truncate(time.Second)

	keeper.mu.Lock()
	if instant.Equal(keeper.last) {
		keeper.mu.Unlock()
		return
	}
	keeper.last = instant
	checker := keeper.checker
	keeper.mu.Unlock()

	keeper.ticks.Inc()
	event := Event{
		Type: EventTick,
		At:   instant,
	}
	if checker != nil {
		event.Alarms = checker.CheckDue(instant)
	}

	if event.Fired() {
		keeper.hub.Deliver(event, stopCh)
		return
	}
	keeper.hub.Publish(event)
}

// UntilNextTick returns the delay from now to the next multiple of resolution.
// The result is in (0, resolution], so a tick exactly on a boundary waits a full period.
func UntilNextTick(now time.Time, resolution time.Duration) time.Duration {
	if resolution <= 0 {
		resolution = time.Second
	}
	offset := now.UnixNano() % int64(resolution)
	if offset < 0 {
		offset += int64(resolution)
	}
	return resolution - time.Duration(offset)
}
