package broadcast

import (
	"sync"

	"go.uber.org/atomic"
)

// Hub fans values out to subscriber channels.
//
// Publish never blocks and drops values a subscriber has no room for.
// Deliver waits for room, so it must only carry values that may not be lost.
type Hub[T any] struct {
	mu          sync.Mutex
	subscribers map[uint64]*Subscription[T]
	nextID      uint64
	closed      bool
}

// Subscription is a single observer of a Hub.
type Subscription[T any] struct {
	hub       *Hub[T]
	id        uint64
	ch        chan T
	done      chan struct{}
	sendMu    sync.Mutex
	cancelled atomic.Bool
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subscribers: make(map[uint64]*Subscription[T])}
}

// Subscribe registers a new observer channel with the given buffer size.
// Subscribing to a closed hub returns an already cancelled subscription.
func (hub *Hub[T]) Subscribe(buffer int) *Subscription[T] {
	if buffer <= 0 {
		buffer = 1
	}
	subscription := &Subscription[T]{
		hub:  hub,
		ch:   make(chan T, buffer),
		done: make(chan struct{}),
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		subscription.cancelled.Store(true)
		close(subscription.done)
		close(subscription.ch)
		return subscription
	}
	hub.nextID++
	subscription.id = hub.nextID
	hub.subscribers[subscription.id] = subscription
	return subscription
}

// SubscribeFunc registers handler to be called for every published value.
// The handler runs on its own goroutine. A call that was already dequeued
// when Cancel runs may still start; nothing later is handled.
func (hub *Hub[T]) SubscribeFunc(buffer int, handler func(T)) *Subscription[T] {
	subscription := hub.Subscribe(buffer)
	go func() {
		for value := range subscription.ch {
			if subscription.cancelled.Load() {
				return
			}
			handler(value)
		}
	}()
	return subscription
}

// Publish delivers value to every subscriber that has room for it.
// Slow subscribers miss values instead of stalling the publisher.
func (hub *Hub[T]) Publish(value T) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for _, subscription := range hub.subscribers {
		select {
		case subscription.ch <- value:
		default:
		}
	}
}

// Deliver hands value to every subscriber, waiting for room in each channel.
// A subscriber is skipped once it is cancelled; stop aborts the remaining sends.
// It reports false if stop fired before every subscriber was served.
func (hub *Hub[T]) Deliver(value T, stop <-chan struct{}) bool {
	hub.mu.Lock()
	subscribers := make([]*Subscription[T], 0, len(hub.subscribers))
	for _, subscription := range hub.subscribers {
		subscribers = append(subscribers, subscription)
	}
	hub.mu.Unlock()

	for _, subscription := range subscribers {
		if !subscription.send(value, stop) {
			return false
		}
	}
	return true
}

// Len returns the number of active subscriptions.
func (hub *Hub[T]) Len() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.subscribers)
}

// Close cancels all subscriptions. Later Publish calls are no-ops.
func (hub *Hub[T]) Close() {
	hub.mu.Lock()
	if hub.closed {
		hub.mu.Unlock()
		return
	}
	hub.closed = true
	closing := make([]*Subscription[T], 0, len(hub.subscribers))
	for id, subscription := range hub.subscribers {
		subscription.markCancelled()
		delete(hub.subscribers, id)
		closing = append(closing, subscription)
	}
	hub.mu.Unlock()

	for _, subscription := range closing {
		subscription.closeChannel()
	}
}

// C returns the delivery channel. It is closed on Cancel or hub Close.
func (subscription *Subscription[T]) C() <-chan T {
	return subscription.ch
}

// Cancel stops deliveries and closes the channel. It is safe to call twice.
func (subscription *Subscription[T]) Cancel() {
	hub := subscription.hub
	hub.mu.Lock()
	if _, ok := hub.subscribers[subscription.id]; !ok {
		hub.mu.Unlock()
		return
	}
	subscription.markCancelled()
	delete(hub.subscribers, subscription.id)
	hub.mu.Unlock()

	subscription.closeChannel()
}

// Cancelled reports whether the subscription no longer receives values.
func (subscription *Subscription[T]) Cancelled() bool {
	return subscription.cancelled.Load()
}

// markCancelled must be called with the hub lock held and the subscription
// still registered.
func (subscription *Subscription[T]) markCancelled() {
	subscription.cancelled.Store(true)
	close(subscription.done)
}

// closeChannel waits for an in-flight Deliver send to give up.
func (subscription *Subscription[T]) closeChannel() {
	subscription.sendMu.Lock()
	defer subscription.sendMu.Unlock()
	close(subscription.ch)
}

func (subscription *Subscription[T]) send(value T, stop <-chan struct{}) bool {
	subscription.sendMu.Lock()
	defer subscription.sendMu.Unlock()
	if subscription.cancelled.Load() {
		return true
	}
	select {
	case subscription.ch <- value:
		return true
	case <-subscription.done:
		return true
	case <-stop:
		return false
	}
}
