// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within quill.
package eventbus

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/logging"
)

// Event identifies an event type on the bus.
type Event string

// envelope pairs an event with its payload for dispatch.
type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches published events to subscribers on a single background
// goroutine. Publishing never blocks: when the buffer is full the event is
// dropped and counted.
type EventBus struct {
	ch  chan envelope
	log zerolog.Logger

	mu          sync.RWMutex
	subscribers map[Event][]func(any)
	dropped     int
}

// New creates an event bus with the given buffer size. A size of 0 uses a
// default suitable for interactive use.
func New(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventBus{
		ch:          make(chan envelope, buffer),
		log:         logging.Component("eventbus"),
		subscribers: map[Event][]func(any){},
	}
}

// Start runs the dispatch loop until the context is canceled.
func (bus *EventBus) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case env := <-bus.ch:
				bus.dispatch(env)
			}
		}
	}()
}

// Dropped returns the number of events dropped due to a full buffer.
func (bus *EventBus) Dropped() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return bus.dropped
}

func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
	default:
		bus.mu.Lock()
		bus.dropped++
		bus.mu.Unlock()
		bus.log.Warn().Str("event", string(event)).Msg("event dropped, buffer full")
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subscribers[event] = append(bus.subscribers[event], fn)
	bus.mu.Unlock()
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	handlers := make([]func(any), len(bus.subscribers[env.event]))
	copy(handlers, bus.subscribers[env.event])
	bus.mu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.log.Error().
						Str("event", string(env.event)).
						Any("panic", r).
						Msg("subscriber panicked")
				}
			}()
			fn(env.payload)
		}()
	}
}
