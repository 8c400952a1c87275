package core

import (
	"context"
	"sync"
	"sync/atomic"
)

// EventValueAny subscribes a handler to every value raised on a source.
// Value 0 is never raised by a producer.
const EventValueAny = 0

// Event is one (source, value) pair carried by the bus.
type Event struct {
	Source uint16
	Value  uint16
}

// EventHandler is invoked from task context for each matching event.
type EventHandler func(Event)

type eventKey struct {
	source uint16
	value  uint16
}

// EventBus is a publish/subscribe channel keyed by numeric source+value pairs.
//
// RaiseEvent never blocks: it queues the event and wakes the dispatcher.
// Handlers run later from Dispatch (or Run), one at a time, in the order the
// events were raised. A panicking handler is recovered and counted; the
// remaining handlers and events are still delivered.
type EventBus struct {
	mu       sync.Mutex
	handlers map[eventKey][]EventHandler
	pending  []Event
	wake     chan struct{}

	panics atomic.Uint32
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[eventKey][]EventHandler),
		wake:     make(chan struct{}, 1),
	}
}

// OnEvent registers h for (source, value). Multiple handlers per key are all invoked.
func (b *EventBus) OnEvent(source, value uint16, h EventHandler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	k := eventKey{source, value}
	b.handlers[k] = append(b.handlers[k], h)
	b.mu.Unlock()
}

// RaiseEvent queues an event for dispatch.
func (b *EventBus) RaiseEvent(source, value uint16) {
	b.mu.Lock()
	b.pending = append(b.pending, Event{Source: source, Value: value})
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
		// already woken
	}
}

// Pending returns the number of queued, undelivered events.
func (b *EventBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Dispatch delivers every queued event and returns how many were delivered.
func (b *EventBus) Dispatch() int {
	b.mu.Lock()
	events := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, evt := range events {
		for _, h := range b.lookup(evt) {
			b.call(h, evt)
		}
	}
	return len(events)
}

// Panics returns how many handler panics Dispatch recovered.
func (b *EventBus) Panics() uint32 {
	return b.panics.Load()
}

func (b *EventBus) call(h EventHandler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			DebugAsync("[BUS] handler panicked on " + Hex4(evt.Source) + "/" + Itoa(int(evt.Value)))
		}
	}()
	h(evt)
}

// lookup snapshots the handlers for evt so they run without the lock held.
func (b *EventBus) lookup(evt Event) []EventHandler {
	b.mu.Lock()
	defer b.mu.Unlock()

	exact := b.handlers[eventKey{evt.Source, evt.Value}]
	var wildcard []EventHandler
	if evt.Value != EventValueAny {
		wildcard = b.handlers[eventKey{evt.Source, EventValueAny}]
	}
	out := make([]EventHandler, 0, len(exact)+len(wildcard))
	out = append(out, exact...)
	return append(out, wildcard...)
}

// Run dispatches events as they are raised until ctx is done.
func (b *EventBus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
			b.Dispatch()
		}
	}
}
