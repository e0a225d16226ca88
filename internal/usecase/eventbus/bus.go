// Package eventbus fans run lifecycle events out to in-process subscribers.
//
// Each subscriber has its own delivery goroutine, so a slow subscriber
// never holds up the others, and every subscriber sees the events of a run
// in the order they were published (run.started before run.finished).
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"packdeck/internal/domain"
)

type delivery struct {
	ctx   context.Context
	event domain.Event
}

type subscriber struct {
	id      uint64
	handler domain.EventHandler

	mu       sync.Mutex
	pending  []delivery
	draining bool
}

// Bus is an in-process, goroutine-safe event bus.
type Bus struct {
	mu     sync.RWMutex
	typed  map[domain.EventType][]*subscriber
	all    []*subscriber
	nextID atomic.Uint64
	logger *slog.Logger
	wg     sync.WaitGroup // one count per undelivered event
	closed atomic.Bool
}

var _ domain.EventBus = (*Bus)(nil)

// New creates an event bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		typed:  make(map[domain.EventType][]*subscriber),
		logger: logger,
	}
}

// Publish queues event for the typed subscribers of its type and for the
// all-event subscribers. It never blocks on a handler.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	if b.closed.Load() {
		return
	}

	b.mu.RLock()
	targets := make([]*subscriber, 0, len(b.typed[event.Type])+len(b.all))
	targets = append(targets, b.typed[event.Type]...)
	targets = append(targets, b.all...)
	b.mu.RUnlock()

	for _, sub := range targets {
		b.enqueue(sub, delivery{ctx: ctx, event: event})
	}
}

func (b *Bus) enqueue(sub *subscriber, d delivery) {
	b.wg.Add(1)
	sub.mu.Lock()
	sub.pending = append(sub.pending, d)
	if sub.draining {
		sub.mu.Unlock()
		return
	}
	sub.draining = true
	sub.mu.Unlock()
	go b.drain(sub)
}

// drain delivers queued events until the subscriber's queue is empty.
func (b *Bus) drain(sub *subscriber) {
	for {
		sub.mu.Lock()
		if len(sub.pending) == 0 {
			sub.draining = false
			sub.mu.Unlock()
			return
		}
		d := sub.pending[0]
		sub.pending = sub.pending[1:]
		sub.mu.Unlock()

		b.deliver(sub, d)
	}
}

func (b *Bus) deliver(sub *subscriber, d delivery) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", string(d.event.Type),
				"run_id", d.event.RunID,
				"panic", r,
			)
		}
	}()
	sub.handler(d.ctx, d.event)
}

// Subscribe registers a handler for a specific event type.
// Returns an unsubscribe function; events already queued are still delivered.
func (b *Bus) Subscribe(eventType domain.EventType, handler domain.EventHandler) func() {
	sub := &subscriber{id: b.nextID.Add(1), handler: handler}

	b.mu.Lock()
	b.typed[eventType] = append(b.typed[eventType], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.typed[eventType] = without(b.typed[eventType], sub.id)
	}
}

// SubscribeAll registers a handler that receives every event.
// Returns an unsubscribe function.
func (b *Bus) SubscribeAll(handler domain.EventHandler) func() {
	sub := &subscriber{id: b.nextID.Add(1), handler: handler}

	b.mu.Lock()
	b.all = append(b.all, sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = without(b.all, sub.id)
	}
}

func without(subs []*subscriber, id uint64) []*subscriber {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

// Flush waits until every queued event has been handled, without closing
// the bus.
func (b *Bus) Flush() {
	b.wg.Wait()
}

// Close prevents new publishes and waits for queued events to be handled.
// Close is idempotent.
func (b *Bus) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.wg.Wait()
}
