package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"packdeck/internal/domain"
	"packdeck/internal/infra/logger"
)

func newTestBus() *Bus {
	return New(logger.Discard())
}

func newEvent(t domain.EventType) domain.Event {
	return domain.Event{Type: t, Timestamp: time.Now(), RunID: "01TEST"}
}

func TestPublishSubscribe(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.Subscribe(domain.EventRunFinished, func(_ context.Context, e domain.Event) {
		if e.Type == domain.EventRunFinished {
			got.Add(1)
		}
	})

	bus.Publish(context.Background(), newEvent(domain.EventRunFinished))
	bus.Publish(context.Background(), newEvent(domain.EventRunStarted))
	bus.Close()
	if got.Load() != 1 {
		t.Fatalf("expected 1, got %d", got.Load())
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.SubscribeAll(func(_ context.Context, _ domain.Event) {
		got.Add(1)
	})

	bus.Publish(context.Background(), newEvent(domain.EventRunStarted))
	bus.Publish(context.Background(), newEvent(domain.EventThemeChanged))
	bus.Close()

	if got.Load() != 2 {
		t.Fatalf("expected 2, got %d", got.Load())
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := newTestBus()

	var typed, all atomic.Int32
	unsubTyped := bus.Subscribe(domain.EventRunFinished, func(_ context.Context, _ domain.Event) {
		typed.Add(1)
	})
	unsubAll := bus.SubscribeAll(func(_ context.Context, _ domain.Event) {
		all.Add(1)
	})

	bus.Publish(context.Background(), newEvent(domain.EventRunFinished))
	bus.Flush()

	unsubTyped()
	unsubAll()
	unsubAll() // second call is a no-op
	bus.Publish(context.Background(), newEvent(domain.EventRunFinished))
	bus.Close()

	assert.Equal(t, int32(1), typed.Load())
	assert.Equal(t, int32(1), all.Load())
}

func TestUnsubscribeKeepsOthers(t *testing.T) {
	bus := newTestBus()

	var first, second atomic.Int32
	unsub := bus.Subscribe(domain.EventRunStarted, func(_ context.Context, _ domain.Event) { first.Add(1) })
	bus.Subscribe(domain.EventRunStarted, func(_ context.Context, _ domain.Event) { second.Add(1) })

	unsub()
	bus.Publish(context.Background(), newEvent(domain.EventRunStarted))
	bus.Close()

	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestPanicRecovery(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.Subscribe(domain.EventRunFinished, func(_ context.Context, _ domain.Event) {
		panic("boom")
	})
	bus.Subscribe(domain.EventRunFinished, func(_ context.Context, _ domain.Event) {
		got.Add(1)
	})

	bus.Publish(context.Background(), newEvent(domain.EventRunFinished))
	bus.Close()

	if got.Load() != 1 {
		t.Fatalf("healthy handler should still run, got %d", got.Load())
	}
}

func TestPublishAfterClose(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.SubscribeAll(func(_ context.Context, _ domain.Event) { got.Add(1) })
	bus.Close()
	bus.Close()

	bus.Publish(context.Background(), newEvent(domain.EventRunStarted))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), got.Load())
}

func TestConcurrentPublish(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.SubscribeAll(func(_ context.Context, _ domain.Event) { got.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(context.Background(), newEvent(domain.EventRunStarted))
			}
		}()
	}
	wg.Wait()
	bus.Close()

	assert.Equal(t, int32(1000), got.Load())
}

func TestSubscriberSeesPublishOrder(t *testing.T) {
	bus := newTestBus()

	var mu sync.Mutex
	var seen []string
	bus.SubscribeAll(func(_ context.Context, e domain.Event) {
		time.Sleep(time.Millisecond)
		mu.Lock()
		seen = append(seen, e.RunID)
		mu.Unlock()
	})

	want := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		want = append(want, id)
		bus.Publish(context.Background(), domain.Event{Type: domain.EventRunStarted, RunID: id})
	}
	bus.Close()

	assert.Equal(t, want, seen)
}

func TestSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := newTestBus()

	release := make(chan struct{})
	bus.Subscribe(domain.EventRunFinished, func(context.Context, domain.Event) { <-release })

	fast := make(chan struct{}, 1)
	bus.Subscribe(domain.EventRunFinished, func(context.Context, domain.Event) { fast <- struct{}{} })

	bus.Publish(context.Background(), newEvent(domain.EventRunFinished))
	select {
	case <-fast:
	case <-time.After(2 * time.Second):
		t.Fatal("fast subscriber was blocked by the slow one")
	}
	close(release)
	bus.Close()
}
