// Package inmemory provides a channel-backed event bus for single-instance
// deployments and testing. Multi-instance deployments would swap this for
// Pub/Sub behind the same interfaces.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/expense-insights/internal/events"
)

// Bus is an in-memory implementation of events.Publisher and events.Consumer.
// It is safe for concurrent use. Notifications are best-effort: a full
// buffer drops the notification instead of blocking the publisher.
type Bus struct {
	evChan    chan events.RecordsChanged
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	dropped   int
}

// NewBus creates a new in-memory event bus. bufferSize determines how many
// notifications can be pending before new ones are dropped.
func NewBus(bufferSize int) *Bus {
	return &Bus{
		evChan:    make(chan events.RecordsChanged, bufferSize),
		closeChan: make(chan struct{}),
	}
}

// PublishRecordsChanged implements the Publisher interface.
func (b *Bus) PublishRecordsChanged(ctx context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	ev := events.RecordsChanged{
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}

	select {
	case b.evChan <- ev:
		return nil
	default:
		// Dropping is acceptable: the cached view expires on its own TTL.
		b.dropped++
		return nil
	}
}

// Start implements the Consumer interface. It starts a single worker so
// notifications for one user are handled in publish order.
func (b *Bus) Start(ctx context.Context, handler events.Handler) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("event bus is closed")
	}
	b.mu.RUnlock()

	b.wg.Add(1)
	go b.worker(ctx, handler)
	return nil
}

func (b *Bus) worker(ctx context.Context, handler events.Handler) {
	defer b.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.closeChan:
			// Drain whatever is already queued before shutting down.
			for {
				select {
				case ev := <-b.evChan:
					handler(ctx, ev)
				default:
					return
				}
			}
		case ev := <-b.evChan:
			handler(ctx, ev)
		}
	}
}

// Stop implements the Consumer interface. It stops the bus and waits for
// in-flight handlers to complete.
func (b *Bus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.closeChan)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements the Publisher interface.
func (b *Bus) Close() error {
	return b.Stop(context.Background())
}

// Dropped returns the number of notifications dropped due to a full buffer.
func (b *Bus) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Ensure Bus implements both Publisher and Consumer interfaces.
var _ events.Publisher = (*Bus)(nil)
var _ events.Consumer = (*Bus)(nil)
