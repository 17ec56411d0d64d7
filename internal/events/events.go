// Package events carries fire-and-forget change notifications between the
// record service and the view cache.
package events

import (
	"context"
	"time"
)

// RecordsChanged signals that the record list for one user changed and any
// cached view of it is stale.
type RecordsChanged struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher publishes change notifications. Publishing is fire-and-forget:
// a full queue drops the notification rather than blocking the caller.
type Publisher interface {
	// PublishRecordsChanged publishes a records-changed notification.
	PublishRecordsChanged(ctx context.Context, userID string) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Handler processes one notification. Delivery is at-most-once; there are
// no retries.
type Handler func(ctx context.Context, ev RecordsChanged)

// Consumer consumes notifications from the bus.
type Consumer interface {
	// Start begins consuming notifications. The handler is called for each
	// notification received.
	Start(ctx context.Context, handler Handler) error

	// Stop stops consuming and waits for in-flight handlers to complete.
	Stop(ctx context.Context) error
}
