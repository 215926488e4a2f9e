// internal/domain/notification/event.go
package notification

import (
	"context"
	"time"
)

// Kind is the only part of a change signal consumers interpret.
type Kind string

const (
	ProductsChanged Kind = "products_changed"
	OrderInserted   Kind = "order_inserted"
)

func (k Kind) IsValid() bool {
	return k == ProductsChanged || k == OrderInserted
}

// Event is a change signal. Delivery is at-least-once and may be duplicated;
// consumers re-fetch the affected collection and never patch incrementally.
type Event struct {
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`
}

// Publisher emits change signals.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Feed delivers change signals until ctx is done.
// The returned channel is closed when the subscription ends.
type Feed interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}
