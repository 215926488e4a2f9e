// internal/adapters/out/memory/order_repository_mem.go
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
)

// OrderRepositoryMem implements order.Repository in process memory (dev / tests).
type OrderRepositoryMem struct {
	mu     sync.RWMutex
	orders map[string]orderdom.Order
	now    func() time.Time
}

func NewOrderRepositoryMem() *OrderRepositoryMem {
	return &OrderRepositoryMem{
		orders: map[string]orderdom.Order{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *OrderRepositoryMem) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := strings.TrimSpace(o.ID)
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := r.orders[id]; exists {
		return orderdom.Order{}, orderdom.ErrConflict
	}

	o.ID = id
	o.Status = orderdom.StatusPending
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.now()
	}
	o.UpdatedAt = o.CreatedAt
	o = copyOrder(o)
	r.orders[id] = o
	return copyOrder(o), nil
}

func (r *OrderRepositoryMem) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[strings.TrimSpace(id)]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return copyOrder(o), nil
}

func (r *OrderRepositoryMem) UpdateStatus(_ context.Context, id string, s orderdom.Status, at time.Time) error {
	if !s.IsValid() {
		return orderdom.ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[strings.TrimSpace(id)]
	if !ok {
		return orderdom.ErrNotFound
	}
	o.Status = s
	o.UpdatedAt = at.UTC()
	r.orders[o.ID] = o
	return nil
}

func (r *OrderRepositoryMem) List(_ context.Context, f orderdom.Filter) ([]orderdom.Order, error) {
	r.mu.RLock()
	out := make([]orderdom.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if f.Matches(o) {
			out = append(out, copyOrder(o))
		}
	}
	r.mu.RUnlock()

	orderdom.SortNewestFirst(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func copyOrder(o orderdom.Order) orderdom.Order {
	c := cartdom.Cart{Items: o.Items}
	o.Items = c.Snapshot()
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		o.DeliveryDate = &d
	}
	return o
}
