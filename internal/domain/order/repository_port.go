// internal/domain/order/repository_port.go
package order

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// Filter narrows List. Zero value lists everything.
type Filter struct {
	// Status filtering (empty = all)
	Statuses []Status

	// Query matches customer name (case-insensitive), phone or id by substring.
	Query string

	// Time range on createdAt: [CreatedFrom, CreatedTo)
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	// Limit <= 0 means no limit.
	Limit int
}

// Matches applies the whole filter in memory.
// Stores that cannot search by substring use it after their coarse query.
func (f Filter) Matches(o Order) bool {
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if o.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && !o.CreatedAt.Before(*f.CreatedTo) {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.CustomerName), q) ||
		strings.Contains(o.CustomerPhone, q) ||
		strings.Contains(strings.ToLower(o.ID), q)
}

// SortNewestFirst orders by createdAt descending, id as tie-break.
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}

// Repository defines the persistence port for Order.
type Repository interface {
	// Create assigns id (if empty) and persists the order as pending.
	Create(ctx context.Context, o Order) (Order, error)

	// GetByID returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (Order, error)

	// UpdateStatus persists a new status; ErrNotFound when absent.
	UpdateStatus(ctx context.Context, id string, s Status, at time.Time) error

	// List returns matching orders, newest first.
	List(ctx context.Context, f Filter) ([]Order, error)
}

// Standard repository errors
var (
	ErrNotFound = errors.New("order: not found")
	ErrConflict = errors.New("order: conflict")
)
