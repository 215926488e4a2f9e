// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

var (
	// ErrSubmitFailed wraps a failed order write. The cart is left as it was.
	ErrSubmitFailed = errors.New("order_usecase: submit failed")

	ErrOrderIDEmpty = errors.New("order_usecase: orderId is empty")
)

// ListOrdersInput drives the admin order board.
type ListOrdersInput struct {
	// Status is one status or "" / "all".
	Status string
	Query  string
	Limit  int
}

// OrderBoard is the admin view: filtered orders plus counts over every order.
type OrderBoard struct {
	Orders []orderdom.Order        `json:"orders"`
	Counts map[orderdom.Status]int `json:"counts"`
	Total  int                     `json:"total"`
}

// OrderUsecase orchestrates order submission and the status workflow.
type OrderUsecase struct {
	orders   orderdom.Repository
	carts    *CartUsecase
	policy   pricing.Policy
	loc      *time.Location
	clock    Clock
	feed     notifdom.Publisher
	notifier OrderNotifier
}

func NewOrderUsecase(orders orderdom.Repository, carts *CartUsecase, policy pricing.Policy, loc *time.Location) *OrderUsecase {
	return &OrderUsecase{
		orders: orders,
		carts:  carts,
		policy: policy,
		loc:    locOrUTC(loc),
		clock:  systemClock{},
	}
}

// WithPublisher sets the change-signal publisher (optional).
func (u *OrderUsecase) WithPublisher(p notifdom.Publisher) *OrderUsecase {
	u.feed = p
	return u
}

// WithNotifier sets the shop mail notifier (optional).
func (u *OrderUsecase) WithNotifier(n OrderNotifier) *OrderUsecase {
	u.notifier = n
	return u
}

// WithClock swaps the clock (tests).
func (u *OrderUsecase) WithClock(c Clock) *OrderUsecase {
	if c != nil {
		u.clock = c
	}
	return u
}

// =======================
// Commands
// =======================

// Submit turns the cart into a pending order.
// The cart is cleared only after the order write succeeded; double submits are not deduplicated.
func (u *OrderUsecase) Submit(ctx context.Context, cartID string, form orderdom.Form) (orderdom.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.Submit")
	defer span.End()

	var created orderdom.Order
	err := u.carts.checkout(ctx, cartID, func(items []cartdom.LineItem) error {
		o, err := orderdom.New(form, items, u.policy, u.loc, u.clock.Now())
		if err != nil {
			return err
		}
		saved, err := u.orders.Create(ctx, o)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
		}
		created = saved
		return nil
	})
	if err != nil {
		if created.ID == "" {
			span.RecordError(err)
			return orderdom.Order{}, err
		}
		// The order is persisted; only the cart clear failed.
		log.Printf("[order_uc] WARN: order %s created but cart %s was not cleared: %v", created.ID, cartID, err)
	}

	span.SetAttributes(attribute.String("order.id", created.ID))
	log.Printf("[order_uc] order placed id=%s phone=%s total=%s type=%s",
		created.ID, mask(created.CustomerPhone), pricing.Format(created.TotalAmount), created.DeliveryType)

	publish(ctx, u.feed, notifdom.OrderInserted, u.clock.Now(), "order_uc")
	u.notify(ctx, created, false)

	return created, nil
}

// Advance moves the order one step forward. Completed orders are returned unchanged
// without touching the repository. The new status is applied only after it is persisted.
func (u *OrderUsecase) Advance(ctx context.Context, id string) (orderdom.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.Advance",
		trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, ErrOrderIDEmpty
	}

	o, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return orderdom.Order{}, err
	}

	next, ok := o.NextStatus()
	if !ok {
		return o, nil
	}

	now := u.clock.Now()
	if err := u.orders.UpdateStatus(ctx, id, next, now); err != nil {
		span.RecordError(err)
		return o, err
	}
	if err := o.ApplyStatus(next, now); err != nil {
		return o, err
	}

	if next == orderdom.StatusCompleted {
		u.notify(ctx, o, true)
	}
	return o, nil
}

// =======================
// Queries
// =======================

func (u *OrderUsecase) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, ErrOrderIDEmpty
	}
	return u.orders.GetByID(ctx, id)
}

// List returns the orders matching the board filter, newest first.
// Counts always cover every order so the status tabs stay stable while searching.
func (u *OrderUsecase) List(ctx context.Context, in ListOrdersInput) (OrderBoard, error) {
	f := orderdom.Filter{Query: strings.TrimSpace(in.Query)}

	raw := strings.TrimSpace(in.Status)
	if raw != "" && !strings.EqualFold(raw, "all") {
		st, err := orderdom.ParseStatus(raw)
		if err != nil {
			return OrderBoard{}, err
		}
		f.Statuses = []orderdom.Status{st}
	}

	all, err := u.orders.List(ctx, orderdom.Filter{})
	if err != nil {
		return OrderBoard{}, err
	}

	out := make([]orderdom.Order, 0, len(all))
	for _, o := range all {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	orderdom.SortNewestFirst(out)
	if in.Limit > 0 && len(out) > in.Limit {
		out = out[:in.Limit]
	}

	return OrderBoard{
		Orders: out,
		Counts: orderdom.StatusCounts(all),
		Total:  len(all),
	}, nil
}

// =======================
// Helpers
// =======================

func (u *OrderUsecase) notify(ctx context.Context, o orderdom.Order, completed bool) {
	if u.notifier == nil {
		return
	}
	var err error
	if completed {
		err = u.notifier.OrderCompleted(ctx, o)
	} else {
		err = u.notifier.OrderPlaced(ctx, o)
	}
	if err != nil {
		log.Printf("[order_uc] WARN: notify failed order=%s completed=%t: %v", o.ID, completed, err)
	}
}
