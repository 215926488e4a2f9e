// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	"github.com/tisoftshake/softshake/internal/domain/customization"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartEmpty           = errors.New("cart_usecase: cart is empty")
)

// AddItemInput is a configured product to put in a cart.
type AddItemInput struct {
	ProductID string                  `json:"productId"`
	Selection customization.Selection `json:"selection"`
	Quantity  int                     `json:"quantity"`

	// RequireCustomer forces name/phone on rules where they are optional.
	RequireCustomer bool `json:"requireCustomer"`
}

// CartView is a cart with totals computed from the current policy.
type CartView struct {
	Cart         *cartdom.Cart        `json:"cart"`
	DeliveryType pricing.DeliveryType `json:"deliveryType"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
	DeliveryFee  decimal.Decimal      `json:"deliveryFee"`
	Total        decimal.Decimal      `json:"total"`
}

// CartUsecase coordinates cart operations.
// Mutations on one cart id are serialized: each load-mutate-save finishes before the next.
type CartUsecase struct {
	repo   cartdom.Repository
	custom *CustomizationUsecase
	policy pricing.Policy
	clock  Clock
	locks  *keyedMutex
}

func NewCartUsecase(repo cartdom.Repository, custom *CustomizationUsecase, policy pricing.Policy) *CartUsecase {
	return NewCartUsecaseWithClock(repo, custom, policy, systemClock{})
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, custom *CustomizationUsecase, policy pricing.Policy, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{
		repo:   repo,
		custom: custom,
		policy: policy,
		clock:  clock,
		locks:  newKeyedMutex(),
	}
}

// NewSessionID issues an id for a new shopping session.
func (uc *CartUsecase) NewSessionID() string {
	return uuid.NewString()
}

// ============================================================
// Queries
// ============================================================

// Get returns the cart, or an empty unsaved cart when none exists yet.
func (uc *CartUsecase) Get(ctx context.Context, cartID string) (*cartdom.Cart, error) {
	id := strings.TrimSpace(cartID)
	if id == "" {
		return nil, ErrCartInvalidArgument
	}
	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return cartdom.NewCart(id, uc.clock.Now().UTC())
	}
	return c, nil
}

// View returns the cart with subtotal, fee and total for the delivery type.
// An empty delivery type means pickup.
func (uc *CartUsecase) View(ctx context.Context, cartID string, deliveryType string) (CartView, error) {
	dt, err := pricing.ParseDeliveryType(deliveryType)
	if err != nil {
		return CartView{}, err
	}
	c, err := uc.Get(ctx, cartID)
	if err != nil {
		return CartView{}, err
	}
	return uc.viewOf(c, dt), nil
}

func (uc *CartUsecase) viewOf(c *cartdom.Cart, dt pricing.DeliveryType) CartView {
	sub := c.Subtotal()
	fee := uc.policy.FeeFor(dt)
	return CartView{
		Cart:         c,
		DeliveryType: dt,
		Subtotal:     sub,
		DeliveryFee:  fee,
		Total:        sub.Add(fee),
	}
}

// ============================================================
// Commands
// ============================================================

// AddItem validates the selection, builds the line and merges it into the cart.
// A rejected selection leaves the cart untouched.
func (uc *CartUsecase) AddItem(ctx context.Context, cartID string, in AddItemInput) (*cartdom.Cart, error) {
	ctx, span := tracer.Start(ctx, "CartUsecase.AddItem",
		trace.WithAttributes(attribute.String("product.id", in.ProductID)))
	defer span.End()

	if uc.custom == nil {
		return nil, errors.New("cart_usecase: customization is not configured")
	}
	resolved, err := uc.custom.Resolve(ctx, in.ProductID, in.Selection, in.RequireCustomer)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	item := cartdom.BuildLineItem(resolved, in.Quantity)

	return uc.mutate(ctx, cartID, func(c *cartdom.Cart) {
		c.AddQuantity(item, item.Quantity, uc.clock.Now().UTC())
	})
}

// UpdateQuantity sets the quantity on every line of a product. q < 1 is a no-op.
func (uc *CartUsecase) UpdateQuantity(ctx context.Context, cartID, productID string, q int) (*cartdom.Cart, error) {
	return uc.mutate(ctx, cartID, func(c *cartdom.Cart) {
		c.UpdateQuantity(strings.TrimSpace(productID), q, uc.clock.Now().UTC())
	})
}

// UpdateLineQuantity sets the quantity of one configured line. q < 1 is a no-op.
func (uc *CartUsecase) UpdateLineQuantity(ctx context.Context, cartID, key string, q int) (*cartdom.Cart, error) {
	return uc.mutate(ctx, cartID, func(c *cartdom.Cart) {
		c.UpdateLineQuantity(strings.TrimSpace(key), q, uc.clock.Now().UTC())
	})
}

// RemoveItem removes every line of a product.
func (uc *CartUsecase) RemoveItem(ctx context.Context, cartID, productID string) (*cartdom.Cart, error) {
	return uc.mutate(ctx, cartID, func(c *cartdom.Cart) {
		c.RemoveItem(strings.TrimSpace(productID), uc.clock.Now().UTC())
	})
}

func (uc *CartUsecase) RemoveLine(ctx context.Context, cartID, key string) (*cartdom.Cart, error) {
	return uc.mutate(ctx, cartID, func(c *cartdom.Cart) {
		c.RemoveLine(strings.TrimSpace(key), uc.clock.Now().UTC())
	})
}

func (uc *CartUsecase) Clear(ctx context.Context, cartID string) (*cartdom.Cart, error) {
	return uc.mutate(ctx, cartID, func(c *cartdom.Cart) {
		c.Clear(uc.clock.Now().UTC())
	})
}

// mutate runs one serialized load-mutate-save on a cart.
func (uc *CartUsecase) mutate(ctx context.Context, cartID string, fn func(c *cartdom.Cart)) (*cartdom.Cart, error) {
	id := strings.TrimSpace(cartID)
	if id == "" {
		return nil, ErrCartInvalidArgument
	}

	unlock := uc.locks.Lock(id)
	defer unlock()

	c, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := uc.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// checkout runs fn on a snapshot of a non-empty cart while holding the cart lock.
// The cart is cleared and saved only if fn succeeds.
func (uc *CartUsecase) checkout(ctx context.Context, cartID string, fn func(items []cartdom.LineItem) error) error {
	id := strings.TrimSpace(cartID)
	if id == "" {
		return ErrCartInvalidArgument
	}

	unlock := uc.locks.Lock(id)
	defer unlock()

	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.IsEmpty() {
		return ErrCartEmpty
	}

	if err := fn(c.Snapshot()); err != nil {
		return err
	}

	c.Clear(uc.clock.Now().UTC())
	return uc.repo.Save(ctx, c)
}

// ============================================================
// keyedMutex
// ============================================================

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*keyLock{}}
}

// Lock blocks until key is free and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
