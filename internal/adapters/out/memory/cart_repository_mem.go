// internal/adapters/out/memory/cart_repository_mem.go
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
)

// CartRepositoryMem keeps carts in process memory (dev / tests).
// Values are deep-copied on the way in and out.
type CartRepositoryMem struct {
	mu    sync.RWMutex
	carts map[string]cartdom.Cart
}

func NewCartRepositoryMem() *CartRepositoryMem {
	return &CartRepositoryMem{carts: map[string]cartdom.Cart{}}
}

func (r *CartRepositoryMem) Get(_ context.Context, id string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(id)
	if sid == "" {
		return nil, errors.New("cart_repository_mem: id is empty")
	}
	r.mu.RLock()
	c, ok := r.carts[sid]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	out := copyCart(c)
	return &out, nil
}

func (r *CartRepositoryMem) Save(_ context.Context, c *cartdom.Cart) error {
	if c == nil {
		return errors.New("cart_repository_mem: cart is nil")
	}
	sid := strings.TrimSpace(c.ID)
	if sid == "" {
		return errors.New("cart_repository_mem: Save requires cart.ID")
	}
	r.mu.Lock()
	r.carts[sid] = copyCart(*c)
	r.mu.Unlock()
	return nil
}

func (r *CartRepositoryMem) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.carts, strings.TrimSpace(id))
	r.mu.Unlock()
	return nil
}

func copyCart(c cartdom.Cart) cartdom.Cart {
	c.Items = c.Snapshot()
	if c.Items == nil {
		c.Items = []cartdom.LineItem{}
	}
	return c
}
