// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is a persistence port for Cart.
//
// Implementations:
//   - Firestore: collection "carts", docId = session id, TTL on "expiresAt"
//   - Redis: key "softshake:cart:<id>", expiry refreshed on each Save
//   - in-memory (dev / tests)
type Repository interface {
	// Get returns (nil, nil) when the cart does not exist.
	Get(ctx context.Context, id string) (*Cart, error)

	// Save creates or replaces the cart.
	Save(ctx context.Context, c *Cart) error

	Delete(ctx context.Context, id string) error
}
