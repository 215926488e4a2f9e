// internal/adapters/out/redis/cart_repository_redis.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
)

const defaultKeyPrefix = "softshake"

var errNilClient = errors.New("redis: client is nil")

// CartRepositoryRedis stores each cart as one JSON value at {prefix}:cart:{id}.
// The key expires with the cart (ExpiresAt), so abandoned sessions vanish on their own.
type CartRepositoryRedis struct {
	client    *goredis.Client
	keyPrefix string
	clock     func() time.Time
}

func NewCartRepositoryRedis(client *goredis.Client, keyPrefix string) *CartRepositoryRedis {
	if strings.TrimSpace(keyPrefix) == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &CartRepositoryRedis{
		client:    client,
		keyPrefix: keyPrefix,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *CartRepositoryRedis) key(id string) string {
	return fmt.Sprintf("%s:cart:%s", r.keyPrefix, id)
}

// Get returns (nil, nil) if not found.
func (r *CartRepositoryRedis) Get(ctx context.Context, id string) (*cartdom.Cart, error) {
	if r == nil || r.client == nil {
		return nil, errNilClient
	}
	sid := strings.TrimSpace(id)
	if sid == "" {
		return nil, errors.New("cart_repository_redis: id is empty")
	}

	data, err := r.client.Get(ctx, r.key(sid)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cart_repository_redis: get %s: %w", sid, err)
	}

	var c cartdom.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cart_repository_redis: decode %s: %w", sid, err)
	}
	c.ID = sid
	c.Sanitize()
	return &c, nil
}

// Save overwrites the value and resets its expiry to the cart's ExpiresAt.
func (r *CartRepositoryRedis) Save(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.client == nil {
		return errNilClient
	}
	if c == nil {
		return errors.New("cart_repository_redis: cart is nil")
	}
	sid := strings.TrimSpace(c.ID)
	if sid == "" {
		return errors.New("cart_repository_redis: Save requires cart.ID")
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart_repository_redis: encode %s: %w", sid, err)
	}
	if err := r.client.Set(ctx, r.key(sid), data, r.ttl(c)).Err(); err != nil {
		return fmt.Errorf("cart_repository_redis: set %s: %w", sid, err)
	}
	return nil
}

func (r *CartRepositoryRedis) Delete(ctx context.Context, id string) error {
	if r == nil || r.client == nil {
		return errNilClient
	}
	sid := strings.TrimSpace(id)
	if sid == "" {
		return errors.New("cart_repository_redis: id is empty")
	}
	return r.client.Del(ctx, r.key(sid)).Err()
}

func (r *CartRepositoryRedis) ttl(c *cartdom.Cart) time.Duration {
	if c.ExpiresAt.IsZero() {
		return cartdom.DefaultCartTTL
	}
	d := c.ExpiresAt.Sub(r.clock())
	if d < time.Second {
		d = time.Second
	}
	return d
}
