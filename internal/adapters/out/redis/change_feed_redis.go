// internal/adapters/out/redis/change_feed_redis.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	goredis "github.com/go-redis/redis/v8"

	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
)

const defaultChannel = "softshake:changes"

// ChangeFeedRedis publishes and receives change signals over one pub/sub channel.
// Pub/sub is fire-and-forget: subscribers only see signals sent while connected.
type ChangeFeedRedis struct {
	client  *goredis.Client
	channel string
}

func NewChangeFeedRedis(client *goredis.Client, channel string) *ChangeFeedRedis {
	if strings.TrimSpace(channel) == "" {
		channel = defaultChannel
	}
	return &ChangeFeedRedis{client: client, channel: channel}
}

func (f *ChangeFeedRedis) Publish(ctx context.Context, e notifdom.Event) error {
	if f == nil || f.client == nil {
		return errNilClient
	}
	if !e.Kind.IsValid() {
		return fmt.Errorf("change_feed_redis: invalid kind %q", e.Kind)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, f.channel, data).Err()
}

// Subscribe returns once the subscription is confirmed by the server.
func (f *ChangeFeedRedis) Subscribe(ctx context.Context) (<-chan notifdom.Event, error) {
	if f == nil || f.client == nil {
		return nil, errNilClient
	}

	sub := f.client.Subscribe(ctx, f.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("change_feed_redis: subscribe %s: %w", f.channel, err)
	}

	out := make(chan notifdom.Event, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var e notifdom.Event
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil || !e.Kind.IsValid() {
					log.Printf("[feed.redis] WARN: dropping malformed signal: %q", m.Payload)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
