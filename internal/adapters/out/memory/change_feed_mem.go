// internal/adapters/out/memory/change_feed_mem.go
package memory

import (
	"context"
	"log"
	"sync"

	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
)

const subscriberBuffer = 16

// ChangeFeedMem fans published signals out to every live subscriber.
// A subscriber whose buffer is full misses that signal; the next one
// triggers the same re-fetch.
type ChangeFeedMem struct {
	mu   sync.Mutex
	subs map[chan notifdom.Event]struct{}
}

func NewChangeFeedMem() *ChangeFeedMem {
	return &ChangeFeedMem{subs: map[chan notifdom.Event]struct{}{}}
}

func (f *ChangeFeedMem) Publish(_ context.Context, e notifdom.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subs {
		select {
		case ch <- e:
		default:
			log.Printf("[feed.mem] WARN: subscriber buffer full, dropped %s", e.Kind)
		}
	}
	return nil
}

func (f *ChangeFeedMem) Subscribe(ctx context.Context) (<-chan notifdom.Event, error) {
	ch := make(chan notifdom.Event, subscriberBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch, nil
}

// Subscribers reports the number of live subscriptions.
func (f *ChangeFeedMem) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
