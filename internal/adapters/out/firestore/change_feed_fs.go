// internal/adapters/out/firestore/change_feed_fs.go
package firestore

import (
	"context"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
)

// ChangeFeedFS turns collection snapshot listeners into change signals.
//   - products / product_variations: any change => products_changed
//   - orders: added documents => order_inserted
//
// Writes surface through the listeners, so Publish has nothing to do.
type ChangeFeedFS struct {
	Client *firestore.Client
}

func NewChangeFeedFS(client *firestore.Client) *ChangeFeedFS {
	return &ChangeFeedFS{Client: client}
}

func (f *ChangeFeedFS) Publish(ctx context.Context, e notifdom.Event) error { return nil }

// Subscribe listens until ctx is done, then closes the channel.
func (f *ChangeFeedFS) Subscribe(ctx context.Context) (<-chan notifdom.Event, error) {
	if f == nil || f.Client == nil {
		return nil, errNilClient
	}

	out := make(chan notifdom.Event, 16)
	since := time.Now().UTC()

	var wg sync.WaitGroup
	listen := func(name string, q firestore.Query, emit func(*firestore.QuerySnapshot) bool, kind notifdom.Kind) {
		defer wg.Done()
		it := q.Snapshots(ctx)
		defer it.Stop()

		first := true
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil && status.Code(err) != codes.Canceled {
					log.Printf("[feed.fs] WARN: %s listener stopped: %v", name, err)
				}
				return
			}
			// the first snapshot is the current state, not a change
			if first {
				first = false
				continue
			}
			if !emit(snap) {
				continue
			}
			select {
			case out <- notifdom.Event{Kind: kind, At: time.Now().UTC()}:
			case <-ctx.Done():
				return
			}
		}
	}

	anyChange := func(s *firestore.QuerySnapshot) bool { return len(s.Changes) > 0 }
	added := func(s *firestore.QuerySnapshot) bool {
		for _, ch := range s.Changes {
			if ch.Kind == firestore.DocumentAdded {
				return true
			}
		}
		return false
	}

	wg.Add(3)
	go listen(productsCollection, f.Client.Collection(productsCollection).Query, anyChange, notifdom.ProductsChanged)
	go listen(optionsCollection, f.Client.Collection(optionsCollection).Query, anyChange, notifdom.ProductsChanged)
	go listen(ordersCollection, f.Client.Collection(ordersCollection).Where("createdAt", ">=", since), added, notifdom.OrderInserted)

	go func() {
		wg.Wait()
		close(out)
	}()
	return out, nil
}
