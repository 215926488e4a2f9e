// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
)

const ordersCollection = "orders"

// OrderRepositoryFS implements order.Repository on the "orders" collection.
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) ordersCol() *firestore.CollectionRef {
	return r.Client.Collection(ordersCollection)
}

// ========================
// RepositoryPort impl
// ========================

// Create assigns an auto id and stores the order as pending.
func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errNilClient
	}

	var ref *firestore.DocumentRef
	if id := strings.TrimSpace(o.ID); id == "" {
		ref = r.ordersCol().NewDoc()
	} else {
		ref = r.ordersCol().Doc(id)
	}

	now := time.Now().UTC()
	o.ID = ref.ID
	o.Status = orderdom.StatusPending
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt

	if _, err := ref.Create(ctx, orderToData(o)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return orderdom.Order{}, orderdom.ErrConflict
		}
		return orderdom.Order{}, err
	}
	return o, nil
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.ordersCol().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return docToOrder(snap)
}

func (r *OrderRepositoryFS) UpdateStatus(ctx context.Context, id string, s orderdom.Status, at time.Time) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	if !s.IsValid() {
		return orderdom.ErrInvalidStatus
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.ErrNotFound
	}

	_, err := r.ordersCol().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(s)},
		{Path: "updatedAt", Value: at.UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.ErrNotFound
		}
		return err
	}
	return nil
}

// List runs the createdAt range on the server and the rest of the filter in memory.
func (r *OrderRepositoryFS) List(ctx context.Context, f orderdom.Filter) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}

	q := r.ordersCol().Query
	if f.CreatedFrom != nil {
		q = q.Where("createdAt", ">=", f.CreatedFrom.UTC())
	}
	if f.CreatedTo != nil {
		q = q.Where("createdAt", "<", f.CreatedTo.UTC())
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	it := q.Documents(ctx)
	defer it.Stop()

	out := []orderdom.Order{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := docToOrder(snap)
		if err != nil {
			return nil, err
		}
		if !f.Matches(o) {
			continue
		}
		out = append(out, o)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	orderdom.SortNewestFirst(out)
	return out, nil
}
