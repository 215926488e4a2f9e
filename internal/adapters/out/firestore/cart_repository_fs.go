// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/customization"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
//   - collection: carts
//   - docId: session id (docId is the source of truth)
//   - fields: items(array), createdAt, updatedAt, expiresAt
//
// TTL:
//   - Configure Firestore TTL on "expiresAt".
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

// Get returns (nil, nil) if not found.
func (r *CartRepositoryFS) Get(ctx context.Context, id string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	sid := strings.TrimSpace(id)
	if sid == "" {
		return nil, errors.New("cart_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(sid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	c := cartFromData(snap.Data())
	c.ID = sid
	return c, nil
}

// Save overwrites the full doc.
func (r *CartRepositoryFS) Save(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	if c == nil {
		return errors.New("cart_repository_fs: cart is nil")
	}
	sid := strings.TrimSpace(c.ID)
	if sid == "" {
		return errors.New("cart_repository_fs: Save requires cart.ID as docId")
	}
	_, err := r.col().Doc(sid).Set(ctx, cartToData(c))
	return err
}

func (r *CartRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	sid := strings.TrimSpace(id)
	if sid == "" {
		return errors.New("cart_repository_fs: id is empty")
	}
	_, err := r.col().Doc(sid).Delete(ctx)
	return err
}

// -----------------------------------------
// Mapping (shared with the order documents)
// -----------------------------------------

func cartToData(c *cartdom.Cart) map[string]any {
	return map[string]any{
		"items":     lineItemsToData(c.Items),
		"createdAt": c.CreatedAt.UTC(),
		"updatedAt": c.UpdatedAt.UTC(),
		"expiresAt": c.ExpiresAt.UTC(),
	}
}

func cartFromData(m map[string]any) *cartdom.Cart {
	c := &cartdom.Cart{Items: lineItemsFromData(m["items"])}
	if t, ok := asTime(m["createdAt"]); ok {
		c.CreatedAt = t
	}
	if t, ok := asTime(m["updatedAt"]); ok {
		c.UpdatedAt = t
	}
	if t, ok := asTime(m["expiresAt"]); ok {
		c.ExpiresAt = t
	} else {
		c.ExpiresAt = c.UpdatedAt.Add(cartdom.DefaultCartTTL)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.Sanitize()
	return c
}

func lineItemsToData(items []cartdom.LineItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		toppings := make([]map[string]any, 0, len(it.Toppings))
		for _, t := range it.Toppings {
			toppings = append(toppings, map[string]any{
				"id":    t.ID,
				"name":  t.Name,
				"price": money(t.Price),
			})
		}
		out = append(out, map[string]any{
			"id":            it.ID,
			"key":           it.Key,
			"name":          it.Name,
			"basePrice":     money(it.BasePrice),
			"quantity":      it.Quantity,
			"imageUrl":      it.ImageURL,
			"rule":          string(it.Rule),
			"toppings":      toppings,
			"flavors":       nonNil(it.Flavors),
			"fillings":      nonNil(it.Fillings),
			"variation":     it.Variation,
			"deliveryDate":  it.DeliveryDate,
			"customerName":  it.CustomerName,
			"customerPhone": it.CustomerPhone,
			"selection": map[string]any{
				"toppings":  nonNil(it.Selection.Toppings),
				"flavors":   nonNil(it.Selection.Flavors),
				"fillings":  nonNil(it.Selection.Fillings),
				"variation": it.Selection.Variation,
			},
		})
	}
	return out
}

func lineItemsFromData(v any) []cartdom.LineItem {
	rows := asMaps(v)
	out := make([]cartdom.LineItem, 0, len(rows))
	for _, m := range rows {
		it := cartdom.LineItem{
			ID:            asString(m["id"]),
			Key:           asString(m["key"]),
			Name:          asString(m["name"]),
			BasePrice:     asDecimal(m["basePrice"]),
			Quantity:      asInt(m["quantity"]),
			ImageURL:      asString(m["imageUrl"]),
			Rule:          catalog.ParseRule(asString(m["rule"])),
			Flavors:       asStrings(m["flavors"]),
			Fillings:      asStrings(m["fillings"]),
			Variation:     asString(m["variation"]),
			DeliveryDate:  asString(m["deliveryDate"]),
			CustomerName:  asString(m["customerName"]),
			CustomerPhone: asString(m["customerPhone"]),
		}
		for _, t := range asMaps(m["toppings"]) {
			it.Toppings = append(it.Toppings, cartdom.Topping{
				ID:    asString(t["id"]),
				Name:  asString(t["name"]),
				Price: asDecimal(t["price"]),
			})
		}
		if sel := asMapAny(m["selection"]); sel != nil {
			it.Selection = customization.Selection{
				Toppings:      asStrings(sel["toppings"]),
				Flavors:       asStrings(sel["flavors"]),
				Fillings:      asStrings(sel["fillings"]),
				Variation:     asString(sel["variation"]),
				DeliveryDate:  it.DeliveryDate,
				CustomerName:  it.CustomerName,
				CustomerPhone: it.CustomerPhone,
			}
		}
		out = append(out, it)
	}
	return out
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
