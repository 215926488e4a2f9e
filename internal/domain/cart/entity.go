// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/customization"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
)

// DefaultCartTTL is the inactivity window after which the cart becomes eligible for auto deletion
// (Firestore TTL on expiresAt, Redis key expiry).
const DefaultCartTTL = 7 * 24 * time.Hour

// Topping is a priced add-on carried on a line item.
type Topping struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItem is one priced, quantified cart entry.
//   - ID is the product id and is NOT unique across lines.
//   - Key identifies the configured line (product + every customization field).
type LineItem struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Rule      catalog.Rule    `json:"rule"`

	Toppings  []Topping `json:"toppings,omitempty"`
	Flavors   []string  `json:"flavors,omitempty"`
	Fillings  []string  `json:"fillings,omitempty"`
	Variation string    `json:"variation,omitempty"`

	DeliveryDate  string `json:"deliveryDate,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`

	// Selection keeps the chosen option ids for the merge key.
	Selection customization.Selection `json:"selection"`
}

// ToppingsTotal is the sum of the line's topping prices (per unit).
func (li LineItem) ToppingsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range li.Toppings {
		sum = sum.Add(t.Price)
	}
	return sum
}

// UnitPrice is BasePrice plus every topping price.
func (li LineItem) UnitPrice() decimal.Decimal {
	return li.BasePrice.Add(li.ToppingsTotal())
}

// LineTotal is UnitPrice times Quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) clone() LineItem {
	out := li
	if li.Toppings != nil {
		out.Toppings = append([]Topping(nil), li.Toppings...)
	}
	if li.Flavors != nil {
		out.Flavors = append([]string(nil), li.Flavors...)
	}
	if li.Fillings != nil {
		out.Fillings = append([]string(nil), li.Fillings...)
	}
	out.Selection = li.Selection.Clone()
	return out
}

// Cart is the shopping-session aggregate.
//   - docId / redis key = session id
//   - Items keep insertion order
//   - ExpiresAt is refreshed on each mutation
//
// Mutators never fail: invalid input is a defined no-op.
type Cart struct {
	ID    string     `json:"id"`
	Items []LineItem `json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewCart creates an empty cart. id is the session id.
func NewCart(id string, now time.Time) (*Cart, error) {
	sid := strings.TrimSpace(id)
	if sid == "" {
		return nil, ErrInvalidCart
	}
	return &Cart{
		ID:        sid,
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultCartTTL),
	}, nil
}

// Add merges into the line with the same key (+1) or appends the item with quantity 1.
// On merge the new item's other fields are discarded.
func (c *Cart) Add(item LineItem, now time.Time) {
	c.AddQuantity(item, 1, now)
}

// AddQuantity is Add with an explicit count; n < 1 is a no-op.
func (c *Cart) AddQuantity(item LineItem, n int, now time.Time) {
	if c == nil || n < 1 || strings.TrimSpace(item.ID) == "" {
		return
	}
	if item.Key == "" {
		item.Key = MergeKey(item.ID, item.Selection)
	}

	if idx := c.indexOfKey(item.Key); idx >= 0 {
		c.Items[idx].Quantity += n
	} else {
		it := item.clone()
		it.Quantity = n
		c.Items = append(c.Items, it)
	}
	c.touch(now)
}

// RemoveItem removes every line whose product id equals productID.
func (c *Cart) RemoveItem(productID string, now time.Time) {
	if c == nil {
		return
	}
	c.filter(func(li LineItem) bool { return li.ID != productID }, now)
}

// RemoveLine removes the single line with the given key.
func (c *Cart) RemoveLine(key string, now time.Time) {
	if c == nil {
		return
	}
	c.filter(func(li LineItem) bool { return li.Key != key }, now)
}

// UpdateQuantity sets q on every line of productID. q < 1 is a no-op.
func (c *Cart) UpdateQuantity(productID string, q int, now time.Time) {
	if c == nil || q < 1 {
		return
	}
	changed := false
	for i := range c.Items {
		if c.Items[i].ID == productID {
			c.Items[i].Quantity = q
			changed = true
		}
	}
	if changed {
		c.touch(now)
	}
}

// UpdateLineQuantity sets q on the line with the given key. q < 1 is a no-op.
func (c *Cart) UpdateLineQuantity(key string, q int, now time.Time) {
	if c == nil || q < 1 {
		return
	}
	if idx := c.indexOfKey(key); idx >= 0 {
		c.Items[idx].Quantity = q
		c.touch(now)
	}
}

// Clear empties the cart and returns a snapshot of the removed items.
func (c *Cart) Clear(now time.Time) []LineItem {
	if c == nil {
		return nil
	}
	snap := c.Snapshot()
	c.Items = []LineItem{}
	c.touch(now)
	return snap
}

// Snapshot returns a deep copy of the items.
func (c *Cart) Snapshot() []LineItem {
	if c == nil {
		return nil
	}
	out := make([]LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, it.clone())
	}
	return out
}

func (c *Cart) IsEmpty() bool { return c == nil || len(c.Items) == 0 }

// Subtotal is the sum of every line total. Recomputed on each call.
func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.itemsOrNil())
}

// Total is Subtotal plus the delivery fee when delivering.
func (c *Cart) Total(p pricing.Policy, t pricing.DeliveryType) decimal.Decimal {
	return p.Total(c.Subtotal(), t)
}

// Subtotal sums line totals of any item slice (cart or order snapshot).
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Sanitize drops lines that cannot be priced (legacy or corrupt documents).
// Called by repositories after decoding.
func (c *Cart) Sanitize() {
	if c == nil {
		return
	}
	out := c.Items[:0]
	for _, it := range c.Items {
		if strings.TrimSpace(it.ID) == "" || it.Quantity < 1 {
			continue
		}
		if it.Key == "" {
			it.Key = MergeKey(it.ID, it.Selection)
		}
		out = append(out, it)
	}
	c.Items = out
	if c.Items == nil {
		c.Items = []LineItem{}
	}
}

func (c *Cart) itemsOrNil() []LineItem {
	if c == nil {
		return nil
	}
	return c.Items
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(DefaultCartTTL)
}

func (c *Cart) filter(keep func(LineItem) bool, now time.Time) {
	out := make([]LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		if keep(it) {
			out = append(out, it)
		}
	}
	if len(out) != len(c.Items) {
		c.Items = out
		c.touch(now)
	}
}

func (c *Cart) indexOfKey(key string) int {
	for i := range c.Items {
		if c.Items[i].Key == key {
			return i
		}
	}
	return -1
}
