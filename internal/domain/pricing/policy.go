// internal/domain/pricing/policy.go
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDeliveryType = errors.New("pricing: invalid delivery type")
	ErrInvalidPolicy       = errors.New("pricing: invalid policy")
)

// DeliveryType is how an order leaves the shop.
type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

// ParseDeliveryType accepts "pickup" / "delivery" (case-insensitive).
// Empty input resolves to pickup.
func ParseDeliveryType(s string) (DeliveryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DeliveryPickup):
		return DeliveryPickup, nil
	case string(DeliveryDelivery):
		return DeliveryDelivery, nil
	default:
		return "", ErrInvalidDeliveryType
	}
}

func (t DeliveryType) IsValid() bool {
	return t == DeliveryPickup || t == DeliveryDelivery
}

// Default values used when configuration leaves them empty.
var (
	DefaultDeliveryFee = decimal.RequireFromString("2.00")
	DefaultBucketPrice = decimal.RequireFromString("75.00")
)

// Policy is the single source of shop-wide monetary constants.
// Both the cart total path and the order submission path read from the same value.
type Policy struct {
	DeliveryFee decimal.Decimal
	BucketPrice decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		DeliveryFee: DefaultDeliveryFee,
		BucketPrice: DefaultBucketPrice,
	}
}

// NewPolicy parses decimal strings; empty strings fall back to defaults.
func NewPolicy(deliveryFee, bucketPrice string) (Policy, error) {
	p := DefaultPolicy()

	if s := strings.TrimSpace(deliveryFee); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Policy{}, errors.Join(ErrInvalidPolicy, err)
		}
		p.DeliveryFee = d
	}
	if s := strings.TrimSpace(bucketPrice); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Policy{}, errors.Join(ErrInvalidPolicy, err)
		}
		p.BucketPrice = d
	}

	if p.DeliveryFee.IsNegative() || p.BucketPrice.IsNegative() {
		return Policy{}, ErrInvalidPolicy
	}
	return p, nil
}

// FeeFor returns the flat surcharge for a delivery type (once per order).
func (p Policy) FeeFor(t DeliveryType) decimal.Decimal {
	if t == DeliveryDelivery {
		return p.DeliveryFee
	}
	return decimal.Zero
}

// Total adds the delivery fee to a subtotal.
func (p Policy) Total(subtotal decimal.Decimal, t DeliveryType) decimal.Decimal {
	return subtotal.Add(p.FeeFor(t))
}

// Format renders a money amount with two fraction digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ToCents converts to integer minor units (half-up at the cent).
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents converts integer minor units back to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
