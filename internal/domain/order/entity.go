// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

// ========================================
// Status
// ========================================

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusCompleted  Status = "completed"
)

// Statuses is the fixed forward sequence.
var Statuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusDelivering,
	StatusCompleted,
}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool { return s == StatusCompleted }

// Next returns the successor. Completed (and anything unknown) maps to itself.
func (s Status) Next() Status {
	for i, v := range Statuses {
		if v == s && i+1 < len(Statuses) {
			return Statuses[i+1]
		}
	}
	return s
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID string `json:"id"`

	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	DeliveryType    pricing.DeliveryType `json:"deliveryType"`
	DeliveryAddress string               `json:"deliveryAddress,omitempty"`

	// Items is a snapshot of the cart lines at submission time.
	Items []cartdom.LineItem `json:"items"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	TotalAmount decimal.Decimal `json:"totalAmount"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// DeliveryDate is the earliest date among dated lines (nil if none).
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
}

// Form is the customer part of a checkout.
type Form struct {
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	DeliveryType    pricing.DeliveryType `json:"deliveryType"`
	DeliveryAddress string               `json:"deliveryAddress"`
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidForm = errors.New("order: invalid form")

	ErrInvalidCustomerName  = fmt.Errorf("%w: customerName is required", ErrInvalidForm)
	ErrInvalidCustomerPhone = fmt.Errorf("%w: customerPhone is required", ErrInvalidForm)
	ErrInvalidDeliveryType  = fmt.Errorf("%w: deliveryType must be pickup or delivery", ErrInvalidForm)
	ErrInvalidAddress       = fmt.Errorf("%w: deliveryAddress is required for delivery", ErrInvalidForm)

	ErrInvalidItems      = errors.New("order: invalid items")
	ErrInvalidStatus     = errors.New("order: invalid status")
	ErrInvalidTransition = errors.New("order: invalid status transition")
	ErrInvalidCreatedAt  = errors.New("order: invalid createdAt")
)

// ========================================
// Policy
// ========================================

var (
	MinItemsRequired = 1
)

// ========================================
// Constructors
// ========================================

// Normalize trims the form. The address is dropped for pickup.
func (f Form) Normalize() Form {
	out := Form{
		CustomerName:    strings.TrimSpace(f.CustomerName),
		CustomerPhone:   strings.TrimSpace(f.CustomerPhone),
		DeliveryType:    pricing.DeliveryType(strings.ToLower(strings.TrimSpace(string(f.DeliveryType)))),
		DeliveryAddress: strings.TrimSpace(f.DeliveryAddress),
	}
	if out.DeliveryType == pricing.DeliveryPickup {
		out.DeliveryAddress = ""
	}
	return out
}

func (f Form) Validate() error {
	if f.CustomerName == "" {
		return ErrInvalidCustomerName
	}
	if f.CustomerPhone == "" {
		return ErrInvalidCustomerPhone
	}
	if !f.DeliveryType.IsValid() {
		return ErrInvalidDeliveryType
	}
	if f.DeliveryType == pricing.DeliveryDelivery && f.DeliveryAddress == "" {
		return ErrInvalidAddress
	}
	return nil
}

// New builds a pending order from a cart snapshot.
// ID is left empty; the repository assigns it.
func New(form Form, items []cartdom.LineItem, policy pricing.Policy, loc *time.Location, now time.Time) (Order, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return Order{}, err
	}

	o := Order{
		CustomerName:    form.CustomerName,
		CustomerPhone:   form.CustomerPhone,
		DeliveryType:    form.DeliveryType,
		DeliveryAddress: form.DeliveryAddress,
		Items:           items,
		Status:          StatusPending,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
		DeliveryDate:    EarliestDeliveryDate(items, loc),
	}
	o.Subtotal = cartdom.Subtotal(items)
	o.DeliveryFee = policy.FeeFor(o.DeliveryType)
	o.TotalAmount = o.Subtotal.Add(o.DeliveryFee)

	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ========================================
// Behavior
// ========================================

// NextStatus returns the successor and whether it differs from the current status.
func (o Order) NextStatus() (Status, bool) {
	next := o.Status.Next()
	return next, next != o.Status
}

// ApplyStatus sets a status that was already persisted.
// Only the immediate successor is accepted.
func (o *Order) ApplyStatus(s Status, now time.Time) error {
	if !s.IsValid() {
		return ErrInvalidStatus
	}
	if next, ok := o.NextStatus(); !ok || next != s {
		return ErrInvalidTransition
	}
	o.Status = s
	o.UpdatedAt = now.UTC()
	return nil
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if len(o.Items) < MinItemsRequired {
		return ErrInvalidItems
	}
	for _, it := range o.Items {
		if strings.TrimSpace(it.ID) == "" || it.Quantity < 1 {
			return ErrInvalidItems
		}
	}
	if !o.Status.IsValid() {
		return ErrInvalidStatus
	}
	if o.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

// ========================================
// Helpers
// ========================================

// EarliestDeliveryDate picks the minimum date among dated lines, by date not by position.
func EarliestDeliveryDate(items []cartdom.LineItem, loc *time.Location) *time.Time {
	if loc == nil {
		loc = time.UTC
	}
	var best *time.Time
	for _, it := range items {
		raw := strings.TrimSpace(it.DeliveryDate)
		if raw == "" {
			continue
		}
		d, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			continue
		}
		if best == nil || d.Before(*best) {
			dd := d
			best = &dd
		}
	}
	return best
}

// StatusCounts tallies orders per status; every status is present.
func StatusCounts(orders []Order) map[Status]int {
	out := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		out[s] = 0
	}
	for _, o := range orders {
		out[o.Status]++
	}
	return out
}

// DDL reference (for schema alignment with migrations)
const OrdersTableDDL = `
CREATE TABLE IF NOT EXISTS orders (
  id UUID PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  delivery_type TEXT NOT NULL CHECK (delivery_type IN ('pickup', 'delivery')),
  delivery_address TEXT NOT NULL DEFAULT '',
  items JSONB NOT NULL,
  subtotal NUMERIC(10,2) NOT NULL,
  delivery_fee NUMERIC(10,2) NOT NULL,
  total_amount NUMERIC(10,2) NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending', 'accepted', 'preparing', 'delivering', 'completed')),
  delivery_date TIMESTAMPTZ,

  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at DESC);
CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status);
`
