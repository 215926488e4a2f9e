// internal/domain/customization/selection.go
package customization

import (
	"errors"
	"fmt"
	"strings"
	"time"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
)

var (
	ErrInvalidSelection = errors.New("customization: invalid selection")
	ErrWrongStep        = errors.New("customization: action not allowed in current step")
	ErrClosed           = errors.New("customization: wizard is closed")
)

// ValidationError names the field that failed. It unwraps to ErrInvalidSelection.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("customization: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSelection }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DateLayout is the wire format of delivery / pickup dates.
const DateLayout = "2006-01-02"

// Slot is a selection dimension.
type Slot string

const (
	SlotToppings  Slot = "toppings"
	SlotFlavors   Slot = "flavors"
	SlotFillings  Slot = "fillings"
	SlotVariation Slot = "variation"
)

// Selection is the in-progress choice state for one product.
// Flavors keep pick order (labels render in that order).
type Selection struct {
	Toppings      []string `json:"toppings,omitempty"`
	Flavors       []string `json:"flavors,omitempty"`
	Fillings      []string `json:"fillings,omitempty"`
	Variation     string   `json:"variation,omitempty"`
	DeliveryDate  string   `json:"deliveryDate,omitempty"`
	CustomerName  string   `json:"customerName,omitempty"`
	CustomerPhone string   `json:"customerPhone,omitempty"`
}

// IDs returns the ids chosen in a slot.
func (s Selection) IDs(slot Slot) []string {
	switch slot {
	case SlotToppings:
		return s.Toppings
	case SlotFlavors:
		return s.Flavors
	case SlotFillings:
		return s.Fillings
	case SlotVariation:
		if s.Variation == "" {
			return nil
		}
		return []string{s.Variation}
	}
	return nil
}

func (s Selection) withIDs(slot Slot, ids []string) Selection {
	switch slot {
	case SlotToppings:
		s.Toppings = ids
	case SlotFlavors:
		s.Flavors = ids
	case SlotFillings:
		s.Fillings = ids
	case SlotVariation:
		s.Variation = ""
		if len(ids) > 0 {
			s.Variation = ids[0]
		}
	}
	return s
}

// Has reports whether id is chosen in slot.
func (s Selection) Has(slot Slot, id string) bool {
	for _, v := range s.IDs(slot) {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id if selected; otherwise appends it when the slot is below max.
// max < 0 means unbounded. At the limit the selection is returned unchanged.
func (s Selection) Toggle(slot Slot, id string, max int) (Selection, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return s, false
	}

	cur := s.IDs(slot)
	for i, v := range cur {
		if v == id {
			next := make([]string, 0, len(cur)-1)
			next = append(next, cur[:i]...)
			next = append(next, cur[i+1:]...)
			return s.withIDs(slot, next), true
		}
	}

	if max >= 0 && len(cur) >= max {
		return s, false
	}

	next := make([]string, 0, len(cur)+1)
	next = append(next, cur...)
	next = append(next, id)
	return s.withIDs(slot, next), true
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	out := s
	out.Toppings = cloneStrings(s.Toppings)
	out.Flavors = cloneStrings(s.Flavors)
	out.Fillings = cloneStrings(s.Fillings)
	return out
}

// Normalize trims free-text fields and drops empty ids.
func (s Selection) Normalize() Selection {
	out := Selection{
		Toppings:      compact(s.Toppings),
		Flavors:       compact(s.Flavors),
		Fillings:      compact(s.Fillings),
		Variation:     strings.TrimSpace(s.Variation),
		DeliveryDate:  strings.TrimSpace(s.DeliveryDate),
		CustomerName:  strings.TrimSpace(s.CustomerName),
		CustomerPhone: strings.TrimSpace(s.CustomerPhone),
	}
	return out
}

// Options holds the loaded option lists keyed by slot.
type Options map[Slot][]catalog.Option

func (o Options) find(slot Slot, id string) (catalog.Option, bool) {
	for _, opt := range o[slot] {
		if opt.ID == id {
			return opt, true
		}
	}
	return catalog.Option{}, false
}

// Context is everything a rule needs besides the selection.
type Context struct {
	Product catalog.Product
	Rule    catalog.Rule
	Options Options
	Params  Params

	// Today is "now" in the shop's time zone; only its calendar date matters.
	Today time.Time

	// RequireCustomer forces name/phone for rules where they are optional.
	RequireCustomer bool
}

// normalized maps an unknown rule to plain.
func (c Context) normalized() Context {
	if !c.Rule.IsValid() {
		c.Rule = catalog.RulePlain
	}
	return c
}

func cloneStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func compact(src []string) []string {
	var out []string
	for _, v := range src {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
