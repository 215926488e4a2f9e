// internal/domain/customization/rules.go
package customization

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

// Source says where a slot's options are loaded from.
// Kind, when set, keeps only options of that kind.
type Source struct {
	Slot Slot
	Ref  catalog.OptionRef
	Kind catalog.OptionKind
}

// OptionSources lists the option lists a rule needs for a product.
func OptionSources(rule catalog.Rule, productID string) []Source {
	own := catalog.ProductOptions(productID)

	switch rule {
	case catalog.RuleFlavorMulti, catalog.RuleIceCreamPot:
		return []Source{{Slot: SlotFlavors, Ref: own}}
	case catalog.RuleDrinkVariation:
		return []Source{{Slot: SlotVariation, Ref: own}}
	case catalog.RuleToppingLimited:
		return []Source{{Slot: SlotToppings, Ref: catalog.GroupOptions(catalog.GroupAcaiToppings)}}
	case catalog.RuleCakeFlavorFilling:
		return []Source{
			{Slot: SlotFlavors, Ref: own, Kind: catalog.KindFlavor},
			{Slot: SlotFillings, Ref: own, Kind: catalog.KindFilling},
		}
	case catalog.RuleIceCreamCake:
		return []Source{
			{Slot: SlotFlavors, Ref: catalog.GroupOptions(catalog.GroupIceCreamFlavors)},
			{Slot: SlotFillings, Ref: catalog.GroupOptions(catalog.GroupIceCreamFillings)},
		}
	case catalog.RuleIceCreamBucket:
		return []Source{{Slot: SlotFlavors, Ref: catalog.GroupOptions(catalog.GroupIceCreamBucketFlavor)}}
	default:
		return []Source{{Slot: SlotFlavors, Ref: own}}
	}
}

// Limit bounds the number of picks in a slot. Max < 0 is unbounded.
type Limit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type ruleSpec struct {
	slots        []Slot
	requiresDate bool
	customer     customerPolicy
}

type customerPolicy int

const (
	customerNone customerPolicy = iota
	customerOptional
	customerRequired
)

var ruleSpecs = map[catalog.Rule]ruleSpec{
	catalog.RulePlain:             {slots: []Slot{SlotFlavors}},
	catalog.RuleFlavorMulti:       {slots: []Slot{SlotFlavors}},
	catalog.RuleToppingLimited:    {slots: []Slot{SlotToppings}},
	catalog.RuleCakeFlavorFilling: {slots: []Slot{SlotFlavors, SlotFillings}, requiresDate: true, customer: customerRequired},
	catalog.RuleDrinkVariation:    {slots: []Slot{SlotVariation}},
	catalog.RuleIceCreamCake:      {slots: []Slot{SlotFlavors, SlotFillings}, requiresDate: true, customer: customerOptional},
	catalog.RuleIceCreamPot:       {slots: []Slot{SlotFlavors}},
	catalog.RuleIceCreamBucket:    {slots: []Slot{SlotFlavors}},
}

func specFor(rule catalog.Rule) ruleSpec {
	if s, ok := ruleSpecs[rule]; ok {
		return s
	}
	return ruleSpecs[catalog.RulePlain]
}

// Slots lists the slots a rule uses, in wizard order.
func Slots(rule catalog.Rule) []Slot {
	return specFor(rule).slots
}

// MaxSelections returns the pick limits of a slot under the given context.
func MaxSelections(c Context, slot Slot) Limit {
	c = c.normalized()
	switch c.Rule {
	case catalog.RulePlain:
		if slot == SlotFlavors {
			// products without their own options are sold as-is
			if len(c.Options[SlotFlavors]) == 0 {
				return Limit{Min: 0, Max: 0}
			}
			return Limit{Min: 1, Max: 1}
		}
	case catalog.RuleFlavorMulti:
		if slot == SlotFlavors {
			return Limit{Min: 1, Max: unbounded}
		}
	case catalog.RuleToppingLimited:
		if slot == SlotToppings {
			return Limit{Min: 0, Max: MaxToppings(c.Product.Size)}
		}
	case catalog.RuleCakeFlavorFilling:
		switch slot {
		case SlotFlavors:
			return Limit{Min: 1, Max: 1}
		case SlotFillings:
			return Limit{Min: 0, Max: maxCakeFillings}
		}
	case catalog.RuleDrinkVariation:
		if slot == SlotVariation {
			return Limit{Min: 1, Max: 1}
		}
	case catalog.RuleIceCreamCake:
		switch slot {
		case SlotFlavors:
			return Limit{Min: MaxFlavors(c.Rule), Max: MaxFlavors(c.Rule)}
		case SlotFillings:
			return Limit{Min: 1, Max: 1}
		}
	case catalog.RuleIceCreamPot:
		if slot == SlotFlavors {
			return Limit{Min: 1, Max: MaxFlavors(c.Rule)}
		}
	case catalog.RuleIceCreamBucket:
		if slot == SlotFlavors {
			return Limit{Min: 1, Max: MaxFlavors(c.Rule)}
		}
	}
	return Limit{Min: 0, Max: 0}
}

// RequiresDate reports whether the rule needs a delivery / pickup date.
func RequiresDate(rule catalog.Rule) bool {
	return specFor(rule).requiresDate
}

// RequiresCustomer reports whether name and phone are mandatory.
func RequiresCustomer(c Context) bool {
	switch specFor(c.normalized().Rule).customer {
	case customerRequired:
		return true
	case customerOptional:
		return c.RequireCustomer
	}
	return false
}

// Validate is the selection validity predicate of a rule.
func Validate(c Context, sel Selection) error {
	c = c.normalized()
	spec := specFor(c.Rule)

	for _, slot := range []Slot{SlotToppings, SlotFlavors, SlotFillings, SlotVariation} {
		if err := validateSlot(c, sel, slot, containsSlot(spec.slots, slot)); err != nil {
			return err
		}
	}

	if spec.requiresDate {
		if err := validateDate(c, sel.DeliveryDate); err != nil {
			return err
		}
	} else if sel.DeliveryDate != "" {
		return invalid("deliveryDate", "not accepted for %s", c.Rule)
	}

	if RequiresCustomer(c) {
		if sel.CustomerName == "" {
			return invalid("customerName", "required")
		}
		if sel.CustomerPhone == "" {
			return invalid("customerPhone", "required")
		}
	}
	return nil
}

func validateSlot(c Context, sel Selection, slot Slot, used bool) error {
	ids := sel.IDs(slot)
	if !used {
		if len(ids) > 0 {
			return invalid(string(slot), "not accepted for %s", c.Rule)
		}
		return nil
	}

	lim := MaxSelections(c, slot)
	if len(ids) < lim.Min {
		return invalid(string(slot), "at least %d required, got %d", lim.Min, len(ids))
	}
	if lim.Max >= 0 && len(ids) > lim.Max {
		return invalid(string(slot), "at most %d allowed, got %d", lim.Max, len(ids))
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return invalid(string(slot), "duplicate option %q", id)
		}
		seen[id] = struct{}{}
		o, ok := c.Options.find(slot, id)
		if !ok {
			return invalid(string(slot), "unknown option %q", id)
		}
		if !o.InStock {
			return invalid(string(slot), "option %q is out of stock", id)
		}
	}
	return nil
}

func validateDate(c Context, raw string) error {
	if raw == "" {
		return invalid("deliveryDate", "required")
	}
	d, err := time.ParseInLocation(DateLayout, raw, c.Today.Location())
	if err != nil {
		return invalid("deliveryDate", "expected YYYY-MM-DD")
	}
	if d.Before(EarliestDate(c)) {
		return invalid("deliveryDate", "must be on or after %s", EarliestDate(c).Format(DateLayout))
	}
	return nil
}

// EarliestDate is the first acceptable delivery date (today + lead time, at midnight).
func EarliestDate(c Context) time.Time {
	y, m, d := c.Today.Date()
	lead := c.Params.MinLeadDays
	if lead <= 0 {
		lead = DefaultMinLeadDays
	}
	return time.Date(y, m, d, 0, 0, 0, 0, c.Today.Location()).AddDate(0, 0, lead)
}

// Resolved is a validated selection with its options looked up.
type Resolved struct {
	Rule      catalog.Rule
	Product   catalog.Product
	Selection Selection

	Toppings  []catalog.Option
	Flavors   []catalog.Option
	Fillings  []catalog.Option
	Variation *catalog.Option

	// BasePrice excludes toppings, which are carried separately.
	BasePrice decimal.Decimal
	Label     string
}

// UnitPrice is BasePrice plus every topping price.
func (r Resolved) UnitPrice() decimal.Decimal {
	total := r.BasePrice
	for _, t := range r.Toppings {
		total = total.Add(t.Price)
	}
	return total
}

// Resolve validates sel and looks up its options.
func Resolve(c Context, sel Selection, policy pricing.Policy) (Resolved, error) {
	c = c.normalized()
	sel = sel.Normalize()
	if err := Validate(c, sel); err != nil {
		return Resolved{}, err
	}

	r := Resolved{
		Rule:      c.Rule,
		Product:   c.Product,
		Selection: sel.Clone(),
		Toppings:  lookup(c.Options, SlotToppings, sel.Toppings),
		Flavors:   lookup(c.Options, SlotFlavors, sel.Flavors),
		Fillings:  lookup(c.Options, SlotFillings, sel.Fillings),
	}
	if sel.Variation != "" {
		if v, ok := c.Options.find(SlotVariation, sel.Variation); ok {
			r.Variation = &v
		}
	}

	r.BasePrice = BasePrice(c.Rule, c.Product, r.Variation, policy)
	r.Label = Label(c.Rule, c.Product, r)
	return r, nil
}

// BasePrice is the per-unit price before toppings.
func BasePrice(rule catalog.Rule, p catalog.Product, variation *catalog.Option, policy pricing.Policy) decimal.Decimal {
	switch rule {
	case catalog.RuleDrinkVariation:
		if variation != nil {
			return variation.Price
		}
	case catalog.RuleIceCreamBucket:
		return policy.BucketPrice
	}
	return p.Price
}

// Price is the resolved unit price of a selection (base plus toppings).
func Price(c Context, sel Selection, policy pricing.Policy) decimal.Decimal {
	c = c.normalized()
	var variation *catalog.Option
	if sel.Variation != "" {
		if v, ok := c.Options.find(SlotVariation, sel.Variation); ok {
			variation = &v
		}
	}
	total := BasePrice(c.Rule, c.Product, variation, policy)
	for _, t := range lookup(c.Options, SlotToppings, sel.Toppings) {
		total = total.Add(t.Price)
	}
	return total
}

// Label renders the product name with a readable form of the selection.
func Label(rule catalog.Rule, p catalog.Product, r Resolved) string {
	name := strings.TrimSpace(p.Name)

	switch rule {
	case catalog.RuleFlavorMulti, catalog.RuleIceCreamPot:
		if len(r.Flavors) == 0 {
			return name
		}
		return name + " - " + joinNames(r.Flavors, " + ")

	case catalog.RuleToppingLimited:
		if len(r.Toppings) == 0 {
			return name
		}
		return fmt.Sprintf("%s (%s)", name, joinNames(r.Toppings, ", "))

	case catalog.RuleCakeFlavorFilling:
		out := fmt.Sprintf("%s (%s)", name, joinNames(r.Flavors, " + "))
		if len(r.Fillings) > 0 {
			out += " - Recheio: " + joinNames(r.Fillings, ", ")
		}
		return out

	case catalog.RuleDrinkVariation:
		if r.Variation == nil {
			return name
		}
		return name + " - " + r.Variation.Name

	case catalog.RuleIceCreamCake:
		return fmt.Sprintf("%s (%s) - Recheio: %s", name, joinNames(r.Flavors, " + "), joinNames(r.Fillings, ", "))

	case catalog.RuleIceCreamBucket:
		if len(r.Flavors) == 0 {
			return name
		}
		return r.Flavors[0].Name

	default:
		if len(r.Flavors) == 0 {
			return name
		}
		return name + " - " + r.Flavors[0].Name
	}
}

func lookup(opts Options, slot Slot, ids []string) []catalog.Option {
	if len(ids) == 0 {
		return nil
	}
	out := make([]catalog.Option, 0, len(ids))
	for _, id := range ids {
		if o, ok := opts.find(slot, id); ok {
			out = append(out, o)
		}
	}
	return out
}

func joinNames(opts []catalog.Option, sep string) string {
	names := make([]string, 0, len(opts))
	for _, o := range opts {
		names = append(names, o.Name)
	}
	return strings.Join(names, sep)
}

func containsSlot(slots []Slot, s Slot) bool {
	for _, v := range slots {
		if v == s {
			return true
		}
	}
	return false
}
