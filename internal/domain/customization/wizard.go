// internal/domain/customization/wizard.go
package customization

import (
	"github.com/shopspring/decimal"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

// Step is a named wizard state.
type Step string

const (
	StepOption    Step = "option"
	StepFlavor    Step = "flavor"
	StepFlavors   Step = "flavors"
	StepToppings  Step = "toppings"
	StepFilling   Step = "filling"
	StepFillings  Step = "fillings"
	StepVariation Step = "variation"
	StepDetails   Step = "details"
	StepReview    Step = "review"
)

type stepDef struct {
	step Step
	slot Slot // empty for details / review
}

var wizardSteps = map[catalog.Rule][]stepDef{
	catalog.RulePlain:             {{StepOption, SlotFlavors}, {StepReview, ""}},
	catalog.RuleFlavorMulti:       {{StepFlavors, SlotFlavors}, {StepReview, ""}},
	catalog.RuleToppingLimited:    {{StepToppings, SlotToppings}, {StepReview, ""}},
	catalog.RuleCakeFlavorFilling: {{StepFlavor, SlotFlavors}, {StepFillings, SlotFillings}, {StepDetails, ""}, {StepReview, ""}},
	catalog.RuleDrinkVariation:    {{StepVariation, SlotVariation}, {StepReview, ""}},
	catalog.RuleIceCreamCake:      {{StepFlavors, SlotFlavors}, {StepFilling, SlotFillings}, {StepDetails, ""}, {StepReview, ""}},
	catalog.RuleIceCreamPot:       {{StepFlavors, SlotFlavors}, {StepReview, ""}},
	catalog.RuleIceCreamBucket:    {{StepFlavor, SlotFlavors}, {StepReview, ""}},
}

type wizardState int

const (
	wizardOpen wizardState = iota
	wizardConfirmed
	wizardCancelled
)

// Details is the free-text part of a selection.
type Details struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	DeliveryDate  string `json:"deliveryDate"`
}

// Wizard walks a customer through a rule's steps.
// It is not safe for concurrent use; each request builds its own.
type Wizard struct {
	ctx    Context
	policy pricing.Policy
	steps  []stepDef
	idx    int
	sel    Selection
	state  wizardState
}

func NewWizard(c Context, policy pricing.Policy) *Wizard {
	c = c.normalized()
	return &Wizard{
		ctx:    c,
		policy: policy,
		steps:  wizardSteps[c.Rule],
	}
}

// Replay feeds a full selection through the steps in order and stops at the
// first step that cannot be completed. Over-limit and disabled picks are dropped
// the same way interactive toggles drop them.
func Replay(c Context, policy pricing.Policy, sel Selection) *Wizard {
	w := NewWizard(c, policy)
	sel = sel.Normalize()

	for {
		def := w.current()
		switch {
		case def.step == StepReview:
			return w
		case def.step == StepDetails:
			_ = w.SetDetails(Details{
				CustomerName:  sel.CustomerName,
				CustomerPhone: sel.CustomerPhone,
				DeliveryDate:  sel.DeliveryDate,
			})
		default:
			for _, id := range sel.IDs(def.slot) {
				_, _ = w.Toggle(id)
			}
		}
		if err := w.Next(); err != nil {
			return w
		}
	}
}

func (w *Wizard) current() stepDef { return w.steps[w.idx] }

func (w *Wizard) Step() Step { return w.current().step }

func (w *Wizard) Selection() Selection { return w.sel.Clone() }

// Toggle flips an option in the current step's slot.
// It reports whether the selection changed; at the limit, for unknown ids and
// for out-of-stock options it is a no-op.
func (w *Wizard) Toggle(id string) (bool, error) {
	if w.state != wizardOpen {
		return false, ErrClosed
	}
	def := w.current()
	if def.slot == "" {
		return false, ErrWrongStep
	}

	if !w.sel.Has(def.slot, id) {
		opt, ok := w.ctx.Options.find(def.slot, id)
		if !ok || !opt.InStock {
			return false, nil
		}
	}

	next, changed := w.sel.Toggle(def.slot, id, MaxSelections(w.ctx, def.slot).Max)
	w.sel = next
	return changed, nil
}

// SetDetails fills the customer / date step.
func (w *Wizard) SetDetails(d Details) error {
	if w.state != wizardOpen {
		return ErrClosed
	}
	if w.current().step != StepDetails {
		return ErrWrongStep
	}
	n := Selection{
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		DeliveryDate:  d.DeliveryDate,
	}.Normalize()
	w.sel.CustomerName = n.CustomerName
	w.sel.CustomerPhone = n.CustomerPhone
	w.sel.DeliveryDate = n.DeliveryDate
	return nil
}

// Next moves forward when the current step is complete.
func (w *Wizard) Next() error {
	if w.state != wizardOpen {
		return ErrClosed
	}
	def := w.current()
	if def.step == StepReview {
		return ErrWrongStep
	}
	if err := w.checkStep(def); err != nil {
		return err
	}
	w.idx++
	return nil
}

// Back moves one step back; on the first step it does nothing.
func (w *Wizard) Back() {
	if w.state != wizardOpen || w.idx == 0 {
		return
	}
	w.idx--
}

// Cancel discards the selection. Nothing outside the wizard is touched.
func (w *Wizard) Cancel() {
	w.sel = Selection{}
	w.state = wizardCancelled
}

// Confirm validates the whole selection from the review step.
func (w *Wizard) Confirm() (Resolved, error) {
	if w.state != wizardOpen {
		return Resolved{}, ErrClosed
	}
	if w.current().step != StepReview {
		return Resolved{}, ErrWrongStep
	}
	r, err := Resolve(w.ctx, w.sel, w.policy)
	if err != nil {
		return Resolved{}, err
	}
	w.state = wizardConfirmed
	return r, nil
}

// ConfirmSelection is the non-interactive path through the wizard.
// sel is validated up front so Replay cannot drop a pick without the caller knowing.
func ConfirmSelection(c Context, policy pricing.Policy, sel Selection) (Resolved, error) {
	if err := Validate(c, sel.Normalize()); err != nil {
		return Resolved{}, err
	}
	return Replay(c, policy, sel).Confirm()
}

func (w *Wizard) checkStep(def stepDef) error {
	if def.slot != "" {
		lim := MaxSelections(w.ctx, def.slot)
		n := len(w.sel.IDs(def.slot))
		if n < lim.Min {
			return invalid(string(def.slot), "at least %d required, got %d", lim.Min, n)
		}
		return nil
	}
	if def.step == StepDetails {
		if err := validateDate(w.ctx, w.sel.DeliveryDate); err != nil {
			return err
		}
		if RequiresCustomer(w.ctx) {
			if w.sel.CustomerName == "" {
				return invalid("customerName", "required")
			}
			if w.sel.CustomerPhone == "" {
				return invalid("customerPhone", "required")
			}
		}
	}
	return nil
}

// Choice is one option as rendered in a step.
type Choice struct {
	Option   catalog.Option `json:"option"`
	Selected bool           `json:"selected"`
	Disabled bool           `json:"disabled"`
}

// View is a snapshot of the wizard for clients.
type View struct {
	Rule             catalog.Rule    `json:"rule"`
	Step             Step            `json:"step"`
	Steps            []Step          `json:"steps"`
	Slot             Slot            `json:"slot,omitempty"`
	Limit            *Limit          `json:"limit,omitempty"`
	Choices          []Choice        `json:"choices,omitempty"`
	Selection        Selection       `json:"selection"`
	CanAdvance       bool            `json:"canAdvance"`
	RequiresDate     bool            `json:"requiresDate"`
	RequiresCustomer bool            `json:"requiresCustomer"`
	EarliestDate     string          `json:"earliestDate,omitempty"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Label            string          `json:"label"`
}

func (w *Wizard) View() View {
	def := w.current()

	v := View{
		Rule:             w.ctx.Rule,
		Step:             def.step,
		Slot:             def.slot,
		Selection:        w.sel.Clone(),
		RequiresDate:     RequiresDate(w.ctx.Rule),
		RequiresCustomer: RequiresCustomer(w.ctx),
		UnitPrice:        Price(w.ctx, w.sel, w.policy),
	}
	for _, s := range w.steps {
		v.Steps = append(v.Steps, s.step)
	}
	if v.RequiresDate {
		v.EarliestDate = EarliestDate(w.ctx).Format(DateLayout)
	}

	if def.slot != "" {
		lim := MaxSelections(w.ctx, def.slot)
		v.Limit = &lim
		count := len(w.sel.IDs(def.slot))
		for _, opt := range w.ctx.Options[def.slot] {
			selected := w.sel.Has(def.slot, opt.ID)
			atLimit := lim.Max >= 0 && count >= lim.Max
			v.Choices = append(v.Choices, Choice{
				Option:   opt,
				Selected: selected,
				Disabled: !selected && (!opt.InStock || atLimit),
			})
		}
	}

	v.CanAdvance = def.step != StepReview && w.checkStep(def) == nil

	partial := Resolved{
		Toppings: lookup(w.ctx.Options, SlotToppings, w.sel.Toppings),
		Flavors:  lookup(w.ctx.Options, SlotFlavors, w.sel.Flavors),
		Fillings: lookup(w.ctx.Options, SlotFillings, w.sel.Fillings),
	}
	if o, ok := w.ctx.Options.find(SlotVariation, w.sel.Variation); ok {
		partial.Variation = &o
	}
	v.Label = Label(w.ctx.Rule, w.ctx.Product, partial)
	return v
}
