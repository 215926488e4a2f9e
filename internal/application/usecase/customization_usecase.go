// internal/application/usecase/customization_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/customization"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

var (
	ErrProductIDEmpty     = errors.New("customization: productId is empty")
	ErrProductUnavailable = errors.New("customization: product is out of stock")
)

// CustomizationUsecase loads everything a product's rule needs and drives the wizard.
// It keeps no state between calls; every call replays the selection it is given.
type CustomizationUsecase struct {
	catalog catalog.Repository
	policy  pricing.Policy
	params  customization.Params
	loc     *time.Location
	clock   Clock
}

func NewCustomizationUsecase(repo catalog.Repository, policy pricing.Policy, params customization.Params, loc *time.Location) *CustomizationUsecase {
	return &CustomizationUsecase{
		catalog: repo,
		policy:  policy,
		params:  params,
		loc:     locOrUTC(loc),
		clock:   systemClock{},
	}
}

// WithClock swaps the clock (tests).
func (u *CustomizationUsecase) WithClock(c Clock) *CustomizationUsecase {
	if c != nil {
		u.clock = c
	}
	return u
}

func (u *CustomizationUsecase) Policy() pricing.Policy { return u.policy }

// Describe returns the first wizard step for a product.
func (u *CustomizationUsecase) Describe(ctx context.Context, productID string) (customization.View, error) {
	c, err := u.LoadContext(ctx, productID, false)
	if err != nil {
		return customization.View{}, err
	}
	return customization.NewWizard(c, u.policy).View(), nil
}

// Preview replays a partial selection and returns where it lands.
// Picks past a step's limit are dropped the same way the wizard drops them.
func (u *CustomizationUsecase) Preview(ctx context.Context, productID string, sel customization.Selection, requireCustomer bool) (customization.View, error) {
	c, err := u.LoadContext(ctx, productID, requireCustomer)
	if err != nil {
		return customization.View{}, err
	}
	return customization.Replay(c, u.policy, sel).View(), nil
}

// Resolve confirms a complete selection through the wizard and resolves it into
// priced options. Unknown and out-of-stock picks are rejected.
func (u *CustomizationUsecase) Resolve(ctx context.Context, productID string, sel customization.Selection, requireCustomer bool) (customization.Resolved, error) {
	c, err := u.LoadContext(ctx, productID, requireCustomer)
	if err != nil {
		return customization.Resolved{}, err
	}
	return customization.ConfirmSelection(c, u.policy, sel)
}

// LoadContext reads the product, its category rule and the option lists the rule needs.
// Reads are never cached; stock flags are current as of this call.
func (u *CustomizationUsecase) LoadContext(ctx context.Context, productID string, requireCustomer bool) (customization.Context, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return customization.Context{}, ErrProductIDEmpty
	}

	p, err := u.catalog.GetProduct(ctx, productID)
	if err != nil {
		return customization.Context{}, err
	}
	if !p.InStock {
		return customization.Context{}, ErrProductUnavailable
	}

	rule := catalog.RulePlain
	if cat, err := u.catalog.GetCategory(ctx, p.CategoryID); err != nil {
		log.Printf("[customization_uc] WARN: category lookup failed product=%s category=%s: %v (falling back to plain)", p.ID, p.CategoryID, err)
	} else {
		rule = cat.Rule
	}
	if !rule.IsValid() {
		rule = catalog.RulePlain
	}

	opts, err := u.loadOptions(ctx, rule, p.ID)
	if err != nil {
		return customization.Context{}, err
	}

	return customization.Context{
		Product:         p,
		Rule:            rule,
		Options:         opts,
		Params:          u.params,
		Today:           u.clock.Now().In(u.loc),
		RequireCustomer: requireCustomer,
	}, nil
}

func (u *CustomizationUsecase) loadOptions(ctx context.Context, rule catalog.Rule, productID string) (customization.Options, error) {
	out := customization.Options{}
	for _, src := range customization.OptionSources(rule, productID) {
		list, err := u.catalog.ListOptions(ctx, src.Ref)
		if err != nil {
			return nil, fmt.Errorf("customization: load %s options: %w", src.Slot, err)
		}
		if src.Kind != "" {
			list = catalog.FilterKind(list, src.Kind)
		}
		out[src.Slot] = append(out[src.Slot], list...)
	}
	return out, nil
}
