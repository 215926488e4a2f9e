// internal/domain/catalog/entity.go
package catalog

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("catalog: not found")
	ErrInvalidProduct = errors.New("catalog: invalid product")
	ErrInvalidOption  = errors.New("catalog: invalid option")
)

// Rule selects which customization policy applies to a category's products.
// It is read from the category document, never derived from display text.
type Rule string

const (
	RulePlain             Rule = "plain"
	RuleFlavorMulti       Rule = "flavor-multi"
	RuleToppingLimited    Rule = "topping-limited"
	RuleCakeFlavorFilling Rule = "cake-flavor-filling"
	RuleDrinkVariation    Rule = "drink-variation"
	RuleIceCreamCake      Rule = "ice-cream-cake"
	RuleIceCreamPot       Rule = "ice-cream-pot"
	RuleIceCreamBucket    Rule = "ice-cream-bucket"
)

var allRules = []Rule{
	RulePlain,
	RuleFlavorMulti,
	RuleToppingLimited,
	RuleCakeFlavorFilling,
	RuleDrinkVariation,
	RuleIceCreamCake,
	RuleIceCreamPot,
	RuleIceCreamBucket,
}

func (r Rule) IsValid() bool {
	for _, v := range allRules {
		if r == v {
			return true
		}
	}
	return false
}

// ParseRule normalizes a stored rule tag. Unknown values resolve to plain.
func ParseRule(s string) Rule {
	r := Rule(strings.ToLower(strings.TrimSpace(s)))
	if r.IsValid() {
		return r
	}
	return RulePlain
}

// SizeToken is the cup size of a size-bound product ("300ml", "500ml", "700ml").
type SizeToken string

const (
	SizeNone SizeToken = ""
	Size300  SizeToken = "300ml"
	Size500  SizeToken = "500ml"
	Size700  SizeToken = "700ml"
)

var sizeTokenRe = regexp.MustCompile(`(300|500|700)\s*ml`)

// ParseSizeToken extracts a size token from free text.
// Used once when importing legacy documents that lack an explicit size field.
func ParseSizeToken(s string) SizeToken {
	m := sizeTokenRe.FindStringSubmatch(strings.ToLower(s))
	if len(m) < 2 {
		return SizeNone
	}
	return SizeToken(m[1] + "ml")
}

// Category groups products and carries their customization rule.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Rule      Rule   `json:"rule"`
	SortOrder int    `json:"sortOrder"`
}

// Product is a sellable catalog entry.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	CategoryID  string          `json:"categoryId"`
	InStock     bool            `json:"inStock"`
	Size        SizeToken       `json:"size,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks admin-supplied product fields.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.CategoryID) == "" {
		return ErrInvalidProduct
	}
	if p.Price.IsNegative() {
		return ErrInvalidProduct
	}
	switch p.Size {
	case SizeNone, Size300, Size500, Size700:
	default:
		return ErrInvalidProduct
	}
	return nil
}

// OptionKind is the role an option plays in a selection.
type OptionKind string

const (
	KindTopping   OptionKind = "topping"
	KindFlavor    OptionKind = "flavor"
	KindFilling   OptionKind = "filling"
	KindVariation OptionKind = "variation"
)

func (k OptionKind) IsValid() bool {
	switch k {
	case KindTopping, KindFlavor, KindFilling, KindVariation:
		return true
	}
	return false
}

// Shop-wide option groups.
const (
	GroupAcaiToppings         = "acai-toppings"
	GroupIceCreamFlavors      = "ice-cream-flavors"
	GroupIceCreamFillings     = "ice-cream-fillings"
	GroupIceCreamBucketFlavor = "ice-cream-bucket-flavors"
)

// Option is a topping, flavor, filling or variation.
// It belongs to exactly one product (ProductID) or one shop-wide group (Group).
type Option struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	InStock   bool            `json:"inStock"`
	Kind      OptionKind      `json:"kind"`
	ProductID string          `json:"productId,omitempty"`
	Group     string          `json:"group,omitempty"`
}

func (o Option) Validate() error {
	if strings.TrimSpace(o.Name) == "" || !o.Kind.IsValid() || o.Price.IsNegative() {
		return ErrInvalidOption
	}
	hasProduct := strings.TrimSpace(o.ProductID) != ""
	hasGroup := strings.TrimSpace(o.Group) != ""
	if hasProduct == hasGroup {
		return ErrInvalidOption
	}
	return nil
}

// OptionRef addresses an option list: either a product's own options or a shop-wide group.
type OptionRef struct {
	ProductID string
	Group     string
}

func ProductOptions(productID string) OptionRef { return OptionRef{ProductID: productID} }
func GroupOptions(group string) OptionRef       { return OptionRef{Group: group} }

func (r OptionRef) IsZero() bool {
	return strings.TrimSpace(r.ProductID) == "" && strings.TrimSpace(r.Group) == ""
}

// ProductFilter narrows ListProducts. Zero value lists everything.
type ProductFilter struct {
	CategoryID  string
	InStockOnly bool
}

// FilterKind returns options of the given kind, preserving order.
func FilterKind(opts []Option, kind OptionKind) []Option {
	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}
