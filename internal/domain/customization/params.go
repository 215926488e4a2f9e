// internal/domain/customization/params.go
package customization

import catalog "github.com/tisoftshake/softshake/internal/domain/catalog"

const (
	DefaultMinLeadDays = 3

	maxCakeFlavors   = 2
	maxPotFlavors    = 4
	maxBucketFlavors = 1
	maxCakeFillings  = 2

	unbounded = -1
)

// Params carries the tunable numeric parameters of the rule set.
type Params struct {
	MinLeadDays int
}

func DefaultParams() Params {
	return Params{MinLeadDays: DefaultMinLeadDays}
}

// MaxToppings is the topping allowance for a cup size.
func MaxToppings(size catalog.SizeToken) int {
	switch size {
	case catalog.Size500:
		return 4
	case catalog.Size700:
		return 5
	default:
		return 3
	}
}

// MaxFlavors is the fixed flavor cap for flavor-counted rules.
// Rules without a cap return -1.
func MaxFlavors(rule catalog.Rule) int {
	switch rule {
	case catalog.RuleIceCreamCake:
		return maxCakeFlavors
	case catalog.RuleIceCreamPot:
		return maxPotFlavors
	case catalog.RuleIceCreamBucket:
		return maxBucketFlavors
	case catalog.RuleCakeFlavorFilling, catalog.RulePlain:
		return 1
	}
	return unbounded
}
