package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseSizeToken(t *testing.T) {
	cases := map[string]SizeToken{
		"Açaí 300ml":      Size300,
		"Açaí 500ML":      Size500,
		"Copo 700 ml":     Size700,
		"Açaí":            SizeNone,
		"Milkshake 400ml": SizeNone,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSizeToken(in), in)
	}
}

func TestParseRule(t *testing.T) {
	assert.Equal(t, RuleIceCreamBucket, ParseRule(" Ice-Cream-Bucket "))
	assert.Equal(t, RulePlain, ParseRule("balde"))
	assert.Equal(t, RulePlain, ParseRule(""))
}

func TestOption_Validate(t *testing.T) {
	base := Option{Name: "Granola", Kind: KindTopping, Price: decimal.RequireFromString("1.50")}

	withGroup := base
	withGroup.Group = GroupAcaiToppings
	assert.NoError(t, withGroup.Validate())

	both := withGroup
	both.ProductID = "p1"
	assert.ErrorIs(t, both.Validate(), ErrInvalidOption)

	assert.ErrorIs(t, base.Validate(), ErrInvalidOption)

	badKind := withGroup
	badKind.Kind = "sauce"
	assert.ErrorIs(t, badKind.Validate(), ErrInvalidOption)
}

func TestProduct_Validate(t *testing.T) {
	p := Product{Name: "Açaí 500ml", CategoryID: "acai", Price: decimal.RequireFromString("10"), Size: Size500}
	assert.NoError(t, p.Validate())

	p.Size = "900ml"
	assert.ErrorIs(t, p.Validate(), ErrInvalidProduct)
}

func TestFilterKind(t *testing.T) {
	opts := []Option{
		{ID: "a", Kind: KindFlavor},
		{ID: "b", Kind: KindFilling},
		{ID: "c", Kind: KindFlavor},
	}
	got := FilterKind(opts, KindFlavor)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
