package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/customization"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

func TestCatalogUsecase_Lists(t *testing.T) {
	uc := NewCatalogUsecase(seedShop())
	ctx := context.Background()

	cats := uc.ListCategories(ctx)
	assert.False(t, cats.Unavailable)
	require.Len(t, cats.Items, 3)
	assert.Equal(t, "acai", cats.Items[0].ID)

	prods := uc.ListProducts(ctx, "acai")
	assert.False(t, prods.Unavailable)
	assert.Len(t, prods.Items, 2)

	prods = uc.ListProducts(ctx, "")
	assert.Len(t, prods.Items, 4)

	prods = uc.ListProducts(ctx, "unknown")
	assert.False(t, prods.Unavailable)
	assert.Empty(t, prods.Items)
}

func TestCatalogUsecase_ReadFailureIsSoft(t *testing.T) {
	cat := seedShop()
	cat.failList = true
	uc := NewCatalogUsecase(cat)

	cats := uc.ListCategories(context.Background())
	assert.True(t, cats.Unavailable)
	assert.NotNil(t, cats.Items)
	assert.Empty(t, cats.Items)

	prods := uc.ListProducts(context.Background(), "")
	assert.True(t, prods.Unavailable)
	assert.Empty(t, prods.Items)
}

func TestCustomizationUsecase_Describe(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	v, err := f.custom.Describe(ctx, "acai-500")
	require.NoError(t, err)
	assert.Equal(t, catalog.RuleToppingLimited, v.Rule)
	assert.Equal(t, customization.StepToppings, v.Step)
	require.NotNil(t, v.Limit)
	assert.Equal(t, 4, v.Limit.Max)
	assert.Len(t, v.Choices, 3)
	assert.Equal(t, "10.00", pricing.Format(v.UnitPrice))

	v, err = f.custom.Describe(ctx, "bolo")
	require.NoError(t, err)
	assert.True(t, v.RequiresDate)
	assert.True(t, v.RequiresCustomer)
	assert.Equal(t, "2026-03-13", v.EarliestDate)
	assert.Len(t, v.Choices, 1, "only flavors are offered on the flavor step")

	_, err = f.custom.Describe(ctx, "acai-300")
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = f.custom.Describe(ctx, "nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = f.custom.Describe(ctx, "")
	assert.ErrorIs(t, err, ErrProductIDEmpty)
}

func TestCustomizationUsecase_Preview(t *testing.T) {
	f := newCartFixture()

	sel := customization.Selection{Toppings: []string{"granola", "ninho"}}
	v, err := f.custom.Preview(context.Background(), "acai-500", sel, false)
	require.NoError(t, err)
	assert.Equal(t, customization.StepReview, v.Step)
	assert.Equal(t, "13.50", pricing.Format(v.UnitPrice))
	assert.Equal(t, "Açaí 500ml (Granola, Leite Ninho)", v.Label)
}

func TestCustomizationUsecase_CategoryFailureFallsBackToPlain(t *testing.T) {
	f := newCartFixture()
	f.catalog.failCategory = true

	c, err := f.custom.LoadContext(context.Background(), "pote", false)
	require.NoError(t, err)
	assert.Equal(t, catalog.RulePlain, c.Rule)
	assert.Len(t, c.Options[customization.SlotFlavors], 3)
}
