package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisoftshake/softshake/internal/adapters/out/memory"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
)

func TestApply_SampleCatalog(t *testing.T) {
	f, err := LoadFile("../../../configs/catalog.seed.yaml")
	require.NoError(t, err)

	repo := memory.NewCatalogRepositoryMem()
	n, err := Apply(context.Background(), repo, f)
	require.NoError(t, err)
	assert.Equal(t, Counts{Categories: 7, Products: 9, Options: 26}, n)

	ctx := context.Background()
	acai, err := repo.GetProduct(ctx, "acai-500")
	require.NoError(t, err)
	assert.Equal(t, catalog.Size500, acai.Size)
	assert.Equal(t, "10.00", acai.Price.StringFixed(2))
	assert.True(t, acai.InStock)

	cat, err := repo.GetCategoryBySlug(ctx, "acai")
	require.NoError(t, err)
	assert.Equal(t, catalog.RuleToppingLimited, cat.Rule)

	toppings, err := repo.ListOptions(ctx, catalog.GroupOptions(catalog.GroupAcaiToppings))
	require.NoError(t, err)
	assert.Len(t, toppings, 5)

	own, err := repo.ListOptions(ctx, catalog.ProductOptions("bolo-festa"))
	require.NoError(t, err)
	assert.Len(t, catalog.FilterKind(own, catalog.KindFilling), 3)
}

func TestApply_IsIdempotentWithIDs(t *testing.T) {
	f, err := LoadFile("../../../configs/catalog.seed.yaml")
	require.NoError(t, err)

	repo := memory.NewCatalogRepositoryMem()
	_, err = Apply(context.Background(), repo, f)
	require.NoError(t, err)
	_, err = Apply(context.Background(), repo, f)
	require.NoError(t, err)

	products, err := repo.ListProducts(context.Background(), catalog.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 9)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("categories:\n  - name: X\n    color: red\n"))
	assert.ErrorIs(t, err, ErrInvalidSeed)

	f, err := Parse([]byte("categories:\n  - name: X\n    products:\n      - name: Y\n        price: abc\n"))
	require.NoError(t, err)
	_, err = Apply(context.Background(), memory.NewCatalogRepositoryMem(), f)
	assert.ErrorIs(t, err, ErrInvalidSeed)

	f, err = Parse([]byte("groups:\n  acai-toppings:\n    - name: Granola\n      kind: sauce\n"))
	require.NoError(t, err)
	_, err = Apply(context.Background(), memory.NewCatalogRepositoryMem(), f)
	assert.ErrorIs(t, err, catalog.ErrInvalidOption)
}

func TestSlugOr(t *testing.T) {
	assert.Equal(t, "tortas-de-sorvete", slugOr("", "Tortas de  Sorvete"))
	assert.Equal(t, "x", slugOr(" X "))
	assert.Equal(t, "", slugOr())
}
