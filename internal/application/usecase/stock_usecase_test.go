package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
)

func newStockFixture() (*StockUsecase, *fakeCatalog, *fakePublisher, *fakeStore) {
	cat := seedShop()
	feed := &fakePublisher{}
	store := newFakeStore()
	uc := NewStockUsecase(cat, cat).
		WithPublisher(feed).
		WithImageStore(store).
		WithClock(fixedClock{t: testNow})
	return uc, cat, feed, store
}

func TestStockUsecase_ProductLifecycle(t *testing.T) {
	uc, cat, feed, _ := newStockFixture()
	ctx := context.Background()

	p, err := uc.SaveProduct(ctx, catalog.Product{Name: " Açaí 700ml ", Price: money("14.00"), CategoryID: "acai", InStock: true})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Açaí 700ml", p.Name)
	assert.Equal(t, catalog.Size700, p.Size)
	assert.Equal(t, testNow, p.CreatedAt)

	require.NoError(t, uc.SetProductStock(ctx, p.ID, false))
	assert.False(t, cat.products[p.ID].InStock)

	require.NoError(t, uc.DeleteProduct(ctx, p.ID))
	_, ok := cat.products[p.ID]
	assert.False(t, ok)

	assert.Equal(t, []notifdom.Kind{notifdom.ProductsChanged, notifdom.ProductsChanged, notifdom.ProductsChanged}, feed.kinds())
}

func TestStockUsecase_RejectsInvalidWrites(t *testing.T) {
	uc, _, feed, _ := newStockFixture()
	ctx := context.Background()

	_, err := uc.SaveProduct(ctx, catalog.Product{Name: "", CategoryID: "acai"})
	assert.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = uc.SaveOption(ctx, catalog.Option{Name: "Calda", Kind: catalog.KindTopping})
	assert.ErrorIs(t, err, catalog.ErrInvalidOption, "needs an owner")

	assert.ErrorIs(t, uc.SetProductStock(ctx, " ", true), ErrStockIDEmpty)
	assert.ErrorIs(t, uc.DeleteOption(ctx, "missing"), catalog.ErrNotFound)

	assert.Empty(t, feed.kinds())
}

func TestStockUsecase_Options(t *testing.T) {
	uc, cat, feed, _ := newStockFixture()
	ctx := context.Background()

	o, err := uc.SaveOption(ctx, catalog.Option{Name: "Morango", Price: money("0"), InStock: true, Kind: catalog.KindFlavor, ProductID: "pote"})
	require.NoError(t, err)

	opts, err := uc.ListOptions(ctx, "pote")
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	group, err := uc.ListGroup(ctx, catalog.GroupAcaiToppings)
	require.NoError(t, err)
	assert.Len(t, group, 3)

	require.NoError(t, uc.SetOptionStock(ctx, o.ID, false))
	got, err := cat.GetOption(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, got.InStock)

	require.NoError(t, uc.DeleteOption(ctx, o.ID))
	assert.Len(t, feed.kinds(), 3)
}

func TestStockUsecase_UploadProductImage(t *testing.T) {
	uc, cat, feed, store := newStockFixture()
	ctx := context.Background()

	url, err := uc.UploadProductImage(ctx, "bolo", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://storage.example/products/bolo-"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Equal(t, url, cat.products["bolo"].ImageURL)
	assert.Len(t, store.objects, 1)
	assert.Len(t, feed.kinds(), 1)

	_, err = uc.UploadProductImage(ctx, "bolo", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = uc.UploadProductImage(ctx, "nope", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	store.fail = true
	_, err = uc.UploadProductImage(ctx, "bolo", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, errBoom)

	_, err = NewStockUsecase(cat, cat).UploadProductImage(ctx, "bolo", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrImageStoreMissing)
}
