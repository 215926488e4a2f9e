package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	reportdom "github.com/tisoftshake/softshake/internal/domain/report"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func line(id string) cartdom.LineItem {
	return cartdom.LineItem{ID: id, Key: id, Name: id, BasePrice: decimal.RequireFromString("10"), Quantity: 1}
}

func TestCartRepositoryMem_CopiesOnSaveAndGet(t *testing.T) {
	repo := NewCartRepositoryMem()
	ctx := context.Background()

	c, err := cartdom.NewCart("s1", t0)
	require.NoError(t, err)
	c.Items = append(c.Items, line("acai"))
	require.NoError(t, repo.Save(ctx, c))

	c.Items[0].Quantity = 9

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Quantity)

	got.Items[0].Quantity = 5
	again, _ := repo.Get(ctx, "s1")
	assert.Equal(t, 1, again.Items[0].Quantity)

	require.NoError(t, repo.Delete(ctx, "s1"))
	missing, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepositoryMem_Lifecycle(t *testing.T) {
	repo := NewOrderRepositoryMem()
	ctx := context.Background()

	a, err := repo.Create(ctx, orderdom.Order{CustomerName: "Ana", CustomerPhone: "11999990000", Items: []cartdom.LineItem{line("acai")}, CreatedAt: t0})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, orderdom.StatusPending, a.Status)

	b, err := repo.Create(ctx, orderdom.Order{CustomerName: "Bruno", CustomerPhone: "11888880000", CreatedAt: t0.Add(time.Hour)})
	require.NoError(t, err)

	_, err = repo.Create(ctx, orderdom.Order{ID: a.ID})
	assert.ErrorIs(t, err, orderdom.ErrConflict)

	require.NoError(t, repo.UpdateStatus(ctx, a.ID, orderdom.StatusAccepted, t0.Add(2*time.Hour)))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nope", orderdom.StatusAccepted, t0), orderdom.ErrNotFound)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusAccepted, got.Status)

	all, err := repo.List(ctx, orderdom.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)

	byName, err := repo.List(ctx, orderdom.Filter{Query: "ana"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, a.ID, byName[0].ID)

	limited, err := repo.List(ctx, orderdom.Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, orderdom.ErrNotFound)
}

func TestChangeFeedMem_FanOutAndUnsubscribe(t *testing.T) {
	feed := NewChangeFeedMem()
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()

	ch1, err := feed.Subscribe(ctx1)
	require.NoError(t, err)
	ch2, err := feed.Subscribe(ctx2)
	require.NoError(t, err)

	require.NoError(t, feed.Publish(context.Background(), notifdom.Event{Kind: notifdom.OrderInserted, At: t0}))
	assert.Equal(t, notifdom.OrderInserted, (<-ch1).Kind)
	assert.Equal(t, notifdom.OrderInserted, (<-ch2).Kind)

	cancel1()
	require.Eventually(t, func() bool { return feed.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	_, ok := <-ch1
	assert.False(t, ok)

	require.NoError(t, feed.Publish(context.Background(), notifdom.Event{Kind: notifdom.ProductsChanged, At: t0}))
	assert.Equal(t, notifdom.ProductsChanged, (<-ch2).Kind)
}

func TestCatalogRepositoryMem_ReadsAndWrites(t *testing.T) {
	repo := NewCatalogRepositoryMem()
	ctx := context.Background()

	_, err := repo.SaveCategory(ctx, catalog.Category{ID: "bolos", Name: "Bolos", Slug: "bolos", Rule: catalog.RuleCakeFlavorFilling, SortOrder: 2})
	require.NoError(t, err)
	_, err = repo.SaveCategory(ctx, catalog.Category{ID: "acai", Name: "Açaí", Slug: "acai", Rule: catalog.RuleToppingLimited, SortOrder: 1})
	require.NoError(t, err)

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "acai", cats[0].ID)

	bySlug, err := repo.GetCategoryBySlug(ctx, "bolos")
	require.NoError(t, err)
	assert.Equal(t, catalog.RuleCakeFlavorFilling, bySlug.Rule)

	p, err := repo.SaveProduct(ctx, catalog.Product{Name: "Açaí 500ml", CategoryID: "acai", Price: decimal.RequireFromString("10"), InStock: true})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	require.NoError(t, repo.SetProductStock(ctx, p.ID, false))
	require.NoError(t, repo.SetProductImage(ctx, p.ID, "https://img/acai.png"))
	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.InStock)
	assert.Equal(t, "https://img/acai.png", got.ImageURL)

	inStock, err := repo.ListProducts(ctx, catalog.ProductFilter{CategoryID: "acai", InStockOnly: true})
	require.NoError(t, err)
	assert.Empty(t, inStock)

	_, err = repo.SaveOption(ctx, catalog.Option{ID: "granola", Name: "Granola", Kind: catalog.KindTopping, Group: catalog.GroupAcaiToppings, InStock: true})
	require.NoError(t, err)
	_, err = repo.SaveOption(ctx, catalog.Option{ID: "choc", Name: "Chocolate", Kind: catalog.KindFlavor, ProductID: "bolo", InStock: true})
	require.NoError(t, err)

	group, err := repo.ListOptions(ctx, catalog.GroupOptions(catalog.GroupAcaiToppings))
	require.NoError(t, err)
	require.Len(t, group, 1)
	assert.Equal(t, "granola", group[0].ID)

	none, err := repo.ListOptions(ctx, catalog.OptionRef{})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.SetOptionStock(ctx, "choc", false))
	o, err := repo.GetOption(ctx, "choc")
	require.NoError(t, err)
	assert.False(t, o.InStock)

	require.NoError(t, repo.DeleteOption(ctx, "choc"))
	assert.ErrorIs(t, repo.DeleteOption(ctx, "choc"), catalog.ErrNotFound)
	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	_, err = repo.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestReportRepositoryMem_GetMissingIsNil(t *testing.T) {
	repo := NewReportRepositoryMem()
	ctx := context.Background()

	got, err := repo.Get(ctx, 2026, time.March)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Save(ctx, reportdom.SalesReport{Year: 2026, Month: time.March, TotalOrders: 3}))
	got, err = repo.Get(ctx, 2026, time.March)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.TotalOrders)
}
