package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func acaiLine() cartdom.LineItem {
	return cartdom.LineItem{
		ID:        "acai-500",
		Key:       "k1",
		Name:      "Açaí 500ml (Granola)",
		BasePrice: decimal.RequireFromString("10.00"),
		Quantity:  2,
		Rule:      catalog.RuleToppingLimited,
		Toppings: []cartdom.Topping{
			{ID: "granola", Name: "Granola", Price: decimal.RequireFromString("1.50")},
		},
	}
}

func TestCartRepositoryRedis_SaveGetDelete(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewCartRepositoryRedis(client, "")
	repo.clock = func() time.Time { return t0 }
	ctx := context.Background()

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	c, err := cartdom.NewCart("s1", t0)
	require.NoError(t, err)
	c.Items = append(c.Items, acaiLine())
	require.NoError(t, repo.Save(ctx, c))

	assert.True(t, mr.Exists("softshake:cart:s1"))
	assert.Equal(t, cartdom.DefaultCartTTL, mr.TTL("softshake:cart:s1"))

	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "s1", got.ID)
	assert.True(t, got.Items[0].UnitPrice().Equal(decimal.RequireFromString("11.50")))
	assert.Equal(t, 2, got.Items[0].Quantity)

	require.NoError(t, repo.Delete(ctx, "s1"))
	assert.False(t, mr.Exists("softshake:cart:s1"))
}

func TestCartRepositoryRedis_ExpiredCartKeepsMinimalTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewCartRepositoryRedis(client, "test")
	repo.clock = func() time.Time { return t0.Add(30 * 24 * time.Hour) }

	c, err := cartdom.NewCart("old", t0)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), c))
	assert.Equal(t, time.Second, mr.TTL("test:cart:old"))

	mr.FastForward(2 * time.Second)
	got, err := repo.Get(context.Background(), "old")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartRepositoryRedis_DropsCorruptLines(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewCartRepositoryRedis(client, "")

	require.NoError(t, mr.Set("softshake:cart:s2", `{"items":[{"id":"","quantity":1},{"id":"bolo","quantity":1,"basePrice":"40"}]}`))

	got, err := repo.Get(context.Background(), "s2")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "bolo", got.Items[0].ID)
	assert.NotEmpty(t, got.Items[0].Key)
}

func TestCartRepositoryRedis_EmptyID(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewCartRepositoryRedis(client, "")

	_, err := repo.Get(context.Background(), " ")
	assert.Error(t, err)
	assert.Error(t, repo.Save(context.Background(), &cartdom.Cart{}))
}

func TestChangeFeedRedis_PublishSubscribe(t *testing.T) {
	_, client := setupTestRedis(t)
	feed := NewChangeFeedRedis(client, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, feed.Publish(ctx, notifdom.Event{Kind: notifdom.OrderInserted, At: t0}))
	require.NoError(t, client.Publish(ctx, defaultChannel, "garbage").Err())
	require.NoError(t, feed.Publish(ctx, notifdom.Event{Kind: notifdom.ProductsChanged, At: t0}))

	var kinds []notifdom.Kind
	for len(kinds) < 2 {
		select {
		case e := <-ch:
			kinds = append(kinds, e.Kind)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, got %v", kinds)
		}
	}
	assert.Equal(t, []notifdom.Kind{notifdom.OrderInserted, notifdom.ProductsChanged}, kinds)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChangeFeedRedis_RejectsUnknownKind(t *testing.T) {
	_, client := setupTestRedis(t)
	feed := NewChangeFeedRedis(client, "")

	err := feed.Publish(context.Background(), notifdom.Event{Kind: "nope"})
	assert.Error(t, err)
}
