package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func acaiLine() cartdom.LineItem {
	return cartdom.LineItem{
		ID:        "acai-500",
		Key:       "k1",
		Name:      "Açaí 500ml",
		BasePrice: decimal.RequireFromString("10.00"),
		Quantity:  2,
		Toppings: []cartdom.Topping{
			{ID: "t1", Name: "Granola", Price: decimal.RequireFromString("1.50")},
			{ID: "t2", Name: "Leite Ninho", Price: decimal.RequireFromString("2.00")},
		},
	}
}

func TestStatus_AdvanceSequence(t *testing.T) {
	s := StatusPending
	var seen []Status
	for i := 0; i < 5; i++ {
		s = s.Next()
		seen = append(seen, s)
	}
	assert.Equal(t, []Status{StatusAccepted, StatusPreparing, StatusDelivering, StatusCompleted, StatusCompleted}, seen)
	assert.True(t, StatusCompleted.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Preparing ")
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, s)

	_, err = ParseStatus("cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNew_DeliveryTotal(t *testing.T) {
	form := Form{CustomerName: "Ana", CustomerPhone: "11999990000", DeliveryType: pricing.DeliveryDelivery, DeliveryAddress: "Rua A, 10"}
	o, err := New(form, []cartdom.LineItem{acaiLine()}, pricing.DefaultPolicy(), time.UTC, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "27.00", pricing.Format(o.Subtotal))
	assert.Equal(t, "2.00", pricing.Format(o.DeliveryFee))
	assert.Equal(t, "29.00", pricing.Format(o.TotalAmount))
	assert.Nil(t, o.DeliveryDate)
	assert.Empty(t, o.ID)
}

func TestNew_PickupDropsAddressAndFee(t *testing.T) {
	form := Form{CustomerName: "Ana", CustomerPhone: "1", DeliveryType: "PICKUP", DeliveryAddress: "ignored"}
	o, err := New(form, []cartdom.LineItem{acaiLine()}, pricing.DefaultPolicy(), time.UTC, now)
	require.NoError(t, err)

	assert.Empty(t, o.DeliveryAddress)
	assert.True(t, o.DeliveryFee.IsZero())
	assert.Equal(t, "27.00", pricing.Format(o.TotalAmount))
}

func TestNew_Validation(t *testing.T) {
	items := []cartdom.LineItem{acaiLine()}
	p := pricing.DefaultPolicy()

	tests := []struct {
		name string
		form Form
		want error
	}{
		{"no name", Form{CustomerPhone: "1", DeliveryType: pricing.DeliveryPickup}, ErrInvalidCustomerName},
		{"no phone", Form{CustomerName: "A", DeliveryType: pricing.DeliveryPickup}, ErrInvalidCustomerPhone},
		{"bad type", Form{CustomerName: "A", CustomerPhone: "1", DeliveryType: "drone"}, ErrInvalidDeliveryType},
		{"delivery without address", Form{CustomerName: "A", CustomerPhone: "1", DeliveryType: pricing.DeliveryDelivery}, ErrInvalidAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.form, items, p, time.UTC, now)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidForm)
		})
	}

	_, err := New(Form{CustomerName: "A", CustomerPhone: "1", DeliveryType: pricing.DeliveryPickup}, nil, p, time.UTC, now)
	assert.ErrorIs(t, err, ErrInvalidItems)
}

func TestEarliestDeliveryDate_ByMinimum(t *testing.T) {
	items := []cartdom.LineItem{
		{ID: "a", Quantity: 1, DeliveryDate: "2026-03-20"},
		{ID: "b", Quantity: 1},
		{ID: "c", Quantity: 1, DeliveryDate: "2026-03-14"},
		{ID: "d", Quantity: 1, DeliveryDate: "garbage"},
	}
	d := EarliestDeliveryDate(items, time.UTC)
	require.NotNil(t, d)
	assert.Equal(t, "2026-03-14", d.Format("2006-01-02"))

	assert.Nil(t, EarliestDeliveryDate(items[1:2], time.UTC))
}

func TestApplyStatus(t *testing.T) {
	o := Order{Status: StatusPending}

	assert.ErrorIs(t, o.ApplyStatus(StatusCompleted, now), ErrInvalidTransition)
	require.NoError(t, o.ApplyStatus(StatusAccepted, now))
	assert.Equal(t, StatusAccepted, o.Status)

	o.Status = StatusCompleted
	next, ok := o.NextStatus()
	assert.False(t, ok)
	assert.Equal(t, StatusCompleted, next)
	assert.ErrorIs(t, o.ApplyStatus(StatusCompleted, now), ErrInvalidTransition)
}

func TestFilter_Matches(t *testing.T) {
	o := Order{ID: "ORD-abc123", CustomerName: "Maria Souza", CustomerPhone: "11988887777", Status: StatusPreparing, CreatedAt: now}

	assert.True(t, Filter{}.Matches(o))
	assert.True(t, Filter{Query: "maria"}.Matches(o))
	assert.True(t, Filter{Query: "8888"}.Matches(o))
	assert.True(t, Filter{Query: "abc"}.Matches(o))
	assert.False(t, Filter{Query: "joão"}.Matches(o))
	assert.True(t, Filter{Statuses: []Status{StatusPending, StatusPreparing}}.Matches(o))
	assert.False(t, Filter{Statuses: []Status{StatusCompleted}}.Matches(o))

	from := now.Add(-time.Hour)
	to := now
	assert.False(t, Filter{CreatedFrom: &from, CreatedTo: &to}.Matches(o))
	to = now.Add(time.Second)
	assert.True(t, Filter{CreatedFrom: &from, CreatedTo: &to}.Matches(o))
}

func TestStatusCountsAndSort(t *testing.T) {
	orders := []Order{
		{ID: "1", Status: StatusPending, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "2", Status: StatusPending, CreatedAt: now},
		{ID: "3", Status: StatusCompleted, CreatedAt: now.Add(-time.Hour)},
	}
	counts := StatusCounts(orders)
	assert.Equal(t, 2, counts[StatusPending])
	assert.Equal(t, 1, counts[StatusCompleted])
	assert.Equal(t, 0, counts[StatusDelivering])
	assert.Len(t, counts, 5)

	SortNewestFirst(orders)
	assert.Equal(t, []string{"2", "3", "1"}, []string{orders[0].ID, orders[1].ID, orders[2].ID})
}
