package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeliveryType(t *testing.T) {
	tests := []struct {
		in      string
		want    DeliveryType
		wantErr bool
	}{
		{"", DeliveryPickup, false},
		{"pickup", DeliveryPickup, false},
		{" Delivery ", DeliveryDelivery, false},
		{"drone", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDeliveryType(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDeliveryType, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPolicy_Total(t *testing.T) {
	p := DefaultPolicy()
	sub := decimal.RequireFromString("27.00")

	assert.Equal(t, "29.00", Format(p.Total(sub, DeliveryDelivery)))
	assert.Equal(t, "27.00", Format(p.Total(sub, DeliveryPickup)))
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy("", "")
	require.NoError(t, err)
	assert.True(t, p.DeliveryFee.Equal(DefaultDeliveryFee))
	assert.True(t, p.BucketPrice.Equal(DefaultBucketPrice))

	p, err = NewPolicy("3.5", "80")
	require.NoError(t, err)
	assert.Equal(t, "3.50", Format(p.DeliveryFee))
	assert.Equal(t, "80.00", Format(p.BucketPrice))

	_, err = NewPolicy("abc", "")
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = NewPolicy("-1", "")
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestCentsRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("13.50")
	assert.Equal(t, int64(1350), ToCents(d))
	assert.True(t, FromCents(1350).Equal(d))
}
