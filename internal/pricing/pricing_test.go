package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewleaf/internal/platform/config"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/money"
)

func TestCompute(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		subtotal string
		shipping string
		tax      string
		total    string
	}{
		{name: "just under threshold pays shipping", subtotal: "49.99", shipping: "5.99", tax: "4.00", total: "59.98"},
		{name: "threshold is inclusive", subtotal: "50.00", shipping: "0.00", tax: "4.00", total: "54.00"},
		{name: "well over threshold", subtotal: "100.00", shipping: "0.00", tax: "8.00", total: "108.00"},
		{name: "empty cart still pays flat fee", subtotal: "0.00", shipping: "5.99", tax: "0.00", total: "5.99"},
		{name: "over half cent rounds up", subtotal: "0.07", shipping: "5.99", tax: "0.01", total: "6.07"},
		{name: "below half cent rounds down", subtotal: "0.06", shipping: "5.99", tax: "0.00", total: "6.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(money.MustParse(tt.subtotal), policy)
			assert.Equal(t, tt.shipping, got.Shipping.String())
			assert.Equal(t, tt.tax, got.Tax.String())
			assert.Equal(t, tt.total, got.Total.String())
			assert.Equal(t, got.Subtotal.Add(got.Shipping).Add(got.Tax), got.Total)
		})
	}
}

func TestCompute_ExactHalfCentRoundsUp(t *testing.T) {
	policy := DefaultPolicy()
	policy.TaxRateBps = 1250

	got := Compute(money.Cents(4), policy)
	assert.Equal(t, money.Cents(1), got.Tax)
}

func TestQuote_RejectsNegativeSubtotal(t *testing.T) {
	_, err := Quote(money.Cents(-1), DefaultPolicy())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestFreeShippingRemaining(t *testing.T) {
	policy := DefaultPolicy()
	assert.Equal(t, money.MustParse("0.01"), FreeShippingRemaining(money.MustParse("49.99"), policy))
	assert.Equal(t, money.Zero, FreeShippingRemaining(money.MustParse("50.00"), policy))
	assert.Equal(t, money.MustParse("50.00"), FreeShippingRemaining(money.Zero, policy))
}

func TestPolicyFromConfig(t *testing.T) {
	t.Run("defaults match the built-in policy", func(t *testing.T) {
		p, err := PolicyFromConfig(config.PricingConfig{
			FreeShippingThreshold: "50.00",
			FlatShippingFee:       "5.99",
			TaxRate:               0.08,
		})
		require.NoError(t, err)
		assert.Equal(t, DefaultPolicy(), p)
	})

	t.Run("rejects malformed amount", func(t *testing.T) {
		_, err := PolicyFromConfig(config.PricingConfig{FreeShippingThreshold: "fifty", FlatShippingFee: "5.99"})
		require.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := PolicyFromConfig(config.PricingConfig{FreeShippingThreshold: "50", FlatShippingFee: "5.99", TaxRate: -0.1})
		require.Error(t, err)
	})
}
