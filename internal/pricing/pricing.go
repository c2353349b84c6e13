// Package pricing turns a cart subtotal into the shipping, tax and total
// shown at checkout.
//
// Amounts are integer cents. Tax is computed from a basis-point rate and
// rounded half-up to the cent, so the breakdown is exact and reproducible.
package pricing

import (
	"fmt"

	"brewleaf/internal/platform/config"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/money"
)

// Policy is the flat store-wide pricing policy.
type Policy struct {
	FreeShippingThreshold money.Amount
	FlatShippingFee       money.Amount
	// TaxRateBps is the tax rate in basis points (800 = 8%).
	TaxRateBps int64
}

// DefaultPolicy is free shipping from 50.00, otherwise 5.99, and 8% tax.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: money.Cents(5000),
		FlatShippingFee:       money.Cents(599),
		TaxRateBps:            800,
	}
}

// PolicyFromConfig parses the configured policy.
func PolicyFromConfig(cfg config.PricingConfig) (Policy, error) {
	threshold, err := money.Parse(cfg.FreeShippingThreshold)
	if err != nil {
		return Policy{}, fmt.Errorf("free shipping threshold: %w", err)
	}
	fee, err := money.Parse(cfg.FlatShippingFee)
	if err != nil {
		return Policy{}, fmt.Errorf("flat shipping fee: %w", err)
	}
	if threshold.IsNegative() || fee.IsNegative() || cfg.TaxRate < 0 {
		return Policy{}, fmt.Errorf("pricing policy values must not be negative")
	}
	return Policy{
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		TaxRateBps:            money.RateToBasisPoints(cfg.TaxRate),
	}, nil
}

// Breakdown is the priced summary of a subtotal.
type Breakdown struct {
	Subtotal money.Amount `json:"subtotal"`
	Shipping money.Amount `json:"shipping"`
	Tax      money.Amount `json:"tax"`
	Total    money.Amount `json:"total"`
}

// Compute prices a subtotal. Shipping is waived when the subtotal reaches
// the threshold (inclusive). Tax applies to the subtotal only.
func Compute(subtotal money.Amount, policy Policy) Breakdown {
	shipping := policy.FlatShippingFee
	if subtotal >= policy.FreeShippingThreshold {
		shipping = money.Zero
	}
	tax := subtotal.MulBasisPoints(policy.TaxRateBps)
	return Breakdown{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Quote validates the subtotal before pricing it. A negative subtotal is a
// caller bug and is rejected rather than clamped.
func Quote(subtotal money.Amount, policy Policy) (Breakdown, error) {
	if subtotal.IsNegative() {
		return Breakdown{}, dErrors.New(dErrors.CodeValidation, "subtotal must not be negative")
	}
	return Compute(subtotal, policy), nil
}

// FreeShippingRemaining is how much more the customer must add to qualify for
// free shipping; zero once qualified.
func FreeShippingRemaining(subtotal money.Amount, policy Policy) money.Amount {
	if subtotal >= policy.FreeShippingThreshold {
		return money.Zero
	}
	return policy.FreeShippingThreshold.Sub(subtotal)
}
