// Package money represents currency amounts as integer cents.
//
// All arithmetic stays in int64 minor units so repeated additions never drift.
// Conversions from decimal strings and from floating point inputs round
// half-up (half away from zero) to the nearest cent.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a currency amount in cents.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// Cents builds an Amount from a number of cents.
func Cents(c int64) Amount { return Amount(c) }

// FromFloat converts a decimal value such as 24.99 into cents, rounding half-up.
// It formats through strconv so binary representation noise (24.985 stored as
// 24.98499999...) does not bias the rounding.
func FromFloat(f float64) Amount {
	a, err := Parse(strconv.FormatFloat(f, 'f', -1, 64))
	if err != nil {
		return Amount(math.Round(f * 100))
	}
	return a
}

// Parse reads a decimal string ("5.99", "50", "-0.015") into cents, rounding
// any digits past the second decimal place half-up.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("money: invalid amount %q", s)
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("money: invalid amount %q", s)
		}
	}
	cents := int64(0)
	for i := 0; i < 2; i++ {
		cents *= 10
		if i < len(frac) {
			cents += int64(frac[i] - '0')
		}
	}
	if len(frac) > 2 && frac[2] >= '5' {
		cents++
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return Amount(total), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Cents returns the raw number of cents.
func (a Amount) Cents() int64 { return int64(a) }

// Float returns the amount in currency units. Use only for display or for
// values that are explicitly float in the domain.
func (a Amount) Float() float64 { return float64(a) / 100 }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return a - b }

// Mul multiplies by an integer quantity.
func (a Amount) Mul(qty int) Amount { return a * Amount(qty) }

// MulBasisPoints multiplies by a rate expressed in basis points (1/100 of a
// percent, so 800 = 8%) and rounds the result half-up to the cent.
func (a Amount) MulBasisPoints(bps int64) Amount {
	p := int64(a) * bps
	q, r := p/10000, p%10000
	if r < 0 {
		r = -r
	}
	if r*2 >= 10000 {
		if p < 0 {
			q--
		} else {
			q++
		}
	}
	return Amount(q)
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool { return a < 0 }

// String formats the amount with two decimals, e.g. "5.99".
func (a Amount) String() string {
	sign := ""
	c := int64(a)
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON emits the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err2 := json.Unmarshal(b, &s); err2 != nil {
			return fmt.Errorf("money: %w", err)
		}
		n = json.Number(s)
	}
	v, err := Parse(n.String())
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// RateToBasisPoints converts a fractional rate such as 0.08 to basis points.
func RateToBasisPoints(rate float64) int64 {
	return int64(math.Round(rate * 10000))
}
