package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"5.99", 599},
		{"50", 5000},
		{"50.0", 5000},
		{".5", 50},
		{"0.004", 0},
		{"0.005", 1},
		{"24.985", 2499},
		{"-1.005", -101},
		{"+3.10", 310},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "abc", "1.2x", "."} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestFromFloat_NoBinaryDrift(t *testing.T) {
	assert.Equal(t, Amount(2499), FromFloat(24.99))
	assert.Equal(t, Amount(599), FromFloat(5.99))
	// 0.1+0.2 is 0.30000000000000004 in binary floating point.
	assert.Equal(t, Amount(30), FromFloat(0.1+0.2))
}

func TestRepeatedAdditionStaysExact(t *testing.T) {
	var sum Amount
	for i := 0; i < 1000; i++ {
		sum = sum.Add(MustParse("0.10"))
	}
	assert.Equal(t, MustParse("100.00"), sum)
}

func TestMulBasisPoints_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		amount Amount
		bps    int64
		want   Amount
	}{
		{"exact", MustParse("100.00"), 800, MustParse("8.00")},
		{"rounds to nearest cent", MustParse("49.99"), 800, MustParse("4.00")}, // 3.9992
		{"half rounds up", Cents(1875), 800, Cents(150)},                    // 1.50 exactly
		{"half cent rounds up", Cents(1), 5000, Cents(1)},                   // 0.005
		{"just below half", Cents(6), 800, Cents(0)},                        // 0.0048
		{"negative half rounds away from zero", Cents(-1), 5000, Cents(-1)},
		{"zero", Zero, 800, Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.amount.MulBasisPoints(tt.bps))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "5.99", Cents(599).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-1.50", Cents(-150).String())
	assert.Equal(t, "0.00", Zero.String())
}

func TestJSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		Total Amount `json:"total"`
	}{Total: MustParse("108.00")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":108.00}`, string(raw))

	var in struct {
		Price Amount `json:"price"`
		Fee   Amount `json:"fee"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":24.99,"fee":"5.99"}`), &in))
	assert.Equal(t, Cents(2499), in.Price)
	assert.Equal(t, Cents(599), in.Fee)
}

func TestRateToBasisPoints(t *testing.T) {
	assert.Equal(t, int64(800), RateToBasisPoints(0.08))
	assert.Equal(t, int64(725), RateToBasisPoints(0.0725))
}
