package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	var out bytes.Buffer
	cmd := NewRootCmdForTest()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPrice(t *testing.T) {
	cases := []struct {
		subtotal string
		want     string
	}{
		{"49.99", `{"subtotal":49.99,"shipping":5.99,"tax":4,"total":59.98}`},
		{"50.00", `{"subtotal":50,"shipping":0,"tax":4,"total":54}`},
		{"0", `{"subtotal":0,"shipping":5.99,"tax":0,"total":5.99}`},
	}
	for _, tc := range cases {
		t.Run(tc.subtotal, func(t *testing.T) {
			out, err := execute(t, "price", tc.subtotal)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, out)
		})
	}
}

func TestPrice_RejectsGarbage(t *testing.T) {
	_, err := execute(t, "price", "twelve")
	assert.Error(t, err)

	_, err = execute(t, "price")
	assert.Error(t, err)
}

func TestQuiz_RecommendsThreeFromSeededCatalog(t *testing.T) {
	out, err := execute(t, "quiz", "--flavor", "chocolate", "--strength", "strong", "--adventure", "classic")
	require.NoError(t, err)

	var got struct {
		Recommendations []string `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Recommendations, 3)
}

func TestQuiz_InvalidStrength(t *testing.T) {
	_, err := execute(t, "quiz", "--strength", "nuclear")
	assert.Error(t, err)
}

func TestSeed_InMemory(t *testing.T) {
	out, err := execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "users: 2")
	assert.Contains(t, out, "skipped: 0")
}
