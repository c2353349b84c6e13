package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewleaf/internal/pricing"
	"brewleaf/pkg/testutil"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	New(pricing.DefaultPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestHandleQuote(t *testing.T) {
	router := newRouter()

	t.Run("prices a subtotal", func(t *testing.T) {
		rec := testutil.Do(router, testutil.NewJSONRequest(t, http.MethodPost, "/pricing/quote", `{"subtotal": 49.99}`))

		require.Equal(t, http.StatusOK, rec.Code)
		body := testutil.Decode[map[string]float64](t, rec)
		assert.InDelta(t, 5.99, body["shipping"], 0.0001)
		assert.InDelta(t, 4.00, body["tax"], 0.0001)
		assert.InDelta(t, 59.98, body["total"], 0.0001)
		assert.InDelta(t, 0.01, body["free_shipping_remaining"], 0.0001)
	})

	t.Run("rejects negative subtotal", func(t *testing.T) {
		rec := testutil.Do(router, testutil.NewJSONRequest(t, http.MethodPost, "/pricing/quote", map[string]float64{"subtotal": -1}))
		testutil.AssertError(t, rec, http.StatusBadRequest, "validation_error")
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := testutil.Do(router, testutil.NewJSONRequest(t, http.MethodPost, "/pricing/quote", `{"subtotal": "abc"}`))
		testutil.AssertError(t, rec, http.StatusBadRequest, "bad_request")
	})
}
