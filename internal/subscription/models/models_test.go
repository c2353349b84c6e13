package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmodels "brewleaf/internal/cart/models"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
)

func TestFrequency_NextDelivery(t *testing.T) {
	from := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC), FrequencyWeekly.NextDelivery(from))
	assert.Equal(t, time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC), FrequencyBiweekly.NextDelivery(from))
	// AddDate normalizes Feb 31 to Mar 3.
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), FrequencyMonthly.NextDelivery(from))
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusPaused))
	assert.True(t, StatusPaused.CanTransitionTo(StatusActive))
	assert.True(t, StatusPaused.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusActive.CanTransitionTo(StatusActive))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))
	assert.False(t, StatusActive.CanTransitionTo(Status("GONE")))
}

func TestCreateRequest(t *testing.T) {
	t.Run("normalizes", func(t *testing.T) {
		req := CreateRequest{ProductID: id.NewProductID(), Frequency: " weekly "}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, FrequencyWeekly, req.Frequency)
		assert.Equal(t, cartmodels.VariantWholeBean, req.Variant)
	})

	t.Run("rejects unknown frequency", func(t *testing.T) {
		req := CreateRequest{ProductID: id.NewProductID(), Frequency: "daily"}
		req.Normalize()
		err := req.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("requires product", func(t *testing.T) {
		req := CreateRequest{Frequency: FrequencyMonthly}
		req.Normalize()
		assert.Error(t, req.Validate())
	})
}
