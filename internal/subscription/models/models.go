package models

import (
	"strings"
	"time"

	cartmodels "brewleaf/internal/cart/models"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
)

type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// NextDelivery returns the delivery date one period after from.
func (f Frequency) NextDelivery(from time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	default:
		return from.AddDate(0, 1, 0)
	}
}

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusPaused    Status = "PAUSED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a subscription in s may move to next.
// Cancelled is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s == StatusCancelled || !next.IsValid() {
		return false
	}
	return s != next
}

type Subscription struct {
	ID               id.SubscriptionID  `json:"id"`
	UserID           id.UserID          `json:"user_id"`
	ProductID        id.ProductID       `json:"product_id"`
	Frequency        Frequency          `json:"frequency"`
	Variant          cartmodels.Variant `json:"variant"`
	Status           Status             `json:"status"`
	NextDeliveryDate time.Time          `json:"next_delivery_date"`
	CreatedAt        time.Time          `json:"created_at"`
}

type CreateRequest struct {
	ProductID id.ProductID       `json:"product_id"`
	Frequency Frequency          `json:"frequency"`
	Variant   cartmodels.Variant `json:"variant"`
}

// Normalize upper-cases the frequency and defaults the grind.
func (r *CreateRequest) Normalize() {
	r.Frequency = Frequency(strings.ToUpper(strings.TrimSpace(string(r.Frequency))))
	r.Variant = cartmodels.Variant(strings.ToLower(strings.TrimSpace(string(r.Variant))))
	if r.Variant == "" {
		r.Variant = cartmodels.VariantWholeBean
	}
}

func (r *CreateRequest) Validate() error {
	switch {
	case r.ProductID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "product_id is required")
	case !r.Frequency.IsValid():
		return dErrors.New(dErrors.CodeValidation, "frequency must be WEEKLY, BIWEEKLY or MONTHLY")
	case !r.Variant.IsValid():
		return dErrors.New(dErrors.CodeValidation, "unknown grind option")
	}
	return nil
}

// ParseStatus accepts any casing.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "status must be ACTIVE, PAUSED or CANCELLED")
	}
	return status, nil
}
