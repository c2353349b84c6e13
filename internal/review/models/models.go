package models

import (
	"strings"
	"time"

	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
)

const (
	MinRating = 1
	MaxRating = 5

	maxTitleLength   = 120
	maxCommentLength = 4000
)

// Review is one customer's rating of one product. A user reviews a product
// at most once.
type Review struct {
	ID        id.ReviewID  `json:"id"`
	UserID    id.UserID    `json:"user_id"`
	ProductID id.ProductID `json:"product_id"`
	Rating    int          `json:"rating"`
	Title     string       `json:"title,omitempty"`
	Comment   string       `json:"comment,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type SubmitRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (r *SubmitRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Comment = strings.TrimSpace(r.Comment)
}

func (r *SubmitRequest) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return dErrors.New(dErrors.CodeValidation, "rating must be between 1 and 5")
	}
	if len(r.Title) > maxTitleLength {
		return dErrors.New(dErrors.CodeValidation, "title is too long")
	}
	if len(r.Comment) > maxCommentLength {
		return dErrors.New(dErrors.CodeValidation, "comment is too long")
	}
	return nil
}
