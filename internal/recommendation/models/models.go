package models

import (
	"time"

	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/platform/strings"
)

type Strength string

const (
	StrengthMild   Strength = "mild"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

func (s Strength) IsValid() bool {
	switch s {
	case StrengthMild, StrengthMedium, StrengthStrong:
		return true
	}
	return false
}

type Adventure string

const (
	AdventureClassic     Adventure = "classic"
	AdventureBalanced    Adventure = "balanced"
	AdventureAdventurous Adventure = "adventurous"
)

func (a Adventure) IsValid() bool {
	switch a {
	case AdventureClassic, AdventureBalanced, AdventureAdventurous:
		return true
	}
	return false
}

// QuizAnswers are the taste quiz responses the scorer ranks against.
type QuizAnswers struct {
	PrefersCoffee  bool      `json:"prefers_coffee"`
	FlavorProfile  []string  `json:"flavor_profile"`
	StrengthPref   Strength  `json:"strength_pref"`
	AdventureLevel Adventure `json:"adventure_level"`
}

// Normalize trims, lowercases and de-duplicates flavor tags. An empty tag
// would match every note, so blanks are dropped here rather than scored.
func (a *QuizAnswers) Normalize() {
	a.FlavorProfile = strings.DedupeAndTrimLower(a.FlavorProfile)
	if a.FlavorProfile == nil {
		a.FlavorProfile = []string{}
	}
}

func (a *QuizAnswers) Validate() error {
	if !a.StrengthPref.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "strength_pref must be one of mild, medium, strong")
	}
	if !a.AdventureLevel.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "adventure_level must be one of classic, balanced, adventurous")
	}
	return nil
}

// QuizResult is the last quiz a signed-in user completed. There is at most
// one per user; a new submission replaces it.
type QuizResult struct {
	UserID         id.UserID      `json:"user_id"`
	Answers        QuizAnswers    `json:"answers"`
	RecommendedIDs []id.ProductID `json:"recommended_ids"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
