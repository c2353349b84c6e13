// Package recommendation ranks the catalog against taste quiz answers.
//
// Score and Recommend are pure: no I/O, no clock, no shared state. The same
// catalog and answers always produce the same ordered result.
package recommendation

import (
	"sort"
	"strings"

	catalog "brewleaf/internal/catalog/models"
	"brewleaf/internal/recommendation/models"
)

// TopN is how many products a quiz recommends.
const TopN = 3

// Weights of each scoring factor. Rating is added on top as a raw float.
const (
	flavorMatchWeight   = 3
	strengthMatchWeight = 2
	roastMatchWeight    = 2
	classicWeight       = 2
	adventurousWeight   = 1
	featuredWeight      = 1
)

// ScoredProduct pairs a product with its score for one scoring pass.
type ScoredProduct struct {
	Product *catalog.Product
	Score   float64
}

var strengthCaffeine = map[models.Strength]catalog.CaffeineLevel{
	models.StrengthMild:   catalog.CaffeineLow,
	models.StrengthMedium: catalog.CaffeineMedium,
	models.StrengthStrong: catalog.CaffeineHigh,
}

// Medium strength has no roast counterpart.
var strengthRoast = map[models.Strength]catalog.RoastLevel{
	models.StrengthMild:   catalog.RoastLight,
	models.StrengthStrong: catalog.RoastDark,
}

// CategoryFor returns the catalog category the answers select.
func CategoryFor(answers models.QuizAnswers) string {
	if answers.PrefersCoffee {
		return catalog.CategoryCoffee
	}
	return catalog.CategoryTea
}

// Score filters products to the answers' category and returns them ranked by
// descending score. Equal scores keep their input order.
func Score(products []*catalog.Product, answers models.QuizAnswers) []ScoredProduct {
	category := CategoryFor(answers)
	scored := make([]ScoredProduct, 0, len(products))
	for _, p := range products {
		if p == nil || p.CategorySlug != category {
			continue
		}
		scored = append(scored, ScoredProduct{Product: p, Score: score(p, answers)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Recommend returns at most TopN products, best first.
func Recommend(products []*catalog.Product, answers models.QuizAnswers) []*catalog.Product {
	scored := Score(products, answers)
	if len(scored) > TopN {
		scored = scored[:TopN]
	}
	out := make([]*catalog.Product, len(scored))
	for i, sp := range scored {
		out[i] = sp.Product
	}
	return out
}

func score(p *catalog.Product, answers models.QuizAnswers) float64 {
	var total int

	// Every matching note counts, so a product can collect the flavor bonus
	// more than once.
	for _, note := range p.FlavorNotes {
		if matchesAny(note, answers.FlavorProfile) {
			total += flavorMatchWeight
		}
	}

	if level, ok := strengthCaffeine[answers.StrengthPref]; ok && p.CaffeineLevel == level {
		total += strengthMatchWeight
	}

	if answers.PrefersCoffee && p.RoastLevel != nil {
		if roast, ok := strengthRoast[answers.StrengthPref]; ok && *p.RoastLevel == roast {
			total += roastMatchWeight
		}
	}

	switch {
	case answers.AdventureLevel == models.AdventureClassic && p.BestSeller:
		total += classicWeight
	case answers.AdventureLevel == models.AdventureAdventurous && !p.BestSeller:
		total += adventurousWeight
	}

	if p.Featured {
		total += featuredWeight
	}

	return float64(total) + p.Rating
}

func matchesAny(note string, tags []string) bool {
	note = strings.ToLower(note)
	for _, tag := range tags {
		if strings.Contains(note, strings.ToLower(tag)) {
			return true
		}
	}
	return false
}
