package recommendation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "brewleaf/internal/catalog/models"
	"brewleaf/internal/recommendation/models"
)

func roast(r catalog.RoastLevel) *catalog.RoastLevel { return &r }

func slugs(products []*catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Slug
	}
	return out
}

func scores(scored []ScoredProduct) map[string]float64 {
	out := make(map[string]float64, len(scored))
	for _, sp := range scored {
		out[sp.Product.Slug] = sp.Score
	}
	return out
}

func fixtureCatalog() []*catalog.Product {
	return []*catalog.Product{
		{
			Slug: "ethiopian-yirgacheffe", CategorySlug: catalog.CategoryCoffee,
			FlavorNotes: []string{"Blueberry", "Jasmine", "Citrus"}, CaffeineLevel: catalog.CaffeineMedium,
			RoastLevel: roast(catalog.RoastLight), Featured: true, BestSeller: true, Rating: 4.8,
		},
		{
			Slug: "sumatra-mandheling", CategorySlug: catalog.CategoryCoffee,
			FlavorNotes: []string{"Earthy", "Dark Chocolate", "Cedar"}, CaffeineLevel: catalog.CaffeineHigh,
			RoastLevel: roast(catalog.RoastDark), Rating: 4.6,
		},
		{
			Slug: "colombian-supremo", CategorySlug: catalog.CategoryCoffee,
			FlavorNotes: []string{"Caramel", "Milk Chocolate", "Nutty"}, CaffeineLevel: catalog.CaffeineMedium,
			RoastLevel: roast(catalog.RoastMedium), BestSeller: true, Rating: 4.7,
		},
		{
			Slug: "swiss-water-decaf", CategorySlug: catalog.CategoryCoffee,
			FlavorNotes: []string{"Chocolate", "Toffee"}, CaffeineLevel: catalog.CaffeineLow,
			RoastLevel: roast(catalog.RoastMediumDark), Rating: 4.3,
		},
		{
			Slug: "earl-grey", CategorySlug: catalog.CategoryTea,
			FlavorNotes: []string{"Bergamot", "Citrus"}, CaffeineLevel: catalog.CaffeineMedium,
			BestSeller: true, Featured: true, Rating: 4.9,
		},
		{
			Slug: "pour-over-kettle", CategorySlug: catalog.CategoryAccessories, Rating: 5,
		},
	}
}

func TestScore_Weights(t *testing.T) {
	answers := models.QuizAnswers{
		PrefersCoffee:  true,
		FlavorProfile:  []string{"chocolate"},
		StrengthPref:   models.StrengthStrong,
		AdventureLevel: models.AdventureAdventurous,
	}

	got := scores(Score(fixtureCatalog(), answers))

	want := map[string]float64{
		// featured only
		"ethiopian-yirgacheffe": 1 + 4.8,
		// chocolate note, HIGH caffeine, DARK roast, not a best seller
		"sumatra-mandheling": 3 + 2 + 2 + 1 + 4.6,
		// milk chocolate note
		"colombian-supremo": 3 + 4.7,
		// chocolate note, not a best seller
		"swiss-water-decaf": 3 + 1 + 4.3,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_FlavorMatchesCountPerNote(t *testing.T) {
	p := &catalog.Product{
		Slug: "mocha-java", CategorySlug: catalog.CategoryCoffee,
		FlavorNotes:   []string{"Dark Chocolate", "Milk Chocolate", "Cocoa"},
		CaffeineLevel: catalog.CaffeineNone,
	}
	answers := models.QuizAnswers{
		PrefersCoffee:  true,
		FlavorProfile:  []string{"CHOCOLATE", "cocoa"},
		StrengthPref:   models.StrengthMedium,
		AdventureLevel: models.AdventureBalanced,
	}

	scored := Score([]*catalog.Product{p}, answers)
	require.Len(t, scored, 1)
	assert.Equal(t, 9.0, scored[0].Score)
}

func TestScore_RoastBonusIsAsymmetric(t *testing.T) {
	products := []*catalog.Product{
		{Slug: "light", CategorySlug: catalog.CategoryCoffee, CaffeineLevel: catalog.CaffeineNone, RoastLevel: roast(catalog.RoastLight)},
		{Slug: "medium", CategorySlug: catalog.CategoryCoffee, CaffeineLevel: catalog.CaffeineNone, RoastLevel: roast(catalog.RoastMedium)},
		{Slug: "dark", CategorySlug: catalog.CategoryCoffee, CaffeineLevel: catalog.CaffeineNone, RoastLevel: roast(catalog.RoastDark)},
	}
	base := models.QuizAnswers{PrefersCoffee: true, AdventureLevel: models.AdventureBalanced}

	for _, tc := range []struct {
		strength models.Strength
		want     map[string]float64
	}{
		{models.StrengthMild, map[string]float64{"light": 2, "medium": 0, "dark": 0}},
		{models.StrengthMedium, map[string]float64{"light": 0, "medium": 0, "dark": 0}},
		{models.StrengthStrong, map[string]float64{"light": 0, "medium": 0, "dark": 2}},
	} {
		t.Run(string(tc.strength), func(t *testing.T) {
			answers := base
			answers.StrengthPref = tc.strength
			if diff := cmp.Diff(tc.want, scores(Score(products, answers))); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestScore_TeaIgnoresRoast(t *testing.T) {
	p := &catalog.Product{
		Slug: "roasted-hojicha", CategorySlug: catalog.CategoryTea,
		CaffeineLevel: catalog.CaffeineLow, RoastLevel: roast(catalog.RoastLight),
	}
	answers := models.QuizAnswers{StrengthPref: models.StrengthMild, AdventureLevel: models.AdventureBalanced}

	scored := Score([]*catalog.Product{p}, answers)
	require.Len(t, scored, 1)
	assert.Equal(t, 2.0, scored[0].Score)
}

func TestRecommend_FiltersByCategory(t *testing.T) {
	answers := models.QuizAnswers{
		PrefersCoffee:  true,
		FlavorProfile:  []string{"citrus", "bergamot"},
		StrengthPref:   models.StrengthMedium,
		AdventureLevel: models.AdventureClassic,
	}
	got := slugs(Recommend(fixtureCatalog(), answers))
	assert.NotContains(t, got, "earl-grey")
	assert.NotContains(t, got, "pour-over-kettle")
	assert.Len(t, got, TopN)

	answers.PrefersCoffee = false
	assert.Equal(t, []string{"earl-grey"}, slugs(Recommend(fixtureCatalog(), answers)))
}

func TestRecommend_TopThreeInScoreOrder(t *testing.T) {
	answers := models.QuizAnswers{
		PrefersCoffee:  true,
		FlavorProfile:  []string{"chocolate"},
		StrengthPref:   models.StrengthStrong,
		AdventureLevel: models.AdventureAdventurous,
	}
	want := []string{"sumatra-mandheling", "swiss-water-decaf", "colombian-supremo"}
	if diff := cmp.Diff(want, slugs(Recommend(fixtureCatalog(), answers))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRecommend_TiesKeepCatalogOrder(t *testing.T) {
	var products []*catalog.Product
	for _, slug := range []string{"first", "second", "third", "fourth"} {
		products = append(products, &catalog.Product{
			Slug: slug, CategorySlug: catalog.CategoryTea, CaffeineLevel: catalog.CaffeineNone, Rating: 4.5,
		})
	}
	answers := models.QuizAnswers{StrengthPref: models.StrengthMedium, AdventureLevel: models.AdventureBalanced}

	assert.Equal(t, []string{"first", "second", "third"}, slugs(Recommend(products, answers)))
}

func TestRecommend_Empty(t *testing.T) {
	answers := models.QuizAnswers{StrengthPref: models.StrengthMild, AdventureLevel: models.AdventureClassic}

	got := Recommend(nil, answers)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	onlyCoffee := fixtureCatalog()[:2]
	assert.Empty(t, Recommend(onlyCoffee, answers))
}

func TestRecommend_IsDeterministic(t *testing.T) {
	answers := models.QuizAnswers{
		PrefersCoffee:  true,
		FlavorProfile:  []string{"nut", "caramel"},
		StrengthPref:   models.StrengthMedium,
		AdventureLevel: models.AdventureClassic,
	}
	catalogSnapshot := fixtureCatalog()
	first := slugs(Recommend(catalogSnapshot, answers))
	second := slugs(Recommend(catalogSnapshot, answers))
	assert.Equal(t, first, second)
}
