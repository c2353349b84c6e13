package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewleaf/internal/catalog/models"
	"brewleaf/internal/catalog/store"
)

func TestDefaultDocumentApplies(t *testing.T) {
	ctx := context.Background()
	doc, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, doc.Users)

	st := store.NewInMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := Apply(ctx, st, doc, now)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Categories)
	assert.Equal(t, len(doc.Products), res.Products)

	p, err := st.FindBySlug(ctx, "ethiopian-yirgacheffe")
	require.NoError(t, err)
	assert.Equal(t, "24.99", p.Price.String())
	require.NotNil(t, p.RoastLevel)
	assert.Equal(t, models.RoastLight, *p.RoastLevel)
	assert.Equal(t, []string{"Citrus", "Jasmine", "Bergamot", "Honey"}, p.FlavorNotes)

	// Document order is oldest first, so the last product is the newest.
	newest, err := st.List(ctx, models.Filter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, doc.Products[len(doc.Products)-1].Name, newest[0].Name)

	again, err := Apply(ctx, st, doc, now)
	require.NoError(t, err)
	assert.Zero(t, again.Products)
	assert.Equal(t, 3+len(doc.Products), again.Skipped)
}

func TestParse_RejectsBadPrice(t *testing.T) {
	doc, err := Parse([]byte(`
categories: [{name: Tea, slug: tea}]
products: [{name: Bad, category: tea, price: "abc"}]
`))
	require.NoError(t, err)

	_, err = Apply(context.Background(), store.NewInMemory(), doc, time.Now())
	require.Error(t, err)
}
