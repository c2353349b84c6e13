package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"brewleaf/internal/catalog/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/sentinel"
)

// InMemory is a catalog store for tests and local runs without Postgres.
type InMemory struct {
	mu         sync.RWMutex
	categories map[string]*models.Category
	products   map[id.ProductID]*models.Product
	// order keeps insertion order so equal sort keys list deterministically.
	order []id.ProductID
}

func NewInMemory() *InMemory {
	return &InMemory{
		categories: make(map[string]*models.Category),
		products:   make(map[id.ProductID]*models.Product),
	}
}

func (s *InMemory) CreateCategory(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.Slug]; ok {
		return fmt.Errorf("category slug %q: %w", c.Slug, sentinel.ErrAlreadyUsed)
	}
	cp := *c
	s.categories[c.Slug] = &cp
	return nil
}

func (s *InMemory) ListCategories(_ context.Context) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *models.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *InMemory) FindCategory(_ context.Context, slug string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[slug]
	if !ok {
		return nil, fmt.Errorf("category %q: %w", slug, sentinel.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// Create inserts a product, enforcing slug uniqueness.
func (s *InMemory) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[p.CategorySlug]; !ok {
		return fmt.Errorf("category %q: %w", p.CategorySlug, sentinel.ErrNotFound)
	}
	for _, existing := range s.products {
		if existing.Slug == p.Slug {
			return fmt.Errorf("product slug %q: %w", p.Slug, sentinel.ErrAlreadyUsed)
		}
	}
	s.products[p.ID] = p.Clone()
	s.order = append(s.order, p.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, productID id.ProductID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, sentinel.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *InMemory) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Slug == slug {
			return p.Clone(), nil
		}
	}
	return nil, fmt.Errorf("product slug %q: %w", slug, sentinel.ErrNotFound)
}

// List returns in-stock products matching the filter in the requested order.
func (s *InMemory) List(_ context.Context, f models.Filter) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(f.Search)
	var out []*models.Product
	for _, pid := range s.order {
		p := s.products[pid]
		if !p.InStock {
			continue
		}
		if f.Category != "" && p.CategorySlug != f.Category {
			continue
		}
		if f.Featured && !p.Featured {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p.Clone())
	}

	slices.SortStableFunc(out, compareFor(f.Sort))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func compareFor(order models.SortOrder) func(a, b *models.Product) int {
	switch order {
	case models.SortPriceAsc:
		return func(a, b *models.Product) int { return cmp.Compare(a.Price, b.Price) }
	case models.SortPriceDesc:
		return func(a, b *models.Product) int { return cmp.Compare(b.Price, a.Price) }
	case models.SortRating:
		return func(a, b *models.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case models.SortName:
		return func(a, b *models.Product) int { return cmp.Compare(a.Name, b.Name) }
	case models.SortCatalog:
		return func(a, b *models.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return func(a, b *models.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

func (s *InMemory) Delete(_ context.Context, productID id.ProductID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return fmt.Errorf("product %s: %w", productID, sentinel.ErrNotFound)
	}
	delete(s.products, productID)
	s.order = slices.DeleteFunc(s.order, func(pid id.ProductID) bool { return pid == productID })
	return nil
}

// UpdateAggregate overwrites the denormalized review summary.
func (s *InMemory) UpdateAggregate(_ context.Context, productID id.ProductID, agg models.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("product %s: %w", productID, sentinel.ErrNotFound)
	}
	p.Rating = agg.Rating
	p.ReviewCount = agg.Count
	return nil
}

// ListIDs returns every product id, in stock or not.
func (s *InMemory) ListIDs(_ context.Context) ([]id.ProductID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}
