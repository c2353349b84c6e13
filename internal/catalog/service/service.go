package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"brewleaf/internal/catalog/models"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/strings"
	"brewleaf/pkg/requestcontext"
)

const (
	featuredLimit    = 6
	bestSellersLimit = 4
)

type Store interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
	FindCategory(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, f models.Filter) ([]*models.Product, error)
	Delete(ctx context.Context, productID id.ProductID) error
	UpdateAggregate(ctx context.Context, productID id.ProductID, agg models.Aggregate) error
	ListIDs(ctx context.Context) ([]id.ProductID, error)
	Count(ctx context.Context) (int, error)
}

// Service is the read side of the storefront plus admin product management.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, f models.Filter) ([]*models.Product, error) {
	f.Sort = models.ParseSortOrder(string(f.Sort))
	return s.list(ctx, f)
}

func (s *Service) list(ctx context.Context, f models.Filter) ([]*models.Product, error) {
	products, err := s.store.List(ctx, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return products, nil
}

// InStockByCategory is the snapshot the recommendation quiz scores against.
func (s *Service) InStockByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	return s.list(ctx, models.Filter{Category: category, Sort: models.SortCatalog})
}

func (s *Service) Featured(ctx context.Context) ([]*models.Product, error) {
	return s.List(ctx, models.Filter{Featured: true, Limit: featuredLimit})
}

func (s *Service) BestSellers(ctx context.Context) ([]*models.Product, error) {
	products, err := s.List(ctx, models.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]*models.Product, 0, bestSellersLimit)
	for _, p := range products {
		if p.BestSeller {
			out = append(out, p)
			if len(out) == bestSellersLimit {
				break
			}
		}
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
	}
	return categories, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.store.FindBySlug(ctx, slug)
	if err != nil {
		return nil, translateProductErr(err, "failed to load product")
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	p, err := s.store.FindByID(ctx, productID)
	if err != nil {
		return nil, translateProductErr(err, "failed to load product")
	}
	return p, nil
}

// CreateCategory adds a category; the slug is derived from the name.
func (s *Service) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	c := &models.Category{
		ID:          id.CategoryID(uuid.New()),
		Name:        name,
		Slug:        strings.Slugify(name),
		Description: description,
	}
	if c.Slug == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "category name is required")
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "category already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create category")
	}
	return c, nil
}

// CreateProduct adds a product on behalf of an admin. The slug is derived from
// the name and flavor notes arrive as a comma separated list.
func (s *Service) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:            id.ProductID(uuid.New()),
		Name:          req.Name,
		Slug:          strings.Slugify(req.Name),
		Description:   req.Description,
		ShortDesc:     req.ShortDesc,
		Price:         req.Price,
		CategorySlug:  req.CategorySlug,
		Origin:        req.Origin,
		Weight:        req.Weight,
		FlavorNotes:   strings.SplitAndTrim(req.FlavorNotes, ","),
		CaffeineLevel: req.CaffeineLevel,
		RoastLevel:    req.RoastLevel,
		Featured:      req.Featured,
		BestSeller:    req.BestSeller,
		InStock:       true,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := p.Validate(); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}

	if err := s.store.Create(ctx, p); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, dErrors.New(dErrors.CodeConflict, "a product with this name already exists")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeValidation, "unknown category")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create product")
	}

	s.logger.InfoContext(ctx, "product created",
		"request_id", requestcontext.RequestID(ctx),
		"product_id", p.ID.String(),
		"slug", p.Slug,
	)
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, productID id.ProductID) error {
	if err := s.store.Delete(ctx, productID); err != nil {
		return translateProductErr(err, "failed to delete product")
	}
	s.logger.InfoContext(ctx, "product deleted",
		"request_id", requestcontext.RequestID(ctx),
		"product_id", productID.String(),
	)
	return nil
}

// UpdateAggregate writes a recomputed review summary. It participates in any
// transaction carried by ctx.
func (s *Service) UpdateAggregate(ctx context.Context, productID id.ProductID, agg models.Aggregate) error {
	if err := s.store.UpdateAggregate(ctx, productID, agg); err != nil {
		return translateProductErr(err, "failed to update product rating")
	}
	return nil
}

func (s *Service) ProductIDs(ctx context.Context) ([]id.ProductID, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return ids, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count products")
	}
	return n, nil
}

func translateProductErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "product not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
