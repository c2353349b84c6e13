// Package seed loads the catalog bootstrap document and applies it to a
// catalog store. Applying is idempotent: existing slugs are left untouched.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"brewleaf/internal/catalog/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/money"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/strings"
)

//go:embed catalog.yaml
var defaultDocument []byte

type Document struct {
	Users      []User     `yaml:"users"`
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type Category struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type Product struct {
	Name           string   `yaml:"name"`
	Category       string   `yaml:"category"`
	ShortDesc      string   `yaml:"short_desc"`
	Description    string   `yaml:"description"`
	Price          string   `yaml:"price"`
	CompareAtPrice string   `yaml:"compare_at_price"`
	Origin         string   `yaml:"origin"`
	Weight         string   `yaml:"weight"`
	RoastLevel     string   `yaml:"roast_level"`
	FlavorNotes    []string `yaml:"flavor_notes"`
	CaffeineLevel  string   `yaml:"caffeine_level"`
	Featured       bool     `yaml:"featured"`
	BestSeller     bool     `yaml:"best_seller"`
	OutOfStock     bool     `yaml:"out_of_stock"`
	Rating         float64  `yaml:"rating"`
	ReviewCount    int      `yaml:"review_count"`
}

// Default returns the built-in storefront catalog.
func Default() (*Document, error) {
	return Parse(defaultDocument)
}

// Load reads a document from path, or the built-in one when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse seed document: %w", err)
	}
	return &doc, nil
}

// Store is the subset of the catalog store seeding needs.
type Store interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	Create(ctx context.Context, p *models.Product) error
}

// Result counts what Apply inserted and skipped.
type Result struct {
	Categories int
	Products   int
	Skipped    int
}

// Apply inserts every category then every product. Products get creation
// times one second apart in document order so "newest" listing is stable.
func Apply(ctx context.Context, store Store, doc *Document, now time.Time) (Result, error) {
	var res Result
	for _, c := range doc.Categories {
		slug := c.Slug
		if slug == "" {
			slug = strings.Slugify(c.Name)
		}
		err := store.CreateCategory(ctx, &models.Category{
			ID:          id.CategoryID(uuid.New()),
			Name:        c.Name,
			Slug:        slug,
			Description: c.Description,
		})
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed category %q: %w", c.Name, err)
		default:
			res.Categories++
		}
	}

	for i, sp := range doc.Products {
		p, err := sp.toProduct(now.Add(time.Duration(i-len(doc.Products)) * time.Second))
		if err != nil {
			return res, fmt.Errorf("seed product %q: %w", sp.Name, err)
		}
		err = store.Create(ctx, p)
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed product %q: %w", sp.Name, err)
		default:
			res.Products++
		}
	}
	return res, nil
}

func (sp Product) toProduct(createdAt time.Time) (*models.Product, error) {
	price, err := money.Parse(sp.Price)
	if err != nil {
		return nil, err
	}
	p := &models.Product{
		ID:            id.ProductID(uuid.New()),
		Name:          sp.Name,
		Slug:          strings.Slugify(sp.Name),
		Description:   sp.Description,
		ShortDesc:     sp.ShortDesc,
		Price:         price,
		CategorySlug:  sp.Category,
		Origin:        sp.Origin,
		Weight:        sp.Weight,
		FlavorNotes:   append([]string{}, sp.FlavorNotes...),
		CaffeineLevel: models.CaffeineLevel(sp.CaffeineLevel),
		Featured:      sp.Featured,
		BestSeller:    sp.BestSeller,
		InStock:       !sp.OutOfStock,
		Rating:        sp.Rating,
		ReviewCount:   sp.ReviewCount,
		CreatedAt:     createdAt,
	}
	if p.CaffeineLevel == "" {
		p.CaffeineLevel = models.CaffeineMedium
	}
	if sp.CompareAtPrice != "" {
		cmp, err := money.Parse(sp.CompareAtPrice)
		if err != nil {
			return nil, err
		}
		p.CompareAtPrice = &cmp
	}
	if sp.RoastLevel != "" {
		r := models.RoastLevel(sp.RoastLevel)
		p.RoastLevel = &r
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
