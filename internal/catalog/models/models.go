package models

import (
	"strings"
	"time"

	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/money"
)

// Category slugs the storefront and the quiz rely on.
const (
	CategoryCoffee      = "coffee"
	CategoryTea         = "tea"
	CategoryAccessories = "accessories"
)

type CaffeineLevel string

const (
	CaffeineNone   CaffeineLevel = "NONE"
	CaffeineLow    CaffeineLevel = "LOW"
	CaffeineMedium CaffeineLevel = "MEDIUM"
	CaffeineHigh   CaffeineLevel = "HIGH"
)

func (c CaffeineLevel) IsValid() bool {
	switch c {
	case CaffeineNone, CaffeineLow, CaffeineMedium, CaffeineHigh:
		return true
	}
	return false
}

type RoastLevel string

const (
	RoastLight       RoastLevel = "LIGHT"
	RoastMediumLight RoastLevel = "MEDIUM_LIGHT"
	RoastMedium      RoastLevel = "MEDIUM"
	RoastMediumDark  RoastLevel = "MEDIUM_DARK"
	RoastDark        RoastLevel = "DARK"
)

func (r RoastLevel) IsValid() bool {
	switch r {
	case RoastLight, RoastMediumLight, RoastMedium, RoastMediumDark, RoastDark:
		return true
	}
	return false
}

type Category struct {
	ID          id.CategoryID `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
}

// Product is a sellable catalog entry. Rating and ReviewCount are the
// denormalized review aggregate and are only written through UpdateAggregate.
type Product struct {
	ID             id.ProductID  `json:"id"`
	Name           string        `json:"name"`
	Slug           string        `json:"slug"`
	Description    string        `json:"description"`
	ShortDesc      string        `json:"short_desc"`
	Price          money.Amount  `json:"price"`
	CompareAtPrice *money.Amount `json:"compare_at_price,omitempty"`
	CategorySlug   string        `json:"category"`
	Origin         string        `json:"origin,omitempty"`
	Weight         string        `json:"weight,omitempty"`
	FlavorNotes    []string      `json:"flavor_notes"`
	CaffeineLevel  CaffeineLevel `json:"caffeine_level"`
	RoastLevel     *RoastLevel   `json:"roast_level,omitempty"`
	Featured       bool          `json:"featured"`
	BestSeller     bool          `json:"best_seller"`
	InStock        bool          `json:"in_stock"`
	Rating         float64       `json:"rating"`
	ReviewCount    int           `json:"review_count"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Clone returns a deep copy so stores never hand out shared slices.
func (p *Product) Clone() *Product {
	cp := *p
	cp.FlavorNotes = append([]string(nil), p.FlavorNotes...)
	if p.CompareAtPrice != nil {
		v := *p.CompareAtPrice
		cp.CompareAtPrice = &v
	}
	if p.RoastLevel != nil {
		v := *p.RoastLevel
		cp.RoastLevel = &v
	}
	return &cp
}

// Validate checks the invariants every stored product must satisfy.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "product name is required")
	}
	if p.Slug == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "product slug is required")
	}
	if p.CategorySlug == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "product category is required")
	}
	if p.Price.IsNegative() {
		return dErrors.New(dErrors.CodeInvariantViolation, "product price must not be negative")
	}
	if !p.CaffeineLevel.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid caffeine level")
	}
	if p.RoastLevel != nil && !p.RoastLevel.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid roast level")
	}
	return nil
}

// Aggregate is the review summary denormalized onto a product.
type Aggregate struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// SortOrder selects the listing order.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortRating    SortOrder = "rating"
	SortName      SortOrder = "name"

	// SortCatalog is insertion order. It is not selectable by clients; the
	// quiz scorer relies on it to break ties deterministically.
	SortCatalog SortOrder = "catalog"
)

// ParseSortOrder maps unknown or empty values to SortNewest.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc, SortRating, SortName:
		return SortOrder(s)
	}
	return SortNewest
}

// Filter narrows a listing. Out-of-stock products are always excluded.
type Filter struct {
	Category string
	Search   string
	Featured bool
	Sort     SortOrder
	Limit    int
}

// CreateProductRequest is the admin payload for a new product.
type CreateProductRequest struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	ShortDesc     string        `json:"short_desc"`
	Price         money.Amount  `json:"price"`
	CategorySlug  string        `json:"category"`
	Origin        string        `json:"origin"`
	Weight        string        `json:"weight"`
	FlavorNotes   string        `json:"flavor_notes"`
	CaffeineLevel CaffeineLevel `json:"caffeine_level"`
	RoastLevel    *RoastLevel   `json:"roast_level,omitempty"`
	Featured      bool          `json:"featured"`
	BestSeller    bool          `json:"best_seller"`
}

// Normalize trims free-text fields and defaults the caffeine level.
func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.ShortDesc = strings.TrimSpace(r.ShortDesc)
	r.CategorySlug = strings.ToLower(strings.TrimSpace(r.CategorySlug))
	r.Origin = strings.TrimSpace(r.Origin)
	r.Weight = strings.TrimSpace(r.Weight)
	if r.CaffeineLevel == "" {
		r.CaffeineLevel = CaffeineMedium
	}
}

func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.CategorySlug == "" {
		return dErrors.New(dErrors.CodeValidation, "category is required")
	}
	if r.Price.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "price must not be negative")
	}
	if !r.CaffeineLevel.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid caffeine level")
	}
	if r.RoastLevel != nil && !r.RoastLevel.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid roast level")
	}
	return nil
}
