package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brewleaf/internal/catalog/models"
	"brewleaf/internal/platform/postgres"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/money"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/tx"
)

// PostgresStore persists the catalog in PostgreSQL. Writes honour a
// transaction carried in the context (see pkg/platform/tx).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const productColumns = `id, name, slug, description, short_desc, price_cents, compare_at_cents,
	category_slug, origin, weight, flavor_notes, caffeine_level, roast_level,
	featured, best_seller, in_stock, rating, review_count, created_at`

func (s *PostgresStore) CreateCategory(ctx context.Context, c *models.Category) error {
	_, err := tx.Use(ctx, s.db).ExecContext(ctx,
		`INSERT INTO categories (id, name, slug, description) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(c.ID), c.Name, c.Slug, c.Description)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("category slug %q: %w", c.Slug, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := tx.Use(ctx, s.db).QueryContext(ctx,
		`SELECT id, name, slug, description FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		var c models.Category
		var cid uuid.UUID
		if err := rows.Scan(&cid, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ID = id.CategoryID(cid)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindCategory(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	var cid uuid.UUID
	err := tx.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, name, slug, description FROM categories WHERE slug = $1`, slug).
		Scan(&cid, &c.Name, &c.Slug, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", slug, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	c.ID = id.CategoryID(cid)
	return &c, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Product) error {
	var compareAt sql.NullInt64
	if p.CompareAtPrice != nil {
		compareAt = sql.NullInt64{Int64: p.CompareAtPrice.Cents(), Valid: true}
	}
	var roast sql.NullString
	if p.RoastLevel != nil {
		roast = sql.NullString{String: string(*p.RoastLevel), Valid: true}
	}
	notes := p.FlavorNotes
	if notes == nil {
		notes = []string{}
	}

	_, err := tx.Use(ctx, s.db).ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		uuid.UUID(p.ID), p.Name, p.Slug, p.Description, p.ShortDesc, p.Price.Cents(), compareAt,
		p.CategorySlug, p.Origin, p.Weight, pq.Array(notes), string(p.CaffeineLevel), roast,
		p.Featured, p.BestSeller, p.InStock, p.Rating, p.ReviewCount, p.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("product slug %q: %w", p.Slug, sentinel.ErrAlreadyUsed)
	}
	if postgres.IsForeignKeyViolation(err) {
		return fmt.Errorf("category %q: %w", p.CategorySlug, sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	row := tx.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, uuid.UUID(productID))
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", productID, sentinel.ErrNotFound)
	}
	return p, err
}

func (s *PostgresStore) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	row := tx.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product slug %q: %w", slug, sentinel.ErrNotFound)
	}
	return p, err
}

var orderClauses = map[models.SortOrder]string{
	models.SortNewest:    "created_at DESC",
	models.SortPriceAsc:  "price_cents ASC",
	models.SortPriceDesc: "price_cents DESC",
	models.SortRating:    "rating DESC",
	models.SortName:      "name ASC",
	models.SortCatalog:   "created_at ASC",
}

func (s *PostgresStore) List(ctx context.Context, f models.Filter) ([]*models.Product, error) {
	var (
		where = []string{"in_stock = TRUE"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.Category != "" {
		where = append(where, "category_slug = "+arg(f.Category))
	}
	if f.Featured {
		where = append(where, "featured = TRUE")
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(f.Search) + "%")
		where = append(where, "(name ILIKE "+p+" OR description ILIKE "+p+")")
	}
	order, ok := orderClauses[f.Sort]
	if !ok {
		order = orderClauses[models.SortNewest]
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ` + order + `, created_at ASC, id ASC`
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := tx.Use(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, productID id.ProductID) error {
	res, err := tx.Use(ctx, s.db).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, uuid.UUID(productID))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res, productID)
}

func (s *PostgresStore) UpdateAggregate(ctx context.Context, productID id.ProductID, agg models.Aggregate) error {
	res, err := tx.Use(ctx, s.db).ExecContext(ctx,
		`UPDATE products SET rating = $2, review_count = $3 WHERE id = $1`,
		uuid.UUID(productID), agg.Rating, agg.Count)
	if err != nil {
		return fmt.Errorf("update product aggregate: %w", err)
	}
	return requireAffected(res, productID)
}

func (s *PostgresStore) ListIDs(ctx context.Context) ([]id.ProductID, error) {
	rows, err := tx.Use(ctx, s.db).QueryContext(ctx, `SELECT id FROM products ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer rows.Close()
	var out []id.ProductID
	for rows.Next() {
		var pid uuid.UUID
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		out = append(out, id.ProductID(pid))
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.Use(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*models.Product, error) {
	var (
		p         models.Product
		pid       uuid.UUID
		price     int64
		compareAt sql.NullInt64
		caffeine  string
		roast     sql.NullString
	)
	err := row.Scan(&pid, &p.Name, &p.Slug, &p.Description, &p.ShortDesc, &price, &compareAt,
		&p.CategorySlug, &p.Origin, &p.Weight, pq.Array(&p.FlavorNotes), &caffeine, &roast,
		&p.Featured, &p.BestSeller, &p.InStock, &p.Rating, &p.ReviewCount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.ID = id.ProductID(pid)
	p.Price = money.Cents(price)
	if compareAt.Valid {
		v := money.Cents(compareAt.Int64)
		p.CompareAtPrice = &v
	}
	p.CaffeineLevel = models.CaffeineLevel(caffeine)
	if roast.Valid {
		r := models.RoastLevel(roast.String)
		p.RoastLevel = &r
	}
	return &p, nil
}

func requireAffected(res sql.Result, productID id.ProductID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", productID, sentinel.ErrNotFound)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
