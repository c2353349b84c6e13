package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"brewleaf/internal/platform/postgres"
	"brewleaf/internal/review/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/tx"
)

// PostgresStore persists reviews. The (user_id, product_id) unique constraint
// backs the one-review-per-product rule.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, r *models.Review) error {
	_, err := tx.Use(ctx, s.db).ExecContext(ctx, `
		INSERT INTO reviews (id, user_id, product_id, rating, title, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(r.ID), uuid.UUID(r.UserID), uuid.UUID(r.ProductID), r.Rating, r.Title, r.Comment, r.CreatedAt)
	switch {
	case postgres.IsUniqueViolation(err):
		return fmt.Errorf("review by user %s for product %s: %w", r.UserID, r.ProductID, sentinel.ErrAlreadyUsed)
	case postgres.IsForeignKeyViolation(err):
		return fmt.Errorf("product %s: %w", r.ProductID, sentinel.ErrNotFound)
	case err != nil:
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, reviewID id.ReviewID) error {
	res, err := tx.Use(ctx, s.db).ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, uuid.UUID(reviewID))
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("review %s: %w", reviewID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListByProduct(ctx context.Context, productID id.ProductID) ([]*models.Review, error) {
	rows, err := tx.Use(ctx, s.db).QueryContext(ctx, `
		SELECT id, user_id, rating, title, comment, created_at
		FROM reviews WHERE product_id = $1
		ORDER BY created_at DESC, id ASC`, uuid.UUID(productID))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []*models.Review
	for rows.Next() {
		var (
			r        models.Review
			rid, uid uuid.UUID
		)
		if err := rows.Scan(&rid, &uid, &r.Rating, &r.Title, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.ID = id.ReviewID(rid)
		r.UserID = id.UserID(uid)
		r.ProductID = productID
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Ratings(ctx context.Context, productID id.ProductID) ([]int, error) {
	rows, err := tx.Use(ctx, s.db).QueryContext(ctx,
		`SELECT rating FROM reviews WHERE product_id = $1`, uuid.UUID(productID))
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}
