package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	cartmodels "brewleaf/internal/cart/models"
	"brewleaf/internal/platform/postgres"
	"brewleaf/internal/subscription/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectSubscription = `
	SELECT id, user_id, product_id, frequency, variant, status, next_delivery_date, created_at
	FROM subscriptions`

func (s *PostgresStore) Create(ctx context.Context, sub *models.Subscription) error {
	_, err := tx.Use(ctx, s.db).ExecContext(ctx, `
		INSERT INTO subscriptions (id, user_id, product_id, frequency, variant, status, next_delivery_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(sub.ID), uuid.UUID(sub.UserID), uuid.UUID(sub.ProductID),
		string(sub.Frequency), string(sub.Variant), string(sub.Status),
		sub.NextDeliveryDate, sub.CreatedAt,
	)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("subscription %s: %w", sub.ID, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, subID id.SubscriptionID) (*models.Subscription, error) {
	row := tx.Use(ctx, s.db).QueryRowContext(ctx, selectSubscription+` WHERE id = $1`, uuid.UUID(subID))
	sub, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subscription %s: %w", subID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Subscription, error) {
	rows, err := tx.Use(ctx, s.db).QueryContext(ctx,
		selectSubscription+` WHERE user_id = $1 ORDER BY created_at DESC, id`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()
	var out []*models.Subscription
	for rows.Next() {
		sub, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, sub *models.Subscription) error {
	res, err := tx.Use(ctx, s.db).ExecContext(ctx, `
		UPDATE subscriptions SET status = $2, next_delivery_date = $3 WHERE id = $1`,
		uuid.UUID(sub.ID), string(sub.Status), sub.NextDeliveryDate)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("subscription %s: %w", sub.ID, sentinel.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*models.Subscription, error) {
	var (
		sub                     models.Subscription
		sid, uid, pid           uuid.UUID
		frequency, variant, sts string
	)
	if err := row.Scan(&sid, &uid, &pid, &frequency, &variant, &sts, &sub.NextDeliveryDate, &sub.CreatedAt); err != nil {
		return nil, err
	}
	sub.ID = id.SubscriptionID(sid)
	sub.UserID = id.UserID(uid)
	sub.ProductID = id.ProductID(pid)
	sub.Frequency = models.Frequency(frequency)
	sub.Variant = cartmodels.Variant(variant)
	sub.Status = models.Status(sts)
	return &sub, nil
}
