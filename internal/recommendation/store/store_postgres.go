package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brewleaf/internal/recommendation/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/tx"
)

// PostgresStore persists quiz results in the quiz_results table, one row per user.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, result *models.QuizResult) error {
	ids := make([]string, len(result.RecommendedIDs))
	for i, pid := range result.RecommendedIDs {
		ids[i] = pid.String()
	}
	_, err := tx.Use(ctx, s.db).ExecContext(ctx, `
		INSERT INTO quiz_results (user_id, prefers_coffee, flavor_profile, strength_pref, adventure_level, recommended_ids, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			prefers_coffee = EXCLUDED.prefers_coffee,
			flavor_profile = EXCLUDED.flavor_profile,
			strength_pref = EXCLUDED.strength_pref,
			adventure_level = EXCLUDED.adventure_level,
			recommended_ids = EXCLUDED.recommended_ids,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(result.UserID),
		result.Answers.PrefersCoffee,
		pq.Array(result.Answers.FlavorProfile),
		string(result.Answers.StrengthPref),
		string(result.Answers.AdventureLevel),
		pq.Array(ids),
		result.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert quiz result: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUser(ctx context.Context, userID id.UserID) (*models.QuizResult, error) {
	var (
		r        models.QuizResult
		strength string
		level    string
		flavors  []string
		ids      []string
	)
	err := tx.Use(ctx, s.db).QueryRowContext(ctx, `
		SELECT prefers_coffee, flavor_profile, strength_pref, adventure_level, recommended_ids, updated_at
		FROM quiz_results WHERE user_id = $1`, uuid.UUID(userID),
	).Scan(&r.Answers.PrefersCoffee, pq.Array(&flavors), &strength, &level, pq.Array(&ids), &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quiz result for user %s: %w", userID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find quiz result: %w", err)
	}

	r.UserID = userID
	r.Answers.FlavorProfile = flavors
	r.Answers.StrengthPref = models.Strength(strength)
	r.Answers.AdventureLevel = models.Adventure(level)
	r.RecommendedIDs = make([]id.ProductID, 0, len(ids))
	for _, raw := range ids {
		pid, err := id.ParseProductID(raw)
		if err != nil {
			return nil, fmt.Errorf("quiz result for user %s has bad product id %q: %w", userID, raw, err)
		}
		r.RecommendedIDs = append(r.RecommendedIDs, pid)
	}
	return &r, nil
}
