package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"brewleaf/internal/auth/models"
	"brewleaf/internal/platform/postgres"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/email"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/tx"
	"brewleaf/pkg/requestcontext"
)

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Save(ctx context.Context, user *models.User) error {
	_, err := tx.Use(ctx, s.db).ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(user.ID), user.Name, email.Normalize(user.Email), user.PasswordHash, string(user.Role), user.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `id, name, email, password_hash, role, created_at`

func (s *PostgresUserStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := tx.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
	return scanUser(row, userID.String())
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, address string) (*models.User, error) {
	row := tx.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email.Normalize(address))
	return scanUser(row, address)
}

func (s *PostgresUserStore) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	if err := tx.Use(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row *sql.Row, ref string) (*models.User, error) {
	var (
		u    models.User
		uid  uuid.UUID
		role string
	)
	err := row.Scan(&uid, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", ref, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.ID = id.UserID(uid)
	u.Role = requestcontext.Role(role)
	return &u, nil
}
