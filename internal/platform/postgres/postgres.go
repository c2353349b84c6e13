// Package postgres opens the shared *sql.DB and owns the schema.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// pgx registers itself as the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"brewleaf/internal/platform/config"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the storefront schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// RunInTx runs fn inside a transaction, rolling back on error.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SQLSTATE codes for constraint failures.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint failure,
// whichever driver produced it.
func IsUniqueViolation(err error) bool {
	return hasSQLState(err, uniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key failure.
func IsForeignKeyViolation(err error) bool {
	return hasSQLState(err, foreignKeyViolation)
}

func hasSQLState(err error, state string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == state
	}
	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		return coded.SQLState() == state
	}
	return false
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'CUSTOMER',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	short_desc TEXT NOT NULL DEFAULT '',
	price_cents BIGINT NOT NULL,
	compare_at_cents BIGINT,
	category_slug TEXT NOT NULL REFERENCES categories(slug),
	origin TEXT NOT NULL DEFAULT '',
	weight TEXT NOT NULL DEFAULT '',
	flavor_notes TEXT[] NOT NULL DEFAULT '{}',
	caffeine_level TEXT NOT NULL DEFAULT 'MEDIUM',
	roast_level TEXT,
	featured BOOLEAN NOT NULL DEFAULT FALSE,
	best_seller BOOLEAN NOT NULL DEFAULT FALSE,
	in_stock BOOLEAN NOT NULL DEFAULT TRUE,
	rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	review_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS reviews (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	title TEXT NOT NULL DEFAULT '',
	comment TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	subtotal_cents BIGINT NOT NULL,
	shipping_cents BIGINT NOT NULL,
	tax_cents BIGINT NOT NULL,
	total_cents BIGINT NOT NULL,
	shipping_address JSONB NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	product_id UUID NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	variant TEXT NOT NULL,
	unit_price_cents BIGINT NOT NULL,
	quantity INTEGER NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (order_id, position)
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	product_id UUID NOT NULL,
	frequency TEXT NOT NULL,
	variant TEXT NOT NULL,
	status TEXT NOT NULL,
	next_delivery_date TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_results (
	user_id UUID PRIMARY KEY,
	prefers_coffee BOOLEAN NOT NULL,
	flavor_profile TEXT[] NOT NULL,
	strength_pref TEXT NOT NULL,
	adventure_level TEXT NOT NULL,
	recommended_ids TEXT[] NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
