package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brewleaf/internal/order/models"
	"brewleaf/internal/platform/postgres"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/money"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/tx"
)

// PostgresStore persists orders and their items. An order and its items are
// written in one transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, o *models.Order) error {
	if _, ok := tx.From(ctx); ok {
		return s.insert(ctx, o)
	}
	return postgres.RunInTx(ctx, s.db, func(sqlTx *sql.Tx) error {
		return s.insert(tx.WithTx(ctx, sqlTx), o)
	})
}

func (s *PostgresStore) insert(ctx context.Context, o *models.Order) error {
	q := tx.Use(ctx, s.db)
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encode address: %w", err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, subtotal_cents, shipping_cents, tax_cents, total_cents, shipping_address, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(o.ID), uuid.UUID(o.UserID), o.Subtotal.Cents(), o.Shipping.Cents(), o.Tax.Cents(), o.Total.Cents(),
		address, string(o.Status), o.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("order %s: %w", o.ID, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for i, item := range o.Items {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, name, variant, unit_price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.UUID(o.ID), i, uuid.UUID(item.ProductID), item.Name, item.Variant, item.UnitPrice.Cents(), item.Quantity,
		); err != nil {
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}
	return nil
}

const orderColumns = `id, user_id, subtotal_cents, shipping_cents, tax_cents, total_cents, shipping_address, status, created_at`

func (s *PostgresStore) FindByID(ctx context.Context, orderID id.OrderID) (*models.Order, error) {
	orders, err := s.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, uuid.UUID(orderID))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("order %s: %w", orderID, sentinel.ErrNotFound)
	}
	return orders[0], nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Order, error) {
	return s.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id ASC`, uuid.UUID(userID))
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]*models.Order, error) {
	return s.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id ASC LIMIT $1`, limit)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, orderID id.OrderID, status models.Status) error {
	res, err := tx.Use(ctx, s.db).ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, uuid.UUID(orderID), string(status))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", orderID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.Use(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Revenue(ctx context.Context) (money.Amount, error) {
	var cents int64
	if err := tx.Use(ctx, s.db).QueryRowContext(ctx, `SELECT COALESCE(SUM(total_cents), 0) FROM orders`).Scan(&cents); err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return money.Cents(cents), nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	q := tx.Use(ctx, s.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var (
		out   []*models.Order
		byID  = make(map[uuid.UUID]*models.Order)
		idArg []string
	)
	for rows.Next() {
		var (
			o                              models.Order
			oid, uid                       uuid.UUID
			subtotal, shipping, tax, total int64
			address                        []byte
			status                         string
		)
		if err := rows.Scan(&oid, &uid, &subtotal, &shipping, &tax, &total, &address, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("decode address of order %s: %w", oid, err)
		}
		o.ID = id.OrderID(oid)
		o.UserID = id.UserID(uid)
		o.Subtotal, o.Shipping, o.Tax, o.Total = money.Cents(subtotal), money.Cents(shipping), money.Cents(tax), money.Cents(total)
		o.Status = models.Status(status)
		o.Items = []models.Item{}
		out = append(out, &o)
		byID[oid] = &o
		idArg = append(idArg, oid.String())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	itemRows, err := q.QueryContext(ctx, `
		SELECT order_id, product_id, name, variant, unit_price_cents, quantity
		FROM order_items WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`, pq.Array(idArg))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			item     models.Item
			oid, pid uuid.UUID
			price    int64
		)
		if err := itemRows.Scan(&oid, &pid, &item.Name, &item.Variant, &price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.ProductID = id.ProductID(pid)
		item.UnitPrice = money.Cents(price)
		o, ok := byID[oid]
		if !ok {
			return nil, errors.New("order item without order")
		}
		o.Items = append(o.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return out, nil
}
