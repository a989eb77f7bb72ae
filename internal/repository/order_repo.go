package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wakala/paysync/internal/domain"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Upsert stores the order. The gateway link columns are only overwritten when
// the incoming order carries a transaction id.
func (r *OrderRepo) Upsert(ctx context.Context, o *domain.Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders
		(id, increment_id, quote_id, store_id, currency, customer_id, space_id,
		 transaction_id, security_token, payload, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			increment_id = excluded.increment_id,
			quote_id = excluded.quote_id,
			store_id = excluded.store_id,
			currency = excluded.currency,
			customer_id = excluded.customer_id,
			space_id = excluded.space_id,
			transaction_id = COALESCE(excluded.transaction_id, orders.transaction_id),
			security_token = excluded.security_token,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		o.ID, o.IncrementID, o.QuoteID, o.StoreID, o.Currency, nullableString(o.CustomerID),
		o.SpaceID, nullableInt64(o.TransactionID), nullableString(o.SecurityToken), string(payload),
		o.CreatedAt.Format(time.RFC3339), now,
	)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var (
		payload string
		spaceID int64
		txID    sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT payload, space_id, transaction_id FROM orders WHERE id = ?", id,
	).Scan(&payload, &spaceID, &txID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	var o domain.Order
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		return nil, fmt.Errorf("unmarshal order %s: %w", id, err)
	}
	// The link columns are authoritative; they move independently of the payload.
	o.SpaceID = spaceID
	o.TransactionID = txID.Int64
	return &o, nil
}

// SetTransaction links the order to a gateway transaction.
func (r *OrderRepo) SetTransaction(ctx context.Context, orderID string, spaceID, transactionID int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET space_id = ?, transaction_id = ?, updated_at = ? WHERE id = ?",
		spaceID, transactionID, time.Now().UTC().Format(time.RFC3339), orderID,
	)
	if err != nil {
		return fmt.Errorf("set transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return nil
}

// --- helpers ---

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
