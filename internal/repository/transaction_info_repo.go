package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wakala/paysync/internal/domain"
)

// TransactionInfoRepo stores the local projection of remote transaction state.
type TransactionInfoRepo struct {
	db *sql.DB
}

func NewTransactionInfoRepo(db *sql.DB) *TransactionInfoRepo {
	return &TransactionInfoRepo{db: db}
}

func (r *TransactionInfoRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.TransactionInfo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT order_id, space_id, transaction_id, version, state, failure_reason, updated_at
		FROM transaction_info WHERE order_id = ?`, orderID)
	info, err := scanTransactionInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction info for order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction info: %w", err)
	}
	return info, nil
}

// Upsert writes the projection row and reports whether anything changed.
// A row only moves forward: to a newer transaction of the order, or to a
// higher version of the same transaction. Redelivered and reordered events
// are no-ops.
func (r *TransactionInfoRepo) Upsert(ctx context.Context, info *domain.TransactionInfo) (bool, error) {
	if info.UpdatedAt.IsZero() {
		info.UpdatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transaction_info
		(order_id, space_id, transaction_id, version, state, failure_reason, updated_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(order_id) DO UPDATE SET
			space_id = excluded.space_id,
			transaction_id = excluded.transaction_id,
			version = excluded.version,
			state = excluded.state,
			failure_reason = excluded.failure_reason,
			updated_at = excluded.updated_at
		WHERE excluded.transaction_id > transaction_info.transaction_id
		   OR (excluded.transaction_id = transaction_info.transaction_id
		       AND excluded.version > transaction_info.version)`,
		info.OrderID, info.SpaceID, info.TransactionID, info.Version, string(info.State),
		nullableString(info.FailureReason), info.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("upsert transaction info: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type TransactionInfoFilter struct {
	State   string
	SpaceID int64
	From    *time.Time
	To      *time.Time
	Page    int
	Limit   int
}

func (r *TransactionInfoRepo) List(ctx context.Context, f TransactionInfoFilter) ([]domain.TransactionInfo, int, error) {
	where, args := buildTransactionInfoWhere(f)

	var total int
	countSQL := "SELECT COUNT(*) FROM transaction_info" + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	querySQL := `SELECT order_id, space_id, transaction_id, version, state, failure_reason, updated_at
		FROM transaction_info` + where + " ORDER BY updated_at DESC, order_id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var infos []domain.TransactionInfo
	for rows.Next() {
		info, err := scanTransactionInfo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		infos = append(infos, *info)
	}
	return infos, total, rows.Err()
}

// RecordReceipt stores an event hash and reports whether it was new.
func (r *TransactionInfoRepo) RecordReceipt(ctx context.Context, hash, source, orderID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO event_receipts (hash, source, order_id, received_at) VALUES (?,?,?,?)`,
		hash, source, orderID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("record receipt: %w", err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// --- helpers ---

func buildTransactionInfoWhere(f TransactionInfoFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.State != "" {
		clauses = append(clauses, "state = ?")
		args = append(args, f.State)
	}
	if f.SpaceID != 0 {
		clauses = append(clauses, "space_id = ?")
		args = append(args, f.SpaceID)
	}
	if f.From != nil {
		clauses = append(clauses, "updated_at >= ?")
		args = append(args, f.From.Format(time.RFC3339))
	}
	if f.To != nil {
		clauses = append(clauses, "updated_at <= ?")
		args = append(args, f.To.Format(time.RFC3339))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionInfo(row rowScanner) (*domain.TransactionInfo, error) {
	var (
		info          domain.TransactionInfo
		state         string
		failureReason sql.NullString
		updatedAt     string
	)
	err := row.Scan(&info.OrderID, &info.SpaceID, &info.TransactionID, &info.Version, &state, &failureReason, &updatedAt)
	if err != nil {
		return nil, err
	}
	info.State = domain.TransactionState(state)
	info.FailureReason = failureReason.String
	info.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &info, nil
}

// ForgetReceipt removes a recorded event hash so the event can be applied again.
func (r *TransactionInfoRepo) ForgetReceipt(ctx context.Context, hash string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM event_receipts WHERE hash = ?", hash); err != nil {
		return fmt.Errorf("forget receipt: %w", err)
	}
	return nil
}
