package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wakala/paysync/internal/domain"
)

type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Upsert(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, email, dob, gender) VALUES (?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, dob = excluded.dob, gender = excluded.gender`,
		c.ID, c.Email, nullableString(c.DOB), nullableString(c.Gender),
	)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

// FindCustomer returns nil, nil when the customer is unknown.
func (r *CustomerRepo) FindCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var (
		c           domain.Customer
		dob, gender sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, dob, gender FROM customers WHERE id = ?", id,
	).Scan(&c.ID, &c.Email, &dob, &gender)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	c.DOB = dob.String
	c.Gender = gender.String
	return &c, nil
}
