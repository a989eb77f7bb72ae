// Package gateway holds the contract with the remote payment gateway and a
// thin JSON-over-HTTP implementation of it.
package gateway

//go:generate mockgen -source=./client.go -destination=./mock/mock_client.go -package=mock_gateway

import (
	"context"
	"errors"

	"github.com/wakala/paysync/internal/domain"
)

var (
	// ErrNotFound is returned when the gateway has no such entity.
	ErrNotFound = errors.New("gateway: entity not found")
	// ErrVersionConflict is returned when a versioned write was submitted
	// against a stale version.
	ErrVersionConflict = errors.New("gateway: version conflict")
)

// Client is what a gateway client should support. Every call is scoped to a space.
type Client interface {
	FetchTransaction(ctx context.Context, spaceID, transactionID int64) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, spaceID int64, payload *domain.TransactionCreate) (*domain.Transaction, error)
	ConfirmTransaction(ctx context.Context, spaceID int64, payload *domain.TransactionPending) (*domain.Transaction, error)
	CompleteTransaction(ctx context.Context, spaceID, transactionID int64) (*domain.TransactionCompletion, error)
	VoidTransaction(ctx context.Context, spaceID, transactionID int64) (*domain.TransactionVoid, error)
	SearchDeliveryIndications(ctx context.Context, spaceID int64, query domain.EntityQuery) ([]domain.DeliveryIndication, error)
	MarkDeliveryIndicationSuitable(ctx context.Context, spaceID, id int64) (*domain.DeliveryIndication, error)
	MarkDeliveryIndicationNotSuitable(ctx context.Context, spaceID, id int64) (*domain.DeliveryIndication, error)
	SearchTransactionInvoices(ctx context.Context, spaceID int64, query domain.EntityQuery) ([]domain.TransactionInvoice, error)
}
