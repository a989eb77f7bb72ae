// Package reconciliation keeps an order and its gateway transaction in step:
// it confirms the pending transaction with the latest order data or creates a
// new one, and drives the follow-up operations on it.
package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"

	"github.com/wakala/paysync/internal/assembler"
	"github.com/wakala/paysync/internal/domain"
	"github.com/wakala/paysync/internal/gateway"
	"github.com/wakala/paysync/internal/logging"
	"github.com/wakala/paysync/internal/metrics"
)

// MaxConfirmAttempts bounds how often a confirm is retried after the gateway
// rejected it for a stale version.
const MaxConfirmAttempts = 5

var (
	// ErrVersioningConflict is returned when every confirm attempt lost the
	// race against a concurrent writer.
	ErrVersioningConflict = errors.New("versioning conflict")
	// ErrNotFound is returned when a search matched nothing.
	ErrNotFound = errors.New("not found")
)

// QuoteSync links the storefront cart to a newly created transaction.
type QuoteSync interface {
	AttachTransaction(ctx context.Context, quoteID string, tx *domain.Transaction) error
}

// OrderLinker records which gateway transaction belongs to an order.
type OrderLinker interface {
	SetTransaction(ctx context.Context, orderID string, spaceID, transactionID int64) error
}

type Reconciler struct {
	gateway   gateway.Client
	assembler *assembler.Assembler
	orders    OrderLinker
	quotes    QuoteSync
}

// New creates a Reconciler. quotes may be nil when no cart store is configured.
func New(gw gateway.Client, asm *assembler.Assembler, orders OrderLinker, quotes QuoteSync) *Reconciler {
	return &Reconciler{gateway: gw, assembler: asm, orders: orders, quotes: quotes}
}

type attemptOutcome int

const (
	outcomeDone attemptOutcome = iota
	outcomeConflict
)

type attemptResult struct {
	outcome  attemptOutcome
	tx       *domain.Transaction
	conflict error
}

// ConfirmOrCreate pushes the order's current data onto its pending transaction.
// When the order has no transaction yet, or the transaction left PENDING, a new
// one is created instead.
func (r *Reconciler) ConfirmOrCreate(ctx context.Context, order *domain.Order, invoice *domain.Invoice,
	chargeFlow bool, token *domain.Token) (*domain.Transaction, error) {
	logger := logging.Logger(ctx, "reconciliation")

	if err := assembler.CheckFlow(order, chargeFlow); err != nil {
		metrics.ReconcileOutcomes.WithLabelValues("confirm", "error").Inc()
		return nil, err
	}

	var lastConflict error
	for attempt := 1; attempt <= MaxConfirmAttempts; attempt++ {
		res, err := r.confirmAttempt(ctx, order, invoice, chargeFlow, token)
		if err != nil {
			return nil, err
		}
		if res.outcome == outcomeDone {
			return res.tx, nil
		}

		lastConflict = res.conflict
		metrics.VersionConflicts.Inc()
		logger.Debug().
			Str("order_id", order.ID).
			Int64("transaction_id", order.TransactionID).
			Int("attempt", attempt).
			Msg("confirm rejected for stale version, refetching")
	}

	metrics.ReconcileOutcomes.WithLabelValues("confirm", "conflict").Inc()
	err := fmt.Errorf("%w: order %s after %d attempts: %w",
		ErrVersioningConflict, order.ID, MaxConfirmAttempts, lastConflict)
	logger.Warn().Err(err).Str("order_id", order.ID).Msg("giving up on confirm")
	sentry.CaptureException(err)
	return nil, err
}

func (r *Reconciler) confirmAttempt(ctx context.Context, order *domain.Order, invoice *domain.Invoice,
	chargeFlow bool, token *domain.Token) (attemptResult, error) {
	tx, err := r.fetchCurrent(ctx, order)
	if err != nil {
		return attemptResult{}, err
	}

	if tx == nil || tx.State != domain.StatePending {
		created, err := r.CreateTransaction(ctx, order, invoice, chargeFlow, token)
		if err != nil {
			return attemptResult{}, err
		}
		return attemptResult{outcome: outcomeDone, tx: created}, nil
	}

	pending := &domain.TransactionPending{ID: tx.ID, Version: tx.Version}
	if err := r.assembler.Assemble(ctx, &pending.TransactionData, order, invoice, chargeFlow, token); err != nil {
		return attemptResult{}, err
	}

	confirmed, err := r.gateway.ConfirmTransaction(ctx, order.SpaceID, pending)
	if errors.Is(err, gateway.ErrVersionConflict) {
		return attemptResult{outcome: outcomeConflict, conflict: err}, nil
	}
	if err != nil {
		metrics.ReconcileOutcomes.WithLabelValues("confirm", "error").Inc()
		return attemptResult{}, fmt.Errorf("confirm transaction %d: %w", tx.ID, err)
	}

	metrics.ReconcileOutcomes.WithLabelValues("confirm", "ok").Inc()
	logging.Logger(ctx, "reconciliation").Info().
		Str("order_id", order.ID).
		Int64("transaction_id", confirmed.ID).
		Int("version", confirmed.Version).
		Msg("transaction confirmed")
	return attemptResult{outcome: outcomeDone, tx: confirmed}, nil
}

// fetchCurrent returns nil when the order is not linked to a transaction the
// gateway still knows about.
func (r *Reconciler) fetchCurrent(ctx context.Context, order *domain.Order) (*domain.Transaction, error) {
	if order.TransactionID == 0 {
		return nil, nil
	}
	tx, err := r.gateway.FetchTransaction(ctx, order.SpaceID, order.TransactionID)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %d: %w", order.TransactionID, err)
	}
	return tx, nil
}

// CreateTransaction creates a fresh transaction for the order and links it to
// the order and to the order's cart. order.TransactionID is updated in place.
func (r *Reconciler) CreateTransaction(ctx context.Context, order *domain.Order, invoice *domain.Invoice,
	chargeFlow bool, token *domain.Token) (*domain.Transaction, error) {
	logger := logging.Logger(ctx, "reconciliation")

	payload := &domain.TransactionCreate{
		CustomersPresence:       domain.PresenceVirtualPresent,
		AutoConfirmationEnabled: false,
	}
	if err := r.assembler.AssembleCreate(ctx, payload, order, invoice, chargeFlow, token); err != nil {
		metrics.ReconcileOutcomes.WithLabelValues("create", "error").Inc()
		return nil, err
	}

	tx, err := r.gateway.CreateTransaction(ctx, order.SpaceID, payload)
	if err != nil {
		metrics.ReconcileOutcomes.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("create transaction for order %s: %w", order.ID, err)
	}
	metrics.ReconcileOutcomes.WithLabelValues("create", "ok").Inc()
	logger.Info().
		Str("order_id", order.ID).
		Int64("transaction_id", tx.ID).
		Str("state", string(tx.State)).
		Msg("transaction created")

	// The transaction exists remotely either way, so link failures are logged
	// and the transaction is still returned to the caller.
	order.TransactionID = tx.ID
	if r.orders != nil {
		if err := r.orders.SetTransaction(ctx, order.ID, order.SpaceID, tx.ID); err != nil {
			logger.Error().Err(err).
				Str("order_id", order.ID).
				Int64("transaction_id", tx.ID).
				Msg("could not link order to transaction")
			sentry.CaptureException(err)
		}
	}
	if r.quotes != nil {
		if err := r.quotes.AttachTransaction(ctx, order.QuoteID, tx); err != nil {
			logger.Warn().Err(err).Str("quote_id", order.QuoteID).Msg("could not link quote to transaction")
		}
	}
	return tx, nil
}

func (r *Reconciler) Complete(ctx context.Context, order *domain.Order) (*domain.TransactionCompletion, error) {
	c, err := r.gateway.CompleteTransaction(ctx, order.SpaceID, order.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("complete transaction %d: %w", order.TransactionID, err)
	}
	return c, nil
}

func (r *Reconciler) Void(ctx context.Context, order *domain.Order) (*domain.TransactionVoid, error) {
	v, err := r.gateway.VoidTransaction(ctx, order.SpaceID, order.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("void transaction %d: %w", order.TransactionID, err)
	}
	return v, nil
}

// Accept marks the transaction's delivery indication as suitable.
func (r *Reconciler) Accept(ctx context.Context, order *domain.Order) (*domain.DeliveryIndication, error) {
	di, err := r.deliveryIndication(ctx, order)
	if err != nil {
		return nil, err
	}
	res, err := r.gateway.MarkDeliveryIndicationSuitable(ctx, order.SpaceID, di.ID)
	if err != nil {
		return nil, fmt.Errorf("mark delivery indication %d suitable: %w", di.ID, err)
	}
	return res, nil
}

// Deny marks the transaction's delivery indication as not suitable.
func (r *Reconciler) Deny(ctx context.Context, order *domain.Order) (*domain.DeliveryIndication, error) {
	di, err := r.deliveryIndication(ctx, order)
	if err != nil {
		return nil, err
	}
	res, err := r.gateway.MarkDeliveryIndicationNotSuitable(ctx, order.SpaceID, di.ID)
	if err != nil {
		return nil, fmt.Errorf("mark delivery indication %d not suitable: %w", di.ID, err)
	}
	return res, nil
}

func (r *Reconciler) deliveryIndication(ctx context.Context, order *domain.Order) (*domain.DeliveryIndication, error) {
	found, err := r.gateway.SearchDeliveryIndications(ctx, order.SpaceID,
		domain.EqualsQuery("transaction.id", order.TransactionID, 1))
	if err != nil {
		return nil, fmt.Errorf("search delivery indications: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: delivery indication for transaction %d", ErrNotFound, order.TransactionID)
	}
	return &found[0], nil
}

// GetTransactionInvoice returns the invoice the gateway issued for the order's transaction.
func (r *Reconciler) GetTransactionInvoice(ctx context.Context, order *domain.Order) (*domain.TransactionInvoice, error) {
	found, err := r.gateway.SearchTransactionInvoices(ctx, order.SpaceID,
		domain.EqualsQuery("completion.lineItemVersion.transaction.id", order.TransactionID, 1))
	if err != nil {
		return nil, fmt.Errorf("search transaction invoices: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: invoice for transaction %d", ErrNotFound, order.TransactionID)
	}
	return &found[0], nil
}
