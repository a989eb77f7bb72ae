// Package ingestion applies transaction state events pushed by the gateway to
// the local TransactionInfo projection.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wakala/paysync/internal/domain"
	"github.com/wakala/paysync/internal/logging"
	"github.com/wakala/paysync/internal/metrics"
)

const (
	SourceWebhook = "webhook"
	SourceKafka   = "kafka"
)

// ErrInvalidEvent is returned for payloads that can never be applied.
var ErrInvalidEvent = errors.New("invalid transaction event")

// Event is a transaction state change as delivered by the gateway. Version is
// the gateway's transaction version after the change and orders events of the
// same transaction.
type Event struct {
	EventID       string                  `json:"eventId"`
	OrderID       string                  `json:"orderId"`
	SpaceID       int64                   `json:"spaceId"`
	TransactionID int64                   `json:"transactionId"`
	Version       int                     `json:"version"`
	State         domain.TransactionState `json:"state"`
	FailureReason string                  `json:"failureReason,omitempty"`
}

// ApplyResult is returned from a successful ingestion.
type ApplyResult struct {
	OrderID   string                  `json:"order_id"`
	State     domain.TransactionState `json:"state"`
	Duplicate bool                    `json:"duplicate"`
	Changed   bool                    `json:"changed"`
}

// ProjectionStore is the write side of the projection.
type ProjectionStore interface {
	RecordReceipt(ctx context.Context, hash, source, orderID string) (bool, error)
	ForgetReceipt(ctx context.Context, hash string) error
	Upsert(ctx context.Context, info *domain.TransactionInfo) (bool, error)
}

type Service struct {
	store ProjectionStore
}

func NewService(store ProjectionStore) *Service {
	return &Service{store: store}
}

// Apply decodes one event and writes it to the projection. Events are
// idempotent: a redelivered event is acknowledged without touching the row.
func (s *Service) Apply(ctx context.Context, source string, data []byte) (*ApplyResult, error) {
	logger := logging.Logger(ctx, "ingestion")

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		metrics.ProjectionEvents.WithLabelValues(source, "invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := validate(&ev); err != nil {
		metrics.ProjectionEvents.WithLabelValues(source, "invalid").Inc()
		return nil, err
	}

	hash := eventHash(&ev, data)
	fresh, err := s.store.RecordReceipt(ctx, hash, source, ev.OrderID)
	if err != nil {
		return nil, fmt.Errorf("check receipt: %w", err)
	}
	if !fresh {
		metrics.ProjectionEvents.WithLabelValues(source, "duplicate").Inc()
		logger.Debug().Str("order_id", ev.OrderID).Str("event_id", ev.EventID).Msg("duplicate event skipped")
		return &ApplyResult{OrderID: ev.OrderID, State: ev.State, Duplicate: true}, nil
	}

	changed, err := s.store.Upsert(ctx, &domain.TransactionInfo{
		OrderID:       ev.OrderID,
		SpaceID:       ev.SpaceID,
		TransactionID: ev.TransactionID,
		Version:       ev.Version,
		State:         ev.State,
		FailureReason: ev.FailureReason,
	})
	if err != nil {
		// Let the redelivery through next time.
		if ferr := s.store.ForgetReceipt(ctx, hash); ferr != nil {
			logger.Error().Err(ferr).Str("order_id", ev.OrderID).Msg("could not forget receipt")
		}
		metrics.ProjectionEvents.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("update projection: %w", err)
	}

	metrics.ProjectionEvents.WithLabelValues(source, "applied").Inc()
	logger.Info().
		Str("order_id", ev.OrderID).
		Int64("transaction_id", ev.TransactionID).
		Int("version", ev.Version).
		Str("state", string(ev.State)).
		Bool("changed", changed).
		Msg("transaction event applied")

	return &ApplyResult{OrderID: ev.OrderID, State: ev.State, Changed: changed}, nil
}

var knownStates = map[domain.TransactionState]bool{
	domain.StateCreate:     true,
	domain.StatePending:    true,
	domain.StateConfirmed:  true,
	domain.StateProcessing: true,
	domain.StateFailed:     true,
	domain.StateAuthorized: true,
	domain.StateVoided:     true,
	domain.StateCompleted:  true,
	domain.StateFulfill:    true,
	domain.StateDecline:    true,
}

func validate(ev *Event) error {
	switch {
	case ev.OrderID == "":
		return fmt.Errorf("%w: missing orderId", ErrInvalidEvent)
	case ev.TransactionID == 0:
		return fmt.Errorf("%w: missing transactionId", ErrInvalidEvent)
	case ev.Version <= 0:
		return fmt.Errorf("%w: missing version", ErrInvalidEvent)
	case !knownStates[ev.State]:
		return fmt.Errorf("%w: unknown state %q", ErrInvalidEvent, ev.State)
	}
	return nil
}

// eventHash keys an event by its id, or by its content when the sender gave none.
func eventHash(ev *Event, raw []byte) string {
	if ev.EventID != "" {
		return fmt.Sprintf("%x", sha256.Sum256([]byte("id:"+ev.EventID)))
	}
	return fmt.Sprintf("%x", sha256.Sum256(raw))
}
