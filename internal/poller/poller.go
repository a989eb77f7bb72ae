// Package poller waits for the local transaction projection to reach a state.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wakala/paysync/internal/domain"
	"github.com/wakala/paysync/internal/logging"
	"github.com/wakala/paysync/internal/metrics"
	"github.com/wakala/paysync/internal/repository"
)

const (
	DefaultInterval = 2 * time.Second
	DefaultMaxWait  = 10 * time.Second
)

// InfoStore reads the projection. A missing row is reported as repository.ErrNotFound.
type InfoStore interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.TransactionInfo, error)
}

type Poller struct {
	store    InfoStore
	Interval time.Duration
}

func New(store InfoStore, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{store: store, Interval: interval}
}

// WaitForState polls the projection of orderID until its state is one of
// states or maxWait has elapsed. Every read is followed by the budget check,
// so a state reached before the deadline is seen on the next tick even when
// that tick lands after it. A zero maxWait returns false without touching the
// store. Cancelling ctx ends the wait with ctx.Err().
func (p *Poller) WaitForState(ctx context.Context, orderID string, states []domain.TransactionState,
	maxWait time.Duration) (bool, error) {
	logger := logging.Logger(ctx, "poller")
	start := time.Now()

	if maxWait <= 0 {
		metrics.WaitResults.WithLabelValues("timeout").Inc()
		return false, nil
	}

	for {
		reached, err := p.reached(ctx, orderID, states)
		if err != nil {
			metrics.WaitResults.WithLabelValues("error").Inc()
			return false, err
		}
		if reached {
			metrics.WaitResults.WithLabelValues("reached").Inc()
			return true, nil
		}

		if time.Since(start) >= maxWait {
			metrics.WaitResults.WithLabelValues("timeout").Inc()
			logger.Debug().Str("order_id", orderID).Dur("waited", time.Since(start)).Msg("state not reached")
			return false, nil
		}

		timer := time.NewTimer(p.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.WaitResults.WithLabelValues("cancelled").Inc()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Poller) reached(ctx context.Context, orderID string, states []domain.TransactionState) (bool, error) {
	info, err := p.store.GetByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read transaction info: %w", err)
	}
	for _, s := range states {
		if info.State == s {
			return true, nil
		}
	}
	return false, nil
}
