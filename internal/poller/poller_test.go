package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakala/paysync/internal/domain"
	"github.com/wakala/paysync/internal/repository"
)

// scriptedStore returns the scripted states in order, repeating the last one.
type scriptedStore struct {
	mu     sync.Mutex
	states []domain.TransactionState
	reads  int
	err    error
}

func (s *scriptedStore) GetByOrderID(_ context.Context, orderID string) (*domain.TransactionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.states) == 0 {
		return nil, repository.ErrNotFound
	}
	i := s.reads - 1
	if i >= len(s.states) {
		i = len(s.states) - 1
	}
	if s.states[i] == "" {
		return nil, repository.ErrNotFound
	}
	return &domain.TransactionInfo{OrderID: orderID, State: s.states[i]}, nil
}

func TestWaitForState_AlreadyReached(t *testing.T) {
	store := &scriptedStore{states: []domain.TransactionState{domain.StateAuthorized}}
	p := New(store, time.Hour)

	start := time.Now()
	ok, err := p.WaitForState(context.Background(), "100",
		[]domain.TransactionState{domain.StateAuthorized, domain.StateCompleted}, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, store.reads)
}

func TestWaitForState_ReachedAfterPolls(t *testing.T) {
	store := &scriptedStore{states: []domain.TransactionState{"", domain.StatePending, domain.StateCompleted}}
	p := New(store, 5*time.Millisecond)

	ok, err := p.WaitForState(context.Background(), "100", []domain.TransactionState{domain.StateCompleted}, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, store.reads)
}

func TestWaitForState_Timeout(t *testing.T) {
	store := &scriptedStore{states: []domain.TransactionState{domain.StatePending}}
	p := New(store, 10*time.Millisecond)

	maxWait := 50 * time.Millisecond
	start := time.Now()
	ok, err := p.WaitForState(context.Background(), "100", []domain.TransactionState{domain.StateCompleted}, maxWait)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), maxWait)
}

// flippingStore reports PENDING until flipAt has passed since it was created.
type flippingStore struct {
	created time.Time
	flipAt  time.Duration
	mu      sync.Mutex
	reads   int
}

func (s *flippingStore) GetByOrderID(_ context.Context, orderID string) (*domain.TransactionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	state := domain.StatePending
	if time.Since(s.created) >= s.flipAt {
		state = domain.StateCompleted
	}
	return &domain.TransactionInfo{OrderID: orderID, State: state}, nil
}

func TestWaitForState_ReachedBetweenLastReadAndDeadline(t *testing.T) {
	// Reads at 0, 200ms and 400ms see PENDING; the state flips at 450ms,
	// inside the 500ms budget, and the 600ms tick must still report it.
	store := &flippingStore{created: time.Now(), flipAt: 450 * time.Millisecond}
	p := New(store, 200*time.Millisecond)

	ok, err := p.WaitForState(context.Background(), "100", []domain.TransactionState{domain.StateCompleted}, 500*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, store.reads)
}

func TestWaitForState_TerminalFailureKeepsWaiting(t *testing.T) {
	store := &scriptedStore{states: []domain.TransactionState{domain.StateFailed}}
	p := New(store, 5*time.Millisecond)

	ok, err := p.WaitForState(context.Background(), "100", []domain.TransactionState{domain.StateCompleted}, 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, store.reads, 1)
}

func TestWaitForState_ZeroBudget(t *testing.T) {
	store := &scriptedStore{states: []domain.TransactionState{domain.StateCompleted}}
	p := New(store, time.Millisecond)

	ok, err := p.WaitForState(context.Background(), "100", []domain.TransactionState{domain.StateCompleted}, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.reads)
}

func TestWaitForState_StoreError(t *testing.T) {
	boom := errors.New("disk on fire")
	p := New(&scriptedStore{err: boom}, time.Millisecond)

	ok, err := p.WaitForState(context.Background(), "100", []domain.TransactionState{domain.StateCompleted}, time.Second)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestWaitForState_Cancelled(t *testing.T) {
	p := New(&scriptedStore{states: []domain.TransactionState{domain.StatePending}}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	ok, err := p.WaitForState(ctx, "100", []domain.TransactionState{domain.StateCompleted}, time.Minute)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNew_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(&scriptedStore{}, 0).Interval)
}
