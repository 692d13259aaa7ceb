package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/courierly/courierd/internal/adapter/stripe"
	"github.com/courierly/courierd/internal/domain/model"
)

// SessionCheckCall records a reconciliation provider query.
type SessionCheckCall struct {
	SessionID string
}

// WorkerFacadeStub mimics worker interactions with the courier facade.
type WorkerFacadeStub struct {
	Batches []([]model.Payment)
	StaleFn func(context.Context, time.Duration, int) ([]model.Payment, error)
	CheckFn func(context.Context, string) (*stripe.SessionState, error)
	ApplyFn func(context.Context, *stripe.SessionState) error

	Checked []SessionCheckCall
	Applied []*stripe.SessionState

	mu             sync.Mutex
	staleCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// StalePayments returns batches from the configured queue.
func (s *WorkerFacadeStub) StalePayments(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, olderThan, limit)
	}
	call := atomic.AddInt32(&s.staleCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckSessionState records the query and returns configured state.
func (s *WorkerFacadeStub) CheckSessionState(ctx context.Context, sessionID string) (*stripe.SessionState, error) {
	s.mu.Lock()
	s.Checked = append(s.Checked, SessionCheckCall{SessionID: sessionID})
	s.mu.Unlock()
	if s.CheckFn != nil {
		return s.CheckFn(ctx, sessionID)
	}
	return &stripe.SessionState{ID: sessionID, Status: stripe.SessionStatusComplete, PaymentStatus: stripe.PaymentStatusPaid}, nil
}

// ApplySessionState records the transition and executes the configured handler.
func (s *WorkerFacadeStub) ApplySessionState(ctx context.Context, state *stripe.SessionState) error {
	s.mu.Lock()
	s.Applied = append(s.Applied, state)
	s.mu.Unlock()
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, state)
	}
	return nil
}
