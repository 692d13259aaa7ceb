package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courierly/courierd/internal/adapter/stripe"
	"github.com/courierly/courierd/internal/domain/model"
	testhelpers "github.com/courierly/courierd/internal/test"
)

func TestNewPaymentReconcilerDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := NewPaymentReconciler(&testhelpers.WorkerFacadeStub{}, time.Second, time.Minute, 0, 0, logger)
	if rec.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", rec.batchSize)
	}
	if rec.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", rec.workers)
	}
}

func TestPaymentReconcilerDisabledWithoutInterval(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	stale := int32(0)
	facade := &testhelpers.WorkerFacadeStub{StaleFn: func(context.Context, time.Duration, int) ([]model.Payment, error) {
		atomic.AddInt32(&stale, 1)
		return nil, nil
	}}
	rec := NewPaymentReconciler(facade, 0, time.Minute, 1, 1, logger)

	rec.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	rec.Stop()

	if atomic.LoadInt32(&stale) != 0 {
		t.Fatal("expected no polling when interval is zero")
	}
}

func TestPaymentReconcilerAppliesSessionState(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.WorkerFacadeStub{Batches: [][]model.Payment{{{ID: 1, OrderID: 1, ExternalRef: "cs_1", Status: model.PaymentStatusPending}}}}
	rec := NewPaymentReconciler(facade, 10*time.Millisecond, time.Minute, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		applied := len(facade.Applied) > 0
		facade.Unlock()
		if applied {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for reconciliation")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rec.Stop()
	facade.Lock()
	defer facade.Unlock()
	if len(facade.Checked) == 0 || facade.Checked[0].SessionID != "cs_1" {
		t.Fatalf("expected session cs_1 queried, got %+v", facade.Checked)
	}
	if facade.Applied[0].ID != "cs_1" || facade.Applied[0].Status != stripe.SessionStatusComplete {
		t.Fatalf("unexpected applied state %+v", facade.Applied[0])
	}
}

func TestPaymentReconcilerSkipsApplyOnCheckFailure(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	attempts := int32(0)
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.Payment{
			{{ID: 1, OrderID: 1, ExternalRef: "cs_1", Status: model.PaymentStatusPending}},
			{{ID: 1, OrderID: 1, ExternalRef: "cs_1", Status: model.PaymentStatusPending}},
		},
		CheckFn: func(ctx context.Context, sessionID string) (*stripe.SessionState, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return nil, errors.New("provider unavailable")
			}
			return &stripe.SessionState{ID: sessionID, Status: stripe.SessionStatusExpired}, nil
		},
	}

	rec := NewPaymentReconciler(facade, 5*time.Millisecond, time.Minute, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(time.Second)
	for {
		facade.Lock()
		applied := len(facade.Applied)
		facade.Unlock()
		if applied > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for second poll")
		case <-time.After(10 * time.Millisecond):
		}
	}
	rec.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Applied) != 1 || facade.Applied[0].Status != stripe.SessionStatusExpired {
		t.Fatalf("expected only the successful check applied, got %+v", facade.Applied)
	}
}

func TestPaymentReconcilerStopIsIdempotent(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := NewPaymentReconciler(&testhelpers.WorkerFacadeStub{}, 10*time.Millisecond, time.Minute, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)
	rec.Stop()
	rec.Stop()
}
