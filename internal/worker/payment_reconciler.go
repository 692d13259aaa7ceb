package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/courierly/courierd/internal/adapter/stripe"
	"github.com/courierly/courierd/internal/domain/model"
)

// CourierFacade exposes the subset of application functionality required by the worker.
type CourierFacade interface {
	StalePayments(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error)
	CheckSessionState(ctx context.Context, sessionID string) (*stripe.SessionState, error)
	ApplySessionState(ctx context.Context, state *stripe.SessionState) error
}

// PaymentReconciler polls the payment provider for sessions stuck in PENDING
// and applies the resulting transitions. It covers webhook deliveries that
// never arrived.
type PaymentReconciler struct {
	facade       CourierFacade
	pollInterval time.Duration
	pendingAge   time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Payment
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentReconciler constructs the reconciliation worker pool. A zero poll
// interval disables the worker entirely.
func NewPaymentReconciler(facade CourierFacade, pollInterval, pendingAge time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		pendingAge:   pendingAge,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Payment, batchSize*workers),
	}
}

// Start launches background reconciliation.
func (p *PaymentReconciler) Start(ctx context.Context) {
	if p.pollInterval <= 0 {
		p.logger.Info("payment reconciliation disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentReconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentReconciler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentReconciler) fetchAndDispatch(ctx context.Context) {
	payments, err := p.facade.StalePayments(ctx, p.pendingAge, p.batchSize)
	if err != nil {
		p.logger.Error("fetch stale payments failed", slog.String("error", err.Error()))
		return
	}
	for _, payment := range payments {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- payment:
		}
	}
}

func (p *PaymentReconciler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case payment, ok := <-p.jobs:
			if !ok {
				return
			}
			p.reconcile(ctx, payment)
		}
	}
}

func (p *PaymentReconciler) reconcile(ctx context.Context, payment model.Payment) {
	state, err := p.facade.CheckSessionState(ctx, payment.ExternalRef)
	if err != nil {
		p.logger.Error("session state fetch failed",
			slog.Int64("payment_id", payment.ID),
			slog.String("ref", payment.ExternalRef),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := p.facade.ApplySessionState(ctx, state); err != nil {
		p.logger.Error("apply session state failed",
			slog.Int64("payment_id", payment.ID),
			slog.String("error", err.Error()),
		)
	}
}
