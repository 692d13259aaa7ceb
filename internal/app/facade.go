package app

import (
	"context"
	"time"

	"github.com/courierly/courierd/internal/adapter/stripe"
	"github.com/courierly/courierd/internal/domain/model"
	"github.com/courierly/courierd/internal/usecase"
)

// SessionStateProvider re-queries the provider for the current state of a
// checkout session. The reconciliation worker relies on it.
type SessionStateProvider interface {
	GetCheckoutSession(ctx context.Context, id string) (*stripe.SessionState, error)
}

// WebhookVerifier authenticates raw webhook payloads.
type WebhookVerifier interface {
	VerifyEvent(payload []byte, signature string) (*stripe.Event, error)
}

// CourierFacade is the single application entry point behind the HTTP
// handlers and the reconciliation worker.
type CourierFacade struct {
	auth     *usecase.AuthUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
	webhooks *usecase.WebhookUseCase
	verifier WebhookVerifier
	sessions SessionStateProvider
}

func NewCourierFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
	webhooks *usecase.WebhookUseCase,
	verifier WebhookVerifier,
	sessions SessionStateProvider,
) *CourierFacade {
	return &CourierFacade{
		auth:     auth,
		orders:   orders,
		payments: payments,
		webhooks: webhooks,
		verifier: verifier,
		sessions: sessions,
	}
}

func (f *CourierFacade) Register(ctx context.Context, login, password string, role model.Role) (*model.User, string, error) {
	return f.auth.Register(ctx, login, password, role)
}

func (f *CourierFacade) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *CourierFacade) ParseToken(token string) (model.Actor, error) {
	return f.auth.ParseToken(token)
}

func (f *CourierFacade) User(ctx context.Context, id int64) (*model.User, error) {
	return f.auth.GetByID(ctx, id)
}

func (f *CourierFacade) ChangePassword(ctx context.Context, id int64, password string) error {
	return f.auth.ChangePassword(ctx, id, password)
}

func (f *CourierFacade) CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, *model.CheckoutResult, error) {
	return f.orders.Create(ctx, actor, input)
}

func (f *CourierFacade) Orders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	return f.orders.List(ctx, actor)
}

func (f *CourierFacade) Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, *model.Payment, error) {
	return f.orders.Get(ctx, actor, id)
}

func (f *CourierFacade) UpdateOrder(ctx context.Context, actor model.Actor, id int64, input usecase.UpdateOrderInput) (*model.Order, error) {
	return f.orders.Update(ctx, actor, id, input)
}

func (f *CourierFacade) DeleteOrder(ctx context.Context, actor model.Actor, id int64) error {
	return f.orders.Delete(ctx, actor, id)
}

func (f *CourierFacade) CreateCheckout(ctx context.Context, actor model.Actor, input usecase.CheckoutInput) (*model.CheckoutResult, error) {
	return f.payments.CreateCheckout(ctx, actor, input)
}

func (f *CourierFacade) RetryPayment(ctx context.Context, actor model.Actor, paymentID int64) (*model.CheckoutResult, error) {
	return f.payments.Retry(ctx, actor, paymentID)
}

// HandleWebhook verifies the payload signature and applies the event. The
// signature check runs before any parsing of the event semantics.
func (f *CourierFacade) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := f.verifier.VerifyEvent(payload, signature)
	if err != nil {
		return err
	}
	return f.webhooks.HandleEvent(ctx, event)
}

// StalePayments lists payments stuck in PENDING beyond the threshold.
func (f *CourierFacade) StalePayments(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	return f.payments.StalePending(ctx, olderThan, limit)
}

// CheckSessionState re-queries the provider for a session.
func (f *CourierFacade) CheckSessionState(ctx context.Context, sessionID string) (*stripe.SessionState, error) {
	return f.sessions.GetCheckoutSession(ctx, sessionID)
}

// ApplySessionState folds a freshly fetched session state into the payment,
// reusing the webhook transition rules.
func (f *CourierFacade) ApplySessionState(ctx context.Context, state *stripe.SessionState) error {
	switch {
	case state.Status == stripe.SessionStatusComplete || state.PaymentStatus == stripe.PaymentStatusPaid:
		return f.webhooks.ApplySessionCompleted(ctx, state.ID, state.PaymentIntent)
	case state.Status == stripe.SessionStatusExpired:
		return f.webhooks.ApplySessionExpired(ctx, state.ID)
	}
	return nil
}
