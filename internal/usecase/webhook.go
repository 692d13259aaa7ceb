package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/courierly/courierd/internal/adapter/stripe"
	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/domain/model"
	"github.com/courierly/courierd/internal/domain/repository"
)

// WebhookUseCase reconciles local payment state with provider events. All
// transitions are idempotent and SUCCEEDED is terminal: a stale expiry or
// failure event never regresses a settled payment.
type WebhookUseCase struct {
	payments repository.PaymentRepository
	logger   *slog.Logger
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(payments repository.PaymentRepository, logger *slog.Logger) *WebhookUseCase {
	return &WebhookUseCase{payments: payments, logger: logger}
}

// HandleEvent dispatches a verified provider event. Unknown event types and
// events referencing no local payment are acknowledged without action so the
// provider stops redelivering them. A non-nil error means the payload object
// was malformed or the store failed.
func (u *WebhookUseCase) HandleEvent(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case stripe.EventCheckoutSessionCompleted:
		session, err := event.Session()
		if err != nil {
			return err
		}
		return u.ApplySessionCompleted(ctx, session.ID, session.PaymentIntent)

	case stripe.EventCheckoutSessionExpired:
		session, err := event.Session()
		if err != nil {
			return err
		}
		return u.ApplySessionExpired(ctx, session.ID)

	case stripe.EventPaymentIntentSucceeded:
		intent, err := event.Intent()
		if err != nil {
			return err
		}
		return u.ApplyIntentSucceeded(ctx, intent.ID)

	case stripe.EventPaymentIntentFailed:
		intent, err := event.Intent()
		if err != nil {
			return err
		}
		return u.ApplyIntentFailed(ctx, intent.ID)
	}

	u.logger.Info("ignoring webhook event", slog.String("type", event.Type))
	return nil
}

// ApplySessionCompleted marks the payment behind the session as settled and
// swaps the session reference for the provider's settlement id when supplied.
func (u *WebhookUseCase) ApplySessionCompleted(ctx context.Context, sessionID, intentID string) error {
	payment, err := u.payments.GetByExternalRef(ctx, sessionID)
	if err != nil {
		return u.ignoreUnknownRef(sessionID, err)
	}
	if payment.Settled() {
		return nil
	}

	ref := sessionID
	if intentID != "" {
		ref = intentID
	}
	if err := u.payments.UpdateSession(ctx, payment.ID, ref, model.PaymentStatusSucceeded); err != nil {
		return err
	}
	u.logger.Info("payment settled",
		slog.Int64("payment_id", payment.ID),
		slog.Int64("order_id", payment.OrderID),
		slog.String("ref", ref),
	)
	return nil
}

// ApplySessionExpired fails the payment behind an expired session unless it
// already settled.
func (u *WebhookUseCase) ApplySessionExpired(ctx context.Context, sessionID string) error {
	payment, err := u.payments.GetByExternalRef(ctx, sessionID)
	if err != nil {
		return u.ignoreUnknownRef(sessionID, err)
	}
	if payment.Settled() {
		return nil
	}
	return u.payments.UpdateStatus(ctx, payment.ID, model.PaymentStatusFailed)
}

// ApplyIntentSucceeded is the secondary settlement confirmation keyed by the
// settlement id.
func (u *WebhookUseCase) ApplyIntentSucceeded(ctx context.Context, intentID string) error {
	payment, err := u.payments.GetByExternalRef(ctx, intentID)
	if err != nil {
		return u.ignoreUnknownRef(intentID, err)
	}
	if payment.Settled() {
		return nil
	}
	return u.payments.UpdateStatus(ctx, payment.ID, model.PaymentStatusSucceeded)
}

// ApplyIntentFailed fails the payment behind the settlement id unless it
// already settled.
func (u *WebhookUseCase) ApplyIntentFailed(ctx context.Context, intentID string) error {
	payment, err := u.payments.GetByExternalRef(ctx, intentID)
	if err != nil {
		return u.ignoreUnknownRef(intentID, err)
	}
	if payment.Settled() {
		return nil
	}
	return u.payments.UpdateStatus(ctx, payment.ID, model.PaymentStatusFailed)
}

// ignoreUnknownRef swallows lookups for stale or unrelated references; the
// event is still acknowledged so the provider does not retry forever.
func (u *WebhookUseCase) ignoreUnknownRef(ref string, err error) error {
	if errors.Is(err, domainErrors.ErrNotFound) {
		u.logger.Info("no payment for webhook reference", slog.String("ref", ref))
		return nil
	}
	return err
}
