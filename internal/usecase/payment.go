package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierly/courierd/internal/adapter/stripe"
	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/domain/model"
	"github.com/courierly/courierd/internal/domain/repository"
	"github.com/courierly/courierd/internal/policy"
)

// PaymentUseCase opens and retries provider checkout sessions. It is the
// single orchestrator behind both the standalone checkout endpoint and the
// inline create-order-with-payment path.
type PaymentUseCase struct {
	orders      repository.OrderRepository
	payments    repository.PaymentRepository
	client      stripe.Client
	frontendURL string
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(orders repository.OrderRepository, payments repository.PaymentRepository, client stripe.Client, frontendURL string) *PaymentUseCase {
	return &PaymentUseCase{
		orders:      orders,
		payments:    payments,
		client:      client,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// CheckoutInput carries caller-supplied checkout parameters.
type CheckoutInput struct {
	OrderID    int64
	SuccessURL string
	CancelURL  string
}

// MinorUnits converts a decimal cost to integer minor units, truncating any
// fractional cent the same way the amount is charged.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// appendQuery attaches a query parameter, merging with & when the URL
// already carries a query string.
func appendQuery(rawURL, param string) string {
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + param
	}
	return rawURL + "?" + param
}

// CreateCheckout opens a hosted checkout session for the order and persists
// the pending payment correlated to it.
func (u *PaymentUseCase) CreateCheckout(ctx context.Context, actor model.Actor, input CheckoutInput) (*model.CheckoutResult, error) {
	order, err := u.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if !policy.CanCheckout(actor, order) {
		return nil, domainErrors.ErrPermissionDenied
	}

	if _, err := u.payments.GetByOrderID(ctx, order.ID); err == nil {
		return nil, domainErrors.ErrPaymentExists
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	if !order.Cost.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}

	successURL := input.SuccessURL
	if successURL == "" {
		successURL = u.frontendURL + "/payment/success"
	}
	cancelURL := input.CancelURL
	if cancelURL == "" {
		cancelURL = u.frontendURL + "/payment/cancel"
	}
	successURL = appendQuery(successURL, "session_id={CHECKOUT_SESSION_ID}")
	cancelURL = appendQuery(cancelURL, "order_id="+strconv.FormatInt(order.ID, 10))

	session, err := u.client.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		AmountMinor: MinorUnits(order.Cost),
		Currency:    "usd",
		Name:        fmt.Sprintf("Courier Order #%d", order.ID),
		Description: order.Description,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
		Metadata: map[string]string{
			"order_id":    strconv.FormatInt(order.ID, 10),
			"customer_id": strconv.FormatInt(order.CustomerID, 10),
		},
	})
	if err != nil {
		return nil, err
	}

	payment, err := u.payments.Create(ctx, order.ID, order.Cost, session.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrPaymentExists
		}
		return nil, err
	}

	return &model.CheckoutResult{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
		OrderID:     order.ID,
		PaymentID:   payment.ID,
		Amount:      payment.Amount,
	}, nil
}

// Retry opens a fresh checkout session for a payment that has not settled.
// The old session reference is discarded; on provider failure the payment is
// left untouched.
func (u *PaymentUseCase) Retry(ctx context.Context, actor model.Actor, paymentID int64) (*model.CheckoutResult, error) {
	payment, err := u.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	order, err := u.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	if !policy.CanCheckout(actor, order) {
		return nil, domainErrors.ErrPermissionDenied
	}

	if payment.Settled() {
		return nil, domainErrors.ErrPaymentSettled
	}

	successURL := appendQuery(u.frontendURL+"/payment/success", "session_id={CHECKOUT_SESSION_ID}")
	cancelURL := appendQuery(u.frontendURL+"/payment/cancel", "order_id="+strconv.FormatInt(order.ID, 10))

	session, err := u.client.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		AmountMinor: MinorUnits(payment.Amount),
		Currency:    "usd",
		Name:        fmt.Sprintf("Courier Order #%d (Retry)", order.ID),
		Description: order.Description,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
		Metadata: map[string]string{
			"order_id":         strconv.FormatInt(order.ID, 10),
			"customer_id":      strconv.FormatInt(order.CustomerID, 10),
			"retry_payment_id": strconv.FormatInt(payment.ID, 10),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := u.payments.UpdateSession(ctx, payment.ID, session.ID, model.PaymentStatusPending); err != nil {
		return nil, err
	}

	return &model.CheckoutResult{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
		OrderID:     order.ID,
		PaymentID:   payment.ID,
		Amount:      payment.Amount,
	}, nil
}

// PaymentForOrder returns the payment attached to the order, if any.
func (u *PaymentUseCase) PaymentForOrder(ctx context.Context, orderID int64) (*model.Payment, error) {
	return u.payments.GetByOrderID(ctx, orderID)
}

// StalePending lists payments stuck in PENDING beyond the threshold.
func (u *PaymentUseCase) StalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	return u.payments.ListStalePending(ctx, olderThan, limit)
}
