package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierly/courierd/internal/adapter/stripe"
	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/domain/model"
	testhelpers "github.com/courierly/courierd/internal/test"
	"github.com/courierly/courierd/internal/usecase"
)

type verifierStub struct {
	Event *stripe.Event
	Err   error

	Payloads   [][]byte
	Signatures []string
}

func (v *verifierStub) VerifyEvent(payload []byte, signature string) (*stripe.Event, error) {
	v.Payloads = append(v.Payloads, payload)
	v.Signatures = append(v.Signatures, signature)
	if v.Err != nil {
		return nil, v.Err
	}
	return v.Event, nil
}

type facadeFixture struct {
	facade   *CourierFacade
	users    *testhelpers.UserRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	payments *testhelpers.PaymentRepositoryStub
	client   *testhelpers.StripeClientStub
	verifier *verifierStub
}

func newFacadeFixture() *facadeFixture {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	users := testhelpers.NewUserRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()
	payments := testhelpers.NewPaymentRepositoryStub()
	client := &testhelpers.StripeClientStub{}
	verifier := &verifierStub{}

	strategy := testhelpers.StrategyStub{ParseFn: func(string) (model.Actor, error) {
		return model.Actor{ID: 99, Role: model.RoleAdmin}, nil
	}}
	authUC := usecase.NewAuthUseCase(users, testhelpers.HasherStub{}, strategy)
	paymentUC := usecase.NewPaymentUseCase(orders, payments, client, "https://courier.example")
	orderUC := usecase.NewOrderUseCase(orders, users, payments, paymentUC, logger)
	webhookUC := usecase.NewWebhookUseCase(payments, logger)

	return &facadeFixture{
		facade:   NewCourierFacade(authUC, orderUC, paymentUC, webhookUC, verifier, client),
		users:    users,
		orders:   orders,
		payments: payments,
		client:   client,
		verifier: verifier,
	}
}

func TestCourierFacadeAuth(t *testing.T) {
	f := newFacadeFixture()

	user, token, err := f.facade.Register(context.Background(), "user", "pass", "")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" || user.Role != model.RoleUser {
		t.Fatalf("unexpected registration result: user=%+v token=%q", user, token)
	}

	if _, _, err := f.facade.Authenticate(context.Background(), "user", "pass"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}

	actor, err := f.facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if actor.ID != 99 || actor.Role != model.RoleAdmin {
		t.Fatalf("unexpected actor %+v", actor)
	}

	fetched, err := f.facade.User(context.Background(), user.ID)
	if err != nil || fetched.Login != "user" {
		t.Fatalf("unexpected user lookup: %+v err=%v", fetched, err)
	}

	if err := f.facade.ChangePassword(context.Background(), user.ID, "next"); err != nil {
		t.Fatalf("change password returned error: %v", err)
	}
	stored, _ := f.users.GetByID(context.Background(), user.ID)
	if stored.PasswordHash != "hash:next" {
		t.Fatalf("expected rehashed password, got %q", stored.PasswordHash)
	}
}

func TestCourierFacadeOrders(t *testing.T) {
	f := newFacadeFixture()
	customer := model.Actor{ID: 7, Role: model.RoleUser}

	order, checkout, err := f.facade.CreateOrder(context.Background(), customer, usecase.CreateOrderInput{
		Address: "5 Main St",
		Cost:    decimal.RequireFromString("19.99"),
	})
	if err != nil || checkout != nil {
		t.Fatalf("unexpected create result: checkout=%v err=%v", checkout, err)
	}

	listed, err := f.facade.Orders(context.Background(), customer)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one order, got %v err=%v", listed, err)
	}

	fetched, payment, err := f.facade.Order(context.Background(), customer, order.ID)
	if err != nil || fetched.ID != order.ID || payment != nil {
		t.Fatalf("unexpected get result: order=%+v payment=%v err=%v", fetched, payment, err)
	}

	admin := model.Actor{ID: 1, Role: model.RoleAdmin}
	status := model.OrderStatusDelivered
	updated, err := f.facade.UpdateOrder(context.Background(), admin, order.ID, usecase.UpdateOrderInput{Status: &status})
	if err != nil || updated.Status != model.OrderStatusDelivered {
		t.Fatalf("unexpected update result: %+v err=%v", updated, err)
	}

	if err := f.facade.DeleteOrder(context.Background(), admin, order.ID); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if _, _, err := f.facade.Order(context.Background(), admin, order.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCourierFacadePayments(t *testing.T) {
	f := newFacadeFixture()
	customer := model.Actor{ID: 7, Role: model.RoleUser}
	order := f.orders.Seed(&model.Order{CustomerID: 7, Cost: decimal.RequireFromString("50.00"), Status: model.OrderStatusPending})

	checkout, err := f.facade.CreateCheckout(context.Background(), customer, usecase.CheckoutInput{OrderID: order.ID})
	if err != nil {
		t.Fatalf("checkout returned error: %v", err)
	}
	if checkout.OrderID != order.ID || checkout.SessionID == "" {
		t.Fatalf("unexpected checkout %+v", checkout)
	}

	retried, err := f.facade.RetryPayment(context.Background(), customer, checkout.PaymentID)
	if err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if retried.SessionID == checkout.SessionID {
		t.Fatal("expected a fresh session on retry")
	}
}

func TestCourierFacadeHandleWebhook(t *testing.T) {
	f := newFacadeFixture()
	seeded := f.payments.Seed(&model.Payment{OrderID: 1, Amount: decimal.RequireFromString("19.99"), ExternalRef: "cs_1", Status: model.PaymentStatusPending})

	object, _ := json.Marshal(map[string]string{"id": "cs_1", "payment_intent": "pi_1"})
	event := &stripe.Event{Type: stripe.EventCheckoutSessionCompleted}
	event.Data.Object = object
	f.verifier.Event = event

	if err := f.facade.HandleWebhook(context.Background(), []byte("payload"), "sig"); err != nil {
		t.Fatalf("handle webhook returned error: %v", err)
	}
	if got := string(f.verifier.Payloads[0]); got != "payload" || f.verifier.Signatures[0] != "sig" {
		t.Fatalf("payload or signature not forwarded: %q %q", got, f.verifier.Signatures[0])
	}

	payment, _ := f.payments.GetByID(context.Background(), seeded.ID)
	if payment.Status != model.PaymentStatusSucceeded || payment.ExternalRef != "pi_1" {
		t.Fatalf("expected settled payment with intent ref, got %+v", payment)
	}
}

func TestCourierFacadeHandleWebhookRejectsBadSignature(t *testing.T) {
	f := newFacadeFixture()
	seeded := f.payments.Seed(&model.Payment{OrderID: 1, Amount: decimal.RequireFromString("19.99"), ExternalRef: "cs_1", Status: model.PaymentStatusPending})
	f.verifier.Err = stripe.ErrInvalidSignature

	err := f.facade.HandleWebhook(context.Background(), []byte("payload"), "bad")
	if !errors.Is(err, stripe.ErrInvalidSignature) {
		t.Fatalf("expected signature error, got %v", err)
	}

	payment, _ := f.payments.GetByID(context.Background(), seeded.ID)
	if payment.Status != model.PaymentStatusPending {
		t.Fatalf("payment must stay untouched on rejected payload, got %+v", payment)
	}
}

func TestCourierFacadeSessionReconciliation(t *testing.T) {
	f := newFacadeFixture()
	settling := f.payments.Seed(&model.Payment{OrderID: 1, Amount: decimal.RequireFromString("19.99"), ExternalRef: "cs_1", Status: model.PaymentStatusPending})
	expiring := f.payments.Seed(&model.Payment{OrderID: 2, Amount: decimal.RequireFromString("10.00"), ExternalRef: "cs_2", Status: model.PaymentStatusPending})

	state := &stripe.SessionState{ID: "cs_1", Status: stripe.SessionStatusComplete, PaymentStatus: stripe.PaymentStatusPaid, PaymentIntent: "pi_1"}
	if err := f.facade.ApplySessionState(context.Background(), state); err != nil {
		t.Fatalf("apply completed state returned error: %v", err)
	}
	payment, _ := f.payments.GetByID(context.Background(), settling.ID)
	if payment.Status != model.PaymentStatusSucceeded || payment.ExternalRef != "pi_1" {
		t.Fatalf("expected settled payment, got %+v", payment)
	}

	if err := f.facade.ApplySessionState(context.Background(), &stripe.SessionState{ID: "cs_2", Status: stripe.SessionStatusExpired}); err != nil {
		t.Fatalf("apply expired state returned error: %v", err)
	}
	payment, _ = f.payments.GetByID(context.Background(), expiring.ID)
	if payment.Status != model.PaymentStatusFailed {
		t.Fatalf("expected failed payment, got %+v", payment)
	}

	// A still-open session leaves the payment pending.
	reopened := f.payments.Seed(&model.Payment{OrderID: 3, Amount: decimal.RequireFromString("10.00"), ExternalRef: "cs_3", Status: model.PaymentStatusPending})
	if err := f.facade.ApplySessionState(context.Background(), &stripe.SessionState{ID: "cs_3", Status: stripe.SessionStatusOpen}); err != nil {
		t.Fatalf("apply open state returned error: %v", err)
	}
	payment, _ = f.payments.GetByID(context.Background(), reopened.ID)
	if payment.Status != model.PaymentStatusPending {
		t.Fatalf("expected pending payment, got %+v", payment)
	}
}

func TestCourierFacadeStalePayments(t *testing.T) {
	f := newFacadeFixture()
	stale := f.payments.Seed(&model.Payment{OrderID: 1, ExternalRef: "cs_1", Status: model.PaymentStatusPending})
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	fresh := f.payments.Seed(&model.Payment{OrderID: 2, ExternalRef: "cs_2", Status: model.PaymentStatusPending})
	fresh.UpdatedAt = time.Now()

	listed, err := f.facade.StalePayments(context.Background(), 15*time.Minute, 10)
	if err != nil {
		t.Fatalf("stale payments returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != stale.ID {
		t.Fatalf("expected only the stale payment, got %+v", listed)
	}
}

func TestCourierFacadeCheckSessionState(t *testing.T) {
	f := newFacadeFixture()
	f.client.GetFn = func(ctx context.Context, id string) (*stripe.SessionState, error) {
		return &stripe.SessionState{ID: id, Status: stripe.SessionStatusComplete}, nil
	}

	state, err := f.facade.CheckSessionState(context.Background(), "cs_9")
	if err != nil || state.ID != "cs_9" || state.Status != stripe.SessionStatusComplete {
		t.Fatalf("unexpected state %+v err=%v", state, err)
	}
}
