// Package facade holds application-facade stubs for handler and router tests.
// It lives outside internal/test because these stubs speak usecase input
// types, and internal/test is imported by the usecase tests themselves.
package facade

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/courierly/courierd/internal/domain/model"
	"github.com/courierly/courierd/internal/usecase"
)

// AuthFacadeStub provides controllable behaviour for auth endpoints.
type AuthFacadeStub struct {
	RegisterFn       func(context.Context, string, string, model.Role) (*model.User, string, error)
	AuthenticateFn   func(context.Context, string, string) (*model.User, string, error)
	ParseTokenFn     func(string) (model.Actor, error)
	UserFn           func(context.Context, int64) (*model.User, error)
	ChangePasswordFn func(context.Context, int64, string) error
}

// Register delegates to the provided function or succeeds with a fixed token.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string, role model.Role) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, role)
	}
	if role == "" {
		role = model.RoleUser
	}
	return &model.User{ID: 1, Login: login, Role: role}, "token", nil
}

// Authenticate delegates to the provided function or succeeds.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.User{ID: 1, Login: login, Role: model.RoleUser}, "token", nil
}

// ParseToken resolves tokens via the configured function or a fixed actor.
func (s AuthFacadeStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return model.Actor{ID: 1, Role: model.RoleUser}, nil
}

// User returns the configured user or a default one.
func (s AuthFacadeStub) User(ctx context.Context, id int64) (*model.User, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, id)
	}
	return &model.User{ID: id, Login: "user", Role: model.RoleUser}, nil
}

// ChangePassword executes the configured handler.
func (s AuthFacadeStub) ChangePassword(ctx context.Context, id int64, password string) error {
	if s.ChangePasswordFn != nil {
		return s.ChangePasswordFn(ctx, id, password)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn func(context.Context, model.Actor, usecase.CreateOrderInput) (*model.Order, *model.CheckoutResult, error)
	OrdersFn func(context.Context, model.Actor) ([]model.Order, error)
	OrderFn  func(context.Context, model.Actor, int64) (*model.Order, *model.Payment, error)
	UpdateFn func(context.Context, model.Actor, int64, usecase.UpdateOrderInput) (*model.Order, error)
	DeleteFn func(context.Context, model.Actor, int64) error
}

// CreateOrder delegates to the configured function or returns a default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, *model.CheckoutResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, actor, input)
	}
	order := &model.Order{ID: 1, CustomerID: actor.ID, Description: input.Description, Address: input.Address, Cost: input.Cost, Status: model.OrderStatusPending}
	if !input.CreatePayment {
		return order, nil, nil
	}
	return order, &model.CheckoutResult{CheckoutURL: "https://checkout.stripe.test/pay/cs_1", SessionID: "cs_1", OrderID: 1, PaymentID: 1, Amount: input.Cost}, nil
}

// Orders returns predefined order list.
func (s OrderFacadeStub) Orders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor)
	}
	return []model.Order{{ID: 1, CustomerID: actor.ID, Cost: decimal.RequireFromString("10.00"), Status: model.OrderStatusPending}}, nil
}

// Order returns a single order with its payment.
func (s OrderFacadeStub) Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, *model.Payment, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, id)
	}
	return &model.Order{ID: id, CustomerID: actor.ID, Cost: decimal.RequireFromString("10.00"), Status: model.OrderStatusPending}, nil, nil
}

// UpdateOrder executes the configured update handler.
func (s OrderFacadeStub) UpdateOrder(ctx context.Context, actor model.Actor, id int64, input usecase.UpdateOrderInput) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, actor, id, input)
	}
	return &model.Order{ID: id, CustomerID: actor.ID, Status: model.OrderStatusPending}, nil
}

// DeleteOrder executes the configured delete handler.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, actor model.Actor, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actor, id)
	}
	return nil
}

// PaymentFacadeStub simulates checkout, retry and webhook operations.
type PaymentFacadeStub struct {
	CheckoutFn func(context.Context, model.Actor, usecase.CheckoutInput) (*model.CheckoutResult, error)
	RetryFn    func(context.Context, model.Actor, int64) (*model.CheckoutResult, error)
	WebhookFn  func(context.Context, []byte, string) error
}

// CreateCheckout delegates to the configured function or succeeds.
func (s PaymentFacadeStub) CreateCheckout(ctx context.Context, actor model.Actor, input usecase.CheckoutInput) (*model.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, actor, input)
	}
	return &model.CheckoutResult{CheckoutURL: "https://checkout.stripe.test/pay/cs_1", SessionID: "cs_1", OrderID: input.OrderID, PaymentID: 1, Amount: decimal.RequireFromString("10.00")}, nil
}

// RetryPayment delegates to the configured function or succeeds.
func (s PaymentFacadeStub) RetryPayment(ctx context.Context, actor model.Actor, paymentID int64) (*model.CheckoutResult, error) {
	if s.RetryFn != nil {
		return s.RetryFn(ctx, actor, paymentID)
	}
	return &model.CheckoutResult{CheckoutURL: "https://checkout.stripe.test/pay/cs_2", SessionID: "cs_2", OrderID: 1, PaymentID: paymentID, Amount: decimal.RequireFromString("10.00")}, nil
}

// HandleWebhook executes the configured webhook handler.
func (s PaymentFacadeStub) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.WebhookFn != nil {
		return s.WebhookFn(ctx, payload, signature)
	}
	return nil
}

// CourierFacadeStub aggregates all facade stubs for router level tests.
type CourierFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
}

// PingerStub reports configurable health state.
type PingerStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s PingerStub) HealthCheck(context.Context) error { return s.Err }
