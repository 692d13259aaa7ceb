package handlers

import (
	"context"

	"github.com/courierly/courierd/internal/domain/model"
	"github.com/courierly/courierd/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string, role model.Role) (*model.User, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	ParseToken(token string) (model.Actor, error)
	User(ctx context.Context, id int64) (*model.User, error)
	ChangePassword(ctx context.Context, id int64, password string) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, *model.CheckoutResult, error)
	Orders(ctx context.Context, actor model.Actor) ([]model.Order, error)
	Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, *model.Payment, error)
	UpdateOrder(ctx context.Context, actor model.Actor, id int64, input usecase.UpdateOrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, actor model.Actor, id int64) error
}

// PaymentFacade covers checkout, retry and webhook reconciliation.
type PaymentFacade interface {
	CreateCheckout(ctx context.Context, actor model.Actor, input usecase.CheckoutInput) (*model.CheckoutResult, error)
	RetryPayment(ctx context.Context, actor model.Actor, paymentID int64) (*model.CheckoutResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// CourierFacade aggregates the full set of operations used across handlers.
type CourierFacade interface {
	AuthFacade
	OrderFacade
	PaymentFacade
}

// Pinger reports backing store health.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}
