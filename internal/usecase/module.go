package usecase

import (
	"go.uber.org/fx"

	"github.com/courierly/courierd/internal/adapter/stripe"
	"github.com/courierly/courierd/internal/config"
	"github.com/courierly/courierd/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	NewWebhookUseCase,
	newPaymentUseCase,
)

type paymentParams struct {
	fx.In

	Orders   repository.OrderRepository
	Payments repository.PaymentRepository
	Client   stripe.Client
	Config   *config.Config
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Orders, p.Payments, p.Client, p.Config.FrontendURL)
}
