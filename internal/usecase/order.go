package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/domain/model"
	"github.com/courierly/courierd/internal/domain/repository"
	"github.com/courierly/courierd/internal/policy"
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	payments repository.PaymentRepository
	checkout *PaymentUseCase
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, payments repository.PaymentRepository, checkout *PaymentUseCase, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, payments: payments, checkout: checkout, logger: logger}
}

// CreateOrderInput carries fields a customer submits when placing an order.
type CreateOrderInput struct {
	Description   string
	Address       string
	Cost          decimal.Decimal
	CreatePayment bool
	SuccessURL    string
	CancelURL     string
}

// UpdateOrderInput carries a partial order update. Nil fields are untouched.
type UpdateOrderInput struct {
	Description   *string
	Address       *string
	Cost          *decimal.Decimal
	Status        *model.OrderStatus
	DeliveryManID *int64
}

// statusOnly reports whether the update touches nothing but the status field.
func (in UpdateOrderInput) statusOnly() bool {
	return in.Status != nil &&
		in.Description == nil && in.Address == nil && in.Cost == nil && in.DeliveryManID == nil
}

// Create places a new order. With CreatePayment set, a checkout session is
// opened inline; if the provider rejects the session the freshly created
// order is rolled back so an order never survives its failed payment attempt.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Actor, input CreateOrderInput) (*model.Order, *model.CheckoutResult, error) {
	if !policy.CanCreateOrder(actor) {
		return nil, nil, domainErrors.ErrPermissionDenied
	}

	if input.Cost.IsNegative() {
		return nil, nil, domainErrors.ErrInvalidAmount
	}

	order, err := u.orders.Create(ctx, actor.ID, input.Description, input.Address, input.Cost)
	if err != nil {
		return nil, nil, err
	}

	if !input.CreatePayment {
		return order, nil, nil
	}

	result, err := u.checkout.CreateCheckout(ctx, actor, CheckoutInput{
		OrderID:    order.ID,
		SuccessURL: input.SuccessURL,
		CancelURL:  input.CancelURL,
	})
	if err != nil {
		if delErr := u.orders.Delete(ctx, order.ID); delErr != nil {
			u.logger.Error("rollback of order after checkout failure failed",
				slog.Int64("order_id", order.ID),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, nil, err
	}

	return order, result, nil
}

// Get returns the order visible to the actor together with its payment, if any.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Actor, id int64) (*model.Order, *model.Payment, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if !policy.CanViewOrder(actor, order) {
		return nil, nil, domainErrors.ErrPermissionDenied
	}

	payment, err := u.payments.GetByOrderID(ctx, order.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return order, nil, nil
		}
		return nil, nil, err
	}
	return order, payment, nil
}

// List returns the orders visible to the actor's role. Roles with no
// visibility rule get an empty result, not an error.
func (u *OrderUseCase) List(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	switch policy.ListScope(actor) {
	case policy.ScopeAll:
		return u.orders.ListAll(ctx)
	case policy.ScopeOwn:
		return u.orders.ListByCustomer(ctx, actor.ID)
	case policy.ScopeAssigned:
		return u.orders.ListByDeliveryMan(ctx, actor.ID)
	}
	return nil, nil
}

// Update applies a role-gated partial update. Delivery men may only submit a
// status-only update on orders assigned to them; admins may change any field
// including reassignment.
func (u *OrderUseCase) Update(ctx context.Context, actor model.Actor, id int64, input UpdateOrderInput) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanUpdateOrder(actor, order, input.statusOnly()) {
		return nil, domainErrors.ErrPermissionDenied
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, domainErrors.ErrInvalidStatus
		}
		order.Status = *input.Status
	}
	if input.Description != nil {
		order.Description = *input.Description
	}
	if input.Address != nil {
		order.Address = *input.Address
	}
	if input.Cost != nil {
		if input.Cost.IsNegative() {
			return nil, domainErrors.ErrInvalidAmount
		}
		order.Cost = *input.Cost
	}
	if input.DeliveryManID != nil {
		assignee, err := u.users.GetByID(ctx, *input.DeliveryManID)
		if err != nil {
			return nil, err
		}
		if assignee.Role != model.RoleDeliveryMan {
			return nil, domainErrors.ErrInvalidRole
		}
		order.DeliveryManID = input.DeliveryManID
	}

	if err := u.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes the order. Admin only; the payment row goes with it.
func (u *OrderUseCase) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if !policy.CanDeleteOrder(actor) {
		return domainErrors.ErrPermissionDenied
	}
	if _, err := u.orders.GetByID(ctx, id); err != nil {
		return err
	}
	return u.orders.Delete(ctx, id)
}
