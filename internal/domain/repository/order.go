package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/courierly/courierd/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, customerID int64, description, address string, cost decimal.Decimal) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListByDeliveryMan(ctx context.Context, deliveryManID int64) ([]model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, id int64) error
}
