package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierly/courierd/internal/domain/model"
)

// PaymentRepository describes persistence operations with payments.
// Create must enforce at most one payment per order.
type PaymentRepository interface {
	Create(ctx context.Context, orderID int64, amount decimal.Decimal, externalRef string) (*model.Payment, error)
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error)
	GetByExternalRef(ctx context.Context, ref string) (*model.Payment, error)
	UpdateSession(ctx context.Context, id int64, externalRef string, status model.PaymentStatus) error
	UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus) error
	ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error)
}
