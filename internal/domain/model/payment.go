package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus describes settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment tracks the at-most-one payment attempt attached to an order.
// ExternalRef initially holds the provider checkout session id and is
// replaced by the settlement id once the provider confirms capture.
type Payment struct {
	ID          int64
	OrderID     int64
	Amount      decimal.Decimal
	ExternalRef string
	Status      PaymentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Settled reports whether the payment reached its terminal SUCCEEDED state.
func (p *Payment) Settled() bool {
	return p.Status == PaymentStatusSucceeded
}
