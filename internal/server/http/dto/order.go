package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest describes the order creation payload. With CreatePayment
// set, a checkout session is opened in the same request.
type CreateOrderRequest struct {
	Description   string          `json:"description"`
	Address       string          `json:"address" binding:"required"`
	Cost          decimal.Decimal `json:"cost" binding:"required"`
	CreatePayment bool            `json:"create_payment"`
	SuccessURL    string          `json:"success_url"`
	CancelURL     string          `json:"cancel_url"`
}

// UpdateOrderRequest is a partial order update; absent fields stay untouched.
type UpdateOrderRequest struct {
	Description   *string          `json:"description"`
	Address       *string          `json:"address"`
	Cost          *decimal.Decimal `json:"cost"`
	Status        *string          `json:"status"`
	DeliveryManID *int64           `json:"delivery_man_id"`
}

// OrderResponse describes an order together with its payment state.
type OrderResponse struct {
	ID            int64           `json:"id"`
	CustomerID    int64           `json:"customer_id"`
	DeliveryManID *int64          `json:"delivery_man_id,omitempty"`
	Description   string          `json:"description"`
	Address       string          `json:"address"`
	Cost          decimal.Decimal `json:"cost"`
	Status        string          `json:"status"`
	HasPayment    bool            `json:"has_payment"`
	PaymentStatus *string         `json:"payment_status,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateOrderResponse couples the created order with its optional checkout.
type CreateOrderResponse struct {
	Order    OrderResponse     `json:"order"`
	Checkout *CheckoutResponse `json:"checkout,omitempty"`
}
