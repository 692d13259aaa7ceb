package dto

import "github.com/shopspring/decimal"

// CheckoutRequest asks for a hosted checkout session on an existing order.
type CheckoutRequest struct {
	OrderID    int64  `json:"order_id" binding:"required"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CheckoutResponse points the client at the provider's hosted payment page.
type CheckoutResponse struct {
	CheckoutURL string          `json:"checkout_url"`
	SessionID   string          `json:"session_id"`
	OrderID     int64           `json:"order_id"`
	PaymentID   int64           `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
}
