package model

import "github.com/shopspring/decimal"

// CheckoutSession is a provider-hosted payment page correlated to a session id.
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutResult is returned to the caller after a checkout or retry was opened.
type CheckoutResult struct {
	CheckoutURL string
	SessionID   string
	OrderID     int64
	PaymentID   int64
	Amount      decimal.Decimal
}
