package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes delivery lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusComplete  OrderStatus = "COMPLETE"
)

// Valid reports whether the status is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusComplete:
		return true
	}
	return false
}

// Order describes a delivery request placed by a customer.
// CustomerID never changes after creation; DeliveryManID is assigned by admins.
type Order struct {
	ID            int64
	CustomerID    int64
	DeliveryManID *int64
	Description   string
	Address       string
	Cost          decimal.Decimal
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AssignedTo reports whether the order is assigned to the given delivery man.
func (o *Order) AssignedTo(userID int64) bool {
	return o.DeliveryManID != nil && *o.DeliveryManID == userID
}
