// Package policy maps (role, action, resource ownership) to allow/deny
// decisions. It performs no I/O; callers load the resources and translate
// a deny into a PermissionDenied response.
package policy

import (
	"github.com/courierly/courierd/internal/domain/model"
)

// CanCreateOrder allows only customer accounts to place orders.
func CanCreateOrder(actor model.Actor) bool {
	return actor.Role == model.RoleUser
}

// CanViewOrder allows admins, the owning customer, and the assigned delivery man.
func CanViewOrder(actor model.Actor, order *model.Order) bool {
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleUser:
		return order.CustomerID == actor.ID
	case model.RoleDeliveryMan:
		return order.AssignedTo(actor.ID)
	}
	return false
}

// CanUpdateOrder decides whether the actor may update the order at all.
// statusOnly reports whether the submitted update touches only the status
// field; delivery men are rejected for anything wider.
func CanUpdateOrder(actor model.Actor, order *model.Order, statusOnly bool) bool {
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleDeliveryMan:
		return order.AssignedTo(actor.ID) && statusOnly
	}
	// Customers cannot modify orders once created.
	return false
}

// CanDeleteOrder restricts deletion to admins.
func CanDeleteOrder(actor model.Actor) bool {
	return actor.Role == model.RoleAdmin
}

// CanCheckout allows the owning customer or an admin to open a checkout
// session for the order. The duplicate-payment gate lives in the orchestrator.
func CanCheckout(actor model.Actor, order *model.Order) bool {
	return actor.Role == model.RoleAdmin || order.CustomerID == actor.ID
}

// OrderScope describes which orders a role can list.
type OrderScope int

const (
	ScopeNone OrderScope = iota
	ScopeAll
	ScopeOwn
	ScopeAssigned
)

// ListScope returns the visibility scope for list endpoints. Roles without a
// visibility rule degrade to an empty result set rather than a deny.
func ListScope(actor model.Actor) OrderScope {
	switch actor.Role {
	case model.RoleAdmin:
		return ScopeAll
	case model.RoleUser:
		return ScopeOwn
	case model.RoleDeliveryMan:
		return ScopeAssigned
	}
	return ScopeNone
}
