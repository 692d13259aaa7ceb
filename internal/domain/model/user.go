package model

import "time"

// Role determines which operations a user may perform.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleDeliveryMan Role = "delivery_man"
	RoleUser        Role = "user"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDeliveryMan, RoleUser:
		return true
	}
	return false
}

// User represents a registered account of the courier service.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Actor is the authenticated principal attached to a request.
// The role is fixed for the lifetime of the issued token.
type Actor struct {
	ID   int64
	Role Role
}
