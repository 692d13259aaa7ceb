package dto

import "time"

// RegisterRequest describes the registration payload. Role is optional and
// defaults to the customer role.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenResponse carries an issued auth token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse describes the authenticated user.
type ProfileResponse struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileUpdateRequest carries a password change.
type ProfileUpdateRequest struct {
	Password string `json:"password"`
}
