package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrPaymentExists      = errors.New("payment already exists for this order")
	ErrPaymentSettled     = errors.New("payment already succeeded")
)

// ProviderError carries the payment provider's failure message. It is raised
// before any local mutation was committed, so it is safe to report to callers.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s", e.Message)
}

// IsProviderError reports whether err wraps a provider failure.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
