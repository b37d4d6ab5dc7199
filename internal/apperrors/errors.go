package apperrors

import (
	"errors"
	"fmt"
)

var (
	// Login rejected: wrong email or password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Register rejected: bad input or duplicate email
	ErrValidation = errors.New("validation failed")

	// Refresh cookie missing, expired or revoked. Terminal for the session
	ErrRefreshInvalid = errors.New("refresh token invalid")

	// Request never produced an HTTP response (timeout, connection refused)
	ErrNetwork = errors.New("network error")

	// 401 that survived a retry: not a token-expiry problem
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries the HTTP status and server message alongside the
// taxonomy sentinel it was classified into at the gateway boundary
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("api error: status=%d message=%q", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status=%d message=%q: %v", e.Status, e.Message, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewAPIError(status int, message string, err error) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}
