package domain

import "errors"

// Input errors.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUniqueViolation = errors.New("username or email already exists")
	ErrNotFound        = errors.New("not found")
)

// Authentication errors ("who are you").
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenMalformed     = errors.New("token is malformed")
	ErrTokenSignature     = errors.New("token signature is invalid")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// ErrForbidden is an authorization failure: the principal is known but lacks
// the privilege for the operation.
var ErrForbidden = errors.New("access forbidden")

// IsAuthentication reports whether err means the caller could not be
// identified, as opposed to being identified and refused.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignature) ||
		errors.Is(err, ErrTokenExpired)
}
