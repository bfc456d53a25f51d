package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when a login attempt does not match the stored admin.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenExpired is returned for a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned for malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
)
