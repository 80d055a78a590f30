package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenExpired occurs when a bearer token is missing or no longer valid.
	ErrTokenExpired = errors.New("token expired or unknown")
)
