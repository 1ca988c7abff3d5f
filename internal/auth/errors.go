package auth

import "errors"

var (
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrForbidden    = errors.New("auth: forbidden")
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrWellNotFound is returned when a well is missing or owned by another user.
	ErrWellNotFound = errors.New("auth: well not found")
)
