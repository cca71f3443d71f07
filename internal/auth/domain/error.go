package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidContext     = errors.New("invalid_context")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidSession     = errors.New("invalid session")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrForbidden          = errors.New("forbidden")
)
