package auth

import "errors"

var (
	ErrEmailTaken            = errors.New("email already registered")
	ErrEmailDomainNotAllowed = errors.New("email domain is not allowed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrInvalidCredentials    = errors.New("email or password is incorrect")
	ErrSessionNotFound       = errors.New("session not found or expired")
	ErrInvalidToken          = errors.New("invalid or expired token")
)
