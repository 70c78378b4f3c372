package pasetotoken

import "fmt"

// ErrConfig reports unusable manager or key configuration.
type ErrConfig struct{ Msg string }

func (e ErrConfig) Error() string { return "paseto: " + e.Msg }

// ErrInvalidToken wraps any parse or claim-rule failure. Callers treat every
// instance as 401; the wrapped cause is for logs only.
type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return fmt.Sprintf("paseto: invalid token: %v", e.Err) }
func (e ErrInvalidToken) Unwrap() error { return e.Err }
