package email

import "fmt"

// ErrDisabled is returned when email delivery is turned off in config.
// Callers that treat mail as best-effort match on it and move on.
type ErrDisabled struct{}

func (e ErrDisabled) Error() string { return "email delivery is disabled" }

// ErrInvalidMessage rejects a message before any network traffic.
type ErrInvalidMessage struct{ Reason string }

func (e ErrInvalidMessage) Error() string { return "invalid email message: " + e.Reason }

// ErrSend wraps a transport failure from the provider.
type ErrSend struct {
	Provider string
	Err      error
}

func (e ErrSend) Error() string { return fmt.Sprintf("email send failed (%s): %v", e.Provider, e.Err) }
func (e ErrSend) Unwrap() error { return e.Err }
