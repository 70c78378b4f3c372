package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the decoded payload the rest of the app works with. Role is
// empty on refresh tokens; the refresh path re-reads the user so a demoted
// admin cannot keep minting admin access tokens.
type Claims struct {
	Type TokenType

	UserID    uuid.UUID
	Role      string
	SessionID *uuid.UUID

	TokenID   string // jti
	IssuedAt  time.Time
	ExpiresAt time.Time
}
