package outbound

import (
	"time"

	"github.com/google/uuid"
)

// JWTPort checks access tokens minted by the authentication service. This
// service only verifies them.
type JWTPort interface {
	ValidateAccessToken(token string) (*JWTClaims, error)
}

// JWTClaims is what a verified token says about its bearer.
type JWTClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}
