package jwt

import (
	"errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// ErrInvalidToken is returned for any token that fails validation.
var ErrInvalidToken = errors.New("invalid token")

// Config holds access-token validation configuration.
type Config struct {
	Secret string
	// Issuer is checked when set.
	Issuer string
}

// accessClaims is the claim set issued by the authentication service.
type accessClaims struct {
	Email string `json:"email"`
	jwtlib.RegisteredClaims
}

// validator implements outbound.JWTPort.
type validator struct {
	secret []byte
	parser *jwtlib.Parser
}

// NewValidator creates a new HS256 access-token validator.
func NewValidator(cfg Config) outbound.JWTPort {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(cfg.Issuer))
	}
	return &validator{
		secret: []byte(cfg.Secret),
		parser: jwtlib.NewParser(opts...),
	}
}

// ValidateAccessToken validates an access token.
func (v *validator) ValidateAccessToken(tokenString string) (*outbound.JWTClaims, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: no signing secret configured", ErrInvalidToken)
	}

	claims := &accessClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwtlib.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID in token", ErrInvalidToken)
	}

	out := &outbound.JWTClaims{
		UserID: userID,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Compile-time check
var _ outbound.JWTPort = (*validator)(nil)
