package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
	apperrors "github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/errors"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/requestctx"
)

// AuthorizationHeader carries the bearer access token.
const AuthorizationHeader = "Authorization"

const principalKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

// RequireAuth rejects requests without a valid bearer token. On success the
// caller is available through GetPrincipal and GetUserID, and its user ID is
// also carried on the request context for downstream calls.
func RequireAuth(validator outbound.JWTPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(AuthorizationHeader))
		if !ok {
			abortUnauthorized(c, "UNAUTHORIZED", "bearer token required")
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil || claims.UserID == uuid.Nil {
			abortUnauthorized(c, "INVALID_TOKEN", "invalid or expired token")
			return
		}

		SetPrincipal(c, Principal{UserID: claims.UserID, Email: claims.Email})
		c.Next()
	}
}

// SetPrincipal records the caller on both the gin and the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
	c.Request = c.Request.WithContext(requestctx.WithUserID(c.Request.Context(), p.UserID))
}

// GetPrincipal returns the authenticated caller, if any.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	val, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := val.(Principal)
	return p, ok
}

// GetUserID returns the caller's user ID, or uuid.Nil when unauthenticated.
func GetUserID(c *gin.Context) uuid.UUID {
	p, _ := GetPrincipal(c)
	return p.UserID
}

func abortUnauthorized(c *gin.Context, code, message string) {
	appErr := apperrors.Unauthorized(message)
	appErr.Code = code
	c.Header("WWW-Authenticate", `Bearer realm="tessera"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, appErr.ToResponse())
}

// bearerToken extracts the token of a "Bearer" authorization header. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
