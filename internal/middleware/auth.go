package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefanr/teamup-api/internal/services"
)

// Context keys for the authenticated caller. Handlers read the actor id from
// here and pass it to services explicitly.
const (
	ctxUserID    = "auth_user_id"
	ctxUserEmail = "auth_user_email"
)

// Auth validates the bearer token and stores the caller's identity on the
// request context.
func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)

		c.Next()
	}
}

// bearerToken extracts the credential from an Authorization header. The
// scheme comparison is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || token == "" || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	return token, true
}

// GetUserID returns the authenticated user's id, or uuid.Nil when the
// request did not pass Auth.
func GetUserID(c *drift.Context) uuid.UUID {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserEmail returns the authenticated user's email, or "" when unset.
func GetUserEmail(c *drift.Context) string {
	if v, ok := c.Get(ctxUserEmail); ok {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
