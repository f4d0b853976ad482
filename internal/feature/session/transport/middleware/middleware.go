// Package middleware guards routes behind a valid session token.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"instructor_backend/internal/feature/session/transport/cookie"
	"instructor_backend/internal/feature/session/usecase"
)

// ContextUserID is the gin context key the session owner is stored under.
const ContextUserID = "sessionUserID"

// SessionVerifier resolves and verifies session tokens per request.
// Following Go convention: interfaces are defined by the consumer (middleware), not the provider (usecase).
type SessionVerifier interface {
	QueryOwner(ctx context.Context, token string) (int64, error)
	VerifyToken(ctx context.Context, userID int64, ipAddress string, token string) bool
}

// SessionRequired returns a Gin middleware that validates the opaque
// session cookie on every request. On any verification failure the
// cookie is cleared and the request is rejected with 401; the client
// cannot tell an invalid token apart from having no session at all.
func SessionRequired(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookie.Name)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := sessions.QueryOwner(c.Request.Context(), token)
		if err != nil {
			// Store connectivity loss, not a bad token. Keep the cookie.
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}
		if userID == usecase.UnknownOwner ||
			!sessions.VerifyToken(c.Request.Context(), userID, c.ClientIP(), token) {
			cookie.Clear(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}
