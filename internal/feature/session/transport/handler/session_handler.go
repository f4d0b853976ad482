// Package handler provides the HTTP handlers for session management.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"instructor_backend/internal/feature/session/transport/cookie"
	"instructor_backend/internal/feature/session/transport/http/dto"
	"instructor_backend/internal/feature/session/transport/middleware"
)

// SessionUsecase defines the registry operations the handlers consume.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SessionUsecase interface {
	PurgeToken(ctx context.Context, token string) (bool, error)
	PurgeAllTokens(ctx context.Context, userID int64) (int, error)
	FetchActiveTokens(ctx context.Context, userID int64) ([]string, error)
}

// SessionHandler handles HTTP requests for session enumeration and
// revocation. All routes require the session middleware.
type SessionHandler struct {
	sessions SessionUsecase
}

// NewSessionHandler creates a new SessionHandler instance.
func NewSessionHandler(sessions SessionUsecase) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Logout revokes the caller's own session and clears the cookie. A
// session that is already gone still logs the client out; revocation of
// a revoked token is not an error worth surfacing.
func (h *SessionHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(cookie.Name)
	if err == nil && token != "" {
		if _, err := h.sessions.PurgeToken(c.Request.Context(), token); err != nil {
			slog.Warn("logout failed to purge session", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusServiceUnavailable, dto.ErrorRes{Error: "session store unavailable"})
			return
		}
	}
	cookie.Clear(c.Writer)
	c.JSON(http.StatusOK, dto.MessageRes{Message: "ok"})
}

// List returns the caller's active session tokens, in index order.
func (h *SessionHandler) List(c *gin.Context) {
	userID := c.GetInt64(middleware.ContextUserID)

	tokens, err := h.sessions.FetchActiveTokens(c.Request.Context(), userID)
	if err != nil {
		slog.Warn("failed to list sessions", "user_id", userID, "error", err)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorRes{Error: "session store unavailable"})
		return
	}
	if tokens == nil {
		tokens = []string{}
	}
	c.JSON(http.StatusOK, dto.SessionListRes{Sessions: tokens, Count: len(tokens)})
}

// RevokeAll revokes every session of the caller, including the one that
// made this request, and clears the cookie.
func (h *SessionHandler) RevokeAll(c *gin.Context) {
	userID := c.GetInt64(middleware.ContextUserID)

	purged, err := h.sessions.PurgeAllTokens(c.Request.Context(), userID)
	if err != nil {
		slog.Warn("failed to revoke sessions", "user_id", userID, "error", err)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorRes{Error: "session store unavailable"})
		return
	}
	cookie.Clear(c.Writer)
	slog.Info("revoked all sessions", "user_id", userID, "purged", purged)
	c.JSON(http.StatusOK, dto.PurgeRes{Purged: purged})
}
