package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"instructor_backend/internal/feature/session/transport/cookie"
	"instructor_backend/internal/feature/session/transport/middleware"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// mockSessions is a test double for the SessionUsecase interface.
type mockSessions struct {
	purgeFn    func(ctx context.Context, token string) (bool, error)
	purgeAllFn func(ctx context.Context, userID int64) (int, error)
	fetchFn    func(ctx context.Context, userID int64) ([]string, error)
}

func (m *mockSessions) PurgeToken(ctx context.Context, token string) (bool, error) {
	return m.purgeFn(ctx, token)
}

func (m *mockSessions) PurgeAllTokens(ctx context.Context, userID int64) (int, error) {
	return m.purgeAllFn(ctx, userID)
}

func (m *mockSessions) FetchActiveTokens(ctx context.Context, userID int64) ([]string, error) {
	return m.fetchFn(ctx, userID)
}

// asUser injects the user id the session middleware would have stored.
func asUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

// clearedSessionCookie reports whether the response expires the session cookie.
func clearedSessionCookie(res *http.Response) bool {
	for _, ck := range res.Cookies() {
		if ck.Name == cookie.Name && ck.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestSessionHandler_Logout(t *testing.T) {
	tests := []struct {
		name        string
		withCookie  bool
		purgeFn     func(ctx context.Context, token string) (bool, error)
		wantStatus  int
		wantCleared bool
	}{
		{
			name:       "success: purges the cookie token",
			withCookie: true,
			purgeFn: func(_ context.Context, token string) (bool, error) {
				assert.Equal(t, "token-001", token)
				return true, nil
			},
			wantStatus:  http.StatusOK,
			wantCleared: true,
		},
		{
			name:       "success: already revoked token still logs out",
			withCookie: true,
			purgeFn: func(_ context.Context, _ string) (bool, error) {
				return false, nil
			},
			wantStatus:  http.StatusOK,
			wantCleared: true,
		},
		{
			name:        "success: no cookie, nothing to purge",
			withCookie:  false,
			wantStatus:  http.StatusOK,
			wantCleared: true,
		},
		{
			name:       "failure: store unavailable keeps the cookie",
			withCookie: true,
			purgeFn: func(_ context.Context, _ string) (bool, error) {
				return false, assert.AnError
			},
			wantStatus:  http.StatusServiceUnavailable,
			wantCleared: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSessionHandler(&mockSessions{purgeFn: tt.purgeFn})
			r := gin.New()
			r.POST("/logout", h.Logout)

			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tt.withCookie {
				req.AddCookie(&http.Cookie{Name: cookie.Name, Value: "token-001"})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCleared, clearedSessionCookie(w.Result()))
		})
	}
}

func TestSessionHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		fetchFn    func(ctx context.Context, userID int64) ([]string, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			fetchFn: func(_ context.Context, userID int64) ([]string, error) {
				assert.Equal(t, int64(42), userID)
				return []string{"token-a", "token-b"}, nil
			},
			wantStatus: http.StatusOK,
			wantBody:   `"count":2`,
		},
		{
			name: "success: no sessions serializes as an empty array",
			fetchFn: func(_ context.Context, _ int64) ([]string, error) {
				return nil, nil
			},
			wantStatus: http.StatusOK,
			wantBody:   `"sessions":[]`,
		},
		{
			name: "failure: store unavailable",
			fetchFn: func(_ context.Context, _ int64) ([]string, error) {
				return nil, assert.AnError
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "session store unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSessionHandler(&mockSessions{fetchFn: tt.fetchFn})
			r := gin.New()
			r.GET("/sessions", asUser(42), h.List)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestSessionHandler_RevokeAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewSessionHandler(&mockSessions{
			purgeAllFn: func(_ context.Context, userID int64) (int, error) {
				assert.Equal(t, int64(42), userID)
				return 3, nil
			},
		})
		r := gin.New()
		r.DELETE("/sessions", asUser(42), h.RevokeAll)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sessions", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"purged":3`)
		assert.True(t, clearedSessionCookie(w.Result()))
	})

	t.Run("failure: store unavailable", func(t *testing.T) {
		h := NewSessionHandler(&mockSessions{
			purgeAllFn: func(_ context.Context, _ int64) (int, error) {
				return 0, assert.AnError
			},
		})
		r := gin.New()
		r.DELETE("/sessions", asUser(42), h.RevokeAll)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sessions", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, clearedSessionCookie(w.Result()))
	})
}
