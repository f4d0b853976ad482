// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"instructor_backend/internal/feature/auth/domain/entity"
	"instructor_backend/internal/feature/auth/transport/http/dto"
	"instructor_backend/internal/feature/auth/usecase"
	"instructor_backend/internal/feature/session/transport/cookie"
	jwtmw "instructor_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は指定されたメールアドレスとパスワードで新規ユーザーを登録します。
	Signup(ctx context.Context, email, password string) error
	// Login はユーザーを認証し、成功時にユーザーIDとアクセストークンを返します。
	Login(ctx context.Context, email, password string) (int64, string, error)
	// Profile は指定されたIDのユーザー情報を取得します。
	Profile(ctx context.Context, id int64) (*entity.User, error)
}

// TokenAssigner は認証済みユーザーへのセッショントークン発行を定義します。
type TokenAssigner interface {
	// AssignToken は新しい不透明セッショントークンを発行します。
	AssignToken(ctx context.Context, userID int64, ipAddress string, ttl time.Duration) (string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// ログイン成功時にセッショントークンをCookieで払い出します。
type AuthHandler struct {
	auth       AuthUsecase
	sessions   TokenAssigner
	sessionTTL time.Duration
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からユースケースを注入します。
func NewAuthHandler(auth AuthUsecase, sessions TokenAssigner, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをSignupReqにバインド
// - バリデーションエラー時は400を返却
// - ユーザー作成失敗時（メール重複等）は409を返却
// - 成功時は201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}
	if err := h.auth.Signup(c.Request.Context(), req.Email, req.Password); err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorRes{Error: "signup failed"})
		return
	}
	slog.Info("user signup successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.MessageRes{Message: "ok"})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 認証成功時はセッションCookieを設定し、アクセストークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}
	userID, accessToken, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "invalid email or password"})
		return
	}

	// 認証成功後に不透明セッショントークンを発行し、Cookieで払い出す
	token, err := h.sessions.AssignToken(c.Request.Context(), userID, c.ClientIP(), h.sessionTTL)
	if err != nil {
		slog.Error("failed to assign session token", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusServiceUnavailable, dto.ErrorRes{Error: "session store unavailable"})
		return
	}
	cookie.Set(c.Writer, token, h.sessionTTL)

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{AccessToken: accessToken})
}

// Me は認証済みユーザー自身の情報を返すAPIエンドポイントを処理します。
// アクセストークン（JWT）で保護されるルート用で、セッションCookieを
// 持たないAPIクライアントの導線になります。
// - ユーザーが既に削除されている場合は404を返却
// - 成功時はパスワードを除いたユーザー情報を返却
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt64(jwtmw.ContextUserID)

	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
			return
		}
		slog.Warn("failed to load user profile", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.UserRes{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
