package router

import (
	"github.com/gin-gonic/gin"

	authhandler "instructor_backend/internal/feature/auth/transport/handler"
	sessionhandler "instructor_backend/internal/feature/session/transport/handler"
	platformhandler "instructor_backend/internal/platform/http/handler"
	jwtmw "instructor_backend/internal/platform/jwt"
)

func NewRouter(auth *authhandler.AuthHandler, sessions *sessionhandler.SessionHandler,
	sessionRequired gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	// 新規ユーザー登録
	r.POST("/signup", auth.Signup)
	// ログイン（セッションCookie＋アクセストークン発行）
	r.POST("/login", auth.Login)

	// 認証必須のルート
	// セッションCookieの QueryOwner → VerifyToken で保護する
	authed := r.Group("/")
	authed.Use(sessionRequired)
	{
		authed.POST("/logout", sessions.Logout)
		authed.GET("/sessions", sessions.List)
		authed.DELETE("/sessions", sessions.RevokeAll)
	}

	// アクセストークン（JWT）必須のAPIルート
	// Cookieを持たないAPIクライアントはログインで得たアクセストークンを
	// Authorizationヘッダーで提示する
	api := r.Group("/api")
	api.Use(jwtmw.AuthRequired())
	{
		api.GET("/me", auth.Me)
	}

	return r
}
