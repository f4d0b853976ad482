package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instructor_backend/internal/app/di"
	"instructor_backend/internal/app/router"
	authadapters "instructor_backend/internal/feature/auth/adapters"
	authhandler "instructor_backend/internal/feature/auth/transport/handler"
	authusecase "instructor_backend/internal/feature/auth/usecase"
	sessionhandler "instructor_backend/internal/feature/session/transport/handler"
	sessionmw "instructor_backend/internal/feature/session/transport/middleware"
	"instructor_backend/internal/platform/config"
	infradb "instructor_backend/internal/platform/db"
	jwtmw "instructor_backend/internal/platform/jwt"
	infraredis "instructor_backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()

	// db
	db := infradb.OpenDB()

	// Redis（セッションストア）
	// トークンの正本を持つため、接続できない場合は縮退運転せず起動を中止する
	rdb, err := infraredis.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("[FATAL] Session store unavailable:", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}()

	// Repository
	userRepo := authadapters.NewUserPostgres(db)

	// セッショントークンレジストリとバックグラウンドワーカー
	registry, store := di.NewTokenRegistry(rdb, cfg)
	workers := di.NewSessionWorkers(registry, store, cfg)

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	generator := jwtmw.NewGenerator(secret, 15*time.Minute)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, generator)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, registry, cfg.SessionTTL)
	sessionH := sessionhandler.NewSessionHandler(registry)

	// ルータ生成
	r := router.NewRouter(authH, sessionH, sessionmw.SessionRequired(registry))

	// SIGINT/SIGTERMでワーカーとHTTPサーバーを揃って停止する
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.Start(ctx)
	defer workers.Stop()

	srv := &http.Server{Addr: ":8080", Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] HTTP server shutdown:", err)
	}
}
