// スタンドアロンのセッション保守ワーカー。
// リクエスト処理とバックグラウンド整理を分離したいデプロイ向けに、
// IDLEスイープと期限切れリコンシラーのみを起動します。
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"instructor_backend/internal/app/di"
	"instructor_backend/internal/platform/config"
	infraredis "instructor_backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()

	rdb, err := infraredis.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("[FATAL] Session store unavailable:", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}()

	registry, store := di.NewTokenRegistry(rdb, cfg)
	workers := di.NewSessionWorkers(registry, store, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.Start(ctx)
	<-ctx.Done()
	workers.Stop()
}
