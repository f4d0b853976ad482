// Package db opens the relational database holding user credentials.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"instructor_backend/internal/feature/auth/domain/entity"
)

// Config はデータベース接続設定を保持します。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	return Config{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  sslMode,
	}
}

// BuildDSN はPostgreSQL接続用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// OpenFunc はDSNからgorm.DBを開く関数です。テストで差し替えます。
type OpenFunc func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は指定されたタイムアウトまで接続をリトライします。
// コンテナ起動直後のデータベース待ちで即座にプロセスを落とさないための措置です。
func ConnectWithRetry(dsn string, timeout time.Duration, opener OpenFunc) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB は環境変数の設定でPostgreSQLに接続します。
// RUN_MIGRATIONS=trueの場合のみスキーママイグレーションを実行します。
func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()

	opener := func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, opener)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(&entity.User{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
