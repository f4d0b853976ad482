package dto

import "time"

// UserRes は/api/meエンドポイントのレスポンスを表します。
// パスワードハッシュは含めません。
type UserRes struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
