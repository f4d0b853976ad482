package dto

// LoginReq は/loginエンドポイントのリクエストボディを表します。
// 必須フィールドとメール形式のバリデーションを含みます。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRes はログイン成功時のレスポンスを表します。
// セッショントークンはCookieで送られ、アクセストークンのみボディに含まれます。
type LoginRes struct {
	AccessToken string `json:"access_token"`
}

// MessageRes は汎用の成功レスポンスです。
type MessageRes struct {
	Message string `json:"message"`
}

// ErrorRes は汎用のエラーレスポンスです。
type ErrorRes struct {
	Error string `json:"error"`
}
