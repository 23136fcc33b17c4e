package model

import "errors"

var (
	// ErrPlaceNotFound 指定IDの lieu が存在しない
	ErrPlaceNotFound = errors.New("lieuが見つかりません")
	// ErrViewClosed 取得完了前にリクエストが終了した（結果は破棄する）
	ErrViewClosed = errors.New("ビューが閉じられたため取得結果を破棄しました")
	// ErrUnauthorized 外部APIが認証エラーを返した
	ErrUnauthorized = errors.New("認証が必要です")
)

// LoginRequest POST /api/login のリクエストボディ
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 外部APIのログイン結果
type LoginResult struct {
	AccessToken string                 `json:"accessToken"`
	User        map[string]interface{} `json:"user,omitempty"`
}

// Role ユーザーデータからロールを取り出す
func (r *LoginResult) Role() string {
	if r == nil || r.User == nil {
		return ""
	}
	role, _ := r.User["role"].(string)
	return role
}
