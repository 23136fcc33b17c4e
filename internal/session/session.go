package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie 認証トークンを保存するCookie（httpOnly）
	TokenCookie = "token"
	// UserDataCookie ロールなどのユーザーデータを保存するCookie
	UserDataCookie = "userData"
	// cookieMaxAge 7日
	cookieMaxAge = 60 * 60 * 24 * 7
)

// Provider 認証トークンとユーザーデータへのアクセスを抽象化する
// 絞り込み処理や外部APIクライアントは、Cookie やヘッダを直接読まずにこれを通す
type Provider interface {
	Token() (string, bool)
	UserData() (map[string]interface{}, bool)
}

// StaticProvider 固定値を返す Provider（サービストークン・テスト用）
type StaticProvider struct {
	TokenValue string
	User       map[string]interface{}
}

func (p StaticProvider) Token() (string, bool) {
	return p.TokenValue, p.TokenValue != ""
}

func (p StaticProvider) UserData() (map[string]interface{}, bool) {
	return p.User, p.User != nil
}

// CookieProvider gin のリクエストから Cookie / Authorization ヘッダを読む Provider
type CookieProvider struct {
	c *gin.Context
}

// NewCookieProvider 新しい CookieProvider を作成
func NewCookieProvider(c *gin.Context) *CookieProvider {
	return &CookieProvider{c: c}
}

// Token Cookie を優先し、無ければ Bearer ヘッダを見る
func (p *CookieProvider) Token() (string, bool) {
	if token, err := p.c.Cookie(TokenCookie); err == nil && token != "" {
		return token, true
	}
	auth := p.c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		return token, token != ""
	}
	return "", false
}

// UserData userData Cookie の JSON を返す。壊れていれば無しとして扱う
func (p *CookieProvider) UserData() (map[string]interface{}, bool) {
	raw, err := p.c.Cookie(UserDataCookie)
	if err != nil || raw == "" {
		return nil, false
	}
	var user map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return user, true
}

type contextKey struct{}

// NewContext Provider を context に載せる
func NewContext(ctx context.Context, p Provider) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext context の Provider を返す。無ければ空の Provider
func FromContext(ctx context.Context) Provider {
	if p, ok := ctx.Value(contextKey{}).(Provider); ok && p != nil {
		return p
	}
	return StaticProvider{}
}

// TokenFromContext context の Provider からトークンだけ取り出す
func TokenFromContext(ctx context.Context) string {
	token, _ := FromContext(ctx).Token()
	return token
}

// Detach 呼び出し元のキャンセルを切り離した context を返す
// リクエストの Provider は終了後に再利用されうるので、トークンとユーザーデータはこの時点で写し取る
func Detach(ctx context.Context) context.Context {
	p := FromContext(ctx)
	token, _ := p.Token()
	user, _ := p.UserData()
	return NewContext(context.WithoutCancel(ctx), StaticProvider{TokenValue: token, User: user})
}

// SetCookies ログイン成功時に token / userData Cookie を設定する
func SetCookies(c *gin.Context, token string, user map[string]interface{}, secure bool) error {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, cookieMaxAge, "/", "", secure, true)

	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		// gin の SetCookie は値を URL エンコードする
		c.SetCookie(UserDataCookie, string(data), cookieMaxAge, "/", "", secure, false)
	}
	return nil
}

// ClearCookies ログアウト時に Cookie を削除する
func ClearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(UserDataCookie, "", -1, "/", "", false, false)
}
