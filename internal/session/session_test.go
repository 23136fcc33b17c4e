package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGinContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestCookieProvider_Token(t *testing.T) {
	t.Run("Cookie を優先", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")

		token, ok := NewCookieProvider(newGinContext(req)).Token()
		assert.True(t, ok)
		assert.Equal(t, "cookie-token", token)
	})

	t.Run("Bearer ヘッダ", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header-token")

		token, ok := NewCookieProvider(newGinContext(req)).Token()
		assert.True(t, ok)
		assert.Equal(t, "header-token", token)
	})

	t.Run("無し", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")

		_, ok := NewCookieProvider(newGinContext(req)).Token()
		assert.False(t, ok)
	})
}

func TestCookieProvider_UserData(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserDataCookie, Value: url.QueryEscape(`{"role":"admin"}`)})

	user, ok := NewCookieProvider(newGinContext(req)).UserData()
	require.True(t, ok)
	assert.Equal(t, "admin", user["role"])

	broken := httptest.NewRequest(http.MethodGet, "/", nil)
	broken.AddCookie(&http.Cookie{Name: UserDataCookie, Value: "not-json"})
	_, ok = NewCookieProvider(newGinContext(broken)).UserData()
	assert.False(t, ok)
}

func TestContext(t *testing.T) {
	assert.Empty(t, TokenFromContext(context.Background()))

	ctx := NewContext(context.Background(), StaticProvider{TokenValue: "svc"})
	assert.Equal(t, "svc", TokenFromContext(ctx))
}

func TestDetach(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "alice"})
	req.AddCookie(&http.Cookie{Name: UserDataCookie, Value: url.QueryEscape(`{"role":"agent"}`)})
	c := newGinContext(req)

	parent, cancel := context.WithCancel(NewContext(context.Background(), NewCookieProvider(c)))
	detached := Detach(parent)
	cancel()

	// 元のリクエストが書き換わっても写し取った値は変わらない
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.NoError(t, detached.Err())
	assert.Equal(t, "alice", TokenFromContext(detached))
	user, ok := FromContext(detached).UserData()
	require.True(t, ok)
	assert.Equal(t, "agent", user["role"])
}
