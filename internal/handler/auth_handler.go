package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/infrastructure/lieuxapi"
	"ExploreTg-App/internal/session"
	"ExploreTg-App/internal/usecase"
)

// AuthHandler ログイン・ログアウトのハンドラー
type AuthHandler struct {
	authUseCase  usecase.AuthUseCase
	cookieSecure bool
}

// NewAuthHandler 新しい AuthHandler を作成
func NewAuthHandler(authUseCase usecase.AuthUseCase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authUseCase:  authUseCase,
		cookieSecure: cookieSecure,
	}
}

// Login POST /api/login - 認証APIに中継し、token / userData Cookie を設定する
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), &req)
	if err != nil {
		var apiErr *lieuxapi.APIError
		if errors.As(err, &apiErr) {
			// 認証APIのステータスとメッセージをそのまま返す
			c.JSON(apiErr.Status, gin.H{
				"error":   "login_failed",
				"message": apiErr.Message,
			})
			return
		}
		if errors.Is(err, model.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "login_failed",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream_error",
			"message": "Erreur de connexion au serveur d'auth.",
		})
		return
	}

	if err := session.SetCookies(c, result.AccessToken, result.User, h.cookieSecure); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to store session: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    result.User,
		"token":   result.AccessToken,
	})
}

// Logout POST /api/logout - Cookie を削除する
func (h *AuthHandler) Logout(c *gin.Context) {
	session.ClearCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
