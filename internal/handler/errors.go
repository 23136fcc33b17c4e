package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/infrastructure/lieuxapi"
)

// statusClientClosedRequest 取得完了前にクライアントが切断した
const statusClientClosedRequest = 499

// respondError ドメインエラーをHTTPステータスとエラーコードに変換して返す
func respondError(c *gin.Context, err error, fallback string) {
	var apiErr *lieuxapi.APIError
	switch {
	case errors.Is(err, model.ErrViewClosed):
		// 破棄した結果はどこにも書かない
		c.AbortWithStatus(statusClientClosedRequest)
	case errors.Is(err, model.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrPlaceNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error":   "upstream_error",
			"message": apiErr.Message,
		})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream_error",
			"message": fallback + ": " + err.Error(),
		})
	}
}
