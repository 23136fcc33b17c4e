package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"ExploreTg-App/internal/infrastructure/metrics"
	"ExploreTg-App/internal/session"
)

// RequestIDHeader リクエストIDのヘッダ名
const RequestIDHeader = "X-Request-ID"

// RequestID 受け取ったリクエストIDを引き継ぎ、無ければ発行する
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Session Cookie / Authorization ヘッダを読む Provider をリクエストの context に載せる
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := session.NewContext(c.Request.Context(), session.NewCookieProvider(c))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AccessLog アクセスログとリクエストのメトリクス
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDurationMs.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))

		entry := log.Info()
		if status >= 500 {
			entry = log.Error()
		}
		entry.Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
	}
}

// RateLimit プロセス全体のトークンバケットで外部APIへの負荷を抑える
// qps が 0 以下なら制限しない
func RateLimit(qps float64, burst int) gin.HandlerFunc {
	if qps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(qps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			metrics.RateLimitedTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
