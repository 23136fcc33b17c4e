package handler

import (
	"github.com/gin-gonic/gin"

	"ExploreTg-App/internal/infrastructure/metrics"
)

// RouterConfig ルーターの組み立てに必要なハンドラーと設定
type RouterConfig struct {
	Explore        *ExploreHandler
	Likes          *LikesHandler
	Auth           *AuthHandler
	Health         *HealthHandler
	RateLimitQPS   float64
	RateLimitBurst int
}

// NewRouter APIルートを登録した gin.Engine を返す
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.Use(Session())
	{
		health := cfg.Health
		if health == nil {
			health = NewHealthHandler()
		}
		api.GET("/health", health.GetHealth)

		auth := api.Group("")
		auth.POST("/login", cfg.Auth.Login)
		auth.POST("/logout", cfg.Auth.Logout)

		limited := api.Group("")
		limited.Use(RateLimit(cfg.RateLimitQPS, cfg.RateLimitBurst))

		explore := limited.Group("/explore")
		explore.GET("", cfg.Explore.GetExplore)
		explore.GET("/map", cfg.Explore.GetMap)
		explore.GET("/stats", cfg.Explore.GetStats)
		explore.GET("/:id", cfg.Explore.GetDetail)
		explore.POST("/:id/likes", cfg.Likes.PostLike)
		explore.DELETE("/:id/likes", cfg.Likes.DeleteLike)

		limited.GET("/likes", cfg.Likes.GetLikes)
	}

	return router
}
