package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"ExploreTg-App/internal/config"
	"ExploreTg-App/internal/domain/helper"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/handler"
	"ExploreTg-App/internal/infrastructure/cache"
	"ExploreTg-App/internal/infrastructure/database"
	"ExploreTg-App/internal/infrastructure/lieuxapi"
	"ExploreTg-App/internal/logger"
	repoImpl "ExploreTg-App/internal/repository"
	"ExploreTg-App/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("設定の読み込みに失敗")
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("🔧 依存関係を初期化中...")

	apiClient := lieuxapi.NewClient(cfg.LieuxAPI.URL, cfg.LieuxAPI.Timeout.Duration, cfg.LieuxAPI.Token)

	health := handler.NewHealthHandler()

	source, closeSource, err := buildPlacesSource(ctx, cfg, apiClient, health)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.Explore.PlacesSource).Msg("lieux取得元の初期化に失敗")
	}
	defer closeSource()

	rdb := cache.OpenRedis(cfg.Redis)
	if rdb != nil {
		if err := cache.Ping(ctx, rdb); err != nil {
			log.Warn().Err(err).Msg("⚠️ Redisに接続できません。キャッシュなしで続行します")
		} else {
			log.Info().Str("addr", cfg.Redis.Addr()).Msg("✅ Redis接続成功")
		}
		health.AddCheck("redis", func(ctx context.Context) error { return cache.Ping(ctx, rdb) })
		defer rdb.Close()
	}
	placesRepo := repoImpl.NewCachedPlacesRepository(source, rdb, cfg.Snapshot.TTL.Duration, cfg.LieuxAPI.Token)

	likesRepo := repoImpl.NewAPILikesRepository(apiClient)
	authRepo := repoImpl.NewAPIAuthRepository(apiClient)

	images := helper.NewImageNormalizer(cfg.Explore.AssetBaseURL, cfg.Explore.NoImageURL)
	exploreUseCase := usecase.NewExploreUseCase(placesRepo, likesRepo, images, cfg.Explore.PageSize)
	likesUseCase := usecase.NewLikesUseCase(likesRepo)
	authUseCase := usecase.NewAuthUseCase(authRepo)

	if cfg.Snapshot.RefreshCron != "" {
		warmer := usecase.NewSnapshotWarmer(placesRepo, cfg.LieuxAPI.Token)
		if err := warmer.Start(cfg.Snapshot.RefreshCron); err != nil {
			log.Fatal().Err(err).Msg("スナップショットウォーマーの起動に失敗")
		}
		defer warmer.Stop()
		health.SetSnapshot(warmer)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Explore:        handler.NewExploreHandler(exploreUseCase),
		Likes:          handler.NewLikesHandler(likesUseCase),
		Auth:           handler.NewAuthHandler(authUseCase, cfg.Server.CookieSecure),
		Health:         health,
		RateLimitQPS:   cfg.Server.RateLimitQPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("source", cfg.Explore.PlacesSource).Msg("🚀 ExploreTg-App server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("サーバー起動に失敗")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 シャットダウン中...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("シャットダウンに失敗")
	}
}

// buildPlacesSource PLACES_SOURCE に応じた lieux の取得元を作り、ヘルスチェックに登録する
func buildPlacesSource(ctx context.Context, cfg *config.Config, apiClient *lieuxapi.Client, health *handler.HealthHandler) (repository.PlacesRepository, func(), error) {
	noop := func() {}

	switch cfg.Explore.PlacesSource {
	case config.SourceSupabase:
		client, err := database.NewSupabaseClient(cfg.Supabase)
		if err != nil {
			return nil, noop, err
		}
		if err := client.HealthCheck(); err != nil {
			return nil, noop, err
		}
		log.Info().Str("url", client.URL()).Msg("✅ Supabase connection successful!")
		health.AddCheck("supabase", func(context.Context) error { return client.HealthCheck() })
		return repoImpl.NewSupabasePlacesRepository(client), noop, nil

	case config.SourcePostgres:
		client, err := database.NewPostgreSQLClient(ctx, cfg.Supabase)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Msg("✅ PostgreSQL connection successful!")
		health.AddCheck("postgres", client.HealthCheck)
		return repoImpl.NewPostgresPlacesRepository(client), func() { client.Close() }, nil

	default:
		log.Info().Str("url", cfg.LieuxAPI.URL).Msg("✅ lieux APIを使用")
		return repoImpl.NewAPIPlacesRepository(apiClient), noop, nil
	}
}
