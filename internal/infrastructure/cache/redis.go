package cache

import (
	"context"
	"time"

	"github.com/phuslu/log"
	"github.com/redis/go-redis/v9"

	"ExploreTg-App/internal/config"
)

// OpenRedis 設定から Redis クライアントを開く
// REDIS_HOST 未設定なら nil を返し、キャッシュは無効になる
func OpenRedis(cfg config.RedisConfig) *redis.Client {
	addr := cfg.Addr()
	if addr == "" {
		return nil
	}
	log.Debug().Str("addr", addr).Int("db", cfg.DB).Msg("redis_open")
	return redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Pass, DB: cfg.DB})
}

// Ping 接続確認。失敗してもキャッシュ無しで動けるので呼び出し側は警告に留める
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}
