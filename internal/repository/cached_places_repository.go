package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/phuslu/log"
	"github.com/redis/go-redis/v9"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/infrastructure/metrics"
	"ExploreTg-App/internal/session"
)

// SnapshotCacheKey lieux 一覧のスナップショットを保存するキーの接頭辞
const SnapshotCacheKey = "exploretg:lieux:snapshot"

// SnapshotCacheKeyFor トークンごとのキャッシュキー
// トークンそのものは保存せず、ハッシュをスコープにする
func SnapshotCacheKeyFor(token string) string {
	return SnapshotCacheKey + ":" + strconv.FormatUint(xxhash.Sum64String(token), 16)
}

// CachedPlacesRepository lieux 一覧を Redis にキャッシュするデコレータ
// キャッシュは取得に使ったトークンごとに分かれる。未ログインの取得はサービストークンのスコープになる
// Redis の障害はリクエストを失敗させず、取得元へそのまま委譲する
type CachedPlacesRepository struct {
	inner        repository.PlacesRepository
	rdb          *redis.Client
	ttl          time.Duration
	serviceToken string
}

func NewCachedPlacesRepository(inner repository.PlacesRepository, rdb *redis.Client, ttl time.Duration, serviceToken string) *CachedPlacesRepository {
	return &CachedPlacesRepository{
		inner:        inner,
		rdb:          rdb,
		ttl:          ttl,
		serviceToken: serviceToken,
	}
}

func (r *CachedPlacesRepository) FindAll(ctx context.Context) ([]model.Place, error) {
	key := r.cacheKey(ctx)
	if places, ok := r.readSnapshot(ctx, key); ok {
		metrics.SnapshotCacheHitsTotal.Inc()
		return places, nil
	}
	metrics.SnapshotCacheMissesTotal.Inc()
	return r.refresh(ctx, key)
}

// FindByID 詳細は常に取得元から読む
func (r *CachedPlacesRepository) FindByID(ctx context.Context, id model.PlaceID) (*model.Place, error) {
	return r.inner.FindByID(ctx, id)
}

// Refresh 取得元から読み直して、context のトークンのスコープを上書きする
func (r *CachedPlacesRepository) Refresh(ctx context.Context) ([]model.Place, error) {
	return r.refresh(ctx, r.cacheKey(ctx))
}

func (r *CachedPlacesRepository) refresh(ctx context.Context, key string) ([]model.Place, error) {
	places, err := r.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	r.writeSnapshot(ctx, key, places)
	return places, nil
}

// cacheKey 取得元に渡るのと同じトークンでスコープを決める
func (r *CachedPlacesRepository) cacheKey(ctx context.Context) string {
	token := session.TokenFromContext(ctx)
	if token == "" {
		token = r.serviceToken
	}
	return SnapshotCacheKeyFor(token)
}

func (r *CachedPlacesRepository) enabled() bool {
	return r.rdb != nil && r.ttl > 0
}

func (r *CachedPlacesRepository) readSnapshot(ctx context.Context, key string) ([]model.Place, bool) {
	if !r.enabled() {
		return nil, false
	}
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("snapshot cache read failed")
		}
		return nil, false
	}

	var places []model.Place
	if err := json.Unmarshal(data, &places); err != nil {
		log.Warn().Err(err).Msg("snapshot cache decode failed")
		return nil, false
	}
	return places, true
}

func (r *CachedPlacesRepository) writeSnapshot(ctx context.Context, key string, places []model.Place) {
	if !r.enabled() {
		return
	}
	data, err := json.Marshal(places)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot cache encode failed")
		return
	}
	if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("snapshot cache write failed")
	}
}
