package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/phuslu/log"
	"golang.org/x/sync/singleflight"

	"ExploreTg-App/internal/domain/helper"
	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/domain/service"
	"ExploreTg-App/internal/infrastructure/metrics"
	"ExploreTg-App/internal/session"
)

// fetchTimeout 共有フェッチの上限時間（呼び出し元のキャンセルとは独立）
const fetchTimeout = 30 * time.Second

type ExploreUseCase interface {
	// LoadSnapshot は lieux を1回取得してスナップショットにする
	// 取得失敗は Status=failed のスナップショットとして返し、エラーにはしない
	// 取得完了前にリクエストが終了していた場合のみ model.ErrViewClosed を返す
	LoadSnapshot(ctx context.Context) (*model.PlaceSnapshot, error)

	// Explore は一覧画面のビューモデルを返す
	Explore(ctx context.Context, sel model.Selection, clientKey string) (*model.ExploreView, error)

	// Map は一覧と同じ条件で絞り込んだ lieux を GeoJSON で返す
	Map(ctx context.Context, sel model.Selection) (*geojson.FeatureCollection, error)

	// Stats はトップページ用の主要指標を返す
	Stats(ctx context.Context) (*model.PlaceStats, error)

	// Detail は1件の詳細を返す
	Detail(ctx context.Context, id model.PlaceID) (*model.PlaceDetail, error)
}

type exploreUseCaseImpl struct {
	places  repository.PlacesRepository
	likes   repository.LikesRepository
	images  *helper.ImageNormalizer
	builder *service.ViewBuilder
	group   singleflight.Group
}

func NewExploreUseCase(
	places repository.PlacesRepository,
	likes repository.LikesRepository,
	images *helper.ImageNormalizer,
	pageSize int,
) ExploreUseCase {
	return &exploreUseCaseImpl{
		places:  places,
		likes:   likes,
		images:  images,
		builder: service.NewViewBuilder(images, pageSize),
	}
}

func (u *exploreUseCaseImpl) LoadSnapshot(ctx context.Context) (*model.PlaceSnapshot, error) {
	// 同時に来たリクエストは1回の取得を共有する
	// 先頭の呼び出し元がキャンセルしても他の待ち手に影響しないよう、キャンセルは切り離す
	detached := session.Detach(ctx)
	ch := u.group.DoChan(flightKey(detached), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(detached, fetchTimeout)
		defer cancel()
		return u.places.FindAll(fetchCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		metrics.DiscardedResultsTotal.Inc()
		return nil, model.ErrViewClosed
	case res = <-ch:
	}

	if ctx.Err() != nil {
		metrics.DiscardedResultsTotal.Inc()
		return nil, model.ErrViewClosed
	}

	snapshot := &model.PlaceSnapshot{FetchedAt: time.Now()}
	if res.Err != nil {
		log.Error().Err(res.Err).Msg("lieux fetch failed")
		snapshot.Status = model.StatusFailed
		snapshot.Message = failureMessage(res.Err)
		snapshot.Places = []model.Place{}
		metrics.SnapshotLoadsTotal.WithLabelValues(string(model.StatusFailed)).Inc()
		return snapshot, nil
	}

	places, _ := res.Val.([]model.Place)
	if places == nil {
		places = []model.Place{}
	}
	snapshot.Status = model.StatusReady
	snapshot.Places = places
	metrics.SnapshotLoadsTotal.WithLabelValues(string(model.StatusReady)).Inc()
	metrics.SnapshotPlaces.Set(float64(len(places)))
	return snapshot, nil
}

func (u *exploreUseCaseImpl) Explore(ctx context.Context, sel model.Selection, clientKey string) (*model.ExploreView, error) {
	snapshot, err := u.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.Status != model.StatusReady {
		return failedView(snapshot, u.builder.PageSize(), sel), nil
	}

	view := u.builder.BuildExploreView(snapshot.Places, sel, clientKey)
	u.markLiked(ctx, view.Items)
	return view, nil
}

func (u *exploreUseCaseImpl) Map(ctx context.Context, sel model.Selection) (*geojson.FeatureCollection, error) {
	snapshot, err := u.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.Status != model.StatusReady {
		return nil, fmt.Errorf("lieuxの取得に失敗: %s", snapshot.Message)
	}
	return u.builder.BuildFeatureCollection(u.builder.FilterForMap(snapshot.Places, sel)), nil
}

func (u *exploreUseCaseImpl) Stats(ctx context.Context) (*model.PlaceStats, error) {
	snapshot, err := u.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.Status != model.StatusReady {
		return nil, fmt.Errorf("lieuxの取得に失敗: %s", snapshot.Message)
	}
	stats := service.ComputeStats(snapshot.Places, u.images)
	return &stats, nil
}

func (u *exploreUseCaseImpl) Detail(ctx context.Context, id model.PlaceID) (*model.PlaceDetail, error) {
	place, err := u.places.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		metrics.DiscardedResultsTotal.Inc()
		return nil, model.ErrViewClosed
	}
	return u.builder.BuildDetail(place), nil
}

// markLiked ログイン中ならいいね済みの lieu に印を付ける。取得失敗は一覧表示を妨げない
func (u *exploreUseCaseImpl) markLiked(ctx context.Context, cards []model.PlaceCard) {
	if u.likes == nil || len(cards) == 0 || session.TokenFromContext(ctx) == "" {
		return
	}
	ids, err := u.likes.ListLiked(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("liked lieux fetch failed")
		return
	}
	liked := make(map[model.PlaceID]struct{}, len(ids))
	for _, id := range ids {
		liked[id] = struct{}{}
	}
	for i := range cards {
		_, cards[i].Liked = liked[cards[i].ID]
	}
}

// flightKey トークンごとに取得を共有する（取得元がユーザーごとに結果を変えても混ざらない）
func flightKey(ctx context.Context) string {
	return "lieux:" + session.TokenFromContext(ctx)
}

// failureMessage 利用者に見せるメッセージ
func failureMessage(err error) string {
	if errors.Is(err, model.ErrUnauthorized) {
		return model.ErrUnauthorized.Error()
	}
	return err.Error()
}

func failedView(snapshot *model.PlaceSnapshot, pageSize int, sel model.Selection) *model.ExploreView {
	return &model.ExploreView{
		Status:      snapshot.Status,
		Message:     snapshot.Message,
		Items:       []model.PlaceCard{},
		Facets:      service.BuildFacetGroups(model.FacetOptions{}, sel),
		Page:        1,
		PageSize:    pageSize,
		TotalPages:  1,
		Search:      sel.Search,
		Images:      sel.Images,
		ActiveCount: sel.ActiveCount(),
		FilterKey:   sel.Key(),
	}
}
