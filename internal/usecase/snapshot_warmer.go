package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/session"
)

// SnapshotRefresher 取得元から読み直してキャッシュを上書きできるもの
type SnapshotRefresher interface {
	Refresh(ctx context.Context) ([]model.Place, error)
}

// SnapshotWarmer cron 式に従って lieux スナップショットのキャッシュを温める
type SnapshotWarmer struct {
	refresher    SnapshotRefresher
	serviceToken string
	timeout      time.Duration
	cron         *cron.Cron

	mu        sync.Mutex
	lastRun   time.Time
	lastErr   error
	lastCount int
}

// NewSnapshotWarmer 新しい SnapshotWarmer を作成
func NewSnapshotWarmer(refresher SnapshotRefresher, serviceToken string) *SnapshotWarmer {
	return &SnapshotWarmer{
		refresher:    refresher,
		serviceToken: serviceToken,
		timeout:      fetchTimeout,
		cron:         cron.New(),
	}
}

// Start スケジュールを登録して開始する
func (w *SnapshotWarmer) Start(schedule string) error {
	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("cronジョブの登録に失敗: %w", err)
	}
	w.cron.Start()
	log.Info().Str("cron_expr", schedule).Msg("snapshot warmer started")
	return nil
}

// Stop 実行中のジョブの終了を待って止める
func (w *SnapshotWarmer) Stop() {
	<-w.cron.Stop().Done()
}

// RunOnce サービストークンで1回取得してキャッシュを更新する
func (w *SnapshotWarmer) RunOnce(ctx context.Context) {
	ctx = session.NewContext(ctx, session.StaticProvider{TokenValue: w.serviceToken})
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	places, err := w.refresher.Refresh(ctx)

	w.mu.Lock()
	w.lastRun = time.Now()
	w.lastErr = err
	w.lastCount = len(places)
	w.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("snapshot warm failed")
		return
	}
	log.Info().Int("lieux", len(places)).Msg("snapshot warmed")
}

// LastResult 直近の実行結果
func (w *SnapshotWarmer) LastResult() (time.Time, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun, w.lastCount, w.lastErr
}
