package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// healthCheckTimeout 依存先1件あたりの確認時間
const healthCheckTimeout = 2 * time.Second

// SnapshotReporter 直近のスナップショット更新結果を返すもの
type SnapshotReporter interface {
	LastResult() (time.Time, int, error)
}

// HealthHandler 稼働確認のハンドラー
type HealthHandler struct {
	snapshot SnapshotReporter
	checks   map[string]func(ctx context.Context) error
}

// NewHealthHandler 新しい HealthHandler を作成
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checks: make(map[string]func(ctx context.Context) error),
	}
}

// SetSnapshot スナップショットウォーマーの結果を応答に含める
func (h *HealthHandler) SetSnapshot(reporter SnapshotReporter) {
	h.snapshot = reporter
}

// AddCheck 依存先の確認を登録する
func (h *HealthHandler) AddCheck(name string, check func(ctx context.Context) error) {
	h.checks[name] = check
}

// GetHealth GET /api/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := gin.H{}
	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			checks[name] = err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := gin.H{
		"status":  status,
		"service": "ExploreTg-App",
		"checks":  checks,
	}

	if h.snapshot != nil {
		lastRun, count, err := h.snapshot.LastResult()
		snapshot := gin.H{"lieux": count}
		if !lastRun.IsZero() {
			snapshot["last_run"] = lastRun.UTC().Format(time.RFC3339)
		}
		if err != nil {
			snapshot["error"] = err.Error()
		}
		body["snapshot"] = snapshot
	}

	c.JSON(code, body)
}
