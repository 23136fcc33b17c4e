package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/usecase"
)

// ExploreHandler lieux 一覧・地図・統計・詳細のハンドラー
type ExploreHandler struct {
	exploreUseCase usecase.ExploreUseCase
}

// NewExploreHandler 新しい ExploreHandler を作成
func NewExploreHandler(exploreUseCase usecase.ExploreUseCase) *ExploreHandler {
	return &ExploreHandler{
		exploreUseCase: exploreUseCase,
	}
}

// GetExplore GET /api/explore - 絞り込み・ページ分割済みの一覧
func (h *ExploreHandler) GetExplore(c *gin.Context) {
	sel := ParseSelection(c)

	view, err := h.exploreUseCase.Explore(c.Request.Context(), sel, c.Query("filterKey"))
	if err != nil {
		respondError(c, err, "lieuxの取得に失敗しました")
		return
	}

	// 取得失敗時も空の一覧として描画できるビューを返す
	if view.Status == model.StatusFailed {
		c.JSON(http.StatusBadGateway, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetMap GET /api/explore/map - 一覧と同じ条件の GeoJSON
func (h *ExploreHandler) GetMap(c *gin.Context) {
	sel := ParseSelection(c)

	fc, err := h.exploreUseCase.Map(c.Request.Context(), sel)
	if err != nil {
		respondError(c, err, "地図データの取得に失敗しました")
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

// GetStats GET /api/explore/stats - トップページの主要指標
func (h *ExploreHandler) GetStats(c *gin.Context) {
	stats, err := h.exploreUseCase.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "統計の取得に失敗しました")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDetail GET /api/explore/:id - 詳細
func (h *ExploreHandler) GetDetail(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "id is required",
		})
		return
	}

	detail, err := h.exploreUseCase.Detail(c.Request.Context(), model.PlaceID(id))
	if err != nil {
		respondError(c, err, "lieuの取得に失敗しました")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ParseSelection クエリパラメータから絞り込み状態を作る
// q, type, region, prefecture, commune, canton, locality（複数可）, images, page
func ParseSelection(c *gin.Context) model.Selection {
	sel := model.NewSelection()
	sel.SetSearch(strings.TrimSpace(c.Query("q")))
	sel.SetImages(model.ParseImageFilter(c.Query("images")))
	for _, level := range model.AllLevels {
		if values := c.QueryArray(level.Key()); len(values) > 0 {
			sel.Set(level, values...)
		}
	}

	// 不正なページ番号は1として扱う。範囲外は後段で1に戻る
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		sel.Page = page
	}
	return sel
}
