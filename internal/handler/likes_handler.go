package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/usecase"
)

// LikesHandler いいねのハンドラー
type LikesHandler struct {
	likesUseCase usecase.LikesUseCase
}

// NewLikesHandler 新しい LikesHandler を作成
func NewLikesHandler(likesUseCase usecase.LikesUseCase) *LikesHandler {
	return &LikesHandler{
		likesUseCase: likesUseCase,
	}
}

// GetLikes GET /api/likes - いいね済みの lieu ID 一覧
func (h *LikesHandler) GetLikes(c *gin.Context) {
	ids, err := h.likesUseCase.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "いいねの取得に失敗しました")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": ids})
}

// PostLike POST /api/explore/:id/likes
func (h *LikesHandler) PostLike(c *gin.Context) {
	h.toggle(c, true)
}

// DeleteLike DELETE /api/explore/:id/likes
func (h *LikesHandler) DeleteLike(c *gin.Context) {
	h.toggle(c, false)
}

func (h *LikesHandler) toggle(c *gin.Context, like bool) {
	id := model.PlaceID(strings.TrimSpace(c.Param("id")))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "id is required",
		})
		return
	}

	var err error
	if like {
		err = h.likesUseCase.Like(c.Request.Context(), id)
	} else {
		err = h.likesUseCase.Unlike(c.Request.Context(), id)
	}
	if err != nil {
		respondError(c, err, "いいねの更新に失敗しました")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    id,
		"liked": like,
	})
}
