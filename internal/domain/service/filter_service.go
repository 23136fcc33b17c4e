package service

import (
	"strings"

	"ExploreTg-App/internal/domain/helper"
	"ExploreTg-App/internal/domain/model"
)

// FilterService は検索語とファセット選択で lieux を絞り込む
type FilterService struct {
	images *helper.ImageNormalizer
}

// NewFilterService は新しい FilterService を作成する
func NewFilterService(images *helper.ImageNormalizer) *FilterService {
	return &FilterService{images: images}
}

// Apply は全ての有効な条件（検索語 AND 各ファセット）を満たす lieux を元の順序で返す
// 条件が何も無ければ入力をそのまま返す
func (s *FilterService) Apply(places []model.Place, sel model.Selection) []model.Place {
	query := strings.ToLower(sel.Search)

	filtered := make([]model.Place, 0, len(places))
	for i := range places {
		p := &places[i]
		if query != "" && !matchesSearch(p, query) {
			continue
		}
		if !matchesFacets(p, sel) {
			continue
		}
		filtered = append(filtered, *p)
	}
	return filtered
}

// Partition は絞り込み済みの lieux を画像あり／なしに分ける（順序は保つ）
func (s *FilterService) Partition(places []model.Place) (withImages, withoutImages []model.Place) {
	withImages = make([]model.Place, 0, len(places))
	withoutImages = make([]model.Place, 0)
	for i := range places {
		if s.images.PlaceHasImages(&places[i]) {
			withImages = append(withImages, places[i])
		} else {
			withoutImages = append(withoutImages, places[i])
		}
	}
	return withImages, withoutImages
}

// SelectByImages は画像タブに対応する集合を選ぶ
func SelectByImages(all, withImages, withoutImages []model.Place, f model.ImageFilter) []model.Place {
	switch f {
	case model.ImagesWith:
		return withImages
	case model.ImagesWithout:
		return withoutImages
	default:
		return all
	}
}

// matchesSearch は名称・説明・住所のいずれかに検索語（小文字化済み）が含まれるか
func matchesSearch(p *model.Place, query string) bool {
	for _, field := range []string{p.Name, p.Description, p.Address} {
		if field != "" && strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// matchesFacets は全ファセットの選択を満たすか（空の選択は制約なし）
func matchesFacets(p *model.Place, sel model.Selection) bool {
	for _, level := range model.AllLevels {
		set := sel.Values(level)
		if set.Empty() {
			continue
		}
		if !set.Has(level.Value(p)) {
			return false
		}
	}
	return true
}
