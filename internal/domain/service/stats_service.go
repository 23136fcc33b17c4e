package service

import (
	"sort"

	"ExploreTg-App/internal/domain/helper"
	"ExploreTg-App/internal/domain/model"
)

// UnknownRegion は地域未設定の lieu を集計するときのラベル
const UnknownRegion = "Non renseigné"

// topRegionsLimit はトップ地域として返す件数
const topRegionsLimit = 3

// ComputeStats はトップページ用の主要指標を集計する
func ComputeStats(places []model.Place, images *helper.ImageNormalizer) model.PlaceStats {
	stats := model.PlaceStats{
		Total:      len(places),
		ByType:     []model.TypeCount{},
		TopRegions: []model.RegionCount{},
	}

	byType := make(map[string]int)
	byRegion := make(map[string]int)
	for i := range places {
		p := &places[i]
		if images.PlaceHasImages(p) {
			stats.WithImages++
		}
		if p.HasGeometry() {
			stats.WithGeometry++
		}
		byType[p.Type]++

		region := p.RegionName
		if region == "" {
			region = UnknownRegion
		}
		byRegion[region]++
	}

	if stats.Total > 0 {
		stats.GeometryPercent = int(float64(stats.WithGeometry)/float64(stats.Total)*100 + 0.5)
	}

	for t, count := range byType {
		stats.ByType = append(stats.ByType, model.TypeCount{
			Type:  t,
			Label: model.GetTypeLabel(t),
			Count: count,
		})
	}
	// 件数の多い順。同数は種別名順で安定させる
	sort.Slice(stats.ByType, func(i, j int) bool {
		if stats.ByType[i].Count != stats.ByType[j].Count {
			return stats.ByType[i].Count > stats.ByType[j].Count
		}
		return stats.ByType[i].Type < stats.ByType[j].Type
	})

	for r, count := range byRegion {
		stats.TopRegions = append(stats.TopRegions, model.RegionCount{Region: r, Count: count})
	}
	sort.Slice(stats.TopRegions, func(i, j int) bool {
		if stats.TopRegions[i].Count != stats.TopRegions[j].Count {
			return stats.TopRegions[i].Count > stats.TopRegions[j].Count
		}
		return stats.TopRegions[i].Region < stats.TopRegions[j].Region
	})
	if len(stats.TopRegions) > topRegionsLimit {
		stats.TopRegions = stats.TopRegions[:topRegionsLimit]
	}

	return stats
}
