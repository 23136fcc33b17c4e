package model

import (
	"fmt"
	"math"
)

// GeometryKind geometry 文字列の種別
type GeometryKind string

const (
	GeometryPoint      GeometryKind = "POINT"
	GeometryMultiPoint GeometryKind = "MULTIPOINT"
	GeometryLineString GeometryKind = "LINESTRING"
	GeometryPolygon    GeometryKind = "POLYGON"
)

// Location 緯度経度
// 保存データは緯度が先（WKT標準の経度先とは逆）で、解析結果もその順に対応づける
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid NaN や無限大を含まない、地図で使える座標かどうか
// 値域は確認しない（経度先で保存された lieu も座標として扱う）
func (l Location) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	return !math.IsInf(l.Latitude, 0) && !math.IsInf(l.Longitude, 0)
}

// ParsedGeometry geometry 文字列の解析結果
type ParsedGeometry struct {
	Kind        GeometryKind `json:"kind"`
	Coordinates []Location   `json:"coordinates"`
}

// Usable 全ての座標が Valid かどうか
func (g *ParsedGeometry) Usable() bool {
	if g == nil || len(g.Coordinates) == 0 {
		return false
	}
	for _, c := range g.Coordinates {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// First 最初の座標（地図リンク用）
func (g *ParsedGeometry) First() (Location, bool) {
	if !g.Usable() {
		return Location{}, false
	}
	return g.Coordinates[0], true
}

// GoogleMapsURL 「地図で見る」ボタン用の検索URL
func (l Location) GoogleMapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", l.Latitude, l.Longitude)
}
