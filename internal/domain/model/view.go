package model

import "time"

// LoadStatus lieux 取得の3状態
type LoadStatus string

const (
	StatusLoading LoadStatus = "loading"
	StatusReady   LoadStatus = "ready"
	StatusFailed  LoadStatus = "failed"
)

// PlaceSnapshot 1ビュー分の lieux。取得後は変更しない
type PlaceSnapshot struct {
	Status    LoadStatus `json:"status"`
	Places    []Place    `json:"-"`
	Message   string     `json:"message,omitempty"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// FacetOption 絞り込み候補の1値
type FacetOption struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// FacetGroup 1階層分の絞り込み候補
type FacetGroup struct {
	Level    string        `json:"level"`
	Title    string        `json:"title"`
	Options  []FacetOption `json:"options"`
	Selected int           `json:"selected"`
}

// FacetOptions 各階層の候補値（昇順・重複なし・空値なし）
type FacetOptions struct {
	Types       []string `json:"types"`
	Regions     []string `json:"regions"`
	Prefectures []string `json:"prefectures"`
	Communes    []string `json:"communes"`
	Cantons     []string `json:"cantons"`
	Localities  []string `json:"localities"`
}

// ForLevel 階層に対応する候補値
func (o FacetOptions) ForLevel(level FacetLevel) []string {
	switch level {
	case LevelType:
		return o.Types
	case LevelRegion:
		return o.Regions
	case LevelPrefecture:
		return o.Prefectures
	case LevelCommune:
		return o.Communes
	case LevelCanton:
		return o.Cantons
	case LevelLocality:
		return o.Localities
	default:
		return nil
	}
}

// PlaceCard 一覧カードの表示データ
type PlaceCard struct {
	ID          PlaceID   `json:"id"`
	Type        string    `json:"type"`
	TypeLabel   string    `json:"type_label"`
	TypeIcon    string    `json:"type_icon"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	HasImages   bool      `json:"has_images"`
	Coordinates *Location `json:"coordinates,omitempty"`
	MapURL      string    `json:"map_url,omitempty"`
	Liked       bool      `json:"liked"`
}

// ExploreCounts 件数
type ExploreCounts struct {
	Total         int `json:"total"`
	Filtered      int `json:"filtered"`
	WithImages    int `json:"with_images"`
	WithoutImages int `json:"without_images"`
	Paginated     int `json:"paginated"`
}

// PrunedSelection 上位階層の変更で無効になり、外された選択値
type PrunedSelection struct {
	Level string `json:"level"`
	Value string `json:"value"`
}

// ExploreView 一覧画面のビューモデル
type ExploreView struct {
	Status      LoadStatus        `json:"status"`
	Message     string            `json:"message,omitempty"`
	Items       []PlaceCard       `json:"items"`
	Facets      []FacetGroup      `json:"facets"`
	Counts      ExploreCounts     `json:"counts"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	TotalPages  int               `json:"total_pages"`
	Search      string            `json:"search"`
	Images      ImageFilter       `json:"images"`
	ActiveCount int               `json:"active_filters"`
	FilterKey   string            `json:"filter_key"`
	Pruned      []PrunedSelection `json:"pruned,omitempty"`
}

// DetailField 詳細画面の1項目
type DetailField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// PlaceDetail 詳細画面のビューモデル
type PlaceDetail struct {
	ID          PlaceID         `json:"id"`
	Type        string          `json:"type"`
	TypeLabel   string          `json:"type_label"`
	TypeIcon    string          `json:"type_icon"`
	Name        string          `json:"name"`
	Images      []string        `json:"images"`
	HasImages   bool            `json:"has_images"`
	Fields      []DetailField   `json:"fields"`
	Geometry    *ParsedGeometry `json:"geometry,omitempty"`
	WKT         string          `json:"wkt,omitempty"`
	Coordinates *Location       `json:"coordinates,omitempty"`
	MapURL      string          `json:"map_url,omitempty"`
}

// TypeCount 種別ごとの件数
type TypeCount struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RegionCount 地域ごとの件数
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// PlaceStats トップページの主要指標
type PlaceStats struct {
	Total           int           `json:"total"`
	WithImages      int           `json:"with_images"`
	WithGeometry    int           `json:"with_geometry"`
	GeometryPercent int           `json:"geometry_percent"`
	ByType          []TypeCount   `json:"by_type"`
	TopRegions      []RegionCount `json:"top_regions"`
}
