package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// FacetLevel 絞り込みの階層。地理階層は上位→下位の順に並ぶ
type FacetLevel int

const (
	LevelType FacetLevel = iota
	LevelRegion
	LevelPrefecture
	LevelCommune
	LevelCanton
	LevelLocality
)

// GeoLevels 地理階層（カスケード順）
var GeoLevels = []FacetLevel{LevelRegion, LevelPrefecture, LevelCommune, LevelCanton, LevelLocality}

// AllLevels 種別 + 地理階層
var AllLevels = []FacetLevel{LevelType, LevelRegion, LevelPrefecture, LevelCommune, LevelCanton, LevelLocality}

// Key クエリパラメータ名・JSONキー
func (l FacetLevel) Key() string {
	switch l {
	case LevelType:
		return "type"
	case LevelRegion:
		return "region"
	case LevelPrefecture:
		return "prefecture"
	case LevelCommune:
		return "commune"
	case LevelCanton:
		return "canton"
	case LevelLocality:
		return "locality"
	default:
		return "unknown"
	}
}

// Title 絞り込みパネルの見出し
func (l FacetLevel) Title() string {
	switch l {
	case LevelType:
		return "Types"
	case LevelRegion:
		return "Régions"
	case LevelPrefecture:
		return "Préfectures"
	case LevelCommune:
		return "Communes"
	case LevelCanton:
		return "Cantons"
	case LevelLocality:
		return "Localités"
	default:
		return ""
	}
}

// IsGeo 地理階層かどうか
func (l FacetLevel) IsGeo() bool {
	return l >= LevelRegion && l <= LevelLocality
}

// Value lieu からこの階層の属性値を取り出す
func (l FacetLevel) Value(p *Place) string {
	switch l {
	case LevelType:
		return p.Type
	case LevelRegion:
		return p.RegionName
	case LevelPrefecture:
		return p.PrefectureName
	case LevelCommune:
		return p.CommuneName
	case LevelCanton:
		return p.CantonName
	case LevelLocality:
		return p.LocalityName
	default:
		return ""
	}
}

// ImageFilter 画像あり/なしタブ
type ImageFilter string

const (
	ImagesAll     ImageFilter = "all"
	ImagesWith    ImageFilter = "with"
	ImagesWithout ImageFilter = "without"
)

// ParseImageFilter 不明な値は all として扱う
func ParseImageFilter(s string) ImageFilter {
	switch ImageFilter(strings.ToLower(strings.TrimSpace(s))) {
	case ImagesWith:
		return ImagesWith
	case ImagesWithout:
		return ImagesWithout
	default:
		return ImagesAll
	}
}

// ValueSet 選択値の集合（順序は意味を持たない）
type ValueSet map[string]struct{}

// NewValueSet 空文字を除いて集合を作る
func NewValueSet(values ...string) ValueSet {
	set := make(ValueSet, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// Has 集合が空でなく v を含むか
func (s ValueSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Empty 制約なしかどうか
func (s ValueSet) Empty() bool {
	return len(s) == 0
}

// Sorted 昇順のスライス
func (s ValueSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Selection 絞り込み状態（リクエストごとに作られ、保存はしない）
type Selection struct {
	Search string
	Facets map[FacetLevel]ValueSet
	Images ImageFilter
	Page   int
}

// NewSelection 空の選択状態（1ページ目）
func NewSelection() Selection {
	return Selection{
		Facets: make(map[FacetLevel]ValueSet, len(AllLevels)),
		Images: ImagesAll,
		Page:   1,
	}
}

// Values 階層の選択集合。未設定なら空集合
func (s Selection) Values(level FacetLevel) ValueSet {
	if set, ok := s.Facets[level]; ok {
		return set
	}
	return ValueSet{}
}

// Set 階層の選択を置き換える。絞り込みが変わるのでページは1に戻す
func (s *Selection) Set(level FacetLevel, values ...string) {
	if s.Facets == nil {
		s.Facets = make(map[FacetLevel]ValueSet, len(AllLevels))
	}
	s.Facets[level] = NewValueSet(values...)
	s.Page = 1
}

// Toggle 値の選択を反転する。ページは1に戻す
func (s *Selection) Toggle(level FacetLevel, value string) {
	if s.Facets == nil {
		s.Facets = make(map[FacetLevel]ValueSet, len(AllLevels))
	}
	set, ok := s.Facets[level]
	if !ok {
		set = ValueSet{}
		s.Facets[level] = set
	}
	if set.Has(value) {
		delete(set, value)
	} else if value != "" {
		set[value] = struct{}{}
	}
	s.Page = 1
}

// SetSearch 検索語を設定する。ページは1に戻す
func (s *Selection) SetSearch(q string) {
	s.Search = q
	s.Page = 1
}

// SetImages 画像タブを設定する。ページは1に戻す
func (s *Selection) SetImages(f ImageFilter) {
	s.Images = f
	s.Page = 1
}

// Reset 全ての絞り込みを解除する
func (s *Selection) Reset() {
	*s = NewSelection()
}

// ActiveCount 選択中の値の総数（フィルタボタンのバッジ用）
func (s Selection) ActiveCount() int {
	n := 0
	for _, set := range s.Facets {
		n += len(set)
	}
	return n
}

// Key ページ番号以外の絞り込み状態のフィンガープリント
// クライアントが前回の Key と一緒にページを送ってきたとき、絞り込みが変わっていればページを1に戻すために使う
func (s Selection) Key() string {
	var sb strings.Builder
	sb.WriteString("q=")
	sb.WriteString(strings.ToLower(s.Search))
	sb.WriteString("|images=")
	sb.WriteString(string(s.Images))
	for _, level := range AllLevels {
		sb.WriteString("|")
		sb.WriteString(level.Key())
		sb.WriteString("=")
		sb.WriteString(strings.Join(s.Values(level).Sorted(), "\x1f"))
	}
	return strconv.FormatUint(xxhash.Sum64String(sb.String()), 16)
}
