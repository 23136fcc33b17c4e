package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PlaceID 外部APIの lieu ID（文字列・数値のどちらでも受け付ける不透明なトークン）
type PlaceID string

// UnmarshalJSON 文字列・数値どちらの表現からも PlaceID を復元する
func (id *PlaceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("lieu IDの解析失敗: %w", err)
		}
		*id = PlaceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("lieu IDの解析失敗: %w", err)
	}
	*id = PlaceID(n.String())
	return nil
}

// String ID を文字列として返す
func (id PlaceID) String() string {
	return string(id)
}

// RawImage etabImages の1要素
// ストレージ層の都合で、パス文字列そのもの（Plain）か、
// 数値キー→1文字のマップ（Fragments）のどちらかで届く
type RawImage struct {
	Plain     string
	Fragments map[string]string
}

// PlainImage パス文字列から RawImage を作成
func PlainImage(path string) RawImage {
	return RawImage{Plain: path}
}

// FragmentedImage 断片マップから RawImage を作成
func FragmentedImage(fragments map[string]string) RawImage {
	return RawImage{Fragments: fragments}
}

// IsFragmented 断片化された表現かどうか
func (r RawImage) IsFragmented() bool {
	return r.Fragments != nil
}

// Path 元のパス文字列を復元する
// 断片は数値キーの昇順で連結する。数値でないキーは数値キーの後ろに辞書順で並べる
func (r RawImage) Path() string {
	if !r.IsFragmented() {
		return r.Plain
	}

	keys := make([]string, 0, len(r.Fragments))
	for k := range r.Fragments {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(r.Fragments[k])
	}
	return sb.String()
}

// UnmarshalJSON 文字列・断片マップのどちらかを受け付ける
// 想定外の形（数値や配列）は空の参照として扱い、後段で破棄させる
func (r *RawImage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = RawImage{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &r.Plain)
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("画像断片の解析失敗: %w", err)
		}
		fragments := make(map[string]string, len(raw))
		for k, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				continue
			}
			fragments[k] = s
		}
		r.Fragments = fragments
		return nil
	default:
		return nil
	}
}

// MarshalJSON 受け取った形のまま書き戻す（キャッシュ保存用）
func (r RawImage) MarshalJSON() ([]byte, error) {
	if r.IsFragmented() {
		return json.Marshal(r.Fragments)
	}
	return json.Marshal(r.Plain)
}

// Place 外部APIから取得する lieu（読み取り専用）
type Place struct {
	ID             PlaceID    `json:"id"`
	Type           string     `json:"type"`
	RegionName     string     `json:"regionNom,omitempty"`
	PrefectureName string     `json:"prefectureNom,omitempty"`
	CommuneName    string     `json:"communeNom,omitempty"`
	CantonName     string     `json:"cantonNom,omitempty"`
	LocalityName   string     `json:"nomLocalite,omitempty"`
	Name           string     `json:"etabNom"`
	Description    string     `json:"description,omitempty"`
	Address        string     `json:"etabAdresse,omitempty"`
	Images         []RawImage `json:"etabImages"`
	Geometry       string     `json:"geometry"`

	OpeningDays       []string `json:"etabJour,omitempty"`
	ToiletType        string   `json:"toiletteType,omitempty"`
	ActivityStatus    string   `json:"activiteStatut,omitempty"`
	ActivityCategory  string   `json:"activiteCategorie,omitempty"`
	CreationDate      string   `json:"etabCreationDate,omitempty"`
	EstablishmentType string   `json:"etablissement_type,omitempty"`
	Terrain           string   `json:"terrain,omitempty"`
	Organisation      string   `json:"organisme,omitempty"`
	SiteKind          string   `json:"typeSiteDeux,omitempty"`
	Ministry          string   `json:"ministereTutelle,omitempty"`
	Religion          string   `json:"religion,omitempty"`
	Status            bool     `json:"status"`
	CreatedAt         string   `json:"createdAt,omitempty"`
	UpdatedAt         string   `json:"updatedAt,omitempty"`

	// 種別ごとのネストした属性（古いAPIレスポンスとの互換）
	Leisure      *LeisureAttributes     `json:"loisirs,omitempty"`
	ParksGardens *ParkAttributes        `json:"parcsJardins,omitempty"`
	Markets      *MarketAttributes      `json:"marches,omitempty"`
	NaturalSites *NaturalSiteAttributes `json:"sitesNaturels,omitempty"`
}

type LeisureAttributes struct {
	EstablishmentType string `json:"etablissementType,omitempty"`
}

type ParkAttributes struct {
	Terrain string `json:"terrain,omitempty"`
}

type MarketAttributes struct {
	Organisation string `json:"organisme,omitempty"`
}

type NaturalSiteAttributes struct {
	SiteKind string `json:"typeSiteDeux,omitempty"`
	Ministry string `json:"ministereTutelle,omitempty"`
	Religion string `json:"religion,omitempty"`
}

// HasGeometry geometry 文字列が設定されているか（統計用、解析可否は問わない）
func (p *Place) HasGeometry() bool {
	return strings.TrimSpace(p.Geometry) != ""
}

// LocationLine カード表示用の「ロカリテ, カントン, コミューン」表記
func (p *Place) LocationLine() string {
	parts := make([]string, 0, 3)
	for _, v := range []string{p.LocalityName, p.CantonName, p.CommuneName} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
