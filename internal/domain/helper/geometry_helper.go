package helper

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"ExploreTg-App/internal/domain/model"
)

var (
	sridPrefix      = regexp.MustCompile(`^\s*SRID=\d+;`)
	pointPattern    = regexp.MustCompile(`^POINT\s*\(([^)]+)\)`)
	multiPointPat   = regexp.MustCompile(`^MULTIPOINT\s*\((.+)\)`)
	lineStringPat   = regexp.MustCompile(`^LINESTRING\s*\((.+)\)`)
	polygonOuterPat = regexp.MustCompile(`^POLYGON\s*\(\s*\(([^)]+)\)`)
)

// ParseGeometry は WKT 風の geometry 文字列から座標列を取り出す
// 解析できない・空の場合は nil を返す。
// 数値は出現順に (緯度, 経度) として扱う（保存データの規約。WKT 標準の経度先ではない）。
// 数値にならないトークンはエラーにせず NaN を入れる
func ParseGeometry(geometry string) *model.ParsedGeometry {
	geom := strings.TrimSpace(sridPrefix.ReplaceAllString(geometry, ""))
	if geom == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(geom, string(model.GeometryPoint)):
		match := pointPattern.FindStringSubmatch(geom)
		if match == nil {
			return nil
		}
		return &model.ParsedGeometry{
			Kind:        model.GeometryPoint,
			Coordinates: []model.Location{parsePair(match[1])},
		}

	case strings.HasPrefix(geom, string(model.GeometryMultiPoint)):
		match := multiPointPat.FindStringSubmatch(geom)
		if match == nil {
			return nil
		}
		return &model.ParsedGeometry{
			Kind:        model.GeometryMultiPoint,
			Coordinates: parsePairList(match[1]),
		}

	case strings.HasPrefix(geom, string(model.GeometryLineString)):
		match := lineStringPat.FindStringSubmatch(geom)
		if match == nil {
			return nil
		}
		return &model.ParsedGeometry{
			Kind:        model.GeometryLineString,
			Coordinates: parsePairList(match[1]),
		}

	case strings.HasPrefix(geom, string(model.GeometryPolygon)):
		// 外周リングのみ。穴や複数リングは対象外
		match := polygonOuterPat.FindStringSubmatch(geom)
		if match == nil {
			return nil
		}
		return &model.ParsedGeometry{
			Kind:        model.GeometryPolygon,
			Coordinates: parsePairList(match[1]),
		}
	}

	return nil
}

// ParsePlaceGeometry は lieu の geometry を解析し、地図で使える場合のみ返す
func ParsePlaceGeometry(place *model.Place) (*model.ParsedGeometry, bool) {
	parsed := ParseGeometry(place.Geometry)
	if !parsed.Usable() {
		return nil, false
	}
	return parsed, true
}

// parsePairList はカンマ区切りの座標列を解析する
func parsePairList(body string) []model.Location {
	tokens := strings.Split(body, ",")
	coords := make([]model.Location, 0, len(tokens))
	for _, token := range tokens {
		token = strings.NewReplacer("(", "", ")", "").Replace(token)
		coords = append(coords, parsePair(token))
	}
	return coords
}

// parsePair は空白区切りの2数値を (緯度, 経度) として解析する
func parsePair(token string) model.Location {
	fields := strings.Fields(token)
	return model.Location{
		Latitude:  parseNumber(fields, 0),
		Longitude: parseNumber(fields, 1),
	}
}

func parseNumber(fields []string, idx int) float64 {
	if idx >= len(fields) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ToOrbGeometry は解析結果を orb のジオメトリ（経度, 緯度の順）に変換する
func ToOrbGeometry(parsed *model.ParsedGeometry) orb.Geometry {
	if !parsed.Usable() {
		return nil
	}

	points := make([]orb.Point, len(parsed.Coordinates))
	for i, c := range parsed.Coordinates {
		// orb.Point は [lng, lat]
		points[i] = orb.Point{c.Longitude, c.Latitude}
	}

	switch parsed.Kind {
	case model.GeometryPoint:
		return points[0]
	case model.GeometryMultiPoint:
		return orb.MultiPoint(points)
	case model.GeometryLineString:
		return orb.LineString(points)
	case model.GeometryPolygon:
		ring := orb.Ring(points)
		if !ring.Closed() {
			ring = append(ring, ring[0])
		}
		return orb.Polygon{ring}
	default:
		return nil
	}
}

// CanonicalWKT は標準の経度先 WKT を返す（地図ライブラリやPostGISへ渡す用）
func CanonicalWKT(parsed *model.ParsedGeometry) string {
	g := ToOrbGeometry(parsed)
	if g == nil {
		return ""
	}
	return wkt.MarshalString(g)
}
