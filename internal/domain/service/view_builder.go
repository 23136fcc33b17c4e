package service

import (
	"strings"
	"unicode/utf8"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"ExploreTg-App/internal/domain/helper"
	"ExploreTg-App/internal/domain/model"
)

// cardDescriptionLength はカードに出す説明文の最大文字数
const cardDescriptionLength = 60

// ViewBuilder は lieux のスナップショットから画面用のビューモデルを組み立てる
type ViewBuilder struct {
	images   *helper.ImageNormalizer
	filter   *FilterService
	pageSize int
}

// NewViewBuilder は新しい ViewBuilder を作成する
func NewViewBuilder(images *helper.ImageNormalizer, pageSize int) *ViewBuilder {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ViewBuilder{
		images:   images,
		filter:   NewFilterService(images),
		pageSize: pageSize,
	}
}

// PageSize は1ページあたりの件数
func (b *ViewBuilder) PageSize() int {
	return b.pageSize
}

// BuildExploreView は一覧画面のビューモデルを作る
//
// 処理順: 孤立した選択の刈り込み → 候補値の計算 → 絞り込み → 画像タブ → ページ分割。
// clientKey が空でなく現在の絞り込みの Key と異なる場合、絞り込みが変わったとみなしてページを1に戻す。
func (b *ViewBuilder) BuildExploreView(places []model.Place, sel model.Selection, clientKey string) *model.ExploreView {
	sel, pruned := PruneOrphans(places, sel)

	key := sel.Key()
	if clientKey != "" && clientKey != key {
		sel.Page = 1
	}

	options := DeriveFacetOptions(places, sel)
	filtered := b.filter.Apply(places, sel)
	withImages, withoutImages := b.filter.Partition(filtered)
	visible := SelectByImages(filtered, withImages, withoutImages, sel.Images)

	totalPages := TotalPages(len(visible), b.pageSize)
	page := ClampPage(sel.Page, totalPages)
	pageItems := Paginate(visible, page, b.pageSize)

	cards := make([]model.PlaceCard, len(pageItems))
	for i := range pageItems {
		cards[i] = b.BuildCard(&pageItems[i])
	}

	return &model.ExploreView{
		Status: model.StatusReady,
		Items:  cards,
		Facets: BuildFacetGroups(options, sel),
		Counts: model.ExploreCounts{
			Total:         len(places),
			Filtered:      len(filtered),
			WithImages:    len(withImages),
			WithoutImages: len(withoutImages),
			Paginated:     len(cards),
		},
		Page:        page,
		PageSize:    b.pageSize,
		TotalPages:  totalPages,
		Search:      sel.Search,
		Images:      sel.Images,
		ActiveCount: sel.ActiveCount(),
		FilterKey:   key,
		Pruned:      pruned,
	}
}

// FilterForMap は地図用に、一覧と同じ条件で絞り込んだ lieux を返す（ページ分割なし）
func (b *ViewBuilder) FilterForMap(places []model.Place, sel model.Selection) []model.Place {
	sel, _ = PruneOrphans(places, sel)
	filtered := b.filter.Apply(places, sel)
	withImages, withoutImages := b.filter.Partition(filtered)
	return SelectByImages(filtered, withImages, withoutImages, sel.Images)
}

// BuildCard は一覧カードの表示データを作る
func (b *ViewBuilder) BuildCard(p *model.Place) model.PlaceCard {
	images := b.images.Normalize(p.Images)
	card := model.PlaceCard{
		ID:          p.ID,
		Type:        p.Type,
		TypeLabel:   model.GetTypeLabel(p.Type),
		TypeIcon:    model.GetTypeIcon(p.Type),
		Name:        p.Name,
		Location:    p.LocationLine(),
		Description: truncate(p.Description, cardDescriptionLength),
		Images:      images,
		HasImages:   b.images.HasRealImages(images),
	}

	if parsed, ok := helper.ParsePlaceGeometry(p); ok {
		first, _ := parsed.First()
		card.Coordinates = &first
		card.MapURL = first.GoogleMapsURL()
	}
	return card
}

// BuildDetail は詳細画面のビューモデルを作る
func (b *ViewBuilder) BuildDetail(p *model.Place) *model.PlaceDetail {
	images := b.images.Normalize(p.Images)
	detail := &model.PlaceDetail{
		ID:        p.ID,
		Type:      p.Type,
		TypeLabel: model.GetTypeLabel(p.Type),
		TypeIcon:  model.GetTypeIcon(p.Type),
		Name:      p.Name,
		Images:    images,
		HasImages: b.images.HasRealImages(images),
		Fields:    DetailFields(p),
	}

	if parsed, ok := helper.ParsePlaceGeometry(p); ok {
		first, _ := parsed.First()
		detail.Geometry = parsed
		detail.WKT = helper.CanonicalWKT(parsed)
		detail.Coordinates = &first
		detail.MapURL = first.GoogleMapsURL()
	}
	return detail
}

// BuildFeatureCollection は地図表示用の GeoJSON を作る
// 座標が使えない lieu は含めない
func (b *ViewBuilder) BuildFeatureCollection(places []model.Place) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	var bound orb.Bound
	first := true

	for i := range places {
		p := &places[i]
		parsed, ok := helper.ParsePlaceGeometry(p)
		if !ok {
			continue
		}
		geometry := helper.ToOrbGeometry(parsed)
		if geometry == nil {
			continue
		}

		feature := geojson.NewFeature(geometry)
		feature.ID = p.ID.String()
		feature.Properties["name"] = p.Name
		feature.Properties["type"] = p.Type
		feature.Properties["type_label"] = model.GetTypeLabel(p.Type)
		feature.Properties["type_icon"] = model.GetTypeIcon(p.Type)
		feature.Properties["location"] = p.LocationLine()
		feature.Properties["image"] = b.images.Normalize(p.Images)[0]
		fc.Append(feature)

		if first {
			bound = geometry.Bound()
			first = false
		} else {
			bound = bound.Union(geometry.Bound())
		}
	}

	if !first {
		fc.BBox = geojson.NewBBox(bound)
	}
	return fc
}

// DetailFields は種別ごとに定められた順で、値のある項目だけを返す
func DetailFields(p *model.Place) []model.DetailField {
	keys, ok := model.FieldsByType[p.Type]
	if !ok {
		keys = []string{
			model.FieldRegion, model.FieldPrefecture, model.FieldCommune, model.FieldCanton,
			model.FieldLocality, model.FieldName, model.FieldDescription, model.FieldType,
		}
	}

	fields := make([]model.DetailField, 0, len(keys))
	for _, key := range keys {
		value := fieldValue(p, key)
		if value == "" {
			continue
		}
		if key == model.FieldType {
			value = model.GetTypeLabel(value)
		}
		fields = append(fields, model.DetailField{
			Key:   key,
			Label: model.FieldLabelMap[key],
			Value: value,
		})
	}
	return fields
}

// fieldValue はトップレベルの値を優先し、無ければ種別ごとのネスト属性を見る
func fieldValue(p *model.Place, key string) string {
	switch key {
	case model.FieldRegion:
		return p.RegionName
	case model.FieldPrefecture:
		return p.PrefectureName
	case model.FieldCommune:
		return p.CommuneName
	case model.FieldCanton:
		return p.CantonName
	case model.FieldLocality:
		return p.LocalityName
	case model.FieldName:
		return p.Name
	case model.FieldAddress:
		return p.Address
	case model.FieldDescription:
		return p.Description
	case model.FieldOpeningDays:
		return strings.Join(p.OpeningDays, ", ")
	case model.FieldToiletType:
		return p.ToiletType
	case model.FieldType:
		return p.Type
	case model.FieldActivityStatus:
		return p.ActivityStatus
	case model.FieldActivityCategory:
		return p.ActivityCategory
	case model.FieldCreationDate:
		return p.CreationDate
	case model.FieldEstablishmentType:
		if p.EstablishmentType == "" && p.Type == model.TypeLeisure && p.Leisure != nil {
			return p.Leisure.EstablishmentType
		}
		return p.EstablishmentType
	case model.FieldTerrain:
		if p.Terrain == "" && p.Type == model.TypeParks && p.ParksGardens != nil {
			return p.ParksGardens.Terrain
		}
		return p.Terrain
	case model.FieldOrganisation:
		if p.Organisation == "" && p.Type == model.TypeMarkets && p.Markets != nil {
			return p.Markets.Organisation
		}
		return p.Organisation
	case model.FieldSiteKind:
		if p.SiteKind == "" && p.Type == model.TypeNaturalSites && p.NaturalSites != nil {
			return p.NaturalSites.SiteKind
		}
		return p.SiteKind
	case model.FieldMinistry:
		if p.Ministry == "" && p.Type == model.TypeNaturalSites && p.NaturalSites != nil {
			return p.NaturalSites.Ministry
		}
		return p.Ministry
	case model.FieldReligion:
		if p.Religion == "" && p.Type == model.TypeNaturalSites && p.NaturalSites != nil {
			return p.NaturalSites.Religion
		}
		return p.Religion
	default:
		return ""
	}
}

// truncate は rune 単位で切り詰め、切った場合は "..." を付ける
func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}
