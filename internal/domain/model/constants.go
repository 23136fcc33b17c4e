package model

// PlaceTypeConstants は外部APIが返す lieu 種別の定数
const (
	TypeHotels       = "hotels"
	TypeSupermarkets = "supermarches"
	TypeParks        = "parcs"
	TypeLeisure      = "loisirs"
	TypeMarkets      = "marches"
	TypeNaturalSites = "sites"
	TypeProtected    = "zones"
	TypeTouristic    = "touristique"
)

// TypeLabelMap は種別IDから表示名へのマッピング
var TypeLabelMap = map[string]string{
	TypeHotels:       "Hôtels",
	TypeSupermarkets: "Supermarchés",
	TypeParks:        "Parcs & Jardins",
	TypeLeisure:      "Loisirs",
	TypeMarkets:      "Marchés",
	TypeNaturalSites: "Sites Naturels",
	TypeProtected:    "Zones Protégées",
	TypeTouristic:    "Sites Touristiques",
}

// TypeIconMap は種別IDからカード用アイコンへのマッピング
var TypeIconMap = map[string]string{
	TypeHotels:       "🍽️",
	TypeSupermarkets: "🛒",
	TypeLeisure:      "🎯",
	TypeMarkets:      "🛍️",
	TypeTouristic:    "🏛️",
	TypeNaturalSites: "🏛️",
	TypeParks:        "🏖️",
	TypeProtected:    "🌿",
}

// DefaultTypeIcon は未知の種別に使うアイコン
const DefaultTypeIcon = "📍"

// GetTypeLabel は種別IDから表示名を取得する
func GetTypeLabel(placeType string) string {
	if label, ok := TypeLabelMap[placeType]; ok {
		return label
	}
	return placeType // デフォルトはそのまま返す
}

// GetTypeIcon は種別IDからアイコンを取得する
func GetTypeIcon(placeType string) string {
	if icon, ok := TypeIconMap[placeType]; ok {
		return icon
	}
	return DefaultTypeIcon
}

// GetAllTypes は全種別の一覧を取得する
func GetAllTypes() []string {
	return []string{
		TypeHotels,
		TypeSupermarkets,
		TypeParks,
		TypeLeisure,
		TypeMarkets,
		TypeNaturalSites,
		TypeProtected,
		TypeTouristic,
	}
}

// 詳細画面のフィールドキー（外部APIのJSONキーと同じ）
const (
	FieldRegion            = "regionNom"
	FieldPrefecture        = "prefectureNom"
	FieldCommune           = "communeNom"
	FieldCanton            = "cantonNom"
	FieldLocality          = "nomLocalite"
	FieldName              = "etabNom"
	FieldAddress           = "etabAdresse"
	FieldDescription       = "description"
	FieldOpeningDays       = "etabJour"
	FieldToiletType        = "toiletteType"
	FieldType              = "type"
	FieldActivityStatus    = "activiteStatut"
	FieldActivityCategory  = "activiteCategorie"
	FieldCreationDate      = "etabCreationDate"
	FieldEstablishmentType = "etablissement_type"
	FieldTerrain           = "terrain"
	FieldOrganisation      = "organisme"
	FieldSiteKind          = "typeSiteDeux"
	FieldMinistry          = "ministereTutelle"
	FieldReligion          = "religion"
)

// FieldLabelMap は詳細画面で表示するフィールドのラベル
var FieldLabelMap = map[string]string{
	FieldRegion:            "Région",
	FieldPrefecture:        "Préfecture",
	FieldCommune:           "Commune",
	FieldCanton:            "Canton",
	FieldLocality:          "Localité",
	FieldName:              "Nom de l'établissement",
	FieldDescription:       "Description",
	FieldOpeningDays:       "Jours d'ouverture",
	FieldToiletType:        "Type de toilettes",
	FieldAddress:           "Adresse",
	FieldType:              "Type de lieu",
	FieldActivityStatus:    "Statut d'activité",
	FieldActivityCategory:  "Catégorie d'activité",
	FieldCreationDate:      "Date de création",
	FieldEstablishmentType: "Type d'établissement de loisir",
	FieldTerrain:           "Type de terrain",
	FieldOrganisation:      "Organisme",
	FieldSiteKind:          "Type de site",
	FieldMinistry:          "Ministère de tutelle",
	FieldReligion:          "Religion",
}

// FieldsByType は種別ごとに詳細画面へ出すフィールドの順序
var FieldsByType = map[string][]string{
	TypeLeisure: {
		FieldRegion, FieldPrefecture, FieldCommune, FieldCanton, FieldName,
		FieldDescription, FieldOpeningDays, FieldType, FieldEstablishmentType,
	},
	TypeHotels: {
		FieldRegion, FieldPrefecture, FieldCommune, FieldCanton, FieldLocality,
		FieldName, FieldDescription, FieldToiletType, FieldType,
	},
	TypeParks: {
		FieldRegion, FieldPrefecture, FieldCommune, FieldCanton, FieldLocality,
		FieldName, FieldAddress, FieldDescription, FieldOpeningDays, FieldToiletType,
		FieldType, FieldActivityStatus, FieldActivityCategory, FieldTerrain,
	},
	TypeMarkets: {
		FieldRegion, FieldPrefecture, FieldCommune, FieldCanton, FieldLocality,
		FieldName, FieldDescription, FieldOpeningDays, FieldType, FieldOrganisation,
	},
	TypeNaturalSites: {
		FieldRegion, FieldPrefecture, FieldCommune, FieldCanton, FieldLocality,
		FieldName, FieldAddress, FieldDescription, FieldOpeningDays, FieldType,
		FieldSiteKind, FieldMinistry, FieldReligion,
	},
	TypeProtected: {
		FieldRegion, FieldPrefecture, FieldCommune, FieldCanton, FieldLocality,
		FieldName, FieldDescription, FieldType, FieldCreationDate,
	},
	TypeSupermarkets: {
		FieldRegion, FieldPrefecture, FieldCommune, FieldCanton, FieldLocality,
		FieldName, FieldDescription, FieldOpeningDays, FieldToiletType, FieldAddress,
		FieldType, FieldActivityStatus, FieldActivityCategory, FieldCreationDate,
	},
	TypeTouristic: {
		FieldRegion, FieldPrefecture, FieldCommune, FieldCanton, FieldLocality,
		FieldName, FieldDescription, FieldOpeningDays, FieldAddress, FieldType,
	},
}
