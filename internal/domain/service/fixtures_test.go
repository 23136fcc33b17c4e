package service

import (
	"strconv"

	"ExploreTg-App/internal/domain/helper"
	"ExploreTg-App/internal/domain/model"
)

func newTestNormalizer() *helper.ImageNormalizer {
	return helper.NewImageNormalizer("http://assets.test", "/no-image.png")
}

// samplePlaces 2地域にまたがる小さなデータセット
func samplePlaces() []model.Place {
	return []model.Place{
		{
			ID: "1", Type: model.TypeHotels, Name: "Hôtel du Lac", Description: "Vue sur le lac Togo",
			RegionName: "Maritime", PrefectureName: "Vo", CommuneName: "Vo 1", CantonName: "Togoville", LocalityName: "Togoville Centre",
			Images: []model.RawImage{model.PlainImage("lac.jpg")}, Geometry: "POINT(6.23 1.48)",
		},
		{
			ID: "2", Type: model.TypeMarkets, Name: "Grand Marché", Address: "Boulevard du 13 Janvier",
			RegionName: "Maritime", PrefectureName: "Golfe", CommuneName: "Golfe 1", CantonName: "Bè", LocalityName: "Bè Kpota",
			Geometry: "POINT(6.13 1.22)",
		},
		{
			ID: "3", Type: model.TypeParks, Name: "Parc de Fazao", Description: "Réserve naturelle",
			RegionName: "Centrale", PrefectureName: "Sotouboua", CommuneName: "Sotouboua 1", CantonName: "Fazao", LocalityName: "Fazao",
			Images: []model.RawImage{model.FragmentedImage(map[string]string{"0": "f", "1": ".", "2": "j", "3": "p", "4": "g"})},
			Geometry: "POINT(abc 0.9)",
		},
		{
			ID: "4", Type: model.TypeHotels, Name: "Hôtel Central",
			RegionName: "Centrale", PrefectureName: "Tchaoudjo", CommuneName: "Tchaoudjo 1",
		},
		{
			ID: "5", Type: model.TypeLeisure, Name: "Sans région",
		},
	}
}

// numberedPlaces n 件の lieu（ID は "0" から）
func numberedPlaces(n int) []model.Place {
	places := make([]model.Place, n)
	for i := range places {
		places[i] = model.Place{ID: model.PlaceID(strconv.Itoa(i)), Type: model.TypeHotels, Name: "Lieu " + strconv.Itoa(i)}
	}
	return places
}
