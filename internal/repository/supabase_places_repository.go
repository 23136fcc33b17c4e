package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/infrastructure/database"
)

// placesTable lieux を保持するテーブル
const placesTable = "lieux"

type SupabasePlacesRepository struct {
	client *database.SupabaseClient
}

func NewSupabasePlacesRepository(client *database.SupabaseClient) repository.PlacesRepository {
	return &SupabasePlacesRepository{
		client: client,
	}
}

func (r *SupabasePlacesRepository) FindAll(ctx context.Context) ([]model.Place, error) {
	var places []model.Place
	data, count, err := r.client.GetClient().From(placesTable).Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("lieuxデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("lieuxデータのJSONアンマーシャル失敗: %w", err)
	}
	if places == nil {
		places = []model.Place{}
	}
	return places, nil
}

func (r *SupabasePlacesRepository) FindByID(ctx context.Context, id model.PlaceID) (*model.Place, error) {
	var places []model.Place
	data, _, err := r.client.GetClient().From(placesTable).Select("*", "exact", false).Eq("id", id.String()).Execute()
	if err != nil {
		return nil, fmt.Errorf("lieu %s の取得失敗: %w", id, err)
	}

	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("lieuデータのJSONアンマーシャル失敗: %w", err)
	}
	if len(places) == 0 {
		return nil, model.ErrPlaceNotFound
	}
	return &places[0], nil
}
