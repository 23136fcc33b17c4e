package repository

import (
	"context"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/infrastructure/lieuxapi"
)

// APIPlacesRepository 外部の lieux REST API から取得する
type APIPlacesRepository struct {
	client *lieuxapi.Client
}

func NewAPIPlacesRepository(client *lieuxapi.Client) repository.PlacesRepository {
	return &APIPlacesRepository{
		client: client,
	}
}

func (r *APIPlacesRepository) FindAll(ctx context.Context) ([]model.Place, error) {
	return r.client.ListPlaces(ctx)
}

func (r *APIPlacesRepository) FindByID(ctx context.Context, id model.PlaceID) (*model.Place, error) {
	return r.client.GetPlace(ctx, id)
}
