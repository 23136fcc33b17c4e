package repository

import (
	"context"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/infrastructure/lieuxapi"
)

// APILikesRepository いいねは外部APIが保持する
type APILikesRepository struct {
	client *lieuxapi.Client
}

func NewAPILikesRepository(client *lieuxapi.Client) repository.LikesRepository {
	return &APILikesRepository{
		client: client,
	}
}

func (r *APILikesRepository) ListLiked(ctx context.Context) ([]model.PlaceID, error) {
	return r.client.ListLikes(ctx)
}

func (r *APILikesRepository) Like(ctx context.Context, id model.PlaceID) error {
	return r.client.Like(ctx, id)
}

func (r *APILikesRepository) Unlike(ctx context.Context, id model.PlaceID) error {
	return r.client.Unlike(ctx, id)
}
