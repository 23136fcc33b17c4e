package repository

import (
	"context"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/infrastructure/lieuxapi"
)

type APIAuthRepository struct {
	client *lieuxapi.Client
}

func NewAPIAuthRepository(client *lieuxapi.Client) repository.AuthRepository {
	return &APIAuthRepository{
		client: client,
	}
}

func (r *APIAuthRepository) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	return r.client.Login(ctx, req)
}
