package repository

import (
	"context"

	"ExploreTg-App/internal/domain/model"
)

// PlacesRepository lieux の取得元（外部API・Supabase・PostgreSQL）
type PlacesRepository interface {
	FindAll(ctx context.Context) ([]model.Place, error)
	FindByID(ctx context.Context, id model.PlaceID) (*model.Place, error)
}

// LikesRepository セッションユーザーの「いいね」
type LikesRepository interface {
	ListLiked(ctx context.Context) ([]model.PlaceID, error)
	Like(ctx context.Context, id model.PlaceID) error
	Unlike(ctx context.Context, id model.PlaceID) error
}

// AuthRepository 外部APIの認証
type AuthRepository interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error)
}
