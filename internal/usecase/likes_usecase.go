package usecase

import (
	"context"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/session"
)

type LikesUseCase interface {
	// List はログイン中ユーザーがいいねした lieu のIDを返す
	List(ctx context.Context) ([]model.PlaceID, error)
	// Like / Unlike はいいねを付け外しする
	Like(ctx context.Context, id model.PlaceID) error
	Unlike(ctx context.Context, id model.PlaceID) error
}

type likesUseCaseImpl struct {
	likes repository.LikesRepository
}

func NewLikesUseCase(likes repository.LikesRepository) LikesUseCase {
	return &likesUseCaseImpl{likes: likes}
}

func (u *likesUseCaseImpl) List(ctx context.Context) ([]model.PlaceID, error) {
	if session.TokenFromContext(ctx) == "" {
		return nil, model.ErrUnauthorized
	}
	ids, err := u.likes.ListLiked(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []model.PlaceID{}
	}
	return ids, nil
}

func (u *likesUseCaseImpl) Like(ctx context.Context, id model.PlaceID) error {
	if session.TokenFromContext(ctx) == "" {
		return model.ErrUnauthorized
	}
	return u.likes.Like(ctx, id)
}

func (u *likesUseCaseImpl) Unlike(ctx context.Context, id model.PlaceID) error {
	if session.TokenFromContext(ctx) == "" {
		return model.ErrUnauthorized
	}
	return u.likes.Unlike(ctx, id)
}
