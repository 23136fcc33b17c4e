package usecase

import (
	"context"
	"strings"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
)

type AuthUseCase interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error)
}

type authUseCaseImpl struct {
	auth repository.AuthRepository
}

func NewAuthUseCase(auth repository.AuthRepository) AuthUseCase {
	return &authUseCaseImpl{auth: auth}
}

func (u *authUseCaseImpl) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	normalized := &model.LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
	return u.auth.Login(ctx, normalized)
}
