package services

import (
	"context"

	"github.com/rs/zerolog"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

type userServiceImpl struct {
	logger zerolog.Logger
	repo   repository.Repository
}

func NewUserService(logger zerolog.Logger, repo repository.Repository) UserService {
	return &userServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *userServiceImpl) ListUsers(ctx context.Context, query string) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(users)).
		Msg("selected users")
	return users, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
