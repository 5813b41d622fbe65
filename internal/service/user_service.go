package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lostfound/internal/cache"
	apperrors "lostfound/internal/errors"
	"lostfound/internal/model"
	"lostfound/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes read operations on the identity store.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	Me(ctx context.Context) (*model.User, error)
	ListContacts(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

// Me returns the acting user.
func (s *userService) Me(ctx context.Context) (*model.User, error) {
	id, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// ListContacts returns every user the caller can message.
func (s *userService) ListContacts(ctx context.Context) ([]model.User, error) {
	id, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListExcept(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
