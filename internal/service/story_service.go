package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "lostfound/internal/errors"
	"lostfound/internal/model"
	"lostfound/internal/repository"
)

// StoryService manages the story board.
type StoryService interface {
	Post(ctx context.Context, title, content string) (*model.Story, error)
	List(ctx context.Context) ([]model.Story, error)
	Get(ctx context.Context, id uint) (*model.Story, error)
}

type storyService struct {
	tx      repository.Transactor
	stories repository.StoryRepository
}

// NewStoryService creates a new story service.
func NewStoryService(tx repository.Transactor, stories repository.StoryRepository) StoryService {
	return &storyService{tx: tx, stories: stories}
}

func (s *storyService) Post(ctx context.Context, title, content string) (*model.Story, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if blank(title) {
		return nil, apperrors.ErrTitleRequired
	}
	if blank(content) {
		return nil, apperrors.ErrEmptyContent
	}

	story := &model.Story{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
		UserID:  userID,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := ownerExists(ctx, repos, userID); err != nil {
			return err
		}
		if err := repos.Stories.Create(ctx, story); err != nil {
			return fmt.Errorf("create story: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// List returns stories newest first.
func (s *storyService) List(ctx context.Context) ([]model.Story, error) {
	stories, err := s.stories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

func (s *storyService) Get(ctx context.Context, id uint) (*model.Story, error) {
	story, err := s.stories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStoryNotFound
		}
		return nil, fmt.Errorf("find story: %w", err)
	}
	return story, nil
}
