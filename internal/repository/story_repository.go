package repository

import (
	"context"

	"gorm.io/gorm"

	"lostfound/internal/model"
)

// StoryRepository defines story persistence operations.
type StoryRepository interface {
	Create(ctx context.Context, story *model.Story) error
	FindByID(ctx context.Context, id uint) (*model.Story, error)
	List(ctx context.Context) ([]model.Story, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *model.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *storyRepository) FindByID(ctx context.Context, id uint) (*model.Story, error) {
	var story model.Story
	if err := r.db.WithContext(ctx).Preload("User").First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// List returns stories newest first.
func (r *storyRepository) List(ctx context.Context) ([]model.Story, error) {
	var stories []model.Story
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").Order("id DESC").
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}
