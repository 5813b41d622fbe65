package repository

import (
	"context"

	"gorm.io/gorm"

	"lostfound/internal/model"
)

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListForItem(ctx context.Context, target model.ItemRef) ([]model.Comment, error)
	ListRecent(ctx context.Context, limit int) ([]model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListForItem returns the comments on one item in the order they were written.
func (r *commentRepository) ListForItem(ctx context.Context, target model.ItemRef) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("target_type = ? AND target_id = ?", target.Kind, target.ID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ListRecent returns the newest comments across all items. A non-positive
// limit returns all of them.
func (r *commentRepository) ListRecent(ctx context.Context, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	q := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
