package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "lostfound/internal/errors"
	"lostfound/internal/model"
	"lostfound/internal/repository"
)

// CommentService manages comments attached to catalog items.
type CommentService interface {
	AddComment(ctx context.Context, target model.ItemRef, content string) (*model.Comment, error)
	ListForItem(ctx context.Context, target model.ItemRef) ([]model.Comment, error)
	ListRecent(ctx context.Context, limit int) ([]model.Comment, error)
}

type commentService struct {
	tx    repository.Transactor
	repos repository.Repositories
}

// NewCommentService creates a new comment service.
func NewCommentService(tx repository.Transactor, repos repository.Repositories) CommentService {
	return &commentService{tx: tx, repos: repos}
}

// AddComment attaches a comment by the acting user to exactly one item. The
// item is looked up in the same transaction as the insert.
func (s *commentService) AddComment(ctx context.Context, target model.ItemRef, content string) (*model.Comment, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if blank(content) {
		return nil, apperrors.ErrEmptyContent
	}
	if !target.Kind.Valid() {
		return nil, apperrors.ErrInvalidItemKind
	}

	comment := &model.Comment{
		Content:    strings.TrimSpace(content),
		UserID:     userID,
		TargetType: target.Kind,
		TargetID:   target.ID,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Items.Find(ctx, target); err != nil {
			return itemLookupError(err)
		}
		if err := ownerExists(ctx, repos, userID); err != nil {
			return err
		}
		if err := repos.Comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListForItem returns an item's comments in the order they were written.
func (s *commentService) ListForItem(ctx context.Context, target model.ItemRef) ([]model.Comment, error) {
	if !target.Kind.Valid() {
		return nil, apperrors.ErrInvalidItemKind
	}
	if _, err := s.repos.Items.Find(ctx, target); err != nil {
		return nil, itemLookupError(err)
	}
	comments, err := s.repos.Comments.ListForItem(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// ListRecent returns the newest comments across the catalog. A non-positive
// limit returns every comment.
func (s *commentService) ListRecent(ctx context.Context, limit int) ([]model.Comment, error) {
	comments, err := s.repos.Comments.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent comments: %w", err)
	}
	return comments, nil
}
