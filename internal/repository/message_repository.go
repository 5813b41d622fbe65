package repository

import (
	"context"

	"gorm.io/gorm"

	"lostfound/internal/model"
)

// MessageRepository defines direct message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	ListInbox(ctx context.Context, userID uint) ([]model.Message, error)
	ListConversation(ctx context.Context, a, b uint) ([]model.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListInbox returns messages received by userID, newest first.
func (r *messageRepository) ListInbox(ctx context.Context, userID uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ListConversation returns the messages exchanged between a and b in both
// directions, oldest first. The result does not depend on argument order.
func (r *messageRepository) ListConversation(ctx context.Context, a, b uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
