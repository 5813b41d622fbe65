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

// Notifier pushes an event to a connected user. Delivery is best effort.
type Notifier interface {
	NotifyUser(userID uint, event any)
}

// MessageEvent is pushed to the receiver when a message is stored.
type MessageEvent struct {
	Type    string         `json:"type"`
	Message *model.Message `json:"message"`
}

// MessageService manages direct messages between users.
type MessageService interface {
	Send(ctx context.Context, receiverID uint, content string, item *model.ItemRef) (*model.Message, error)
	ContactOwner(ctx context.Context, item model.ItemRef, content string) (*model.Message, error)
	Inbox(ctx context.Context) ([]model.Message, error)
	Conversation(ctx context.Context, otherID uint) ([]model.Message, error)
}

type messageService struct {
	tx       repository.Transactor
	repos    repository.Repositories
	notifier Notifier
}

// NewMessageService creates a new message service. notifier may be nil.
func NewMessageService(tx repository.Transactor, repos repository.Repositories, notifier Notifier) MessageService {
	return &messageService{tx: tx, repos: repos, notifier: notifier}
}

// Send stores a message from the acting user to receiverID. The receiver is
// resolved in the same transaction as the insert.
func (s *messageService) Send(ctx context.Context, receiverID uint, content string, item *model.ItemRef) (*model.Message, error) {
	senderID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if blank(content) {
		return nil, apperrors.ErrEmptyContent
	}
	if item != nil && !item.Kind.Valid() {
		return nil, apperrors.ErrInvalidItemKind
	}
	if receiverID == senderID {
		return nil, apperrors.ErrSelfMessage
	}

	msg := &model.Message{
		Content:    strings.TrimSpace(content),
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
	msg.SetItemContext(item)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return s.store(ctx, repos, msg)
	})
	if err != nil {
		return nil, err
	}
	s.notify(msg)
	return msg, nil
}

// ContactOwner sends a message to the owner of item, resolved at send time.
// The item is recorded on the message as its context.
func (s *messageService) ContactOwner(ctx context.Context, item model.ItemRef, content string) (*model.Message, error) {
	senderID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if blank(content) {
		return nil, apperrors.ErrEmptyContent
	}
	if !item.Kind.Valid() {
		return nil, apperrors.ErrInvalidItemKind
	}

	msg := &model.Message{
		Content:  strings.TrimSpace(content),
		SenderID: senderID,
	}
	msg.SetItemContext(&item)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		found, err := repos.Items.Find(ctx, item)
		if err != nil {
			return itemLookupError(err)
		}
		msg.ReceiverID = found.OwnerID()
		if msg.ReceiverID == senderID {
			return apperrors.ErrSelfMessage
		}
		return s.store(ctx, repos, msg)
	})
	if err != nil {
		return nil, err
	}
	s.notify(msg)
	return msg, nil
}

func (s *messageService) store(ctx context.Context, repos repository.Repositories, msg *model.Message) error {
	receiver, err := repos.Users.FindByID(ctx, msg.ReceiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrReceiverNotFound
		}
		return fmt.Errorf("find receiver: %w", err)
	}
	sender, err := repos.Users.FindByID(ctx, msg.SenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find sender: %w", err)
	}
	if err := repos.Messages.Create(ctx, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	msg.Sender, msg.Receiver = sender, receiver
	return nil
}

func (s *messageService) notify(msg *model.Message) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyUser(msg.ReceiverID, MessageEvent{Type: "message", Message: msg})
}

// Inbox returns messages received by the acting user, newest first.
func (s *messageService) Inbox(ctx context.Context) ([]model.Message, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.repos.Messages.ListInbox(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	return messages, nil
}

// Conversation returns the messages between the acting user and otherID in
// both directions, oldest first.
func (s *messageService) Conversation(ctx context.Context, otherID uint) ([]model.Message, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Users.FindByID(ctx, otherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	messages, err := s.repos.Messages.ListConversation(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return messages, nil
}
