package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories bound to one database handle,
// so a unit of work can use all of them inside the same transaction.
type Repositories struct {
	Users    UserRepository
	Items    ItemRepository
	Comments CommentRepository
	Messages MessageRepository
	Stories  StoryRepository
}

// Transactor runs a function within a database transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &transactor{db: db}
}

// New builds every repository over the same handle.
func New(db *gorm.DB) Repositories {
	return Repositories{
		Users:    NewUserRepository(db),
		Items:    NewItemRepository(db),
		Comments: NewCommentRepository(db),
		Messages: NewMessageRepository(db),
		Stories:  NewStoryRepository(db),
	}
}

// WithTransaction executes fn within a database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (t *transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, New(tx))
	})
}
