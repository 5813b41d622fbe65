package repository

import (
	"context"

	"gorm.io/gorm"

	"lostfound/internal/model"
)

// ItemRepository defines catalog persistence operations for both listing kinds.
type ItemRepository interface {
	CreateLost(ctx context.Context, item *model.LostItem) error
	CreateFound(ctx context.Context, item *model.FoundItem) error
	FindLost(ctx context.Context, id uint) (*model.LostItem, error)
	FindFound(ctx context.Context, id uint) (*model.FoundItem, error)
	ListLost(ctx context.Context) ([]model.LostItem, error)
	ListFound(ctx context.Context) ([]model.FoundItem, error)
	// Find loads either kind of listing. It returns gorm.ErrRecordNotFound
	// when the referenced row does not exist.
	Find(ctx context.Context, ref model.ItemRef) (model.Item, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) CreateLost(ctx context.Context, item *model.LostItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) CreateFound(ctx context.Context, item *model.FoundItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) FindLost(ctx context.Context, id uint) (*model.LostItem, error) {
	var item model.LostItem
	if err := r.db.WithContext(ctx).Preload("User").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindFound(ctx context.Context, id uint) (*model.FoundItem, error) {
	var item model.FoundItem
	if err := r.db.WithContext(ctx).Preload("User").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListLost returns lost listings newest first.
func (r *itemRepository) ListLost(ctx context.Context) ([]model.LostItem, error) {
	var items []model.LostItem
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListFound returns found listings newest first.
func (r *itemRepository) ListFound(ctx context.Context) ([]model.FoundItem, error) {
	var items []model.FoundItem
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Find(ctx context.Context, ref model.ItemRef) (model.Item, error) {
	switch ref.Kind {
	case model.ItemKindLost:
		return r.FindLost(ctx, ref.ID)
	case model.ItemKindFound:
		return r.FindFound(ctx, ref.ID)
	default:
		return nil, gorm.ErrRecordNotFound
	}
}
