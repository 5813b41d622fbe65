package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"lostfound/internal/cache"
	apperrors "lostfound/internal/errors"
	"lostfound/internal/model"
	"lostfound/internal/repository"
)

const feedCacheTTL = 30 * time.Second

// LostItemInput carries the fields of a new lost listing.
type LostItemInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	ImageRef    string
}

// FoundItemInput carries the fields of a new found listing.
type FoundItemInput struct {
	Title       string
	Description string
	ImageRef    string
}

// ItemService manages the lost and found catalog.
type ItemService interface {
	CreateLost(ctx context.Context, in LostItemInput) (*model.LostItem, error)
	CreateFound(ctx context.Context, in FoundItemInput) (*model.FoundItem, error)
	ListLost(ctx context.Context) ([]model.LostItem, error)
	ListFound(ctx context.Context) ([]model.FoundItem, error)
	GetLost(ctx context.Context, id uint) (*model.LostItem, error)
	GetFound(ctx context.Context, id uint) (*model.FoundItem, error)
	Get(ctx context.Context, ref model.ItemRef) (model.Item, error)
}

type itemService struct {
	tx    repository.Transactor
	items repository.ItemRepository
	cache *cache.Client
}

// NewItemService creates a new item service.
func NewItemService(tx repository.Transactor, items repository.ItemRepository, cache *cache.Client) ItemService {
	return &itemService{tx: tx, items: items, cache: cache}
}

func feedGenKey(kind model.ItemKind) string {
	return "items:" + string(kind) + ":gen"
}

// feedCacheKey returns the cache key of the current generation of a feed.
// Creating a listing bumps the generation after commit, so a reader that
// loaded the feed before the commit can only write into a retired key.
func (s *itemService) feedCacheKey(ctx context.Context, kind model.ItemKind) string {
	gen, _ := s.cache.Get(ctx, feedGenKey(kind))
	if gen == nil {
		gen = []byte("0")
	}
	return "items:" + string(kind) + ":" + string(gen)
}

func validateListing(title, description, imageRef string) error {
	switch {
	case blank(title):
		return apperrors.ErrTitleRequired
	case blank(description):
		return apperrors.ErrDescriptionRequired
	case blank(imageRef):
		return apperrors.ErrImageRequired
	}
	return nil
}

// ownerExists verifies the acting user is still a stored user.
func ownerExists(ctx context.Context, repos repository.Repositories, id uint) error {
	if _, err := repos.Users.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find owner: %w", err)
	}
	return nil
}

func (s *itemService) CreateLost(ctx context.Context, in LostItemInput) (*model.LostItem, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateListing(in.Title, in.Description, in.ImageRef); err != nil {
		return nil, err
	}

	item := &model.LostItem{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Location:    strings.TrimSpace(in.Location),
		Image:       in.ImageRef,
		UserID:      userID,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := ownerExists(ctx, repos, userID); err != nil {
			return err
		}
		if err := repos.Items.CreateLost(ctx, item); err != nil {
			return fmt.Errorf("create lost item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Incr(ctx, feedGenKey(model.ItemKindLost))
	return item, nil
}

func (s *itemService) CreateFound(ctx context.Context, in FoundItemInput) (*model.FoundItem, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateListing(in.Title, in.Description, in.ImageRef); err != nil {
		return nil, err
	}

	item := &model.FoundItem{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Image:       in.ImageRef,
		UserID:      userID,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := ownerExists(ctx, repos, userID); err != nil {
			return err
		}
		if err := repos.Items.CreateFound(ctx, item); err != nil {
			return fmt.Errorf("create found item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Incr(ctx, feedGenKey(model.ItemKindFound))
	return item, nil
}

// ListLost returns lost listings newest first.
func (s *itemService) ListLost(ctx context.Context) ([]model.LostItem, error) {
	key := s.feedCacheKey(ctx, model.ItemKindLost)
	var items []model.LostItem
	if s.cache.GetJSON(ctx, key, &items) {
		return items, nil
	}
	items, err := s.items.ListLost(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lost items: %w", err)
	}
	s.cache.SetJSON(ctx, key, items, feedCacheTTL)
	return items, nil
}

// ListFound returns found listings newest first.
func (s *itemService) ListFound(ctx context.Context) ([]model.FoundItem, error) {
	key := s.feedCacheKey(ctx, model.ItemKindFound)
	var items []model.FoundItem
	if s.cache.GetJSON(ctx, key, &items) {
		return items, nil
	}
	items, err := s.items.ListFound(ctx)
	if err != nil {
		return nil, fmt.Errorf("list found items: %w", err)
	}
	s.cache.SetJSON(ctx, key, items, feedCacheTTL)
	return items, nil
}

func (s *itemService) GetLost(ctx context.Context, id uint) (*model.LostItem, error) {
	item, err := s.items.FindLost(ctx, id)
	if err != nil {
		return nil, itemLookupError(err)
	}
	return item, nil
}

func (s *itemService) GetFound(ctx context.Context, id uint) (*model.FoundItem, error) {
	item, err := s.items.FindFound(ctx, id)
	if err != nil {
		return nil, itemLookupError(err)
	}
	return item, nil
}

func (s *itemService) Get(ctx context.Context, ref model.ItemRef) (model.Item, error) {
	if !ref.Kind.Valid() {
		return nil, apperrors.ErrInvalidItemKind
	}
	item, err := s.items.Find(ctx, ref)
	if err != nil {
		return nil, itemLookupError(err)
	}
	return item, nil
}

func itemLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrItemNotFound
	}
	return fmt.Errorf("find item: %w", err)
}
