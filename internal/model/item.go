package model

import (
	"fmt"
	"time"
)

// ItemKind discriminates the two catalog listings.
type ItemKind string

const (
	ItemKindLost  ItemKind = "lost"
	ItemKindFound ItemKind = "found"
)

// Valid reports whether k is one of the known kinds.
func (k ItemKind) Valid() bool {
	return k == ItemKindLost || k == ItemKindFound
}

// ParseItemKind converts a path or form value into an ItemKind.
func ParseItemKind(s string) (ItemKind, error) {
	k := ItemKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown item kind %q", s)
	}
	return k, nil
}

// ItemRef is a tagged reference to exactly one catalog item.
type ItemRef struct {
	Kind ItemKind `json:"kind"`
	ID   uint     `json:"id"`
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Item is the read surface shared by lost and found listings.
type Item interface {
	Ref() ItemRef
	OwnerID() uint
	ImageRef() string
	Posted() time.Time
}

// LostItem is a listing for something a user has lost.
type LostItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Category    string    `json:"category,omitempty" gorm:"size:50"`
	Location    string    `json:"location,omitempty" gorm:"size:200"`
	Image       string    `json:"image" gorm:"size:255;not null"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	// Relations
	User *User `json:"owner,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (i *LostItem) Ref() ItemRef      { return ItemRef{Kind: ItemKindLost, ID: i.ID} }
func (i *LostItem) OwnerID() uint     { return i.UserID }
func (i *LostItem) ImageRef() string  { return i.Image }
func (i *LostItem) Posted() time.Time { return i.CreatedAt }

// FoundItem is a listing for something a user has found.
type FoundItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Image       string    `json:"image" gorm:"size:255;not null"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	// Relations
	User *User `json:"owner,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (i *FoundItem) Ref() ItemRef      { return ItemRef{Kind: ItemKindFound, ID: i.ID} }
func (i *FoundItem) OwnerID() uint     { return i.UserID }
func (i *FoundItem) ImageRef() string  { return i.Image }
func (i *FoundItem) Posted() time.Time { return i.CreatedAt }
