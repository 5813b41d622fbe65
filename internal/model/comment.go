package model

import "time"

// Comment is a note left by a user on exactly one catalog item.
// The target is a tagged reference (kind + id), so a comment can never point
// at both a lost and a found item, or at neither.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	TargetType ItemKind  `json:"target_type" gorm:"size:10;not null;index:idx_comment_target"`
	TargetID   uint      `json:"target_id" gorm:"not null;index:idx_comment_target"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	// Relations
	User *User `json:"author,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

// Target returns the item the comment is attached to.
func (c *Comment) Target() ItemRef {
	return ItemRef{Kind: c.TargetType, ID: c.TargetID}
}
