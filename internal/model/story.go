package model

import "time"

// Story is a free-text recovery story shared on the story board.
type Story struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:150;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Relations
	User *User `json:"author,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}
