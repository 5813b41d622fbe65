package model

import "time"

// Message is a direct message between two users.
// ItemType and ItemID are either both set or both nil. They record which
// listing the conversation is about and are not a foreign key.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	SenderID   uint      `json:"sender_id" gorm:"not null;index"`
	ReceiverID uint      `json:"receiver_id" gorm:"not null;index"`
	ItemType   *ItemKind `json:"item_type,omitempty" gorm:"size:10"`
	ItemID     *uint     `json:"item_id,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	// Relations
	Sender   *User `json:"sender,omitempty" gorm:"foreignKey:SenderID;constraint:OnDelete:RESTRICT"`
	Receiver *User `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID;constraint:OnDelete:RESTRICT"`
}

// SetItemContext attaches (or clears, for nil) the listing the message is about.
func (m *Message) SetItemContext(ref *ItemRef) {
	if ref == nil {
		m.ItemType, m.ItemID = nil, nil
		return
	}
	kind, id := ref.Kind, ref.ID
	m.ItemType, m.ItemID = &kind, &id
}

// ItemContext returns the listing the message is about, or nil.
func (m *Message) ItemContext() *ItemRef {
	if m.ItemType == nil || m.ItemID == nil {
		return nil
	}
	return &ItemRef{Kind: *m.ItemType, ID: *m.ItemID}
}
