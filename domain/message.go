package domain

import (
	"time"
)

// Message represents a single warble, owned by exactly one user.
type Message struct {
	ID     int    `json:"id"`
	Text   string `json:"text" gorm:"not null"`
	UserID int    `json:"user_id" gorm:"not null;index"`
	User   User   `json:"user"`

	Likes []Like `json:"likes" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

// MessageService is a set of methods to manipulate and work with the Message model.
type MessageService interface {
	ByID(id int) (*Message, error)
	// ByUserID returns a user's messages in insertion order.
	ByUserID(userId int) ([]Message, error)
	// Feed returns the newest messages of a user and everyone they follow.
	Feed(userId int) ([]Message, error)
	Create(message *Message) error
	Delete(message *Message) error
}
