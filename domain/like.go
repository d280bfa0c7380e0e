package domain

import (
	"time"
)

// Like represents a many-to-many relationship between a User and a Message.
// A Like is created when a user likes a message and destroyed when they
// unlike it or when the message gets deleted. The composite unique index
// keeps a (user, message) pair down to a single row.
type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_message"`
	MessageID int       `json:"message_id" gorm:"not null;uniqueIndex:idx_user_message"`
	Message   Message   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
// Delete is a no-op when the like does not exist.
type LikeService interface {
	Likes(userId, messageId int) bool
	ByUserID(userId int) ([]Like, error)
	CountByMessageID(messageId int) (int, error)
	CountByUserID(userId int) (int, error)
	Create(like *Like) error
	Delete(like *Like) error
}
