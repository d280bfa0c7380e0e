package domain

import (
	"time"
)

// OAuth links an external identity (so far only GitHub) to a User, so that
// the same person signing in through the provider again lands on the same
// account.
type OAuth struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id" gorm:"not null;index"`
	User     *User  `json:"user"`
	Source   string `json:"source" gorm:"not null;uniqueIndex:idx_source_source_id"`
	SourceID string `json:"source_id" gorm:"not null;uniqueIndex:idx_source_source_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthService is a set of methods to manipulate and work with the OAuth model.
type OAuthService interface {
	BySourceID(source, sourceId string) (*OAuth, error)
	Create(oauth *OAuth) error
}
