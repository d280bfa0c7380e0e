package domain

import (
	"time"
)

// User represents a registered account. Password only ever holds the
// plaintext password during signup or a profile update, it is never
// written to the database. PasswordHash holds the bcrypt hash.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-" gorm:"not null"`

	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`

	Messages  []Message `json:"messages" gorm:"constraint:OnDelete:CASCADE"`
	Likes     []Like    `json:"likes" gorm:"constraint:OnDelete:CASCADE"`
	Followers []Follow  `json:"followers" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	Following []Follow  `json:"following" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
// Create is the signup operation: it hashes the plaintext password before
// anything is persisted.
type UserService interface {
	Authenticate(username, password string) (*User, error)
	ByID(id int) (*User, error)
	ByUsername(username string) (*User, error)
	All() ([]User, error)
	Search(term string) ([]User, error)
	Create(user *User) error
	Update(user *User) error
	Delete(id int) error
}
