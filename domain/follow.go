package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users. A Follow is created when one user decides to follow another user.
// The FollowerID is the ID of the user that follows, the FollowedID is the ID
// of the user being followed. The edge is directional and never reciprocal on
// its own; the composite unique index rules out duplicate edges.
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"-" gorm:"not null;index;uniqueIndex:idx_follower_followed"`
	Follower   User      `json:"follower"`
	FollowedID int       `json:"-" gorm:"not null;uniqueIndex:idx_follower_followed"`
	Followed   User      `json:"followed"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
// IsFollowing and IsFollowedBy are pure existence checks on the directed edge.
type FollowService interface {
	IsFollowing(followerId, followedId int) bool
	IsFollowedBy(userId, followerId int) bool
	FollowingOf(userId int) ([]User, error)
	FollowersOf(userId int) ([]User, error)
	CountFollowing(userId int) (int, error)
	CountFollowers(userId int) (int, error)
	Create(follow *Follow) error
	Delete(follow *Follow) error
}
