package crud

import (
	"gorm.io/gorm"

	"warbler/domain"
	"warbler/errs"
)

// FollowService manages the directed follow graph between users.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Create runs validations needed for creating new Follow database records.
func (fv *followValidator) Create(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followerIdValid,
		fv.followedUserExists,
		fv.followedIsNotFollower,
		fv.notAlreadyFollowed)
	if err != nil {
		return err
	}
	return fv.followGorm.Create(follow)
}

// Delete runs validations needed for deleting existing Follow database records.
func (fv *followValidator) Delete(follow *domain.Follow) error {
	err := runFollowValFns(follow, fv.followExists)
	if err != nil {
		return err
	}
	return fv.followGorm.Delete(follow)
}

// runFollowValFns runs any number of functions of type followValFn on the passed in Follow object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

// A followValFn is any function that takes in a pointer to a domain.Follow object and returns an error.
type followValFn func(follow *domain.Follow) error

// followerIdValid ensures that the follower's user ID is not empty.
func (fv *followValidator) followerIdValid(follow *domain.Follow) error {
	if follow.FollowerID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	return nil
}

// followedUserExists makes sure that the user to be followed actually exists.
func (fv *followValidator) followedUserExists(follow *domain.Follow) error {
	err := fv.db.First(&domain.User{}, "id = ?", follow.FollowedID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		}
		return err
	}
	return nil
}

// followedIsNotFollower makes sure users don't follow themselves.
func (fv *followValidator) followedIsNotFollower(follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowedID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

// notAlreadyFollowed makes sure the directed edge doesn't already exist.
func (fv *followValidator) notAlreadyFollowed(follow *domain.Follow) error {
	err := fv.db.
		Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
		First(&domain.Follow{}).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}

// followExists makes sure the edge to be deleted actually exists, and fills
// in its ID so the delete hits exactly that row.
func (fv *followValidator) followExists(follow *domain.Follow) error {
	err := fv.db.
		Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
		First(follow).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "You don't follow this user.")
		}
		return err
	}
	return nil
}

// IsFollowing reports whether the directed edge follower -> followed exists.
func (fg *followGorm) IsFollowing(followerId, followedId int) bool {
	var count int64
	fg.db.Model(&domain.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerId, followedId).
		Count(&count)
	return count > 0
}

// IsFollowedBy reports whether the given user is followed by followerId.
func (fg *followGorm) IsFollowedBy(userId, followerId int) bool {
	return fg.IsFollowing(followerId, userId)
}

// FollowingOf returns the users that the given user follows.
func (fg *followGorm) FollowingOf(userId int) ([]domain.User, error) {
	var users []domain.User
	err := fg.db.
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userId).
		Order("follows.id asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FollowersOf returns the users following the given user.
func (fg *followGorm) FollowersOf(userId int) ([]domain.User, error) {
	var users []domain.User
	err := fg.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userId).
		Order("follows.id asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountFollowing returns how many users the given user follows.
func (fg *followGorm) CountFollowing(userId int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).
		Where("follower_id = ?", userId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountFollowers returns how many users follow the given user.
func (fg *followGorm) CountFollowers(userId int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).
		Where("followed_id = ?", userId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Create stores the data from the Follow object in a new database record.
func (fg *followGorm) Create(follow *domain.Follow) error {
	return fg.db.Create(follow).Error
}

// Delete permanently deletes the database record matching the Follow object.
func (fg *followGorm) Delete(follow *domain.Follow) error {
	return fg.db.Delete(follow).Error
}
