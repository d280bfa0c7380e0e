package crud

import (
	"gorm.io/gorm"

	"warbler/domain"
	"warbler/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like database records.
func (lv *likeValidator) Create(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIdValid,
		lv.likedMessageExists,
		lv.notOwnMessage,
		lv.notAlreadyLiked)
	if err != nil {
		return err
	}
	return lv.likeGorm.Create(like)
}

// Delete removes the Like record matching the (user, message) pair.
// Unliking a message that was never liked is a no-op, not an error.
func (lv *likeValidator) Delete(like *domain.Like) error {
	err := lv.db.
		Where("user_id = ? AND message_id = ?", like.UserID, like.MessageID).
		First(like).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	return lv.likeGorm.Delete(like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed in Like object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runLikeValFns(like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object and returns an error.
type likeValFn func(like *domain.Like) error

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	return nil
}

// likedMessageExists makes sure that the message to be liked actually exists.
func (lv *likeValidator) likedMessageExists(like *domain.Like) error {
	err := lv.db.First(&domain.Message{}, "id = ?", like.MessageID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The liked message does not exist.")
		}
		return err
	}
	return nil
}

// notOwnMessage makes sure users don't like their own messages.
func (lv *likeValidator) notOwnMessage(like *domain.Like) error {
	var message domain.Message
	if err := lv.db.First(&message, "id = ?", like.MessageID).Error; err != nil {
		return err
	}
	if message.UserID == like.UserID {
		return errs.Errorf(errs.EINVALID, "You cannot like your own message.")
	}
	return nil
}

// notAlreadyLiked makes sure that the user doesn't already like the message.
func (lv *likeValidator) notAlreadyLiked(like *domain.Like) error {
	err := lv.db.
		Where("user_id = ? AND message_id = ?", like.UserID, like.MessageID).
		First(&domain.Like{}).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already like this message.")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}

// Likes reports whether the given user likes the given message.
func (lg *likeGorm) Likes(userId, messageId int) bool {
	var count int64
	lg.db.Model(&domain.Like{}).
		Where("user_id = ? AND message_id = ?", userId, messageId).
		Count(&count)
	return count > 0
}

// ByUserID retrieves all likes of a user in insertion order, along with
// the liked message and its author.
func (lg *likeGorm) ByUserID(userId int) ([]domain.Like, error) {
	var likes []domain.Like
	err := lg.db.
		Where("user_id = ?", userId).
		Preload("Message.User").
		Order("id asc").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

// CountByMessageID returns how many users like the given message.
func (lg *likeGorm) CountByMessageID(messageId int) (int, error) {
	var count int64
	err := lg.db.Model(&domain.Like{}).
		Where("message_id = ?", messageId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountByUserID returns how many messages the given user likes.
func (lg *likeGorm) CountByUserID(userId int) (int, error) {
	var count int64
	err := lg.db.Model(&domain.Like{}).
		Where("user_id = ?", userId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Create stores the data from the Like object in a new database record.
func (lg *likeGorm) Create(like *domain.Like) error {
	return lg.db.Create(like).Error
}

// Delete permanently deletes the database record matching the Like object.
func (lg *likeGorm) Delete(like *domain.Like) error {
	return lg.db.Delete(like).Error
}
