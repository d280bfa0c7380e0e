package crud

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"warbler/domain"
	"warbler/errs"
)

// MaxMessageLength is the upper bound on a warble's text.
const MaxMessageLength = 140

// FeedLimit caps how many messages the home feed loads at once.
const FeedLimit = 100

// MessageService manages Messages.
// It implements the domain.MessageService interface.
type MessageService struct {
	messageValidator
}

// messageValidator runs validations on incoming Message data.
// On success, it passes the data on to messageGorm.
// Otherwise, it returns the error of the validation that has failed.
type messageValidator struct {
	messageGorm
}

// messageGorm runs CRUD operations on the database using incoming Message data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type messageGorm struct {
	db *gorm.DB
}

// NewMessageService returns an instance of MessageService.
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		messageValidator{
			messageGorm{
				db: db,
			},
		},
	}
}

// Ensure the MessageService struct properly implements the domain.MessageService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.MessageService = &MessageService{}

// Create runs validations needed for creating new Message database records.
func (mv *messageValidator) Create(message *domain.Message) error {
	err := runMessageValFns(message,
		mv.userIdValid,
		mv.userExists,
		mv.textRequired,
		mv.textMaxLength)
	if err != nil {
		return err
	}
	return mv.messageGorm.Create(message)
}

// Delete runs validations needed for deleting existing Message database records.
func (mv *messageValidator) Delete(message *domain.Message) error {
	err := runMessageValFns(message, mv.idValid)
	if err != nil {
		return err
	}
	return mv.messageGorm.Delete(message)
}

// runMessageValFns runs any number of functions of type messageValFn on the passed in Message object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runMessageValFns(message *domain.Message, fns ...messageValFn) error {
	for _, fn := range fns {
		if err := fn(message); err != nil {
			return err
		}
	}
	return nil
}

// A messageValFn is any function that takes in a pointer to a domain.Message object and returns an error.
type messageValFn func(message *domain.Message) error

// idValid makes sure that the passed in ID of a Message to be deleted is greater than 0.
func (mv *messageValidator) idValid(message *domain.Message) error {
	if message.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid message ID.")
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (mv *messageValidator) userIdValid(message *domain.Message) error {
	if message.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	return nil
}

// userExists makes sure that the owning user actually exists.
func (mv *messageValidator) userExists(message *domain.Message) error {
	err := mv.db.First(&domain.User{}, "id = ?", message.UserID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The message author does not exist.")
		}
		return err
	}
	return nil
}

// textRequired makes sure that the message text is not empty.
func (mv *messageValidator) textRequired(message *domain.Message) error {
	if strings.TrimSpace(message.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Message text must not be empty.")
	}
	return nil
}

// textMaxLength makes sure that the message text does not exceed the maximum length.
func (mv *messageValidator) textMaxLength(message *domain.Message) error {
	if utf8.RuneCountInString(message.Text) > MaxMessageLength {
		return errs.Errorf(errs.EINVALID, "Message text max length is %d characters.", MaxMessageLength)
	}
	return nil
}

// ByID retrieves a single Message by ID, along with its author.
func (mg *messageGorm) ByID(id int) (*domain.Message, error) {
	var message domain.Message
	err := mg.db.
		Preload("User").
		First(&message, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The message does not exist.")
		}
		return nil, err
	}
	return &message, nil
}

// ByUserID retrieves all messages of a user in insertion order.
func (mg *messageGorm) ByUserID(userId int) ([]domain.Message, error) {
	var messages []domain.Message
	err := mg.db.
		Where("user_id = ?", userId).
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Feed retrieves the newest messages written by the given user or by
// anyone they follow.
func (mg *messageGorm) Feed(userId int) ([]domain.Message, error) {
	var followedIds []int
	err := mg.db.
		Model(&domain.Follow{}).
		Where("follower_id = ?", userId).
		Pluck("followed_id", &followedIds).Error
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	err = mg.db.
		Where("user_id IN ?", append(followedIds, userId)).
		Preload("User").
		Order("created_at desc, id desc").
		Limit(FeedLimit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Create stores the data from the Message object in a new database record
// and eager-loads the author, so callers can render the message right away.
func (mg *messageGorm) Create(message *domain.Message) error {
	if err := mg.db.Create(message).Error; err != nil {
		return err
	}
	return mg.db.Preload("User").First(message).Error
}

// Delete permanently deletes a Message record, along with its likes.
func (mg *messageGorm) Delete(message *domain.Message) error {
	return mg.db.Select("Likes").Delete(message).Error
}
