package crud

import (
	"gorm.io/gorm"

	"warbler/domain"
	"warbler/errs"
)

// OAuthService manages external identities linked to user accounts.
// It implements the domain.OAuthService interface.
type OAuthService struct {
	oauthValidator
}

type oauthValidator struct {
	oauthGorm
}

type oauthGorm struct {
	db *gorm.DB
}

// NewOAuthService returns an instance of OAuthService.
func NewOAuthService(db *gorm.DB) *OAuthService {
	return &OAuthService{
		oauthValidator{
			oauthGorm{
				db: db,
			},
		},
	}
}

// Ensure the OAuthService struct properly implements the domain.OAuthService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.OAuthService = &OAuthService{}

// Create runs validations needed for creating new OAuth database records.
func (ov *oauthValidator) Create(oauth *domain.OAuth) error {
	err := runOAuthValFns(oauth,
		ov.userIdRequired,
		ov.sourceRequired,
		ov.sourceIdRequired)
	if err != nil {
		return err
	}
	return ov.oauthGorm.Create(oauth)
}

// runOAuthValFns runs any number of functions of type oauthValFn on the passed in OAuth object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runOAuthValFns(oauth *domain.OAuth, fns ...oauthValFn) error {
	for _, fn := range fns {
		if err := fn(oauth); err != nil {
			return err
		}
	}
	return nil
}

// A oauthValFn is any function that takes in a pointer to a domain.OAuth object and returns an error.
type oauthValFn func(oauth *domain.OAuth) error

func (ov *oauthValidator) userIdRequired(oauth *domain.OAuth) error {
	if oauth.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	return nil
}

func (ov *oauthValidator) sourceRequired(oauth *domain.OAuth) error {
	if oauth.Source == "" {
		return errs.Errorf(errs.EINVALID, "An oauth source is required.")
	}
	return nil
}

func (ov *oauthValidator) sourceIdRequired(oauth *domain.OAuth) error {
	if oauth.SourceID == "" {
		return errs.Errorf(errs.EINVALID, "An oauth source ID is required.")
	}
	return nil
}

// BySourceID retrieves the OAuth record for an external identity, along
// with the linked user.
func (og *oauthGorm) BySourceID(source, sourceId string) (*domain.OAuth, error) {
	var oauth domain.OAuth
	err := og.db.
		Where("source = ?", source).
		Where("source_id = ?", sourceId).
		Preload("User").
		First(&oauth).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The external identity is not linked to any account.")
		}
		return nil, err
	}
	return &oauth, nil
}

// Create stores the data from the OAuth object in a new database record.
func (og *oauthGorm) Create(oauth *domain.OAuth) error {
	return og.db.Create(oauth).Error
}
