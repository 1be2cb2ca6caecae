package companyhandler

import (
	"context"
	"strings"

	companystore "blytzwork-backend/lib/company/store"
	filestorage "blytzwork-backend/lib/file-storage"
	usershandler "blytzwork-backend/lib/users"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/models"
	profileapimodels "blytzwork-backend/models/api/profile"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, actor models.Actor, data profileapimodels.CompanyData) (profileapimodels.CompanyOwnerView, error)
	Update(actor models.Actor, data profileapimodels.CompanyData) (profileapimodels.CompanyOwnerView, error)
	GetOwn(actor models.Actor) (profileapimodels.CompanyOwnerView, error)
	GetPublic(id string) (profileapimodels.CompanyView, error)
	UploadURL(ctx context.Context, actor models.Actor, data profileapimodels.UploadURLRequest) (profileapimodels.UploadURLResponse, error)
	SetLogo(actor models.Actor, data profileapimodels.CompanyLogoData) (profileapimodels.CompanyOwnerView, error)
	// GetByUser returns nil when the user has no company profile yet.
	GetByUser(userID string) (*dbmodels.Company, error)
}

func NewHandler(DB *gorm.DB, users usershandler.Provider, storage filestorage.Provider) Provider {
	return &impl{
		db:      DB,
		store:   companystore.NewInstance(DB),
		users:   users,
		storage: storage,
	}
}

type impl struct {
	db      *gorm.DB
	store   companystore.Provider
	users   usershandler.Provider
	storage filestorage.Provider
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) Create(ctx context.Context, actor models.Actor, data profileapimodels.CompanyData) (profileapimodels.CompanyOwnerView, error) {
	if actor.Role != models.UserRoleCompany {
		return profileapimodels.CompanyOwnerView{}, apperrors.NewForbidden("only company users have a company profile")
	}
	if err := data.Validate(); err != nil {
		return profileapimodels.CompanyOwnerView{}, apperrors.Validation(err)
	}
	var created *dbmodels.Company
	err := i.db.Transaction(func(tx *gorm.DB) error {
		store := companystore.NewInstance(tx)
		existing, err := store.GetByUserID(actor.UserID)
		if err != nil {
			return errors.Wrap(err, "company get error")
		}
		if existing != nil {
			return apperrors.NewConflict("company profile already exists")
		}
		contactEmail := strings.TrimSpace(data.ContactEmail)
		if contactEmail == "" {
			contactEmail = actor.Email
		}
		rec := dbmodels.Company{
			UserID:       actor.UserID,
			Name:         strings.TrimSpace(data.Name),
			Industry:     data.Industry,
			Website:      data.Website,
			Country:      data.Country,
			Description:  data.Description,
			ContactEmail: contactEmail,
			Phone:        strings.TrimSpace(data.Phone),
		}
		if err = rec.Validate(); err != nil {
			return apperrors.Validation(err)
		}
		created, err = store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "company create error")
		}
		return i.users.SetProfileComplete(ctx, tx, actor.UserID)
	})
	if err != nil {
		return profileapimodels.CompanyOwnerView{}, err
	}
	i.getLogger(actor.UserID).WithField("company_id", created.ID).Info("company profile created")
	return profileapimodels.CompanyOwnerConvert(*created), nil
}

func (i impl) own(actor models.Actor) (*dbmodels.Company, error) {
	rec, err := i.store.GetByUserID(actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "company get error")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("company profile not found")
	}
	return rec, nil
}

func (i impl) Update(actor models.Actor, data profileapimodels.CompanyData) (profileapimodels.CompanyOwnerView, error) {
	if err := data.Validate(); err != nil {
		return profileapimodels.CompanyOwnerView{}, apperrors.Validation(err)
	}
	rec, err := i.own(actor)
	if err != nil {
		return profileapimodels.CompanyOwnerView{}, err
	}
	updMap := map[string]interface{}{
		"name":          strings.TrimSpace(data.Name),
		"industry":      data.Industry,
		"website":       data.Website,
		"country":       data.Country,
		"description":   data.Description,
		"contact_email": strings.TrimSpace(data.ContactEmail),
		"phone":         strings.TrimSpace(data.Phone),
	}
	if err = i.store.Update(rec.ID, updMap); err != nil {
		return profileapimodels.CompanyOwnerView{}, errors.Wrap(err, "company update error")
	}
	return i.GetOwn(actor)
}

func (i impl) GetOwn(actor models.Actor) (profileapimodels.CompanyOwnerView, error) {
	rec, err := i.own(actor)
	if err != nil {
		return profileapimodels.CompanyOwnerView{}, err
	}
	return profileapimodels.CompanyOwnerConvert(*rec), nil
}

func (i impl) GetPublic(id string) (profileapimodels.CompanyView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return profileapimodels.CompanyView{}, errors.Wrap(err, "company get error")
	}
	if rec == nil {
		return profileapimodels.CompanyView{}, apperrors.NewNotFound("company not found")
	}
	return profileapimodels.CompanyConvert(*rec), nil
}

func (i impl) GetByUser(userID string) (*dbmodels.Company, error) {
	return i.store.GetByUserID(userID)
}

func (i impl) UploadURL(ctx context.Context, actor models.Actor, data profileapimodels.UploadURLRequest) (profileapimodels.UploadURLResponse, error) {
	if err := data.Validate(); err != nil {
		return profileapimodels.UploadURLResponse{}, apperrors.Validation(err)
	}
	if data.Kind != models.FileKindLogo {
		return profileapimodels.UploadURLResponse{}, apperrors.NewValidation("company profiles accept logo uploads only")
	}
	res, err := i.storage.PresignUpload(ctx, actor.UserID, data.Kind, data.FileName, data.ContentType)
	if err != nil {
		return profileapimodels.UploadURLResponse{}, errors.Wrap(err, "upload url error")
	}
	return profileapimodels.UploadURLResponse{URL: res.URL, Key: res.Key, ExpiresIn: int(res.ExpiresIn.Seconds())}, nil
}

func (i impl) SetLogo(actor models.Actor, data profileapimodels.CompanyLogoData) (profileapimodels.CompanyOwnerView, error) {
	if err := data.Validate(); err != nil {
		return profileapimodels.CompanyOwnerView{}, apperrors.Validation(err)
	}
	if !i.storage.OwnsKey(actor.UserID, models.FileKindLogo, data.LogoKey) {
		return profileapimodels.CompanyOwnerView{}, apperrors.NewValidation("logo_key was not issued for this user")
	}
	rec, err := i.own(actor)
	if err != nil {
		return profileapimodels.CompanyOwnerView{}, err
	}
	if err = i.store.Update(rec.ID, map[string]interface{}{"logo_key": data.LogoKey}); err != nil {
		return profileapimodels.CompanyOwnerView{}, errors.Wrap(err, "company logo update error")
	}
	return i.GetOwn(actor)
}
