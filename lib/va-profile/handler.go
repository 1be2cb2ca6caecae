package vaprofilehandler

import (
	"context"
	"strings"

	filestorage "blytzwork-backend/lib/file-storage"
	usershandler "blytzwork-backend/lib/users"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	vaprofilestore "blytzwork-backend/lib/va-profile/store"
	"blytzwork-backend/models"
	profileapimodels "blytzwork-backend/models/api/profile"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, actor models.Actor, data profileapimodels.VAProfileData) (profileapimodels.VAProfileView, error)
	Update(actor models.Actor, data profileapimodels.VAProfileData) (profileapimodels.VAProfileView, error)
	GetOwn(actor models.Actor) (profileapimodels.VAProfileView, error)
	GetPublic(id string) (profileapimodels.VAProfilePublicView, error)
	List(filter profileapimodels.VAProfileFilter) ([]profileapimodels.VAProfilePublicView, int64, error)
	UploadURL(ctx context.Context, actor models.Actor, data profileapimodels.UploadURLRequest) (profileapimodels.UploadURLResponse, error)
	AttachFiles(actor models.Actor, data profileapimodels.VAFilesData) (profileapimodels.VAProfileView, error)
}

func NewHandler(DB *gorm.DB, users usershandler.Provider, storage filestorage.Provider) Provider {
	return &impl{
		db:      DB,
		store:   vaprofilestore.NewInstance(DB),
		users:   users,
		storage: storage,
	}
}

type impl struct {
	db      *gorm.DB
	store   vaprofilestore.Provider
	users   usershandler.Provider
	storage filestorage.Provider
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func normalizeSkills(skills []string) []string {
	result := make([]string, 0, len(skills))
	seen := map[string]bool{}
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		result = append(result, skill)
	}
	return result
}

func (i impl) Create(ctx context.Context, actor models.Actor, data profileapimodels.VAProfileData) (profileapimodels.VAProfileView, error) {
	if actor.Role != models.UserRoleVA {
		return profileapimodels.VAProfileView{}, apperrors.NewForbidden("only virtual assistants have a va profile")
	}
	if err := data.Validate(); err != nil {
		return profileapimodels.VAProfileView{}, apperrors.Validation(err)
	}
	var created *dbmodels.VAProfile
	err := i.db.Transaction(func(tx *gorm.DB) error {
		store := vaprofilestore.NewInstance(tx)
		existing, err := store.GetByUserID(actor.UserID)
		if err != nil {
			return errors.Wrap(err, "va profile get error")
		}
		if existing != nil {
			return apperrors.NewConflict("va profile already exists")
		}
		rec := dbmodels.VAProfile{
			UserID:       actor.UserID,
			Name:         strings.TrimSpace(data.Name),
			Bio:          data.Bio,
			Country:      strings.TrimSpace(data.Country),
			HourlyRate:   data.HourlyRate,
			Skills:       normalizeSkills(data.Skills),
			Availability: data.Availability,
			Phone:        strings.TrimSpace(data.Phone),
		}
		if err = rec.Validate(); err != nil {
			return apperrors.Validation(err)
		}
		created, err = store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "va profile create error")
		}
		return i.users.SetProfileComplete(ctx, tx, actor.UserID)
	})
	if err != nil {
		return profileapimodels.VAProfileView{}, err
	}
	i.getLogger(actor.UserID).WithField("va_profile_id", created.ID).Info("va profile created")
	return profileapimodels.VAProfileConvert(*created), nil
}

func (i impl) own(actor models.Actor) (*dbmodels.VAProfile, error) {
	rec, err := i.store.GetByUserID(actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "va profile get error")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("va profile not found")
	}
	return rec, nil
}

func (i impl) Update(actor models.Actor, data profileapimodels.VAProfileData) (profileapimodels.VAProfileView, error) {
	if err := data.Validate(); err != nil {
		return profileapimodels.VAProfileView{}, apperrors.Validation(err)
	}
	rec, err := i.own(actor)
	if err != nil {
		return profileapimodels.VAProfileView{}, err
	}
	updMap := map[string]interface{}{
		"name":         strings.TrimSpace(data.Name),
		"bio":          data.Bio,
		"country":      strings.TrimSpace(data.Country),
		"hourly_rate":  data.HourlyRate,
		"availability": data.Availability,
		"phone":        strings.TrimSpace(data.Phone),
		"skills":       dbmodels.StringList(normalizeSkills(data.Skills)),
	}
	if err = i.store.Update(rec.ID, updMap); err != nil {
		return profileapimodels.VAProfileView{}, errors.Wrap(err, "va profile update error")
	}
	return i.GetOwn(actor)
}

func (i impl) GetOwn(actor models.Actor) (profileapimodels.VAProfileView, error) {
	rec, err := i.own(actor)
	if err != nil {
		return profileapimodels.VAProfileView{}, err
	}
	return profileapimodels.VAProfileConvert(*rec), nil
}

func (i impl) GetPublic(id string) (profileapimodels.VAProfilePublicView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return profileapimodels.VAProfilePublicView{}, errors.Wrap(err, "va profile get error")
	}
	if rec == nil {
		return profileapimodels.VAProfilePublicView{}, apperrors.NewNotFound("va profile not found")
	}
	return profileapimodels.VAProfilePublicConvert(*rec), nil
}

func (i impl) List(filter profileapimodels.VAProfileFilter) ([]profileapimodels.VAProfilePublicView, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, apperrors.Validation(err)
	}
	rowCount, err := i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	list, err := i.store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "va profile list error")
	}
	result := make([]profileapimodels.VAProfilePublicView, 0, len(list))
	for _, rec := range list {
		result = append(result, profileapimodels.VAProfilePublicConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) UploadURL(ctx context.Context, actor models.Actor, data profileapimodels.UploadURLRequest) (profileapimodels.UploadURLResponse, error) {
	if err := data.Validate(); err != nil {
		return profileapimodels.UploadURLResponse{}, apperrors.Validation(err)
	}
	switch data.Kind {
	case models.FileKindAvatar, models.FileKindResume, models.FileKindPortfolio:
	case models.FileKindLogo:
		return profileapimodels.UploadURLResponse{}, apperrors.NewValidation("logo uploads belong to company profiles")
	default:
		return profileapimodels.UploadURLResponse{}, apperrors.NewValidation("unknown file kind")
	}
	res, err := i.storage.PresignUpload(ctx, actor.UserID, data.Kind, data.FileName, data.ContentType)
	if err != nil {
		return profileapimodels.UploadURLResponse{}, errors.Wrap(err, "upload url error")
	}
	return profileapimodels.UploadURLResponse{URL: res.URL, Key: res.Key, ExpiresIn: int(res.ExpiresIn.Seconds())}, nil
}

func (i impl) AttachFiles(actor models.Actor, data profileapimodels.VAFilesData) (profileapimodels.VAProfileView, error) {
	if err := data.Validate(); err != nil {
		return profileapimodels.VAProfileView{}, apperrors.Validation(err)
	}
	rec, err := i.own(actor)
	if err != nil {
		return profileapimodels.VAProfileView{}, err
	}
	updMap := map[string]interface{}{}
	if data.AvatarKey != nil {
		if !i.storage.OwnsKey(actor.UserID, models.FileKindAvatar, *data.AvatarKey) {
			return profileapimodels.VAProfileView{}, apperrors.NewValidation("avatar_key was not issued for this user")
		}
		updMap["avatar_key"] = *data.AvatarKey
	}
	if data.ResumeKey != nil {
		if !i.storage.OwnsKey(actor.UserID, models.FileKindResume, *data.ResumeKey) {
			return profileapimodels.VAProfileView{}, apperrors.NewValidation("resume_key was not issued for this user")
		}
		updMap["resume_key"] = *data.ResumeKey
	}
	if data.PortfolioKeys != nil {
		for _, key := range data.PortfolioKeys {
			if !i.storage.OwnsKey(actor.UserID, models.FileKindPortfolio, key) {
				return profileapimodels.VAProfileView{}, apperrors.NewValidation("portfolio_keys contain a key not issued for this user")
			}
		}
		updMap["portfolio_keys"] = dbmodels.StringList(data.PortfolioKeys)
	}
	if err = i.store.Update(rec.ID, updMap); err != nil {
		return profileapimodels.VAProfileView{}, errors.Wrap(err, "va profile files update error")
	}
	return i.GetOwn(actor)
}
