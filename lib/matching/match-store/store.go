package matchstore

import (
	"blytzwork-backend/models"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	// CreateIfAbsent inserts the match unless the pair already has one and returns the stored match.
	CreateIfAbsent(jobPostingID, vaProfileID string) (rec *dbmodels.Match, created bool, err error)
	GetByID(id string) (*dbmodels.MatchExt, error)
	GetByPair(jobPostingID, vaProfileID string) (*dbmodels.Match, error)
	// List returns matches visible to the user, newest first. Admins see all matches.
	List(userID string, role models.UserRole) ([]dbmodels.MatchExt, error)
	SetContactUnlocked(id string, unlocked bool) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

const extSelect = "matches.*, job_postings.title as job_title, companies.id as company_id, " +
	"companies.name as company_name, companies.user_id as company_user_id, " +
	"va_profiles.name as va_name, va_profiles.user_id as va_user_id"

func (i impl) extQuery() *gorm.DB {
	return i.db.
		Model(&dbmodels.Match{}).
		Select(extSelect).
		Joins("join job_postings on job_postings.id = matches.job_posting_id").
		Joins("join companies on companies.id = job_postings.company_id").
		Joins("join va_profiles on va_profiles.id = matches.va_profile_id")
}

func (i impl) CreateIfAbsent(jobPostingID, vaProfileID string) (*dbmodels.Match, bool, error) {
	rec := dbmodels.Match{
		JobPostingID: jobPostingID,
		VAProfileID:  vaProfileID,
	}
	tx := i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_posting_id"}, {Name: "va_profile_id"}},
			DoNothing: true,
		}).
		Create(&rec)
	if tx.Error != nil {
		return nil, false, tx.Error
	}
	if tx.RowsAffected == 1 {
		return &rec, true, nil
	}
	stored, err := i.GetByPair(jobPostingID, vaProfileID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, errors.New("match not found after conflict")
	}
	return stored, false, nil
}

func (i impl) GetByID(id string) (*dbmodels.MatchExt, error) {
	list := []dbmodels.MatchExt{}
	err := i.extQuery().
		Where("matches.id = ?", id).
		Limit(1).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (i impl) GetByPair(jobPostingID, vaProfileID string) (*dbmodels.Match, error) {
	rec := dbmodels.Match{}
	err := i.db.
		Model(&dbmodels.Match{}).
		Where("job_posting_id = ? AND va_profile_id = ?", jobPostingID, vaProfileID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(userID string, role models.UserRole) ([]dbmodels.MatchExt, error) {
	list := []dbmodels.MatchExt{}
	tx := i.extQuery()
	switch role {
	case models.UserRoleCompany:
		tx = tx.Where("companies.user_id = ?", userID)
	case models.UserRoleVA:
		tx = tx.Where("va_profiles.user_id = ?", userID)
	case models.UserRoleAdmin:
	default:
		return list, nil
	}
	err := tx.
		Order("matches.created_at desc").
		Order("matches.id desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) SetContactUnlocked(id string, unlocked bool) error {
	tx := i.db.
		Model(&dbmodels.Match{}).
		Where("id = ?", id).
		Update("contact_unlocked", unlocked)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("match not found")
	}
	return nil
}
