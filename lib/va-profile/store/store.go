package vaprofilestore

import (
	"strings"

	profileapimodels "blytzwork-backend/models/api/profile"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.VAProfile) (*dbmodels.VAProfile, error)
	GetByID(id string) (*dbmodels.VAProfile, error)
	GetByUserID(userID string) (*dbmodels.VAProfile, error)
	Update(id string, updMap map[string]interface{}) error
	ListCount(filter profileapimodels.VAProfileFilter) (int64, error)
	List(filter profileapimodels.VAProfileFilter) ([]dbmodels.VAProfile, error)
	// ListNotVoted returns available profiles without a vote row for the job posting.
	ListNotVoted(jobPostingID string, limit int) ([]dbmodels.VAProfile, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.VAProfile) (*dbmodels.VAProfile, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.VAProfile, error) {
	return i.first("id = ?", id)
}

func (i impl) GetByUserID(userID string) (*dbmodels.VAProfile, error) {
	return i.first("user_id = ?", userID)
}

func (i impl) first(query string, args ...interface{}) (*dbmodels.VAProfile, error) {
	rec := dbmodels.VAProfile{}
	err := i.db.
		Model(&dbmodels.VAProfile{}).
		Where(query, args...).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.VAProfile{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("va profile not found")
	}
	return nil
}

func (i impl) ListCount(filter profileapimodels.VAProfileFilter) (int64, error) {
	var rowCount int64
	tx := i.db.Model(&dbmodels.VAProfile{})
	i.addFilter(tx, filter)
	if err := tx.Count(&rowCount).Error; err != nil {
		log.WithError(err).Error("va profile count error")
		return 0, errors.Wrap(err, "va profile count error")
	}
	return rowCount, nil
}

func (i impl) List(filter profileapimodels.VAProfileFilter) (list []dbmodels.VAProfile, err error) {
	list = []dbmodels.VAProfile{}
	tx := i.db.Model(&dbmodels.VAProfile{})
	i.addFilter(tx, filter)
	limit, offset := filter.Window()
	err = tx.
		Order("created_at desc").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter profileapimodels.VAProfileFilter) {
	if skill := strings.TrimSpace(filter.Skill); skill != "" {
		tx.Where("lower(skills) LIKE ?", "%\""+strings.ToLower(skill)+"\"%")
	}
	if country := strings.TrimSpace(filter.Country); country != "" {
		tx.Where("lower(country) = ?", strings.ToLower(country))
	}
	if filter.MaxHourlyRate != nil {
		tx.Where("hourly_rate <= ?", *filter.MaxHourlyRate)
	}
	if filter.AvailableOnly {
		tx.Where("availability = ?", true)
	}
}

func (i impl) ListNotVoted(jobPostingID string, limit int) (list []dbmodels.VAProfile, err error) {
	list = []dbmodels.VAProfile{}
	voted := i.db.
		Model(&dbmodels.MatchVote{}).
		Select("va_profile_id").
		Where("job_posting_id = ?", jobPostingID)
	err = i.db.
		Model(&dbmodels.VAProfile{}).
		Where("availability = ?", true).
		Where("id NOT IN (?)", voted).
		Order("country asc").
		Order("hourly_rate asc").
		Order("id asc").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
