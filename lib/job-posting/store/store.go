package jobpostingstore

import (
	"strings"

	"blytzwork-backend/models"
	jobapimodels "blytzwork-backend/models/api/job"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.JobPosting) (*dbmodels.JobPosting, error)
	GetByID(id string) (*dbmodels.JobPostingExt, error)
	// GetOwned returns nil when the posting does not exist or belongs to another company user.
	GetOwned(id, companyUserID string) (*dbmodels.JobPostingExt, error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	ListCount(filter jobapimodels.JobPostingFilter) (int64, error)
	List(filter jobapimodels.JobPostingFilter) ([]dbmodels.JobPostingExt, error)
	ListByCompany(companyID string) ([]dbmodels.JobPostingExt, error)
	// ListNotVotedByVA returns open postings without a VA side vote from the profile.
	ListNotVotedByVA(vaProfileID string, limit int) ([]dbmodels.JobPostingExt, error)
	HasDependents(id string) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

const extSelect = "job_postings.*, companies.name as company_name, companies.user_id as company_user_id"

func (i impl) extQuery() *gorm.DB {
	return i.db.
		Model(&dbmodels.JobPosting{}).
		Select(extSelect).
		Joins("join companies on companies.id = job_postings.company_id")
}

func (i impl) Create(rec dbmodels.JobPosting) (*dbmodels.JobPosting, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.JobPostingExt, error) {
	return i.first(i.extQuery().Where("job_postings.id = ?", id))
}

func (i impl) GetOwned(id, companyUserID string) (*dbmodels.JobPostingExt, error) {
	return i.first(i.extQuery().
		Where("job_postings.id = ?", id).
		Where("companies.user_id = ?", companyUserID))
}

func (i impl) first(tx *gorm.DB) (*dbmodels.JobPostingExt, error) {
	list := []dbmodels.JobPostingExt{}
	if err := tx.Limit(1).Find(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.JobPosting{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("job posting not found")
	}
	return nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.JobPosting{}).
		Error
}

func (i impl) ListCount(filter jobapimodels.JobPostingFilter) (int64, error) {
	var rowCount int64
	tx := i.db.
		Model(&dbmodels.JobPosting{}).
		Joins("join companies on companies.id = job_postings.company_id")
	i.addFilter(tx, filter)
	if err := tx.Count(&rowCount).Error; err != nil {
		log.WithError(err).Error("job posting count error")
		return 0, errors.Wrap(err, "job posting count error")
	}
	return rowCount, nil
}

func (i impl) List(filter jobapimodels.JobPostingFilter) (list []dbmodels.JobPostingExt, err error) {
	list = []dbmodels.JobPostingExt{}
	tx := i.extQuery()
	i.addFilter(tx, filter)
	limit, offset := filter.Window()
	err = tx.
		Order("job_postings.created_at desc").
		Order("job_postings.id").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter jobapimodels.JobPostingFilter) {
	status := filter.Status
	if status == "" {
		status = models.JobPostingStatusOpen
	}
	tx.Where("job_postings.status = ?", status)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx.Where("(lower(job_postings.title) LIKE ? OR lower(job_postings.description) LIKE ?)", like, like)
	}
	if skill := strings.TrimSpace(filter.Skill); skill != "" {
		tx.Where("lower(job_postings.skills) LIKE ?", "%\""+strings.ToLower(skill)+"\"%")
	}
	if filter.EmploymentType != "" {
		tx.Where("job_postings.employment_type = ?", filter.EmploymentType)
	}
	if filter.MinRate != nil {
		tx.Where("job_postings.rate_max >= ?", *filter.MinRate)
	}
	if filter.CompanyID != "" {
		tx.Where("job_postings.company_id = ?", filter.CompanyID)
	}
}

func (i impl) ListByCompany(companyID string) (list []dbmodels.JobPostingExt, err error) {
	list = []dbmodels.JobPostingExt{}
	err = i.extQuery().
		Where("job_postings.company_id = ?", companyID).
		Order("job_postings.created_at desc").
		Order("job_postings.id").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListNotVotedByVA(vaProfileID string, limit int) (list []dbmodels.JobPostingExt, err error) {
	list = []dbmodels.JobPostingExt{}
	voted := i.db.
		Model(&dbmodels.MatchVote{}).
		Select("job_posting_id").
		Where("va_profile_id = ?", vaProfileID).
		Where("vote_by_va IS NOT NULL")
	err = i.extQuery().
		Where("job_postings.status = ?", models.JobPostingStatusOpen).
		Where("job_postings.id NOT IN (?)", voted).
		Order("job_postings.created_at desc").
		Order("job_postings.id").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) HasDependents(id string) (bool, error) {
	var count int64
	if err := i.db.Model(&dbmodels.Match{}).Where("job_posting_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := i.db.Model(&dbmodels.Contract{}).Where("job_posting_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
