package proposalstore

import (
	"blytzwork-backend/models"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Proposal) (*dbmodels.Proposal, error)
	GetByID(id string) (*dbmodels.ProposalExt, error)
	GetByPair(jobPostingID, vaProfileID string) (*dbmodels.Proposal, error)
	ListByJob(jobPostingID string) ([]dbmodels.ProposalExt, error)
	ListByVA(vaProfileID string) ([]dbmodels.ProposalExt, error)
	// SetStatus returns false when the proposal was not in the from status.
	SetStatus(id string, from, to models.ProposalStatus) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

const extSelect = "proposals.*, job_postings.title as job_title, job_postings.company_id as company_id, " +
	"companies.user_id as company_user_id, va_profiles.name as va_name, va_profiles.user_id as va_user_id"

func (i impl) extQuery() *gorm.DB {
	return i.db.
		Model(&dbmodels.Proposal{}).
		Select(extSelect).
		Joins("join job_postings on job_postings.id = proposals.job_posting_id").
		Joins("join companies on companies.id = job_postings.company_id").
		Joins("join va_profiles on va_profiles.id = proposals.va_profile_id")
}

func (i impl) Create(rec dbmodels.Proposal) (*dbmodels.Proposal, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.ProposalExt, error) {
	list := []dbmodels.ProposalExt{}
	err := i.extQuery().
		Where("proposals.id = ?", id).
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

func (i impl) GetByPair(jobPostingID, vaProfileID string) (*dbmodels.Proposal, error) {
	rec := dbmodels.Proposal{}
	err := i.db.
		Model(&dbmodels.Proposal{}).
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

func (i impl) ListByJob(jobPostingID string) ([]dbmodels.ProposalExt, error) {
	return i.list(i.extQuery().Where("proposals.job_posting_id = ?", jobPostingID))
}

func (i impl) ListByVA(vaProfileID string) ([]dbmodels.ProposalExt, error) {
	return i.list(i.extQuery().Where("proposals.va_profile_id = ?", vaProfileID))
}

func (i impl) list(tx *gorm.DB) ([]dbmodels.ProposalExt, error) {
	list := []dbmodels.ProposalExt{}
	err := tx.
		Order("proposals.created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) SetStatus(id string, from, to models.ProposalStatus) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Proposal{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
