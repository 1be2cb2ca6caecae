package milestonestore

import (
	"blytzwork-backend/models"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Milestone) (*dbmodels.Milestone, error)
	GetByID(id string) (*dbmodels.Milestone, error)
	ListByContract(contractID string) ([]dbmodels.Milestone, error)
	TotalAmount(contractID string) (float64, error)
	// SetStatus moves the milestone from one status to another. Returns false when it was not in the from status.
	SetStatus(id string, from, to models.MilestoneStatus) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Milestone) (*dbmodels.Milestone, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.Milestone, error) {
	rec := dbmodels.Milestone{}
	err := i.db.
		Model(&dbmodels.Milestone{}).
		Where("id = ?", id).
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

func (i impl) ListByContract(contractID string) ([]dbmodels.Milestone, error) {
	list := []dbmodels.Milestone{}
	err := i.db.
		Model(&dbmodels.Milestone{}).
		Where("contract_id = ?", contractID).
		Order("created_at").
		Order("id").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) TotalAmount(contractID string) (float64, error) {
	var total float64
	err := i.db.
		Model(&dbmodels.Milestone{}).
		Select("coalesce(sum(amount), 0)").
		Where("contract_id = ?", contractID).
		Scan(&total).
		Error
	return total, err
}

func (i impl) SetStatus(id string, from, to models.MilestoneStatus) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Milestone{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
