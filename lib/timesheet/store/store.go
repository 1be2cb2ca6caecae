package timesheetstore

import (
	"blytzwork-backend/models"
	contractapimodels "blytzwork-backend/models/api/contract"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Timesheet) (*dbmodels.Timesheet, error)
	GetByID(id string) (*dbmodels.Timesheet, error)
	List(contractID string, filter contractapimodels.TimesheetFilter) ([]dbmodels.Timesheet, error)
	// SetStatus returns false when the entry was not in the from status.
	SetStatus(id string, from, to models.TimesheetStatus) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Timesheet) (*dbmodels.Timesheet, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.Timesheet, error) {
	rec := dbmodels.Timesheet{}
	err := i.db.
		Model(&dbmodels.Timesheet{}).
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

func (i impl) List(contractID string, filter contractapimodels.TimesheetFilter) ([]dbmodels.Timesheet, error) {
	list := []dbmodels.Timesheet{}
	tx := i.db.
		Model(&dbmodels.Timesheet{}).
		Where("contract_id = ?", contractID)
	i.addFilter(tx, filter)
	err := tx.
		Order("work_date").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter contractapimodels.TimesheetFilter) {
	if filter.From != nil {
		tx.Where("work_date >= ?", *filter.From)
	}
	if filter.To != nil {
		tx.Where("work_date <= ?", *filter.To)
	}
	if filter.Status != "" {
		tx.Where("status = ?", filter.Status)
	}
}

func (i impl) SetStatus(id string, from, to models.TimesheetStatus) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Timesheet{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
