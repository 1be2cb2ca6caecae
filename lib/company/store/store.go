package companystore

import (
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Company) (*dbmodels.Company, error)
	GetByID(id string) (*dbmodels.Company, error)
	GetByUserID(userID string) (*dbmodels.Company, error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Company) (*dbmodels.Company, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.Company, error) {
	return i.first("id = ?", id)
}

func (i impl) GetByUserID(userID string) (*dbmodels.Company, error) {
	return i.first("user_id = ?", userID)
}

func (i impl) first(query string, args ...interface{}) (*dbmodels.Company, error) {
	rec := dbmodels.Company{}
	err := i.db.
		Model(&dbmodels.Company{}).
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
		Model(&dbmodels.Company{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("company not found")
	}
	return nil
}
