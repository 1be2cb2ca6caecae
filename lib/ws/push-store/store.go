package pushstore

import (
	dbmodels "blytzwork-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.PendingPush) error
	List(userID string) ([]dbmodels.PendingPush, error)
	Delete(ids []string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PendingPush) error {
	return i.db.
		Create(&rec).
		Error
}

func (i impl) List(userID string) (list []dbmodels.PendingPush, err error) {
	err = i.db.
		Model(dbmodels.PendingPush{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.Where("id IN ?", ids).Delete(&dbmodels.PendingPush{}).Error
}
