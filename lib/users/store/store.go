package usersstore

import (
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.User) (*dbmodels.User, error)
	GetByID(id string) (*dbmodels.User, error)
	GetByFirebaseUID(uid string) (*dbmodels.User, error)
	GetByEmail(email string) (*dbmodels.User, error)
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

func (i impl) Create(rec dbmodels.User) (*dbmodels.User, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.User, error) {
	return i.first("id = ?", id)
}

func (i impl) GetByFirebaseUID(uid string) (*dbmodels.User, error) {
	return i.first("firebase_uid = ?", uid)
}

func (i impl) GetByEmail(email string) (*dbmodels.User, error) {
	return i.first("lower(email) = lower(?)", email)
}

func (i impl) first(query string, args ...interface{}) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Model(&dbmodels.User{}).
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
		Model(&dbmodels.User{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}
