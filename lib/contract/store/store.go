package contractstore

import (
	"blytzwork-backend/models"
	contractapimodels "blytzwork-backend/models/api/contract"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Contract) (*dbmodels.Contract, error)
	GetByID(id string) (*dbmodels.ContractExt, error)
	Update(id string, updMap map[string]interface{}) error
	ListCount(userID string, role models.UserRole, filter contractapimodels.ContractFilter) (int64, error)
	List(userID string, role models.UserRole, filter contractapimodels.ContractFilter) ([]dbmodels.ContractExt, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

const extSelect = "contracts.*, companies.name as company_name, companies.user_id as company_user_id, " +
	"va_profiles.name as va_name, va_profiles.user_id as va_user_id"

func (i impl) extQuery() *gorm.DB {
	return i.db.
		Model(&dbmodels.Contract{}).
		Select(extSelect).
		Joins("join companies on companies.id = contracts.company_id").
		Joins("join va_profiles on va_profiles.id = contracts.va_profile_id")
}

func (i impl) Create(rec dbmodels.Contract) (*dbmodels.Contract, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.ContractExt, error) {
	list := []dbmodels.ContractExt{}
	err := i.extQuery().
		Where("contracts.id = ?", id).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Contract{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("contract not found")
	}
	return nil
}

func (i impl) ListCount(userID string, role models.UserRole, filter contractapimodels.ContractFilter) (int64, error) {
	var rowCount int64
	tx := i.extQuery()
	i.addFilter(tx, userID, role, filter)
	if err := tx.Count(&rowCount).Error; err != nil {
		log.WithError(err).Error("contract count error")
		return 0, errors.New("contract count error")
	}
	return rowCount, nil
}

func (i impl) List(userID string, role models.UserRole, filter contractapimodels.ContractFilter) ([]dbmodels.ContractExt, error) {
	list := []dbmodels.ContractExt{}
	tx := i.extQuery()
	i.addFilter(tx, userID, role, filter)
	limit, offset := filter.Window()
	err := tx.
		Order("contracts.created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, userID string, role models.UserRole, filter contractapimodels.ContractFilter) {
	switch role {
	case models.UserRoleCompany:
		tx.Where("companies.user_id = ?", userID)
	case models.UserRoleVA:
		tx.Where("va_profiles.user_id = ?", userID)
	case models.UserRoleAdmin:
	default:
		tx.Where("1 = 0")
	}
	if filter.Status != "" {
		tx.Where("contracts.status = ?", filter.Status)
	}
}
