package paymentstore

import (
	"time"

	"blytzwork-backend/models"
	paymentapimodels "blytzwork-backend/models/api/payment"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Target selects payments of one purpose made for one match or milestone.
type Target struct {
	Purpose     models.PaymentPurpose
	MatchID     string
	MilestoneID string
}

type Provider interface {
	Create(rec dbmodels.Payment) (*dbmodels.Payment, error)
	GetByID(id string) (*dbmodels.Payment, error)
	GetByProviderRef(providerRef string) (*dbmodels.Payment, error)
	// GetLatest returns the newest payment for the target in the status.
	GetLatest(target Target, status models.PaymentStatus) (*dbmodels.Payment, error)
	HasSucceeded(target Target) (bool, error)
	SetProviderRef(id, providerRef string) error
	// Transition updates the payment only while it is in the from status.
	Transition(id string, from, to models.PaymentStatus, updMap map[string]interface{}) (bool, error)
	ListCount(payerUserID string, filter paymentapimodels.PaymentFilter) (int64, error)
	List(payerUserID string, filter paymentapimodels.PaymentFilter) ([]dbmodels.Payment, error)
	ListPendingBefore(before time.Time, limit int) ([]dbmodels.Payment, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Payment) (*dbmodels.Payment, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.Payment, error) {
	return i.first(i.db.Where("id = ?", id))
}

func (i impl) GetByProviderRef(providerRef string) (*dbmodels.Payment, error) {
	if providerRef == "" {
		return nil, nil
	}
	return i.first(i.db.Where("provider_ref = ?", providerRef))
}

func (i impl) GetLatest(target Target, status models.PaymentStatus) (*dbmodels.Payment, error) {
	tx := i.targetQuery(target).Where("status = ?", status)
	return i.first(tx.Order("created_at desc"))
}

func (i impl) first(tx *gorm.DB) (*dbmodels.Payment, error) {
	rec := dbmodels.Payment{}
	err := tx.
		Model(&dbmodels.Payment{}).
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

func (i impl) targetQuery(target Target) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.Payment{}).
		Where("purpose = ?", target.Purpose)
	switch target.Purpose {
	case models.PaymentPurposeContactUnlock:
		tx = tx.Where("match_id = ?", target.MatchID)
	case models.PaymentPurposeMilestone:
		tx = tx.Where("milestone_id = ?", target.MilestoneID)
	default:
		tx = tx.Where("1 = 0")
	}
	return tx
}

func (i impl) HasSucceeded(target Target) (bool, error) {
	var count int64
	err := i.targetQuery(target).
		Where("status = ?", models.PaymentStatusSucceeded).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) SetProviderRef(id, providerRef string) error {
	tx := i.db.
		Model(&dbmodels.Payment{}).
		Where("id = ?", id).
		Update("provider_ref", providerRef)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("payment not found")
	}
	return nil
}

func (i impl) Transition(id string, from, to models.PaymentStatus, updMap map[string]interface{}) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, errors.Errorf("payment can not move from %s to %s", from, to)
	}
	values := map[string]interface{}{"status": to}
	for key, value := range updMap {
		values[key] = value
	}
	tx := i.db.
		Model(&dbmodels.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) ListCount(payerUserID string, filter paymentapimodels.PaymentFilter) (int64, error) {
	var rowCount int64
	tx := i.db.Model(&dbmodels.Payment{})
	i.addFilter(tx, payerUserID, filter)
	if err := tx.Count(&rowCount).Error; err != nil {
		log.WithError(err).Error("payment count error")
		return 0, errors.New("payment count error")
	}
	return rowCount, nil
}

func (i impl) List(payerUserID string, filter paymentapimodels.PaymentFilter) ([]dbmodels.Payment, error) {
	list := []dbmodels.Payment{}
	tx := i.db.Model(&dbmodels.Payment{})
	i.addFilter(tx, payerUserID, filter)
	limit, offset := filter.Window()
	err := tx.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// addFilter with an empty payer lists all payments.
func (i impl) addFilter(tx *gorm.DB, payerUserID string, filter paymentapimodels.PaymentFilter) {
	if payerUserID != "" {
		tx.Where("payer_user_id = ?", payerUserID)
	}
	if filter.Status != "" {
		tx.Where("status = ?", filter.Status)
	}
}

func (i impl) ListPendingBefore(before time.Time, limit int) ([]dbmodels.Payment, error) {
	list := []dbmodels.Payment{}
	err := i.db.
		Model(&dbmodels.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, before).
		Order("created_at").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
