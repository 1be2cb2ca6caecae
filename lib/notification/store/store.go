package notificationstore

import (
	notificationapimodels "blytzwork-backend/models/api/notification"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Notification) (*dbmodels.Notification, error)
	ListCount(userID string, filter notificationapimodels.NotificationFilter) (int64, error)
	List(userID string, filter notificationapimodels.NotificationFilter) ([]dbmodels.Notification, error)
	MarkRead(userID, id string) (found bool, err error)
	MarkAllRead(userID string) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) (*dbmodels.Notification, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) query(userID string, filter notificationapimodels.NotificationFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.Notification{}).
		Where("user_id = ?", userID)
	if filter.UnreadOnly {
		tx = tx.Where("read = ?", false)
	}
	return tx
}

func (i impl) ListCount(userID string, filter notificationapimodels.NotificationFilter) (int64, error) {
	var rowCount int64
	if err := i.query(userID, filter).Count(&rowCount).Error; err != nil {
		return 0, errors.Wrap(err, "notification count error")
	}
	return rowCount, nil
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) (list []dbmodels.Notification, err error) {
	list = []dbmodels.Notification{}
	limit, offset := filter.Window()
	err = i.query(userID, filter).
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

func (i impl) MarkRead(userID, id string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	err = i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).
		Error
	return err == nil, err
}

func (i impl) MarkAllRead(userID string) (int64, error) {
	tx := i.db.
		Model(&dbmodels.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return tx.RowsAffected, tx.Error
}
