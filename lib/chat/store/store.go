package chatstore

import (
	"time"

	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ChatMessage) (*dbmodels.ChatMessage, error)
	Count(matchID string) (int64, error)
	// List returns one page counted from the newest message, ordered oldest first.
	List(matchID string, page apimodels.Pagination) ([]dbmodels.ChatMessage, error)
	MarkRead(matchID, readerUserID string, at time.Time) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ChatMessage) (*dbmodels.ChatMessage, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) Count(matchID string) (int64, error) {
	var rowCount int64
	err := i.db.
		Model(&dbmodels.ChatMessage{}).
		Where("match_id = ?", matchID).
		Count(&rowCount).
		Error
	return rowCount, err
}

func (i impl) List(matchID string, page apimodels.Pagination) ([]dbmodels.ChatMessage, error) {
	list := []dbmodels.ChatMessage{}
	limit, offset := page.Window()
	err := i.db.
		Model(&dbmodels.ChatMessage{}).
		Where("match_id = ?", matchID).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	for left, right := 0, len(list)-1; left < right; left, right = left+1, right-1 {
		list[left], list[right] = list[right], list[left]
	}
	return list, nil
}

func (i impl) MarkRead(matchID, readerUserID string, at time.Time) (int64, error) {
	tx := i.db.
		Model(&dbmodels.ChatMessage{}).
		Where("match_id = ? AND sender_user_id <> ? AND read_at IS NULL", matchID, readerUserID).
		Update("read_at", at)
	return tx.RowsAffected, tx.Error
}
