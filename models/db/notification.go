package dbmodels

import "blytzwork-backend/models"

type Notification struct {
	BaseModel
	UserID   string                  `gorm:"type:varchar(36);index"`
	Code     models.NotificationCode `gorm:"type:varchar(50)"`
	Title    string                  `gorm:"type:varchar(255)"`
	Body     string
	EntityID string `gorm:"type:varchar(36)"`
	Read     bool   `gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

// PendingPush is a websocket event kept until the user connects.
type PendingPush struct {
	BaseModel
	UserID   string `gorm:"type:varchar(36);index"`
	Code     string `gorm:"type:varchar(50)"`
	EntityID string `gorm:"type:varchar(36)"`
	Msg      string
}

func (PendingPush) TableName() string {
	return "pending_pushes"
}
