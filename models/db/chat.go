package dbmodels

import "time"

type ChatMessage struct {
	BaseModel
	MatchID      string `gorm:"type:varchar(36);index"`
	SenderUserID string `gorm:"type:varchar(36)"`
	Body         string
	ReadAt       *time.Time
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
