package notificationapimodels

import (
	"time"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"
)

type NotificationView struct {
	ID        string                  `json:"id"`
	Code      models.NotificationCode `json:"code"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body"`
	EntityID  string                  `json:"entity_id,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

func NotificationConvert(rec dbmodels.Notification) NotificationView {
	return NotificationView{
		ID:        rec.ID,
		Code:      rec.Code,
		Title:     rec.Title,
		Body:      rec.Body,
		EntityID:  rec.EntityID,
		Read:      rec.Read,
		CreatedAt: rec.CreatedAt,
	}
}

type NotificationFilter struct {
	apimodels.Pagination
	UnreadOnly bool `json:"unread_only" query:"unread_only"`
}

type ChatMessageData struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

func (r ChatMessageData) Validate() error {
	return apimodels.ValidateStruct(r)
}

type ChatMessageView struct {
	ID           string     `json:"id"`
	MatchID      string     `json:"match_id"`
	SenderUserID string     `json:"sender_user_id"`
	Body         string     `json:"body"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ChatMessageConvert(rec dbmodels.ChatMessage) ChatMessageView {
	return ChatMessageView{
		ID:           rec.ID,
		MatchID:      rec.MatchID,
		SenderUserID: rec.SenderUserID,
		Body:         rec.Body,
		ReadAt:       rec.ReadAt,
		CreatedAt:    rec.CreatedAt,
	}
}
