package contractapimodels

import (
	"time"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"
)

type MilestoneData struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=5000"`
	Amount      float64    `json:"amount" validate:"gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

func (r MilestoneData) Validate() error {
	return apimodels.ValidateStruct(r)
}

type MilestoneView struct {
	ID          string                 `json:"id"`
	ContractID  string                 `json:"contract_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Amount      float64                `json:"amount"`
	DueDate     *time.Time             `json:"due_date,omitempty"`
	Status      models.MilestoneStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
}

func MilestoneConvert(rec dbmodels.Milestone) MilestoneView {
	return MilestoneView{
		ID:          rec.ID,
		ContractID:  rec.ContractID,
		Title:       rec.Title,
		Description: rec.Description,
		Amount:      rec.Amount,
		DueDate:     rec.DueDate,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
	}
}
