package dbmodels

import (
	"time"

	"blytzwork-backend/models"
)

type Contract struct {
	BaseModel
	JobPostingID string              `gorm:"type:varchar(36);index"`
	CompanyID    string              `gorm:"type:varchar(36);index"`
	VAProfileID  string              `gorm:"column:va_profile_id;type:varchar(36);index"`
	ProposalID   *string             `gorm:"type:varchar(36)"`
	MatchID      *string             `gorm:"type:varchar(36)"`
	Title        string              `gorm:"type:varchar(255)"`
	Type         models.ContractType `gorm:"type:varchar(20)"`
	Amount       float64
	HourlyRate   float64
	StartDate    time.Time
	EndDate      *time.Time
	Status       models.ContractStatus `gorm:"type:varchar(20);index"`
}

func (Contract) TableName() string {
	return "contracts"
}

type ContractExt struct {
	Contract
	CompanyName   string
	CompanyUserID string
	VAName        string `gorm:"column:va_name"`
	VAUserID      string `gorm:"column:va_user_id"`
}

func (c ContractExt) IsParty(userID string) bool {
	return userID != "" && (c.CompanyUserID == userID || c.VAUserID == userID)
}

type Milestone struct {
	BaseModel
	ContractID  string `gorm:"type:varchar(36);index"`
	Title       string `gorm:"type:varchar(255)"`
	Description string
	Amount      float64
	DueDate     *time.Time
	Status      models.MilestoneStatus `gorm:"type:varchar(20)"`
}

func (Milestone) TableName() string {
	return "milestones"
}
