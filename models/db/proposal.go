package dbmodels

import "blytzwork-backend/models"

type Proposal struct {
	BaseModel
	JobPostingID string `gorm:"type:varchar(36);uniqueIndex:idx_proposal_pair"`
	VAProfileID  string `gorm:"column:va_profile_id;type:varchar(36);uniqueIndex:idx_proposal_pair"`
	CoverLetter  string
	BidRate      float64
	Status       models.ProposalStatus `gorm:"type:varchar(20)"`
}

func (Proposal) TableName() string {
	return "proposals"
}

type ProposalExt struct {
	Proposal
	JobTitle      string
	CompanyID     string
	CompanyUserID string
	VAName        string `gorm:"column:va_name"`
	VAUserID      string `gorm:"column:va_user_id"`
}
