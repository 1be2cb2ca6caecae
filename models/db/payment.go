package dbmodels

import (
	"time"

	"blytzwork-backend/models"

	"github.com/pkg/errors"
)

type Payment struct {
	BaseModel
	PayerUserID   string                `gorm:"type:varchar(36);index"`
	Purpose       models.PaymentPurpose `gorm:"type:varchar(30)"`
	MatchID       *string               `gorm:"type:varchar(36);index"`
	ContractID    *string               `gorm:"type:varchar(36);index"`
	MilestoneID   *string               `gorm:"type:varchar(36);index"`
	AmountCents   int64
	Currency      string               `gorm:"type:varchar(3)"`
	Status        models.PaymentStatus `gorm:"type:varchar(20);index"`
	Provider      string               `gorm:"type:varchar(30)"`
	ProviderRef   string               `gorm:"type:varchar(255);index"`
	PaidAt        *time.Time
	RefundedAt    *time.Time
	FailureReason string
}

func (Payment) TableName() string {
	return "payments"
}

func (p Payment) Validate() error {
	if p.PayerUserID == "" {
		return errors.New("payer is not set")
	}
	if p.Status == "" {
		return errors.New("status is empty")
	}
	if p.AmountCents <= 0 {
		return errors.New("amount is not set")
	}
	switch p.Purpose {
	case models.PaymentPurposeContactUnlock:
		if p.MatchID == nil {
			return errors.New("match is not set")
		}
	case models.PaymentPurposeMilestone:
		if p.MilestoneID == nil || p.ContractID == nil {
			return errors.New("milestone is not set")
		}
	default:
		return errors.Errorf("unknown payment purpose %q", p.Purpose)
	}
	return nil
}
