package paymentapimodels

import (
	"time"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
)

type PaymentIntentResponse struct {
	PaymentID    string `json:"payment_id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
}

type PaymentConfirm struct {
	AmountCents int64 `json:"amount_cents" validate:"gt=0"`
}

func (r PaymentConfirm) Validate() error {
	return apimodels.ValidateStruct(r)
}

type PaymentView struct {
	ID            string                `json:"id"`
	PayerUserID   string                `json:"payer_user_id"`
	Purpose       models.PaymentPurpose `json:"purpose"`
	MatchID       *string               `json:"match_id,omitempty"`
	ContractID    *string               `json:"contract_id,omitempty"`
	MilestoneID   *string               `json:"milestone_id,omitempty"`
	AmountCents   int64                 `json:"amount_cents"`
	Currency      string                `json:"currency"`
	Status        models.PaymentStatus  `json:"status"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	RefundedAt    *time.Time            `json:"refunded_at,omitempty"`
	FailureReason string                `json:"failure_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

func PaymentConvert(rec dbmodels.Payment) PaymentView {
	return PaymentView{
		ID:            rec.ID,
		PayerUserID:   rec.PayerUserID,
		Purpose:       rec.Purpose,
		MatchID:       rec.MatchID,
		ContractID:    rec.ContractID,
		MilestoneID:   rec.MilestoneID,
		AmountCents:   rec.AmountCents,
		Currency:      rec.Currency,
		Status:        rec.Status,
		PaidAt:        rec.PaidAt,
		RefundedAt:    rec.RefundedAt,
		FailureReason: rec.FailureReason,
		CreatedAt:     rec.CreatedAt,
	}
}

type PaymentFilter struct {
	apimodels.Pagination
	Status models.PaymentStatus `json:"status" query:"status"`
}

func (f PaymentFilter) Validate() error {
	if f.Status != "" && !f.Status.IsValid() {
		return errors.Errorf("unknown payment status %q", f.Status)
	}
	return nil
}
