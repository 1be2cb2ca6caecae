package contractapimodels

import (
	"time"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
)

// ContractTerms is shared by direct contract creation and proposal acceptance.
type ContractTerms struct {
	Title      string              `json:"title" validate:"required,max=255"`
	Type       models.ContractType `json:"type" validate:"required"`
	Amount     float64             `json:"amount" validate:"gte=0"`
	HourlyRate float64             `json:"hourly_rate" validate:"gte=0"`
	StartDate  time.Time           `json:"start_date" validate:"required"`
	EndDate    *time.Time          `json:"end_date"`
	Milestones []MilestoneData     `json:"milestones" validate:"max=50,dive"`
}

func (r ContractTerms) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	switch r.Type {
	case models.ContractTypeFixed:
		if r.Amount <= 0 {
			return errors.New("amount is required for a fixed contract")
		}
	case models.ContractTypeHourly:
		if r.HourlyRate <= 0 {
			return errors.New("hourly_rate is required for an hourly contract")
		}
		if len(r.Milestones) > 0 {
			return errors.New("milestones are only allowed for a fixed contract")
		}
	default:
		return errors.Errorf("unknown contract type %q", r.Type)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	var total float64
	for _, item := range r.Milestones {
		if err := item.Validate(); err != nil {
			return err
		}
		total += item.Amount
	}
	if len(r.Milestones) > 0 && total > r.Amount {
		return errors.New("milestones total exceeds the contract amount")
	}
	return nil
}

type ContractData struct {
	ContractTerms
	MatchID string `json:"match_id" validate:"required"`
}

func (r ContractData) Validate() error {
	if r.MatchID == "" {
		return errors.New("match_id is required")
	}
	return r.ContractTerms.Validate()
}

type ContractView struct {
	ID           string                `json:"id"`
	JobPostingID string                `json:"job_posting_id"`
	CompanyID    string                `json:"company_id"`
	CompanyName  string                `json:"company_name,omitempty"`
	VAProfileID  string                `json:"va_profile_id"`
	VAName       string                `json:"va_name,omitempty"`
	ProposalID   *string               `json:"proposal_id,omitempty"`
	MatchID      *string               `json:"match_id,omitempty"`
	Title        string                `json:"title"`
	Type         models.ContractType   `json:"type"`
	Amount       float64               `json:"amount"`
	HourlyRate   float64               `json:"hourly_rate"`
	StartDate    time.Time             `json:"start_date"`
	EndDate      *time.Time            `json:"end_date,omitempty"`
	Status       models.ContractStatus `json:"status"`
	Milestones   []MilestoneView       `json:"milestones,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

func ContractConvert(rec dbmodels.ContractExt) ContractView {
	return ContractView{
		ID:           rec.ID,
		JobPostingID: rec.JobPostingID,
		CompanyID:    rec.CompanyID,
		CompanyName:  rec.CompanyName,
		VAProfileID:  rec.VAProfileID,
		VAName:       rec.VAName,
		ProposalID:   rec.ProposalID,
		MatchID:      rec.MatchID,
		Title:        rec.Title,
		Type:         rec.Type,
		Amount:       rec.Amount,
		HourlyRate:   rec.HourlyRate,
		StartDate:    rec.StartDate,
		EndDate:      rec.EndDate,
		Status:       rec.Status,
		CreatedAt:    rec.CreatedAt,
	}
}

type ContractStatusChange struct {
	Status models.ContractStatus `json:"status" validate:"required"`
}

func (r ContractStatusChange) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.Status != models.ContractStatusCompleted && r.Status != models.ContractStatusCancelled {
		return errors.Errorf("status %q can not be set", r.Status)
	}
	return nil
}

type ContractFilter struct {
	apimodels.Pagination
	Status models.ContractStatus `json:"status" query:"status"`
}
