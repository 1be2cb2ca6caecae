package proposalapimodels

import (
	"time"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	contractapimodels "blytzwork-backend/models/api/contract"
	dbmodels "blytzwork-backend/models/db"
)

type ProposalData struct {
	CoverLetter string  `json:"cover_letter" validate:"required,max=10000"`
	BidRate     float64 `json:"bid_rate" validate:"gt=0,lte=1000"`
}

func (r ProposalData) Validate() error {
	return apimodels.ValidateStruct(r)
}

type ProposalView struct {
	ID           string                `json:"id"`
	JobPostingID string                `json:"job_posting_id"`
	JobTitle     string                `json:"job_title,omitempty"`
	VAProfileID  string                `json:"va_profile_id"`
	VAName       string                `json:"va_name,omitempty"`
	CoverLetter  string                `json:"cover_letter"`
	BidRate      float64               `json:"bid_rate"`
	Status       models.ProposalStatus `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
}

func ProposalConvert(rec dbmodels.Proposal) ProposalView {
	return ProposalView{
		ID:           rec.ID,
		JobPostingID: rec.JobPostingID,
		VAProfileID:  rec.VAProfileID,
		CoverLetter:  rec.CoverLetter,
		BidRate:      rec.BidRate,
		Status:       rec.Status,
		CreatedAt:    rec.CreatedAt,
	}
}

func ProposalExtConvert(rec dbmodels.ProposalExt) ProposalView {
	view := ProposalConvert(rec.Proposal)
	view.JobTitle = rec.JobTitle
	view.VAName = rec.VAName
	return view
}

// AcceptProposal carries the terms of the contract created on acceptance.
type AcceptProposal struct {
	contractapimodels.ContractTerms
}

func (r AcceptProposal) Validate() error {
	return r.ContractTerms.Validate()
}

type AcceptProposalResponse struct {
	ProposalID string `json:"proposal_id"`
	ContractID string `json:"contract_id"`
}
