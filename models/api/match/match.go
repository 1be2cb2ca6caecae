package matchapimodels

import (
	"time"

	apimodels "blytzwork-backend/models/api"
	jobapimodels "blytzwork-backend/models/api/job"
	profileapimodels "blytzwork-backend/models/api/profile"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
)

type VoteRequest struct {
	JobPostingID string `json:"job_posting_id" validate:"required,max=36"`
	VAProfileID  string `json:"va_profile_id" validate:"required,max=36"`
	Vote         *bool  `json:"vote"`
}

func (r VoteRequest) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.Vote == nil {
		return errors.New("vote is required")
	}
	return nil
}

type VoteResult struct {
	Vote    bool    `json:"vote"`
	Matched bool    `json:"matched"`
	MatchID *string `json:"match_id,omitempty"`
}

// MatchView never carries contact fields.
type MatchView struct {
	ID              string    `json:"id"`
	JobPostingID    string    `json:"job_posting_id"`
	JobTitle        string    `json:"job_title"`
	CompanyID       string    `json:"company_id"`
	CompanyName     string    `json:"company_name"`
	VAProfileID     string    `json:"va_profile_id"`
	VAName          string    `json:"va_name"`
	ContactUnlocked bool      `json:"contact_unlocked"`
	CreatedAt       time.Time `json:"created_at"`
}

func MatchConvert(rec dbmodels.MatchExt) MatchView {
	return MatchView{
		ID:              rec.ID,
		JobPostingID:    rec.JobPostingID,
		JobTitle:        rec.JobTitle,
		CompanyID:       rec.CompanyID,
		CompanyName:     rec.CompanyName,
		VAProfileID:     rec.VAProfileID,
		VAName:          rec.VAName,
		ContactUnlocked: rec.ContactUnlocked,
		CreatedAt:       rec.CreatedAt,
	}
}

type PartyContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type ContactInfo struct {
	MatchID string       `json:"match_id"`
	Company PartyContact `json:"company"`
	VA      PartyContact `json:"va"`
}

type Recommendations struct {
	JobPostingID string                                 `json:"job_posting_id"`
	Items        []profileapimodels.VAProfilePublicView `json:"items"`
}

type JobDiscovery struct {
	VAProfileID string                        `json:"va_profile_id"`
	Items       []jobapimodels.JobPostingView `json:"items"`
}
