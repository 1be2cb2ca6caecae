package jobapimodels

import (
	"strings"
	"time"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
)

type JobPostingData struct {
	Title          string                `json:"title" validate:"required,max=255"`
	Description    string                `json:"description" validate:"required,max=20000"`
	Skills         []string              `json:"skills" validate:"max=50,dive,max=100"`
	EmploymentType models.EmploymentType `json:"employment_type" validate:"required"`
	RateMin        float64               `json:"rate_min" validate:"gte=0"`
	RateMax        float64               `json:"rate_max" validate:"gte=0"`
}

func (r JobPostingData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.EmploymentType.IsValid() {
		return errors.Errorf("unknown employment type %q", r.EmploymentType)
	}
	if r.RateMax > 0 && r.RateMin > r.RateMax {
		return errors.New("rate_min must not exceed rate_max")
	}
	for _, skill := range r.Skills {
		if strings.TrimSpace(skill) == "" {
			return errors.New("skills must not contain empty values")
		}
	}
	return nil
}

type JobPostingView struct {
	ID             string                  `json:"id"`
	CompanyID      string                  `json:"company_id"`
	CompanyName    string                  `json:"company_name,omitempty"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Skills         []string                `json:"skills"`
	EmploymentType models.EmploymentType   `json:"employment_type"`
	RateMin        float64                 `json:"rate_min"`
	RateMax        float64                 `json:"rate_max"`
	Status         models.JobPostingStatus `json:"status"`
	CreatedAt      time.Time               `json:"created_at"`
}

func JobPostingConvert(rec dbmodels.JobPosting) JobPostingView {
	skills := rec.Skills
	if skills == nil {
		skills = []string{}
	}
	return JobPostingView{
		ID:             rec.ID,
		CompanyID:      rec.CompanyID,
		Title:          rec.Title,
		Description:    rec.Description,
		Skills:         skills,
		EmploymentType: rec.EmploymentType,
		RateMin:        rec.RateMin,
		RateMax:        rec.RateMax,
		Status:         rec.Status,
		CreatedAt:      rec.CreatedAt,
	}
}

func JobPostingExtConvert(rec dbmodels.JobPostingExt) JobPostingView {
	view := JobPostingConvert(rec.JobPosting)
	view.CompanyName = rec.CompanyName
	return view
}

type JobPostingFilter struct {
	apimodels.Pagination
	Search         string                  `json:"search"`
	Skill          string                  `json:"skill"`
	Status         models.JobPostingStatus `json:"status"`
	EmploymentType models.EmploymentType   `json:"employment_type"`
	MinRate        *float64                `json:"min_rate"`
	CompanyID      string                  `json:"company_id"`
}

func (f JobPostingFilter) Validate() error {
	if f.Status != "" && f.Status != models.JobPostingStatusOpen && f.Status != models.JobPostingStatusClosed {
		return errors.Errorf("unknown status %q", f.Status)
	}
	if f.EmploymentType != "" && !f.EmploymentType.IsValid() {
		return errors.Errorf("unknown employment type %q", f.EmploymentType)
	}
	return nil
}
