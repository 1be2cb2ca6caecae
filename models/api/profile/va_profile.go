package profileapimodels

import (
	"strings"
	"time"

	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
)

type VAProfileData struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Bio          string   `json:"bio" validate:"max=5000"`
	Country      string   `json:"country" validate:"required,max=100"`
	HourlyRate   float64  `json:"hourly_rate" validate:"gte=0,lte=1000"`
	Skills       []string `json:"skills" validate:"max=50,dive,max=100"`
	Availability bool     `json:"availability"`
	Phone        string   `json:"phone" validate:"max=30"`
}

func (r VAProfileData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	for _, skill := range r.Skills {
		if strings.TrimSpace(skill) == "" {
			return errors.New("skills must not contain empty values")
		}
	}
	return nil
}

// VAProfileView is the owner's view of the profile.
type VAProfileView struct {
	VAProfilePublicView
	Phone         string   `json:"phone"`
	ResumeKey     string   `json:"resume_key"`
	PortfolioKeys []string `json:"portfolio_keys"`
}

// VAProfilePublicView hides contact fields.
type VAProfilePublicView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Country      string    `json:"country"`
	HourlyRate   float64   `json:"hourly_rate"`
	Skills       []string  `json:"skills"`
	Availability bool      `json:"availability"`
	AvatarKey    string    `json:"avatar_key"`
	CreatedAt    time.Time `json:"created_at"`
}

func VAProfilePublicConvert(rec dbmodels.VAProfile) VAProfilePublicView {
	skills := rec.Skills
	if skills == nil {
		skills = []string{}
	}
	return VAProfilePublicView{
		ID:           rec.ID,
		Name:         rec.Name,
		Bio:          rec.Bio,
		Country:      rec.Country,
		HourlyRate:   rec.HourlyRate,
		Skills:       skills,
		Availability: rec.Availability,
		AvatarKey:    rec.AvatarKey,
		CreatedAt:    rec.CreatedAt,
	}
}

func VAProfileConvert(rec dbmodels.VAProfile) VAProfileView {
	portfolio := rec.PortfolioKeys
	if portfolio == nil {
		portfolio = []string{}
	}
	return VAProfileView{
		VAProfilePublicView: VAProfilePublicConvert(rec),
		Phone:               rec.Phone,
		ResumeKey:           rec.ResumeKey,
		PortfolioKeys:       portfolio,
	}
}

type VAProfileFilter struct {
	apimodels.Pagination
	Skill         string   `json:"skill"`
	Country       string   `json:"country"`
	MaxHourlyRate *float64 `json:"max_hourly_rate"`
	AvailableOnly bool     `json:"available_only"`
}

func (f VAProfileFilter) Validate() error {
	if f.MaxHourlyRate != nil && *f.MaxHourlyRate < 0 {
		return errors.New("max_hourly_rate must not be negative")
	}
	return nil
}

// VAFilesData attaches uploaded object keys to the profile.
type VAFilesData struct {
	AvatarKey     *string  `json:"avatar_key"`
	ResumeKey     *string  `json:"resume_key"`
	PortfolioKeys []string `json:"portfolio_keys" validate:"max=20"`
}

func (r VAFilesData) Validate() error {
	return apimodels.ValidateStruct(r)
}
