package profileapimodels

import (
	"time"

	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"

	"github.com/badoux/checkmail"
	"github.com/pkg/errors"
)

type CompanyData struct {
	Name         string `json:"name" validate:"required,max=255"`
	Industry     string `json:"industry" validate:"max=255"`
	Website      string `json:"website" validate:"omitempty,url,max=500"`
	Country      string `json:"country" validate:"max=100"`
	Description  string `json:"description" validate:"max=5000"`
	ContactEmail string `json:"contact_email" validate:"max=255"`
	Phone        string `json:"phone" validate:"max=30"`
}

func (r CompanyData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.ContactEmail != "" {
		if err := checkmail.ValidateFormat(r.ContactEmail); err != nil {
			return errors.New("contact_email has invalid format")
		}
	}
	return nil
}

type CompanyView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry"`
	Website     string    `json:"website"`
	Country     string    `json:"country"`
	Description string    `json:"description"`
	LogoKey     string    `json:"logo_key"`
	CreatedAt   time.Time `json:"created_at"`
}

type CompanyOwnerView struct {
	CompanyView
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
}

func CompanyConvert(rec dbmodels.Company) CompanyView {
	return CompanyView{
		ID:          rec.ID,
		Name:        rec.Name,
		Industry:    rec.Industry,
		Website:     rec.Website,
		Country:     rec.Country,
		Description: rec.Description,
		LogoKey:     rec.LogoKey,
		CreatedAt:   rec.CreatedAt,
	}
}

func CompanyOwnerConvert(rec dbmodels.Company) CompanyOwnerView {
	return CompanyOwnerView{
		CompanyView:  CompanyConvert(rec),
		ContactEmail: rec.ContactEmail,
		Phone:        rec.Phone,
	}
}

type CompanyLogoData struct {
	LogoKey string `json:"logo_key" validate:"required,max=500"`
}

func (r CompanyLogoData) Validate() error {
	return apimodels.ValidateStruct(r)
}
