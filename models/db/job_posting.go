package dbmodels

import (
	"blytzwork-backend/models"

	"github.com/pkg/errors"
)

type JobPosting struct {
	BaseModel
	CompanyID      string `gorm:"type:varchar(36);index"`
	Title          string `gorm:"type:varchar(255)"`
	Description    string
	Skills         StringList            `gorm:"type:text"`
	EmploymentType models.EmploymentType `gorm:"type:varchar(20)"`
	RateMin        float64
	RateMax        float64
	Status         models.JobPostingStatus `gorm:"type:varchar(20);index"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}

func (j JobPosting) Validate() error {
	if j.CompanyID == "" {
		return errors.New("company is not set")
	}
	if j.Title == "" {
		return errors.New("title is empty")
	}
	if j.Status == "" {
		return errors.New("status is empty")
	}
	return nil
}

type JobPostingExt struct {
	JobPosting
	CompanyName   string
	CompanyUserID string
}
