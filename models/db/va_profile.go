package dbmodels

import "github.com/pkg/errors"

type VAProfile struct {
	BaseModel
	UserID        string `gorm:"type:varchar(36);uniqueIndex"`
	Name          string `gorm:"type:varchar(255)"`
	Bio           string
	Country       string     `gorm:"type:varchar(100);index"`
	HourlyRate    float64    `gorm:"index"`
	Skills        StringList `gorm:"type:text"`
	Availability  bool       `gorm:"index"`
	Phone         string     `gorm:"type:varchar(30)"`
	AvatarKey     string     `gorm:"type:varchar(500)"`
	ResumeKey     string     `gorm:"type:varchar(500)"`
	PortfolioKeys StringList `gorm:"type:text"`
}

func (VAProfile) TableName() string {
	return "va_profiles"
}

func (p VAProfile) Validate() error {
	if p.UserID == "" {
		return errors.New("user is not set")
	}
	if p.Name == "" {
		return errors.New("name is empty")
	}
	if p.HourlyRate < 0 {
		return errors.New("hourly rate must not be negative")
	}
	return nil
}
