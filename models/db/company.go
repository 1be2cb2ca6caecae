package dbmodels

import "github.com/pkg/errors"

type Company struct {
	BaseModel
	UserID       string `gorm:"type:varchar(36);uniqueIndex"`
	Name         string `gorm:"type:varchar(255)"`
	Industry     string `gorm:"type:varchar(255)"`
	Website      string `gorm:"type:varchar(500)"`
	Country      string `gorm:"type:varchar(100)"`
	Description  string
	ContactEmail string `gorm:"type:varchar(255)"`
	Phone        string `gorm:"type:varchar(30)"`
	LogoKey      string `gorm:"type:varchar(500)"`
}

func (Company) TableName() string {
	return "companies"
}

func (c Company) Validate() error {
	if c.UserID == "" {
		return errors.New("user is not set")
	}
	if c.Name == "" {
		return errors.New("company name is empty")
	}
	return nil
}
