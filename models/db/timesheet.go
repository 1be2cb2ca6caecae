package dbmodels

import (
	"time"

	"blytzwork-backend/models"
)

type Timesheet struct {
	BaseModel
	ContractID  string    `gorm:"type:varchar(36);index"`
	WorkDate    time.Time `gorm:"index"`
	Hours       float64
	Description string
	Status      models.TimesheetStatus `gorm:"type:varchar(20)"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}
