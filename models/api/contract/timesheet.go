package contractapimodels

import (
	"time"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
)

type TimesheetData struct {
	WorkDate    time.Time `json:"work_date" validate:"required"`
	Hours       float64   `json:"hours" validate:"gt=0,lte=24"`
	Description string    `json:"description" validate:"max=2000"`
}

func (r TimesheetData) Validate(now time.Time) error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if r.WorkDate.After(now) {
		return errors.New("work_date must not be in the future")
	}
	return nil
}

type TimesheetReview struct {
	Approve bool `json:"approve"`
}

type TimesheetFilter struct {
	From   *time.Time             `json:"from"`
	To     *time.Time             `json:"to"`
	Status models.TimesheetStatus `json:"status"`
}

func (f TimesheetFilter) Validate() error {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return errors.New("to must not be before from")
	}
	return nil
}

type TimesheetView struct {
	ID          string                 `json:"id"`
	ContractID  string                 `json:"contract_id"`
	WorkDate    time.Time              `json:"work_date"`
	Hours       float64                `json:"hours"`
	Description string                 `json:"description"`
	Status      models.TimesheetStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
}

func TimesheetConvert(rec dbmodels.Timesheet) TimesheetView {
	return TimesheetView{
		ID:          rec.ID,
		ContractID:  rec.ContractID,
		WorkDate:    rec.WorkDate,
		Hours:       rec.Hours,
		Description: rec.Description,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
	}
}

type TimesheetSummary struct {
	Entries        []TimesheetView `json:"entries"`
	SubmittedHours float64         `json:"submitted_hours"`
	ApprovedHours  float64         `json:"approved_hours"`
	HourlyRate     float64         `json:"hourly_rate"`
	BillableAmount float64         `json:"billable_amount"`
}
