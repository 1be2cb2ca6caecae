package timesheethandler

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	contracthandler "blytzwork-backend/lib/contract"
	xlsexport "blytzwork-backend/lib/export/xls"
	notificationhandler "blytzwork-backend/lib/notification"
	timesheetstore "blytzwork-backend/lib/timesheet/store"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/helpers"
	"blytzwork-backend/models"
	contractapimodels "blytzwork-backend/models/api/contract"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Log(actor models.Actor, contractID string, data contractapimodels.TimesheetData) (contractapimodels.TimesheetView, error)
	Review(actor models.Actor, id string, data contractapimodels.TimesheetReview) (contractapimodels.TimesheetView, error)
	List(actor models.Actor, contractID string, filter contractapimodels.TimesheetFilter) (contractapimodels.TimesheetSummary, error)
	Export(actor models.Actor, contractID string, filter contractapimodels.TimesheetFilter) (file *bytes.Buffer, fileName string, err error)
}

func NewHandler(DB *gorm.DB, contracts contracthandler.Provider, notifier notificationhandler.Provider) Provider {
	return &impl{
		store:     timesheetstore.NewInstance(DB),
		contracts: contracts,
		notifier:  notifier,
		xls:       xlsexport.NewHandler(),
		now:       time.Now,
	}
}

type impl struct {
	store     timesheetstore.Provider
	contracts contracthandler.Provider
	notifier  notificationhandler.Provider
	xls       xlsexport.Provider
	now       func() time.Time
}

func (i impl) getLogger(userID, contractID string) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("contract_id", contractID)
}

func (i impl) Log(actor models.Actor, contractID string, data contractapimodels.TimesheetData) (contractapimodels.TimesheetView, error) {
	contract, err := i.contracts.GetForParty(actor, contractID)
	if err != nil {
		return contractapimodels.TimesheetView{}, err
	}
	if contract.VAUserID != actor.UserID {
		return contractapimodels.TimesheetView{}, apperrors.NewForbidden("only the contracted assistant logs hours")
	}
	if contract.Type != models.ContractTypeHourly {
		return contractapimodels.TimesheetView{}, apperrors.NewValidation("hours can only be logged on an hourly contract")
	}
	if contract.Status != models.ContractStatusActive {
		return contractapimodels.TimesheetView{}, apperrors.NewConflict("contract is not active")
	}
	if err = data.Validate(i.now()); err != nil {
		return contractapimodels.TimesheetView{}, apperrors.Validation(err)
	}
	rec, err := i.store.Create(dbmodels.Timesheet{
		ContractID:  contract.ID,
		WorkDate:    helpers.TruncateToDay(data.WorkDate),
		Hours:       data.Hours,
		Description: strings.TrimSpace(data.Description),
		Status:      models.TimesheetStatusSubmitted,
	})
	if err != nil {
		return contractapimodels.TimesheetView{}, errors.Wrap(err, "timesheet create error")
	}
	i.getLogger(actor.UserID, contract.ID).WithField("hours", rec.Hours).Info("hours logged")
	i.notify(notificationhandler.Message{
		UserID:   contract.CompanyUserID,
		Code:     models.NotificationTimesheetStatus,
		Title:    fmt.Sprintf("%s logged %.2f hours on %s", contract.VAName, rec.Hours, contract.Title),
		EntityID: rec.ID,
	})
	return contractapimodels.TimesheetConvert(*rec), nil
}

func (i impl) Review(actor models.Actor, id string, data contractapimodels.TimesheetReview) (contractapimodels.TimesheetView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return contractapimodels.TimesheetView{}, errors.Wrap(err, "timesheet get error")
	}
	if rec == nil {
		return contractapimodels.TimesheetView{}, apperrors.NewNotFound("timesheet entry not found")
	}
	contract, err := i.contracts.GetForParty(actor, rec.ContractID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return contractapimodels.TimesheetView{}, apperrors.NewNotFound("timesheet entry not found")
		}
		return contractapimodels.TimesheetView{}, err
	}
	if contract.CompanyUserID != actor.UserID {
		return contractapimodels.TimesheetView{}, apperrors.NewForbidden("only the hiring company reviews hours")
	}
	status := models.TimesheetStatusRejected
	if data.Approve {
		status = models.TimesheetStatusApproved
	}
	ok, err := i.store.SetStatus(rec.ID, models.TimesheetStatusSubmitted, status)
	if err != nil {
		return contractapimodels.TimesheetView{}, errors.Wrap(err, "timesheet update error")
	}
	if !ok {
		return contractapimodels.TimesheetView{}, apperrors.NewConflict("timesheet entry is already reviewed")
	}
	rec.Status = status
	i.getLogger(actor.UserID, contract.ID).WithField("status", status).Info("timesheet reviewed")
	i.notify(notificationhandler.Message{
		UserID:   contract.VAUserID,
		Code:     models.NotificationTimesheetStatus,
		Title:    fmt.Sprintf("Hours for %s were %s", rec.WorkDate.Format("2006-01-02"), status),
		EntityID: rec.ID,
	})
	return contractapimodels.TimesheetConvert(*rec), nil
}

func (i impl) List(actor models.Actor, contractID string, filter contractapimodels.TimesheetFilter) (contractapimodels.TimesheetSummary, error) {
	contract, list, err := i.list(actor, contractID, filter)
	if err != nil {
		return contractapimodels.TimesheetSummary{}, err
	}
	return Summarize(list, contract.HourlyRate), nil
}

func (i impl) Export(actor models.Actor, contractID string, filter contractapimodels.TimesheetFilter) (*bytes.Buffer, string, error) {
	contract, list, err := i.list(actor, contractID, filter)
	if err != nil {
		return nil, "", err
	}
	file, err := i.xls.ExportTimesheets(*contract, list)
	if err != nil {
		return nil, "", errors.Wrap(err, "timesheet export error")
	}
	return file, fmt.Sprintf("timesheets-%s.xlsx", helpers.SanitizeFileName(contract.Title)), nil
}

func (i impl) list(actor models.Actor, contractID string, filter contractapimodels.TimesheetFilter) (*dbmodels.ContractExt, []dbmodels.Timesheet, error) {
	if err := filter.Validate(); err != nil {
		return nil, nil, apperrors.Validation(err)
	}
	contract, err := i.contracts.GetForParty(actor, contractID)
	if err != nil {
		return nil, nil, err
	}
	list, err := i.store.List(contract.ID, filter)
	if err != nil {
		return nil, nil, errors.Wrap(err, "timesheet list error")
	}
	return contract, list, nil
}

// Summarize totals the entries. Only approved hours are billable.
func Summarize(list []dbmodels.Timesheet, hourlyRate float64) contractapimodels.TimesheetSummary {
	result := contractapimodels.TimesheetSummary{
		Entries:    make([]contractapimodels.TimesheetView, 0, len(list)),
		HourlyRate: hourlyRate,
	}
	for _, rec := range list {
		result.Entries = append(result.Entries, contractapimodels.TimesheetConvert(rec))
		switch rec.Status {
		case models.TimesheetStatusSubmitted:
			result.SubmittedHours += rec.Hours
		case models.TimesheetStatusApproved:
			result.ApprovedHours += rec.Hours
		case models.TimesheetStatusRejected:
		}
	}
	result.BillableAmount = result.ApprovedHours * hourlyRate
	return result
}

func (i impl) notify(msg notificationhandler.Message) {
	if err := i.notifier.Notify(msg); err != nil {
		log.WithField("user_id", msg.UserID).WithError(err).Error("notification error")
	}
}
