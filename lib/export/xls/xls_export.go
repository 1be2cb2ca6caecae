package xlsexport

import (
	"bytes"

	"blytzwork-backend/models"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportTimesheets(contract dbmodels.ContractExt, list []dbmodels.Timesheet) (*bytes.Buffer, error)
}

func NewHandler() Provider {
	return impl{}
}

type impl struct{}

var timesheetHeaders = []string{"Date", "Hours", "Status", "Description", "Amount"}

const timesheetSheet = "Timesheets"

func (i impl) ExportTimesheets(contract dbmodels.ContractExt, list []dbmodels.Timesheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("xlsx file close error")
		}
	}()
	if err := f.SetSheetName("Sheet1", timesheetSheet); err != nil {
		return nil, errors.Wrap(err, "xlsx sheet rename error")
	}
	w := newSheetWriter(f, timesheetSheet)
	if err := writeContractInfo(w, contract); err != nil {
		return nil, errors.Wrap(err, "xlsx title error")
	}
	if err := w.header(timesheetHeaders); err != nil {
		return nil, errors.Wrap(err, "xlsx header error")
	}
	if err := writeEntries(w, contract.HourlyRate, list); err != nil {
		return nil, errors.Wrap(err, "xlsx data error")
	}
	if err := writeTotals(w, contract.HourlyRate, list); err != nil {
		return nil, errors.Wrap(err, "xlsx totals error")
	}
	return f.WriteToBuffer()
}

func writeContractInfo(w *sheetWriter, contract dbmodels.ContractExt) error {
	info := [][]interface{}{
		{"Contract", contract.Title},
		{"Company", contract.CompanyName},
		{"Assistant", contract.VAName},
		{"Hourly rate", contract.HourlyRate},
	}
	for _, pair := range info {
		if err := w.line(pair...); err != nil {
			return err
		}
	}
	w.skip()
	return nil
}

func writeEntries(w *sheetWriter, rate float64, list []dbmodels.Timesheet) error {
	first := w.row + 1
	for _, item := range list {
		err := w.line(
			item.WorkDate.Format("2006-01-02"),
			item.Hours,
			string(item.Status),
			item.Description,
			item.Hours*rate,
		)
		if err != nil {
			return err
		}
	}
	return w.style(first, w.row, len(timesheetHeaders), dataStyle)
}

func writeTotals(w *sheetWriter, rate float64, list []dbmodels.Timesheet) error {
	var approved float64
	for _, item := range list {
		if item.Status == models.TimesheetStatusApproved {
			approved += item.Hours
		}
	}
	w.skip()
	if err := w.line("Approved hours", approved); err != nil {
		return err
	}
	return w.line("Billable amount", approved*rate)
}
