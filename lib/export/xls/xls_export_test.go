package xlsexport

import (
	"testing"
	"time"

	"blytzwork-backend/models"
	dbmodels "blytzwork-backend/models/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportTimesheets(t *testing.T) {
	contract := dbmodels.ContractExt{
		Contract: dbmodels.Contract{
			Title:      "Support",
			HourlyRate: 10,
		},
		CompanyName: "Acme",
		VAName:      "Maria",
	}
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	list := []dbmodels.Timesheet{
		{WorkDate: day, Hours: 4, Status: models.TimesheetStatusApproved, Description: "inbox"},
		{WorkDate: day.AddDate(0, 0, 1), Hours: 2, Status: models.TimesheetStatusSubmitted},
	}

	t.Run("workbook check", func(t *testing.T) {
		buf, err := NewHandler().ExportTimesheets(contract, list)
		require.NoError(t, err)

		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()

		title, err := f.GetCellValue(timesheetSheet, "B1")
		require.NoError(t, err)
		assert.Equal(t, "Support", title)

		header, err := f.GetCellValue(timesheetSheet, "A6")
		require.NoError(t, err)
		assert.Equal(t, "Date", header)

		firstDate, err := f.GetCellValue(timesheetSheet, "A7")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-02", firstDate)

		billable, err := f.GetCellValue(timesheetSheet, "B11")
		require.NoError(t, err)
		assert.Equal(t, "40", billable)
	})
}
