package timesheethandler

import (
	"testing"
	"time"

	contracthandler "blytzwork-backend/lib/contract"
	notificationhandler "blytzwork-backend/lib/notification"
	"blytzwork-backend/lib/smtp"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/testdb"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"
	"blytzwork-backend/models"
	contractapimodels "blytzwork-backend/models/api/contract"
	dbmodels "blytzwork-backend/models/db"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func actorOf(user dbmodels.User) models.Actor {
	return models.Actor{UserID: user.ID, Email: user.Email, Role: user.Role, ProfileComplete: true}
}

func TestSummarize(t *testing.T) {
	t.Run("only approved hours are billable check", func(t *testing.T) {
		list := []dbmodels.Timesheet{
			{Hours: 4, Status: models.TimesheetStatusApproved},
			{Hours: 2.5, Status: models.TimesheetStatusApproved},
			{Hours: 3, Status: models.TimesheetStatusSubmitted},
			{Hours: 8, Status: models.TimesheetStatusRejected},
		}
		res := Summarize(list, 12)
		require.Len(t, res.Entries, 4)
		require.Equal(t, 6.5, res.ApprovedHours)
		require.Equal(t, 3.0, res.SubmittedHours)
		require.Equal(t, 78.0, res.BillableAmount)
	})
	t.Run("empty list check", func(t *testing.T) {
		res := Summarize(nil, 12)
		require.NotNil(t, res.Entries)
		require.Zero(t, res.BillableAmount)
	})
}

func TestTimesheetFlow(t *testing.T) {
	db := testdb.New(t)
	notifier := notificationhandler.NewHandler(db, connectionhub.NewHub(db), smtp.NewMailer(smtp.Config{}))
	contracts := contracthandler.NewHandler(db, notifier, "usd")
	h := NewHandler(db, contracts, notifier)

	companyUser, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
	vaUser, profile := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
	job := testdb.CreateJob(t, db, company.ID, "Support agent")
	hourly := testdb.CreateContract(t, db, job, profile.ID, models.ContractTypeHourly, 0, 10)
	fixed := testdb.CreateContract(t, db, job, profile.ID, models.ContractTypeFixed, 300, 0)
	yesterday := time.Now().UTC().Add(-24 * time.Hour)

	t.Run("log and review check", func(t *testing.T) {
		first, err := h.Log(actorOf(vaUser), hourly.ID, contractapimodels.TimesheetData{WorkDate: yesterday, Hours: 5, Description: "tickets"})
		require.NoError(t, err)
		require.Equal(t, models.TimesheetStatusSubmitted, first.Status)
		second, err := h.Log(actorOf(vaUser), hourly.ID, contractapimodels.TimesheetData{WorkDate: yesterday, Hours: 2})
		require.NoError(t, err)

		_, err = h.Review(actorOf(vaUser), first.ID, contractapimodels.TimesheetReview{Approve: true})
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		approved, err := h.Review(actorOf(companyUser), first.ID, contractapimodels.TimesheetReview{Approve: true})
		require.NoError(t, err)
		require.Equal(t, models.TimesheetStatusApproved, approved.Status)
		rejected, err := h.Review(actorOf(companyUser), second.ID, contractapimodels.TimesheetReview{Approve: false})
		require.NoError(t, err)
		require.Equal(t, models.TimesheetStatusRejected, rejected.Status)

		_, err = h.Review(actorOf(companyUser), first.ID, contractapimodels.TimesheetReview{Approve: false})
		require.True(t, apperrors.Is(err, apperrors.KindConflict))

		summary, err := h.List(actorOf(companyUser), hourly.ID, contractapimodels.TimesheetFilter{})
		require.NoError(t, err)
		require.Len(t, summary.Entries, 2)
		require.Equal(t, 5.0, summary.ApprovedHours)
		require.Equal(t, 50.0, summary.BillableAmount)
	})
	t.Run("log rules check", func(t *testing.T) {
		_, err := h.Log(actorOf(vaUser), fixed.ID, contractapimodels.TimesheetData{WorkDate: yesterday, Hours: 1})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		_, err = h.Log(actorOf(companyUser), hourly.ID, contractapimodels.TimesheetData{WorkDate: yesterday, Hours: 1})
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		_, err = h.Log(actorOf(vaUser), hourly.ID, contractapimodels.TimesheetData{WorkDate: time.Now().Add(72 * time.Hour), Hours: 1})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		_, err = h.Log(actorOf(vaUser), hourly.ID, contractapimodels.TimesheetData{WorkDate: yesterday, Hours: 25})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
	t.Run("export check", func(t *testing.T) {
		buf, name, err := h.Export(actorOf(companyUser), hourly.ID, contractapimodels.TimesheetFilter{})
		require.NoError(t, err)
		require.Contains(t, name, ".xlsx")

		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		value, err := f.GetCellValue("Timesheets", "B1")
		require.NoError(t, err)
		require.Equal(t, "Support agent", value)
	})
}
