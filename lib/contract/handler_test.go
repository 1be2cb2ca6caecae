package contracthandler

import (
	"bytes"
	"testing"
	"time"

	notificationhandler "blytzwork-backend/lib/notification"
	"blytzwork-backend/lib/smtp"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/testdb"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"
	"blytzwork-backend/models"
	contractapimodels "blytzwork-backend/models/api/contract"
	dbmodels "blytzwork-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	h       Provider
	db      *gorm.DB
	company models.Actor
	va      models.Actor
	match   dbmodels.Match
}

func actorOf(user dbmodels.User) models.Actor {
	return models.Actor{UserID: user.ID, Email: user.Email, Role: user.Role, ProfileComplete: true}
}

func newTestEnv(t *testing.T) testEnv {
	db := testdb.New(t)
	notifier := notificationhandler.NewHandler(db, connectionhub.NewHub(db), smtp.NewMailer(smtp.Config{}))
	companyUser, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
	vaUser, profile := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
	job := testdb.CreateJob(t, db, company.ID, "Support agent")
	return testEnv{
		h:       NewHandler(db, notifier, "usd"),
		db:      db,
		company: actorOf(companyUser),
		va:      actorOf(vaUser),
		match:   testdb.CreateMatch(t, db, job.ID, profile.ID),
	}
}

func (e testEnv) fixedContract(t *testing.T, amount float64) contractapimodels.ContractView {
	view, err := e.h.Create(e.company, contractapimodels.ContractData{
		MatchID: e.match.ID,
		ContractTerms: contractapimodels.ContractTerms{
			Title:     "Inbox support",
			Type:      models.ContractTypeFixed,
			Amount:    amount,
			StartDate: time.Now().UTC(),
			Milestones: []contractapimodels.MilestoneData{
				{Title: "Week 1", Amount: amount / 2},
			},
		},
	})
	require.NoError(t, err)
	return view
}

func TestCreate(t *testing.T) {
	t.Run("create from match check", func(t *testing.T) {
		env := newTestEnv(t)
		view := env.fixedContract(t, 400)
		require.Equal(t, models.ContractStatusActive, view.Status)
		require.Equal(t, "Acme", view.CompanyName)
		require.Equal(t, "Ann", view.VAName)
		require.Len(t, view.Milestones, 1)
		require.Equal(t, env.match.ID, *view.MatchID)

		vaView, err := env.h.Get(env.va, view.ID)
		require.NoError(t, err)
		require.Equal(t, view.ID, vaView.ID)

		list, rowCount, err := env.h.List(env.va, contractapimodels.ContractFilter{})
		require.NoError(t, err)
		require.Equal(t, int64(1), rowCount)
		require.Len(t, list, 1)
	})
	t.Run("create access check", func(t *testing.T) {
		env := newTestEnv(t)
		other := testdb.CreateUser(t, env.db, models.UserRoleCompany, "hr@other.test")
		terms := contractapimodels.ContractTerms{
			Title:      "Hourly support",
			Type:       models.ContractTypeHourly,
			HourlyRate: 10,
			StartDate:  time.Now().UTC(),
		}
		_, err := env.h.Create(actorOf(other), contractapimodels.ContractData{MatchID: env.match.ID, ContractTerms: terms})
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		_, err = env.h.Create(env.va, contractapimodels.ContractData{MatchID: env.match.ID, ContractTerms: terms})
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		terms.HourlyRate = 0
		_, err = env.h.Create(env.company, contractapimodels.ContractData{MatchID: env.match.ID, ContractTerms: terms})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		view := env.fixedContract(t, 200)
		_, err = env.h.Get(actorOf(other), view.ID)
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
}

func TestMilestones(t *testing.T) {
	t.Run("milestone flow check", func(t *testing.T) {
		env := newTestEnv(t)
		view := env.fixedContract(t, 400)
		milestoneID := view.Milestones[0].ID

		_, err := env.h.ApproveMilestone(env.company, milestoneID)
		require.True(t, apperrors.Is(err, apperrors.KindConflict))
		_, err = env.h.SubmitMilestone(env.company, milestoneID)
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		submitted, err := env.h.SubmitMilestone(env.va, milestoneID)
		require.NoError(t, err)
		require.Equal(t, models.MilestoneStatusSubmitted, submitted.Status)

		approved, err := env.h.ApproveMilestone(env.company, milestoneID)
		require.NoError(t, err)
		require.Equal(t, models.MilestoneStatusApproved, approved.Status)

		file, name, err := env.h.Invoice(env.company, milestoneID)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(file, []byte("%PDF")))
		require.Contains(t, name, "INV-")
	})
	t.Run("milestone total check", func(t *testing.T) {
		env := newTestEnv(t)
		view := env.fixedContract(t, 400)

		_, err := env.h.AddMilestone(env.company, view.ID, contractapimodels.MilestoneData{Title: "Week 2", Amount: 200})
		require.NoError(t, err)
		_, err = env.h.AddMilestone(env.company, view.ID, contractapimodels.MilestoneData{Title: "Week 3", Amount: 1})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
	t.Run("closed contract check", func(t *testing.T) {
		env := newTestEnv(t)
		view := env.fixedContract(t, 400)

		done, err := env.h.ChangeStatus(env.company, view.ID, contractapimodels.ContractStatusChange{Status: models.ContractStatusCompleted})
		require.NoError(t, err)
		require.Equal(t, models.ContractStatusCompleted, done.Status)

		_, err = env.h.ChangeStatus(env.company, view.ID, contractapimodels.ContractStatusChange{Status: models.ContractStatusCancelled})
		require.True(t, apperrors.Is(err, apperrors.KindConflict))
		_, err = env.h.SubmitMilestone(env.va, view.Milestones[0].ID)
		require.True(t, apperrors.Is(err, apperrors.KindConflict))
		_, err = env.h.AddMilestone(env.company, view.ID, contractapimodels.MilestoneData{Title: "Late", Amount: 1})
		require.True(t, apperrors.Is(err, apperrors.KindConflict))
	})
}
