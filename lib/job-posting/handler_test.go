package jobpostinghandler

import (
	"testing"

	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/testdb"
	"blytzwork-backend/models"
	jobapimodels "blytzwork-backend/models/api/job"
	dbmodels "blytzwork-backend/models/db"

	"github.com/stretchr/testify/require"
)

func actorOf(user dbmodels.User) models.Actor {
	return models.Actor{UserID: user.ID, Email: user.Email, Role: user.Role, ProfileComplete: true}
}

func postingData(title string) jobapimodels.JobPostingData {
	return jobapimodels.JobPostingData{
		Title:          title,
		Description:    "Inbox and ticket triage",
		Skills:         []string{" Support ", "support", "Zendesk"},
		EmploymentType: models.EmploymentFullTime,
		RateMin:        6,
		RateMax:        12,
	}
}

func TestCreate(t *testing.T) {
	t.Run("create check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db)
		user, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")

		view, err := h.Create(actorOf(user), postingData(" Support agent "))
		require.NoError(t, err)
		require.Equal(t, "Support agent", view.Title)
		require.Equal(t, company.ID, view.CompanyID)
		require.Equal(t, "Acme", view.CompanyName)
		require.Equal(t, []string{"support", "zendesk"}, view.Skills)
		require.Equal(t, models.JobPostingStatusOpen, view.Status)
	})
	t.Run("role and data check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db)
		vaUser, _ := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
		_, err := h.Create(actorOf(vaUser), postingData("Support agent"))
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		noProfile := testdb.CreateUser(t, db, models.UserRoleCompany, "new@corp.test")
		_, err = h.Create(actorOf(noProfile), postingData("Support agent"))
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		user, _ := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		data := postingData("Support agent")
		data.RateMin = 20
		_, err = h.Create(actorOf(user), data)
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		data = postingData("Support agent")
		data.EmploymentType = "gig"
		_, err = h.Create(actorOf(user), data)
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
}

func TestOwnership(t *testing.T) {
	t.Run("another company check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db)
		_, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		otherUser, _ := testdb.CreateCompany(t, db, "boss@other.test", "Other")
		job := testdb.CreateJob(t, db, company.ID, "Support agent")
		other := actorOf(otherUser)

		_, err := h.Update(other, job.ID, postingData("Taken over"))
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		err = h.Close(other, job.ID)
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		err = h.Delete(other, job.ID)
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		var rec dbmodels.JobPosting
		require.NoError(t, db.First(&rec, "id = ?", job.ID).Error)
		require.Equal(t, "Support agent", rec.Title)
		require.Equal(t, models.JobPostingStatusOpen, rec.Status)
	})
	t.Run("close and edit check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db)
		user, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		job := testdb.CreateJob(t, db, company.ID, "Support agent")
		owner := actorOf(user)

		view, err := h.Update(owner, job.ID, postingData("Senior support agent"))
		require.NoError(t, err)
		require.Equal(t, "Senior support agent", view.Title)

		require.NoError(t, h.Close(owner, job.ID))
		// closing twice is a no-op
		require.NoError(t, h.Close(owner, job.ID))

		_, err = h.Update(owner, job.ID, postingData("Reopened"))
		require.True(t, apperrors.Is(err, apperrors.KindConflict))

		list, rowCount, err := h.List(jobapimodels.JobPostingFilter{})
		require.NoError(t, err)
		require.Zero(t, rowCount)
		require.Empty(t, list)

		own, err := h.ListOwn(owner)
		require.NoError(t, err)
		require.Len(t, own, 1)
		require.Equal(t, models.JobPostingStatusClosed, own[0].Status)
	})
	t.Run("delete check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db)
		user, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		_, profile := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
		matched := testdb.CreateJob(t, db, company.ID, "Support agent")
		testdb.CreateMatch(t, db, matched.ID, profile.ID)
		spare := testdb.CreateJob(t, db, company.ID, "Bookkeeper")
		owner := actorOf(user)

		err := h.Delete(owner, matched.ID)
		require.True(t, apperrors.Is(err, apperrors.KindConflict))

		require.NoError(t, h.Delete(owner, spare.ID))
		_, err = h.Get(spare.ID)
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
}

func TestList(t *testing.T) {
	t.Run("filter check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db)
		user, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		_, err := h.Create(actorOf(user), postingData("Support agent"))
		require.NoError(t, err)
		testdb.CreateJob(t, db, company.ID, "Bookkeeper")

		list, rowCount, err := h.List(jobapimodels.JobPostingFilter{Skill: "Zendesk"})
		require.NoError(t, err)
		require.Equal(t, int64(1), rowCount)
		require.Equal(t, "Support agent", list[0].Title)

		_, rowCount, err = h.List(jobapimodels.JobPostingFilter{Search: "BOOK"})
		require.NoError(t, err)
		require.Equal(t, int64(1), rowCount)

		_, _, err = h.List(jobapimodels.JobPostingFilter{Status: "archived"})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
}
