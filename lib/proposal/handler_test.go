package proposalhandler

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
	proposalapimodels "blytzwork-backend/models/api/proposal"
	dbmodels "blytzwork-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func actorOf(user dbmodels.User) models.Actor {
	return models.Actor{UserID: user.ID, Email: user.Email, Role: user.Role, ProfileComplete: true}
}

func newTestHandler(t *testing.T) (Provider, *gorm.DB) {
	db := testdb.New(t)
	notifier := notificationhandler.NewHandler(db, connectionhub.NewHub(db), smtp.NewMailer(smtp.Config{}))
	contracts := contracthandler.NewHandler(db, notifier, "usd")
	return NewHandler(db, contracts, notifier), db
}

func fixedTerms(amount float64, milestones ...contractapimodels.MilestoneData) proposalapimodels.AcceptProposal {
	return proposalapimodels.AcceptProposal{
		ContractTerms: contractapimodels.ContractTerms{
			Title:      "Inbox support",
			Type:       models.ContractTypeFixed,
			Amount:     amount,
			StartDate:  time.Now().UTC(),
			Milestones: milestones,
		},
	}
}

func TestSubmit(t *testing.T) {
	data := proposalapimodels.ProposalData{CoverLetter: "I answer tickets fast.", BidRate: 9}

	t.Run("submit and duplicate check", func(t *testing.T) {
		h, db := newTestHandler(t)
		companyUser, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		vaUser, _ := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
		job := testdb.CreateJob(t, db, company.ID, "Support agent")

		view, err := h.Submit(actorOf(vaUser), job.ID, data)
		require.NoError(t, err)
		require.Equal(t, models.ProposalStatusPending, view.Status)
		require.Equal(t, "Support agent", view.JobTitle)

		_, err = h.Submit(actorOf(vaUser), job.ID, data)
		require.True(t, apperrors.Is(err, apperrors.KindConflict))

		list, err := h.ListForJob(actorOf(companyUser), job.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Ann", list[0].VAName)

		own, err := h.ListOwn(actorOf(vaUser))
		require.NoError(t, err)
		require.Len(t, own, 1)

		var notifications int64
		require.NoError(t, db.Model(&dbmodels.Notification{}).
			Where("user_id = ? AND code = ?", companyUser.ID, models.NotificationProposalReceived).
			Count(&notifications).Error)
		require.Equal(t, int64(1), notifications)
	})
	t.Run("closed job and role check", func(t *testing.T) {
		h, db := newTestHandler(t)
		companyUser, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		vaUser, _ := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
		job := testdb.CreateJob(t, db, company.ID, "Support agent")
		require.NoError(t, db.Model(&dbmodels.JobPosting{}).Where("id = ?", job.ID).
			Update("status", models.JobPostingStatusClosed).Error)

		_, err := h.Submit(actorOf(vaUser), job.ID, data)
		require.True(t, apperrors.Is(err, apperrors.KindConflict))

		_, err = h.Submit(actorOf(companyUser), job.ID, data)
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		_, err = h.Submit(actorOf(vaUser), job.ID, proposalapimodels.ProposalData{BidRate: 9})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
}

func TestAccept(t *testing.T) {
	data := proposalapimodels.ProposalData{CoverLetter: "I answer tickets fast.", BidRate: 9}

	t.Run("accept creates contract check", func(t *testing.T) {
		h, db := newTestHandler(t)
		companyUser, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		vaUser, _ := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
		job := testdb.CreateJob(t, db, company.ID, "Support agent")
		proposal, err := h.Submit(actorOf(vaUser), job.ID, data)
		require.NoError(t, err)

		resp, err := h.Accept(actorOf(companyUser), proposal.ID, fixedTerms(300,
			contractapimodels.MilestoneData{Title: "Week 1", Amount: 100},
			contractapimodels.MilestoneData{Title: "Week 2", Amount: 200},
		))
		require.NoError(t, err)
		require.Equal(t, proposal.ID, resp.ProposalID)

		var contract dbmodels.Contract
		require.NoError(t, db.First(&contract, "id = ?", resp.ContractID).Error)
		require.Equal(t, proposal.ID, *contract.ProposalID)
		require.Equal(t, models.ContractStatusActive, contract.Status)

		var milestones int64
		require.NoError(t, db.Model(&dbmodels.Milestone{}).Where("contract_id = ?", contract.ID).Count(&milestones).Error)
		require.Equal(t, int64(2), milestones)

		var rec dbmodels.Proposal
		require.NoError(t, db.First(&rec, "id = ?", proposal.ID).Error)
		require.Equal(t, models.ProposalStatusAccepted, rec.Status)

		_, err = h.Accept(actorOf(companyUser), proposal.ID, fixedTerms(300))
		require.True(t, apperrors.Is(err, apperrors.KindConflict))
	})
	t.Run("invalid terms leave proposal pending check", func(t *testing.T) {
		h, db := newTestHandler(t)
		companyUser, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		vaUser, _ := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
		job := testdb.CreateJob(t, db, company.ID, "Support agent")
		proposal, err := h.Submit(actorOf(vaUser), job.ID, data)
		require.NoError(t, err)

		_, err = h.Accept(actorOf(companyUser), proposal.ID, fixedTerms(100,
			contractapimodels.MilestoneData{Title: "Too much", Amount: 150},
		))
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		var rec dbmodels.Proposal
		require.NoError(t, db.First(&rec, "id = ?", proposal.ID).Error)
		require.Equal(t, models.ProposalStatusPending, rec.Status)

		var contracts int64
		require.NoError(t, db.Model(&dbmodels.Contract{}).Count(&contracts).Error)
		require.Equal(t, int64(0), contracts)
	})
	t.Run("foreign company and withdrawn proposal check", func(t *testing.T) {
		h, db := newTestHandler(t)
		_, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		otherUser, _ := testdb.CreateCompany(t, db, "hr@other.test", "Other")
		vaUser, _ := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
		job := testdb.CreateJob(t, db, company.ID, "Support agent")
		proposal, err := h.Submit(actorOf(vaUser), job.ID, data)
		require.NoError(t, err)

		_, err = h.Accept(actorOf(otherUser), proposal.ID, fixedTerms(300))
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		require.NoError(t, h.Withdraw(actorOf(vaUser), proposal.ID))
		require.True(t, apperrors.Is(h.Withdraw(actorOf(vaUser), proposal.ID), apperrors.KindConflict))
	})
}
