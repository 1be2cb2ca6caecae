package proposalhandler

import (
	"fmt"
	"strings"

	contracthandler "blytzwork-backend/lib/contract"
	jobpostingstore "blytzwork-backend/lib/job-posting/store"
	notificationhandler "blytzwork-backend/lib/notification"
	proposalstore "blytzwork-backend/lib/proposal/store"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	vaprofilestore "blytzwork-backend/lib/va-profile/store"
	"blytzwork-backend/models"
	proposalapimodels "blytzwork-backend/models/api/proposal"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Submit(actor models.Actor, jobPostingID string, data proposalapimodels.ProposalData) (proposalapimodels.ProposalView, error)
	Withdraw(actor models.Actor, id string) error
	ListForJob(actor models.Actor, jobPostingID string) ([]proposalapimodels.ProposalView, error)
	ListOwn(actor models.Actor) ([]proposalapimodels.ProposalView, error)
	Reject(actor models.Actor, id string) error
	Accept(actor models.Actor, id string, data proposalapimodels.AcceptProposal) (proposalapimodels.AcceptProposalResponse, error)
}

func NewHandler(DB *gorm.DB, contracts contracthandler.Provider, notifier notificationhandler.Provider) Provider {
	return &impl{
		db:        DB,
		store:     proposalstore.NewInstance(DB),
		jobStore:  jobpostingstore.NewInstance(DB),
		vaStore:   vaprofilestore.NewInstance(DB),
		contracts: contracts,
		notifier:  notifier,
	}
}

type impl struct {
	db        *gorm.DB
	store     proposalstore.Provider
	jobStore  jobpostingstore.Provider
	vaStore   vaprofilestore.Provider
	contracts contracthandler.Provider
	notifier  notificationhandler.Provider
}

func (i impl) getLogger(userID, proposalID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if proposalID != "" {
		logger = logger.WithField("proposal_id", proposalID)
	}
	return logger
}

func (i impl) ownVAProfile(actor models.Actor) (*dbmodels.VAProfile, error) {
	if actor.Role != models.UserRoleVA {
		return nil, apperrors.NewForbidden("only assistants can do this")
	}
	profile, err := i.vaStore.GetByUserID(actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "va profile get error")
	}
	if profile == nil {
		return nil, apperrors.NewNotFound("va profile not found")
	}
	return profile, nil
}

// companyProposal returns the proposal when it was sent to one of the actor's job postings.
func (i impl) companyProposal(actor models.Actor, id string) (*dbmodels.ProposalExt, error) {
	if actor.Role != models.UserRoleCompany {
		return nil, apperrors.NewForbidden("only companies can do this")
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "proposal get error")
	}
	if rec == nil || rec.CompanyUserID != actor.UserID {
		return nil, apperrors.NewNotFound("proposal not found")
	}
	return rec, nil
}

func (i impl) Submit(actor models.Actor, jobPostingID string, data proposalapimodels.ProposalData) (proposalapimodels.ProposalView, error) {
	profile, err := i.ownVAProfile(actor)
	if err != nil {
		return proposalapimodels.ProposalView{}, err
	}
	if err = data.Validate(); err != nil {
		return proposalapimodels.ProposalView{}, apperrors.Validation(err)
	}
	job, err := i.jobStore.GetByID(jobPostingID)
	if err != nil {
		return proposalapimodels.ProposalView{}, errors.Wrap(err, "job posting get error")
	}
	if job == nil {
		return proposalapimodels.ProposalView{}, apperrors.NewNotFound("job posting not found")
	}
	if job.Status != models.JobPostingStatusOpen {
		return proposalapimodels.ProposalView{}, apperrors.NewConflict("job posting is closed")
	}
	exist, err := i.store.GetByPair(job.ID, profile.ID)
	if err != nil {
		return proposalapimodels.ProposalView{}, errors.Wrap(err, "proposal get error")
	}
	if exist != nil {
		return proposalapimodels.ProposalView{}, apperrors.NewConflict("proposal for this job posting already sent")
	}
	rec, err := i.store.Create(dbmodels.Proposal{
		JobPostingID: job.ID,
		VAProfileID:  profile.ID,
		CoverLetter:  strings.TrimSpace(data.CoverLetter),
		BidRate:      data.BidRate,
		Status:       models.ProposalStatusPending,
	})
	if err != nil {
		return proposalapimodels.ProposalView{}, errors.Wrap(err, "proposal create error")
	}
	i.getLogger(actor.UserID, rec.ID).Info("proposal submitted")
	i.notify(notificationhandler.Message{
		UserID:   job.CompanyUserID,
		Code:     models.NotificationProposalReceived,
		Title:    fmt.Sprintf("New proposal for %s", job.Title),
		Body:     fmt.Sprintf("%s sent a proposal with a rate of %.2f per hour.", profile.Name, rec.BidRate),
		EntityID: rec.ID,
		Email:    true,
	})
	view := proposalapimodels.ProposalConvert(*rec)
	view.JobTitle = job.Title
	view.VAName = profile.Name
	return view, nil
}

func (i impl) Withdraw(actor models.Actor, id string) error {
	if _, err := i.ownVAProfile(actor); err != nil {
		return err
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "proposal get error")
	}
	if rec == nil || rec.VAUserID != actor.UserID {
		return apperrors.NewNotFound("proposal not found")
	}
	ok, err := i.store.SetStatus(rec.ID, models.ProposalStatusPending, models.ProposalStatusWithdrawn)
	if err != nil {
		return errors.Wrap(err, "proposal update error")
	}
	if !ok {
		return apperrors.NewConflict("only a pending proposal can be withdrawn")
	}
	i.getLogger(actor.UserID, rec.ID).Info("proposal withdrawn")
	return nil
}

func (i impl) ListForJob(actor models.Actor, jobPostingID string) ([]proposalapimodels.ProposalView, error) {
	if actor.Role != models.UserRoleCompany {
		return nil, apperrors.NewForbidden("only companies can do this")
	}
	job, err := i.jobStore.GetOwned(jobPostingID, actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "job posting get error")
	}
	if job == nil {
		return nil, apperrors.NewNotFound("job posting not found")
	}
	list, err := i.store.ListByJob(job.ID)
	if err != nil {
		return nil, errors.Wrap(err, "proposal list error")
	}
	return convertList(list), nil
}

func (i impl) ListOwn(actor models.Actor) ([]proposalapimodels.ProposalView, error) {
	profile, err := i.ownVAProfile(actor)
	if err != nil {
		return nil, err
	}
	list, err := i.store.ListByVA(profile.ID)
	if err != nil {
		return nil, errors.Wrap(err, "proposal list error")
	}
	return convertList(list), nil
}

func convertList(list []dbmodels.ProposalExt) []proposalapimodels.ProposalView {
	result := make([]proposalapimodels.ProposalView, 0, len(list))
	for _, rec := range list {
		result = append(result, proposalapimodels.ProposalExtConvert(rec))
	}
	return result
}

func (i impl) Reject(actor models.Actor, id string) error {
	rec, err := i.companyProposal(actor, id)
	if err != nil {
		return err
	}
	ok, err := i.store.SetStatus(rec.ID, models.ProposalStatusPending, models.ProposalStatusRejected)
	if err != nil {
		return errors.Wrap(err, "proposal update error")
	}
	if !ok {
		return apperrors.NewConflict("only a pending proposal can be rejected")
	}
	i.getLogger(actor.UserID, rec.ID).Info("proposal rejected")
	i.notify(notificationhandler.Message{
		UserID:   rec.VAUserID,
		Code:     models.NotificationProposalRejected,
		Title:    fmt.Sprintf("Your proposal for %s was declined", rec.JobTitle),
		EntityID: rec.ID,
	})
	return nil
}

func (i impl) Accept(actor models.Actor, id string, data proposalapimodels.AcceptProposal) (proposalapimodels.AcceptProposalResponse, error) {
	rec, err := i.companyProposal(actor, id)
	if err != nil {
		return proposalapimodels.AcceptProposalResponse{}, err
	}
	if err = data.Validate(); err != nil {
		return proposalapimodels.AcceptProposalResponse{}, apperrors.Validation(err)
	}
	draft := contracthandler.Draft{
		JobPostingID: rec.JobPostingID,
		CompanyID:    rec.CompanyID,
		VAProfileID:  rec.VAProfileID,
		ProposalID:   &rec.ID,
	}
	var (
		contract *dbmodels.Contract
		pending  notificationhandler.Pending
	)
	err = i.db.Transaction(func(tx *gorm.DB) error {
		ok, txErr := proposalstore.NewInstance(tx).SetStatus(rec.ID, models.ProposalStatusPending, models.ProposalStatusAccepted)
		if txErr != nil {
			return errors.Wrap(txErr, "proposal update error")
		}
		if !ok {
			return apperrors.NewConflict("only a pending proposal can be accepted")
		}
		contract, txErr = i.contracts.CreateInTx(tx, draft, data.ContractTerms)
		if txErr != nil {
			return txErr
		}
		pending, txErr = i.notifier.Prepare(tx, notificationhandler.Message{
			UserID:   rec.VAUserID,
			Code:     models.NotificationProposalAccepted,
			Title:    fmt.Sprintf("Your proposal for %s was accepted", rec.JobTitle),
			Body:     fmt.Sprintf("Contract %q has been created.", contract.Title),
			EntityID: contract.ID,
			Email:    true,
		})
		return txErr
	})
	if err != nil {
		return proposalapimodels.AcceptProposalResponse{}, err
	}
	pending.Deliver()
	i.getLogger(actor.UserID, rec.ID).WithField("contract_id", contract.ID).Info("proposal accepted")
	return proposalapimodels.AcceptProposalResponse{
		ProposalID: rec.ID,
		ContractID: contract.ID,
	}, nil
}

func (i impl) notify(msg notificationhandler.Message) {
	if err := i.notifier.Notify(msg); err != nil {
		i.getLogger(msg.UserID, "").WithError(err).Error("notification error")
	}
}
