package matchinghandler

import (
	"context"
	"fmt"
	"time"

	companystore "blytzwork-backend/lib/company/store"
	jobpostingstore "blytzwork-backend/lib/job-posting/store"
	matchstore "blytzwork-backend/lib/matching/match-store"
	votestore "blytzwork-backend/lib/matching/vote-store"
	"blytzwork-backend/lib/metrics"
	notificationhandler "blytzwork-backend/lib/notification"
	paymentstore "blytzwork-backend/lib/payment/store"
	usersstore "blytzwork-backend/lib/users/store"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/lock"
	vaprofilestore "blytzwork-backend/lib/va-profile/store"
	"blytzwork-backend/models"
	jobapimodels "blytzwork-backend/models/api/job"
	matchapimodels "blytzwork-backend/models/api/match"
	profileapimodels "blytzwork-backend/models/api/profile"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	discoveryLimit = 20
	voteLockWait   = 5 * time.Second
)

type Provider interface {
	Vote(actor models.Actor, data matchapimodels.VoteRequest) (matchapimodels.VoteResult, error)
	ListMatches(actor models.Actor) ([]matchapimodels.MatchView, error)
	Unlock(actor models.Actor, matchID string) (matchapimodels.ContactInfo, error)
	Contact(actor models.Actor, matchID string) (matchapimodels.ContactInfo, error)
	// GetForParty returns the match when the actor is one of its parties or an admin.
	GetForParty(actor models.Actor, matchID string) (*dbmodels.MatchExt, error)
	Recommendations(actor models.Actor, jobPostingID string) (matchapimodels.Recommendations, error)
	Discovery(actor models.Actor) (matchapimodels.JobDiscovery, error)
}

func NewHandler(DB *gorm.DB, notifier notificationhandler.Provider) Provider {
	return &impl{
		db:           DB,
		matchStore:   matchstore.NewInstance(DB),
		jobStore:     jobpostingstore.NewInstance(DB),
		vaStore:      vaprofilestore.NewInstance(DB),
		companyStore: companystore.NewInstance(DB),
		userStore:    usersstore.NewInstance(DB),
		paymentStore: paymentstore.NewInstance(DB),
		notifier:     notifier,
	}
}

type impl struct {
	db           *gorm.DB
	matchStore   matchstore.Provider
	jobStore     jobpostingstore.Provider
	vaStore      vaprofilestore.Provider
	companyStore companystore.Provider
	userStore    usersstore.Provider
	paymentStore paymentstore.Provider
	notifier     notificationhandler.Provider
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

// voteParties is the pair a vote is recorded for.
type voteParties struct {
	side    models.VoteSide
	job     *dbmodels.JobPostingExt
	profile *dbmodels.VAProfile
}

func (i impl) resolveParties(actor models.Actor, data matchapimodels.VoteRequest) (voteParties, error) {
	switch actor.Role {
	case models.UserRoleCompany:
		job, err := i.jobStore.GetOwned(data.JobPostingID, actor.UserID)
		if err != nil {
			return voteParties{}, errors.Wrap(err, "job posting get error")
		}
		if job == nil {
			return voteParties{}, apperrors.NewNotFound("job posting not found")
		}
		profile, err := i.vaStore.GetByID(data.VAProfileID)
		if err != nil {
			return voteParties{}, errors.Wrap(err, "va profile get error")
		}
		if profile == nil {
			return voteParties{}, apperrors.NewNotFound("va profile not found")
		}
		return voteParties{side: models.VoteSideCompany, job: job, profile: profile}, nil
	case models.UserRoleVA:
		profile, err := i.vaStore.GetByID(data.VAProfileID)
		if err != nil {
			return voteParties{}, errors.Wrap(err, "va profile get error")
		}
		if profile == nil || profile.UserID != actor.UserID {
			return voteParties{}, apperrors.NewForbidden("assistants vote only for their own profile")
		}
		job, err := i.jobStore.GetByID(data.JobPostingID)
		if err != nil {
			return voteParties{}, errors.Wrap(err, "job posting get error")
		}
		if job == nil {
			return voteParties{}, apperrors.NewNotFound("job posting not found")
		}
		return voteParties{side: models.VoteSideVA, job: job, profile: profile}, nil
	case models.UserRoleAdmin:
		return voteParties{}, apperrors.NewForbidden("administrators do not vote")
	default:
		return voteParties{}, apperrors.NewForbidden("role is not allowed to vote")
	}
}

func (i impl) Vote(actor models.Actor, data matchapimodels.VoteRequest) (matchapimodels.VoteResult, error) {
	if err := data.Validate(); err != nil {
		return matchapimodels.VoteResult{}, apperrors.Validation(err)
	}
	parties, err := i.resolveParties(actor, data)
	if err != nil {
		return matchapimodels.VoteResult{}, err
	}
	vote := *data.Vote
	var outcome voteOutcome
	locked, err := lock.WithDelay(context.Background(), pairKey(parties), voteLockWait, func() (lockErr error) {
		outcome, lockErr = i.recordVote(parties, vote)
		return lockErr
	})
	if err != nil {
		return matchapimodels.VoteResult{}, err
	}
	if !locked {
		return matchapimodels.VoteResult{}, apperrors.NewConflict("another vote for this pair is in progress, retry")
	}
	match, created, pending := outcome.match, outcome.created, outcome.pending
	metrics.RecordVote(string(parties.side), vote)
	logger := i.getLogger(actor.UserID).
		WithField("job_posting_id", parties.job.ID).
		WithField("va_profile_id", parties.profile.ID).
		WithField("vote", vote)
	if created {
		metrics.RecordMatch()
		pending.Deliver()
		logger.WithField("match_id", match.ID).Info("match created")
	} else {
		logger.Debug("vote recorded")
	}
	result := matchapimodels.VoteResult{Vote: vote}
	if match != nil {
		result.Matched = true
		result.MatchID = &match.ID
	}
	return result, nil
}

type voteOutcome struct {
	match   *dbmodels.Match
	created bool
	pending notificationhandler.Pending
}

func pairKey(parties voteParties) string {
	return "vote:" + parties.job.ID + ":" + parties.profile.ID
}

// recordVote stores the vote and creates the match once both sides said yes.
func (i impl) recordVote(parties voteParties, vote bool) (voteOutcome, error) {
	result := voteOutcome{}
	err := i.db.Transaction(func(tx *gorm.DB) error {
		stored, txErr := votestore.NewInstance(tx).Upsert(parties.job.ID, parties.profile.ID, parties.side, vote)
		if txErr != nil {
			return errors.Wrap(txErr, "vote save error")
		}
		matches := matchstore.NewInstance(tx)
		if !stored.BothTrue() {
			result.match, txErr = matches.GetByPair(parties.job.ID, parties.profile.ID)
			return errors.Wrap(txErr, "match get error")
		}
		result.match, result.created, txErr = matches.CreateIfAbsent(parties.job.ID, parties.profile.ID)
		if txErr != nil {
			return errors.Wrap(txErr, "match create error")
		}
		if !result.created {
			return nil
		}
		result.pending, txErr = i.notifier.Prepare(tx, matchMessages(result.match.ID, parties)...)
		return txErr
	})
	return result, err
}

func matchMessages(matchID string, parties voteParties) []notificationhandler.Message {
	return []notificationhandler.Message{
		{
			UserID:   parties.job.CompanyUserID,
			Code:     models.NotificationMatchCreated,
			Title:    fmt.Sprintf("It's a match: %s", parties.profile.Name),
			Body:     fmt.Sprintf("%s is interested in %s too.", parties.profile.Name, parties.job.Title),
			EntityID: matchID,
			Email:    true,
		},
		{
			UserID:   parties.profile.UserID,
			Code:     models.NotificationMatchCreated,
			Title:    fmt.Sprintf("It's a match: %s", parties.job.Title),
			Body:     fmt.Sprintf("%s is interested in you for %s.", parties.job.CompanyName, parties.job.Title),
			EntityID: matchID,
			Email:    true,
		},
	}
}

func (i impl) ListMatches(actor models.Actor) ([]matchapimodels.MatchView, error) {
	list, err := i.matchStore.List(actor.UserID, actor.Role)
	if err != nil {
		return nil, errors.Wrap(err, "match list error")
	}
	result := make([]matchapimodels.MatchView, 0, len(list))
	for _, rec := range list {
		result = append(result, matchapimodels.MatchConvert(rec))
	}
	return result, nil
}

func (i impl) GetForParty(actor models.Actor, matchID string) (*dbmodels.MatchExt, error) {
	match, err := i.matchStore.GetByID(matchID)
	if err != nil {
		return nil, errors.Wrap(err, "match get error")
	}
	if match == nil {
		return nil, apperrors.NewNotFound("match not found")
	}
	if actor.Role == models.UserRoleAdmin || match.IsParty(actor.UserID) {
		return match, nil
	}
	return nil, apperrors.NewNotFound("match not found")
}

func (i impl) Unlock(actor models.Actor, matchID string) (matchapimodels.ContactInfo, error) {
	if actor.Role != models.UserRoleCompany {
		return matchapimodels.ContactInfo{}, apperrors.NewForbidden("only companies unlock contacts")
	}
	match, err := i.matchStore.GetByID(matchID)
	if err != nil {
		return matchapimodels.ContactInfo{}, errors.Wrap(err, "match get error")
	}
	if match == nil || match.CompanyUserID != actor.UserID {
		return matchapimodels.ContactInfo{}, apperrors.NewNotFound("match not found")
	}
	paid, err := i.paymentStore.HasSucceeded(paymentstore.Target{
		Purpose: models.PaymentPurposeContactUnlock,
		MatchID: match.ID,
	})
	if err != nil {
		return matchapimodels.ContactInfo{}, errors.Wrap(err, "payment check error")
	}
	if !paid {
		return matchapimodels.ContactInfo{}, apperrors.NewPaymentRequired("contact unlock is not paid")
	}
	if !match.ContactUnlocked {
		if err = i.matchStore.SetContactUnlocked(match.ID, true); err != nil {
			return matchapimodels.ContactInfo{}, errors.Wrap(err, "match update error")
		}
		match.ContactUnlocked = true
		i.getLogger(actor.UserID).WithField("match_id", match.ID).Info("contact unlocked")
		err = i.notifier.Notify(notificationhandler.Message{
			UserID:   match.VAUserID,
			Code:     models.NotificationContactUnlocked,
			Title:    fmt.Sprintf("%s unlocked your contact details", match.CompanyName),
			EntityID: match.ID,
		})
		if err != nil {
			i.getLogger(match.VAUserID).WithError(err).Error("notification error")
		}
	}
	return i.contactInfo(match)
}

func (i impl) Contact(actor models.Actor, matchID string) (matchapimodels.ContactInfo, error) {
	match, err := i.GetForParty(actor, matchID)
	if err != nil {
		return matchapimodels.ContactInfo{}, err
	}
	if !match.ContactUnlocked {
		return matchapimodels.ContactInfo{}, apperrors.NewPaymentRequired("contact is locked")
	}
	return i.contactInfo(match)
}

func (i impl) contactInfo(match *dbmodels.MatchExt) (matchapimodels.ContactInfo, error) {
	company, err := i.companyStore.GetByID(match.CompanyID)
	if err != nil {
		return matchapimodels.ContactInfo{}, errors.Wrap(err, "company get error")
	}
	profile, err := i.vaStore.GetByID(match.VAProfileID)
	if err != nil {
		return matchapimodels.ContactInfo{}, errors.Wrap(err, "va profile get error")
	}
	companyUser, err := i.userStore.GetByID(match.CompanyUserID)
	if err != nil {
		return matchapimodels.ContactInfo{}, errors.Wrap(err, "user get error")
	}
	vaUser, err := i.userStore.GetByID(match.VAUserID)
	if err != nil {
		return matchapimodels.ContactInfo{}, errors.Wrap(err, "user get error")
	}
	if company == nil || profile == nil || companyUser == nil || vaUser == nil {
		return matchapimodels.ContactInfo{}, errors.New("match party not found")
	}
	companyEmail := company.ContactEmail
	if companyEmail == "" {
		companyEmail = companyUser.Email
	}
	return matchapimodels.ContactInfo{
		MatchID: match.ID,
		Company: matchapimodels.PartyContact{
			Name:  company.Name,
			Email: companyEmail,
			Phone: company.Phone,
		},
		VA: matchapimodels.PartyContact{
			Name:  profile.Name,
			Email: vaUser.Email,
			Phone: profile.Phone,
		},
	}, nil
}

func (i impl) Recommendations(actor models.Actor, jobPostingID string) (matchapimodels.Recommendations, error) {
	if actor.Role != models.UserRoleCompany {
		return matchapimodels.Recommendations{}, apperrors.NewForbidden("only companies get recommendations")
	}
	job, err := i.jobStore.GetOwned(jobPostingID, actor.UserID)
	if err != nil {
		return matchapimodels.Recommendations{}, errors.Wrap(err, "job posting get error")
	}
	if job == nil {
		return matchapimodels.Recommendations{}, apperrors.NewNotFound("job posting not found")
	}
	list, err := i.vaStore.ListNotVoted(job.ID, discoveryLimit)
	if err != nil {
		return matchapimodels.Recommendations{}, errors.Wrap(err, "recommendations error")
	}
	result := matchapimodels.Recommendations{
		JobPostingID: job.ID,
		Items:        make([]profileapimodels.VAProfilePublicView, 0, len(list)),
	}
	for _, rec := range list {
		result.Items = append(result.Items, profileapimodels.VAProfilePublicConvert(rec))
	}
	return result, nil
}

func (i impl) Discovery(actor models.Actor) (matchapimodels.JobDiscovery, error) {
	if actor.Role != models.UserRoleVA {
		return matchapimodels.JobDiscovery{}, apperrors.NewForbidden("only assistants discover jobs")
	}
	profile, err := i.vaStore.GetByUserID(actor.UserID)
	if err != nil {
		return matchapimodels.JobDiscovery{}, errors.Wrap(err, "va profile get error")
	}
	if profile == nil {
		return matchapimodels.JobDiscovery{}, apperrors.NewNotFound("va profile not found")
	}
	list, err := i.jobStore.ListNotVotedByVA(profile.ID, discoveryLimit)
	if err != nil {
		return matchapimodels.JobDiscovery{}, errors.Wrap(err, "discovery error")
	}
	result := matchapimodels.JobDiscovery{
		VAProfileID: profile.ID,
		Items:       make([]jobapimodels.JobPostingView, 0, len(list)),
	}
	for _, rec := range list {
		result.Items = append(result.Items, jobapimodels.JobPostingExtConvert(rec))
	}
	return result, nil
}
