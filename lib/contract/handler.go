package contracthandler

import (
	"fmt"
	"strings"
	"time"

	milestonestore "blytzwork-backend/lib/contract/milestone-store"
	contractstore "blytzwork-backend/lib/contract/store"
	pdfexport "blytzwork-backend/lib/export/pdf"
	matchstore "blytzwork-backend/lib/matching/match-store"
	notificationhandler "blytzwork-backend/lib/notification"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/models"
	contractapimodels "blytzwork-backend/models/api/contract"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(actor models.Actor, data contractapimodels.ContractData) (contractapimodels.ContractView, error)
	// CreateInTx stores the contract with its milestones using tx. Terms must be validated by the caller.
	CreateInTx(tx *gorm.DB, draft Draft, terms contractapimodels.ContractTerms) (*dbmodels.Contract, error)
	List(actor models.Actor, filter contractapimodels.ContractFilter) ([]contractapimodels.ContractView, int64, error)
	Get(actor models.Actor, id string) (contractapimodels.ContractView, error)
	// GetForParty returns the contract when the actor is one of its parties or an admin.
	GetForParty(actor models.Actor, id string) (*dbmodels.ContractExt, error)
	ChangeStatus(actor models.Actor, id string, data contractapimodels.ContractStatusChange) (contractapimodels.ContractView, error)
	AddMilestone(actor models.Actor, contractID string, data contractapimodels.MilestoneData) (contractapimodels.MilestoneView, error)
	SubmitMilestone(actor models.Actor, id string) (contractapimodels.MilestoneView, error)
	ApproveMilestone(actor models.Actor, id string) (contractapimodels.MilestoneView, error)
	GetMilestone(actor models.Actor, id string) (*dbmodels.Milestone, *dbmodels.ContractExt, error)
	Invoice(actor models.Actor, milestoneID string) (file []byte, fileName string, err error)
}

// Draft names the parties of a new contract.
type Draft struct {
	JobPostingID string
	CompanyID    string
	VAProfileID  string
	ProposalID   *string
	MatchID      *string
}

func NewHandler(DB *gorm.DB, notifier notificationhandler.Provider, currency string) Provider {
	return &impl{
		db:             DB,
		store:          contractstore.NewInstance(DB),
		milestoneStore: milestonestore.NewInstance(DB),
		matchStore:     matchstore.NewInstance(DB),
		notifier:       notifier,
		currency:       strings.ToUpper(currency),
	}
}

type impl struct {
	db             *gorm.DB
	store          contractstore.Provider
	milestoneStore milestonestore.Provider
	matchStore     matchstore.Provider
	notifier       notificationhandler.Provider
	currency       string
}

func (i impl) getLogger(userID, contractID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if contractID != "" {
		logger = logger.WithField("contract_id", contractID)
	}
	return logger
}

func (i impl) Create(actor models.Actor, data contractapimodels.ContractData) (contractapimodels.ContractView, error) {
	if actor.Role != models.UserRoleCompany {
		return contractapimodels.ContractView{}, apperrors.NewForbidden("only companies create contracts")
	}
	if err := data.Validate(); err != nil {
		return contractapimodels.ContractView{}, apperrors.Validation(err)
	}
	match, err := i.matchStore.GetByID(data.MatchID)
	if err != nil {
		return contractapimodels.ContractView{}, errors.Wrap(err, "match get error")
	}
	if match == nil || match.CompanyUserID != actor.UserID {
		return contractapimodels.ContractView{}, apperrors.NewNotFound("match not found")
	}
	draft := Draft{
		JobPostingID: match.JobPostingID,
		CompanyID:    match.CompanyID,
		VAProfileID:  match.VAProfileID,
		MatchID:      &match.ID,
	}
	var (
		rec     *dbmodels.Contract
		pending notificationhandler.Pending
	)
	err = i.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		rec, txErr = i.CreateInTx(tx, draft, data.ContractTerms)
		if txErr != nil {
			return txErr
		}
		pending, txErr = i.notifier.Prepare(tx, notificationhandler.Message{
			UserID:   match.VAUserID,
			Code:     models.NotificationContractCreated,
			Title:    fmt.Sprintf("New contract: %s", rec.Title),
			Body:     fmt.Sprintf("%s offered you a contract.", match.CompanyName),
			EntityID: rec.ID,
		})
		return txErr
	})
	if err != nil {
		return contractapimodels.ContractView{}, err
	}
	pending.Deliver()
	i.getLogger(actor.UserID, rec.ID).Info("contract created")
	return i.Get(actor, rec.ID)
}

func (i impl) CreateInTx(tx *gorm.DB, draft Draft, terms contractapimodels.ContractTerms) (*dbmodels.Contract, error) {
	rec := dbmodels.Contract{
		JobPostingID: draft.JobPostingID,
		CompanyID:    draft.CompanyID,
		VAProfileID:  draft.VAProfileID,
		ProposalID:   draft.ProposalID,
		MatchID:      draft.MatchID,
		Title:        strings.TrimSpace(terms.Title),
		Type:         terms.Type,
		StartDate:    terms.StartDate,
		EndDate:      terms.EndDate,
		Status:       models.ContractStatusActive,
	}
	switch terms.Type {
	case models.ContractTypeFixed:
		rec.Amount = terms.Amount
	case models.ContractTypeHourly:
		rec.HourlyRate = terms.HourlyRate
	default:
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown contract type %q", terms.Type))
	}
	created, err := contractstore.NewInstance(tx).Create(rec)
	if err != nil {
		return nil, errors.Wrap(err, "contract create error")
	}
	milestoneStore := milestonestore.NewInstance(tx)
	for _, item := range terms.Milestones {
		_, err = milestoneStore.Create(dbmodels.Milestone{
			ContractID:  created.ID,
			Title:       strings.TrimSpace(item.Title),
			Description: item.Description,
			Amount:      item.Amount,
			DueDate:     item.DueDate,
			Status:      models.MilestoneStatusPending,
		})
		if err != nil {
			return nil, errors.Wrap(err, "milestone create error")
		}
	}
	return created, nil
}

func (i impl) List(actor models.Actor, filter contractapimodels.ContractFilter) ([]contractapimodels.ContractView, int64, error) {
	rowCount, err := i.store.ListCount(actor.UserID, actor.Role, filter)
	if err != nil {
		return nil, 0, err
	}
	list, err := i.store.List(actor.UserID, actor.Role, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "contract list error")
	}
	result := make([]contractapimodels.ContractView, 0, len(list))
	for _, rec := range list {
		result = append(result, contractapimodels.ContractConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) GetForParty(actor models.Actor, id string) (*dbmodels.ContractExt, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "contract get error")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("contract not found")
	}
	if actor.Role == models.UserRoleAdmin || rec.IsParty(actor.UserID) {
		return rec, nil
	}
	return nil, apperrors.NewNotFound("contract not found")
}

func (i impl) Get(actor models.Actor, id string) (contractapimodels.ContractView, error) {
	rec, err := i.GetForParty(actor, id)
	if err != nil {
		return contractapimodels.ContractView{}, err
	}
	milestones, err := i.milestoneStore.ListByContract(rec.ID)
	if err != nil {
		return contractapimodels.ContractView{}, errors.Wrap(err, "milestone list error")
	}
	result := contractapimodels.ContractConvert(*rec)
	for _, item := range milestones {
		result.Milestones = append(result.Milestones, contractapimodels.MilestoneConvert(item))
	}
	return result, nil
}

func companySide(actor models.Actor, rec *dbmodels.ContractExt) error {
	if rec.CompanyUserID != actor.UserID {
		return apperrors.NewForbidden("only the hiring company can do this")
	}
	return nil
}

func vaSide(actor models.Actor, rec *dbmodels.ContractExt) error {
	if rec.VAUserID != actor.UserID {
		return apperrors.NewForbidden("only the contracted assistant can do this")
	}
	return nil
}

func (i impl) ChangeStatus(actor models.Actor, id string, data contractapimodels.ContractStatusChange) (contractapimodels.ContractView, error) {
	if err := data.Validate(); err != nil {
		return contractapimodels.ContractView{}, apperrors.Validation(err)
	}
	rec, err := i.GetForParty(actor, id)
	if err != nil {
		return contractapimodels.ContractView{}, err
	}
	if err = companySide(actor, rec); err != nil {
		return contractapimodels.ContractView{}, err
	}
	if rec.Status != models.ContractStatusActive {
		return contractapimodels.ContractView{}, apperrors.NewConflict("only an active contract can be changed")
	}
	err = i.store.Update(rec.ID, map[string]interface{}{"status": data.Status})
	if err != nil {
		return contractapimodels.ContractView{}, errors.Wrap(err, "contract update error")
	}
	i.getLogger(actor.UserID, rec.ID).WithField("status", data.Status).Info("contract status changed")
	i.notify(notificationhandler.Message{
		UserID:   rec.VAUserID,
		Code:     models.NotificationContractStatus,
		Title:    fmt.Sprintf("Contract %s is %s", rec.Title, data.Status),
		EntityID: rec.ID,
	})
	return i.Get(actor, rec.ID)
}

func (i impl) AddMilestone(actor models.Actor, contractID string, data contractapimodels.MilestoneData) (contractapimodels.MilestoneView, error) {
	if err := data.Validate(); err != nil {
		return contractapimodels.MilestoneView{}, apperrors.Validation(err)
	}
	rec, err := i.GetForParty(actor, contractID)
	if err != nil {
		return contractapimodels.MilestoneView{}, err
	}
	if err = companySide(actor, rec); err != nil {
		return contractapimodels.MilestoneView{}, err
	}
	if rec.Status != models.ContractStatusActive {
		return contractapimodels.MilestoneView{}, apperrors.NewConflict("contract is not active")
	}
	if rec.Type != models.ContractTypeFixed {
		return contractapimodels.MilestoneView{}, apperrors.NewValidation("milestones are only allowed for a fixed contract")
	}
	total, err := i.milestoneStore.TotalAmount(rec.ID)
	if err != nil {
		return contractapimodels.MilestoneView{}, errors.Wrap(err, "milestone total error")
	}
	if total+data.Amount > rec.Amount {
		return contractapimodels.MilestoneView{}, apperrors.NewValidation("milestones total exceeds the contract amount")
	}
	milestone, err := i.milestoneStore.Create(dbmodels.Milestone{
		ContractID:  rec.ID,
		Title:       strings.TrimSpace(data.Title),
		Description: data.Description,
		Amount:      data.Amount,
		DueDate:     data.DueDate,
		Status:      models.MilestoneStatusPending,
	})
	if err != nil {
		return contractapimodels.MilestoneView{}, errors.Wrap(err, "milestone create error")
	}
	i.notify(notificationhandler.Message{
		UserID:   rec.VAUserID,
		Code:     models.NotificationMilestoneStatus,
		Title:    fmt.Sprintf("New milestone: %s", milestone.Title),
		EntityID: milestone.ID,
	})
	return contractapimodels.MilestoneConvert(*milestone), nil
}

func (i impl) GetMilestone(actor models.Actor, id string) (*dbmodels.Milestone, *dbmodels.ContractExt, error) {
	milestone, err := i.milestoneStore.GetByID(id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "milestone get error")
	}
	if milestone == nil {
		return nil, nil, apperrors.NewNotFound("milestone not found")
	}
	rec, err := i.GetForParty(actor, milestone.ContractID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, nil, apperrors.NewNotFound("milestone not found")
		}
		return nil, nil, err
	}
	return milestone, rec, nil
}

func (i impl) SubmitMilestone(actor models.Actor, id string) (contractapimodels.MilestoneView, error) {
	milestone, rec, err := i.GetMilestone(actor, id)
	if err != nil {
		return contractapimodels.MilestoneView{}, err
	}
	if err = vaSide(actor, rec); err != nil {
		return contractapimodels.MilestoneView{}, err
	}
	return i.moveMilestone(actor, milestone, rec, models.MilestoneStatusPending, rec.CompanyUserID)
}

func (i impl) ApproveMilestone(actor models.Actor, id string) (contractapimodels.MilestoneView, error) {
	milestone, rec, err := i.GetMilestone(actor, id)
	if err != nil {
		return contractapimodels.MilestoneView{}, err
	}
	if err = companySide(actor, rec); err != nil {
		return contractapimodels.MilestoneView{}, err
	}
	return i.moveMilestone(actor, milestone, rec, models.MilestoneStatusSubmitted, rec.VAUserID)
}

func (i impl) moveMilestone(actor models.Actor, milestone *dbmodels.Milestone, rec *dbmodels.ContractExt, from models.MilestoneStatus, notifyUserID string) (contractapimodels.MilestoneView, error) {
	if rec.Status != models.ContractStatusActive {
		return contractapimodels.MilestoneView{}, apperrors.NewConflict("contract is not active")
	}
	to := from.Next()
	ok, err := i.milestoneStore.SetStatus(milestone.ID, from, to)
	if err != nil {
		return contractapimodels.MilestoneView{}, errors.Wrap(err, "milestone update error")
	}
	if !ok {
		return contractapimodels.MilestoneView{}, apperrors.NewConflict(fmt.Sprintf("milestone is %s", milestone.Status))
	}
	milestone.Status = to
	i.getLogger(actor.UserID, rec.ID).
		WithField("milestone_id", milestone.ID).
		WithField("status", to).
		Info("milestone status changed")
	i.notify(notificationhandler.Message{
		UserID:   notifyUserID,
		Code:     models.NotificationMilestoneStatus,
		Title:    fmt.Sprintf("Milestone %s is %s", milestone.Title, to),
		EntityID: milestone.ID,
	})
	return contractapimodels.MilestoneConvert(*milestone), nil
}

func (i impl) Invoice(actor models.Actor, milestoneID string) ([]byte, string, error) {
	milestone, rec, err := i.GetMilestone(actor, milestoneID)
	if err != nil {
		return nil, "", err
	}
	number := "INV-" + strings.ToUpper(strings.SplitN(milestone.ID, "-", 2)[0])
	file, err := pdfexport.GenerateInvoice(pdfexport.InvoiceData{
		Number:         number,
		IssuedAt:       time.Now(),
		CompanyName:    rec.CompanyName,
		VAName:         rec.VAName,
		ContractTitle:  rec.Title,
		MilestoneTitle: milestone.Title,
		Description:    milestone.Description,
		Amount:         milestone.Amount,
		Currency:       i.currency,
		Status:         string(milestone.Status),
	})
	if err != nil {
		return nil, "", errors.Wrap(err, "invoice generate error")
	}
	return file, number + ".pdf", nil
}

func (i impl) notify(msg notificationhandler.Message) {
	if err := i.notifier.Notify(msg); err != nil {
		i.getLogger(msg.UserID, "").WithError(err).Error("notification error")
	}
}
