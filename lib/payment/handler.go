package paymenthandler

import (
	"context"
	"fmt"
	"strings"
	"time"

	milestonestore "blytzwork-backend/lib/contract/milestone-store"
	contractstore "blytzwork-backend/lib/contract/store"
	matchstore "blytzwork-backend/lib/matching/match-store"
	"blytzwork-backend/lib/metrics"
	notificationhandler "blytzwork-backend/lib/notification"
	paymentprocessor "blytzwork-backend/lib/payment-processor"
	paymentstore "blytzwork-backend/lib/payment/store"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/helpers"
	"blytzwork-backend/models"
	paymentapimodels "blytzwork-backend/models/api/payment"
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	CreateUnlockIntent(ctx context.Context, actor models.Actor, matchID string) (paymentapimodels.PaymentIntentResponse, error)
	CreateMilestoneIntent(ctx context.Context, actor models.Actor, milestoneID string) (paymentapimodels.PaymentIntentResponse, error)
	Confirm(ctx context.Context, actor models.Actor, id string, data paymentapimodels.PaymentConfirm) (paymentapimodels.PaymentView, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	Refund(ctx context.Context, actor models.Actor, id string) (paymentapimodels.PaymentView, error)
	List(actor models.Actor, filter paymentapimodels.PaymentFilter) ([]paymentapimodels.PaymentView, int64, error)
	// ExpirePending settles pending payments created before the cutoff. Returns the number of payments changed.
	ExpirePending(ctx context.Context, before time.Time) (int, error)
}

type Config struct {
	UnlockFeeCents int64
	Currency       string
}

func NewHandler(DB *gorm.DB, processor paymentprocessor.Provider, notifier notificationhandler.Provider, cfg Config) Provider {
	return &impl{
		db:             DB,
		store:          paymentstore.NewInstance(DB),
		matchStore:     matchstore.NewInstance(DB),
		contractStore:  contractstore.NewInstance(DB),
		milestoneStore: milestonestore.NewInstance(DB),
		processor:      processor,
		notifier:       notifier,
		cfg: Config{
			UnlockFeeCents: cfg.UnlockFeeCents,
			Currency:       strings.ToLower(cfg.Currency),
		},
	}
}

type impl struct {
	db             *gorm.DB
	store          paymentstore.Provider
	matchStore     matchstore.Provider
	contractStore  contractstore.Provider
	milestoneStore milestonestore.Provider
	processor      paymentprocessor.Provider
	notifier       notificationhandler.Provider
	cfg            Config
}

func (i impl) getLogger(paymentID string) *log.Entry {
	logger := log.WithField("provider", i.processor.Name())
	if paymentID != "" {
		logger = logger.WithField("payment_id", paymentID)
	}
	return logger
}

func (i impl) CreateUnlockIntent(ctx context.Context, actor models.Actor, matchID string) (paymentapimodels.PaymentIntentResponse, error) {
	if actor.Role != models.UserRoleCompany {
		return paymentapimodels.PaymentIntentResponse{}, apperrors.NewForbidden("only companies unlock contacts")
	}
	match, err := i.matchStore.GetByID(matchID)
	if err != nil {
		return paymentapimodels.PaymentIntentResponse{}, errors.Wrap(err, "match get error")
	}
	if match == nil || match.CompanyUserID != actor.UserID {
		return paymentapimodels.PaymentIntentResponse{}, apperrors.NewNotFound("match not found")
	}
	if match.ContactUnlocked {
		return paymentapimodels.PaymentIntentResponse{}, apperrors.NewConflict("contact already unlocked")
	}
	draft := dbmodels.Payment{
		PayerUserID: actor.UserID,
		Purpose:     models.PaymentPurposeContactUnlock,
		MatchID:     &match.ID,
		AmountCents: i.cfg.UnlockFeeCents,
	}
	return i.createIntent(ctx, paymentstore.Target{Purpose: draft.Purpose, MatchID: match.ID}, draft)
}

func (i impl) CreateMilestoneIntent(ctx context.Context, actor models.Actor, milestoneID string) (paymentapimodels.PaymentIntentResponse, error) {
	if actor.Role != models.UserRoleCompany {
		return paymentapimodels.PaymentIntentResponse{}, apperrors.NewForbidden("only companies pay milestones")
	}
	milestone, err := i.milestoneStore.GetByID(milestoneID)
	if err != nil {
		return paymentapimodels.PaymentIntentResponse{}, errors.Wrap(err, "milestone get error")
	}
	if milestone == nil {
		return paymentapimodels.PaymentIntentResponse{}, apperrors.NewNotFound("milestone not found")
	}
	contract, err := i.contractStore.GetByID(milestone.ContractID)
	if err != nil {
		return paymentapimodels.PaymentIntentResponse{}, errors.Wrap(err, "contract get error")
	}
	if contract == nil || contract.CompanyUserID != actor.UserID {
		return paymentapimodels.PaymentIntentResponse{}, apperrors.NewNotFound("milestone not found")
	}
	if milestone.Status != models.MilestoneStatusApproved {
		return paymentapimodels.PaymentIntentResponse{}, apperrors.NewConflict(fmt.Sprintf("milestone is %s, only an approved milestone can be paid", milestone.Status))
	}
	draft := dbmodels.Payment{
		PayerUserID: actor.UserID,
		Purpose:     models.PaymentPurposeMilestone,
		ContractID:  &contract.ID,
		MilestoneID: &milestone.ID,
		AmountCents: helpers.ToCents(milestone.Amount),
	}
	return i.createIntent(ctx, paymentstore.Target{Purpose: draft.Purpose, MilestoneID: milestone.ID}, draft)
}

func (i impl) createIntent(ctx context.Context, target paymentstore.Target, draft dbmodels.Payment) (paymentapimodels.PaymentIntentResponse, error) {
	paid, err := i.store.HasSucceeded(target)
	if err != nil {
		return paymentapimodels.PaymentIntentResponse{}, errors.Wrap(err, "payment check error")
	}
	if paid {
		return paymentapimodels.PaymentIntentResponse{}, apperrors.NewConflict("already paid")
	}
	resp, reused, err := i.reusePending(ctx, target, draft.AmountCents)
	if err != nil {
		return paymentapimodels.PaymentIntentResponse{}, err
	}
	if reused {
		return resp, nil
	}

	draft.Currency = i.cfg.Currency
	draft.Status = models.PaymentStatusPending
	draft.Provider = i.processor.Name()
	rec, err := i.store.Create(draft)
	if err != nil {
		return paymentapimodels.PaymentIntentResponse{}, errors.Wrap(err, "payment create error")
	}
	logger := i.getLogger(rec.ID)
	metadata := map[string]string{
		"payment_id": rec.ID,
		"purpose":    string(rec.Purpose),
	}
	intent, err := i.processor.CreateIntent(ctx, rec.AmountCents, rec.Currency, metadata)
	if err != nil {
		logger.WithError(err).Error("payment intent create error")
		if _, failErr := i.settle(rec, models.PaymentStatusFailed, "intent create error"); failErr != nil {
			logger.WithError(failErr).Error("payment update error")
		}
		return paymentapimodels.PaymentIntentResponse{}, errors.Wrap(err, "payment intent create error")
	}
	if err = i.store.SetProviderRef(rec.ID, intent.ID); err != nil {
		return paymentapimodels.PaymentIntentResponse{}, errors.Wrap(err, "payment update error")
	}
	logger.WithField("purpose", rec.Purpose).Info("payment intent created")
	metrics.RecordPayment(string(rec.Purpose), string(rec.Status))
	return paymentapimodels.PaymentIntentResponse{
		PaymentID:    rec.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  rec.AmountCents,
		Currency:     rec.Currency,
	}, nil
}

// reusePending returns the newest pending payment of the target while its intent is still open.
func (i impl) reusePending(ctx context.Context, target paymentstore.Target, amountCents int64) (paymentapimodels.PaymentIntentResponse, bool, error) {
	rec, err := i.store.GetLatest(target, models.PaymentStatusPending)
	if err != nil {
		return paymentapimodels.PaymentIntentResponse{}, false, errors.Wrap(err, "payment get error")
	}
	if rec == nil || rec.ProviderRef == "" || rec.AmountCents != amountCents {
		return paymentapimodels.PaymentIntentResponse{}, false, nil
	}
	intent, err := i.processor.GetIntent(ctx, rec.ProviderRef)
	if err != nil {
		i.getLogger(rec.ID).WithError(err).Warn("pending payment intent get error")
		return paymentapimodels.PaymentIntentResponse{}, false, nil
	}
	switch intent.Status {
	case paymentprocessor.IntentPending:
		return paymentapimodels.PaymentIntentResponse{
			PaymentID:    rec.ID,
			ClientSecret: intent.ClientSecret,
			AmountCents:  rec.AmountCents,
			Currency:     rec.Currency,
		}, true, nil
	case paymentprocessor.IntentSucceeded:
		if _, err = i.settle(rec, models.PaymentStatusSucceeded, ""); err != nil {
			return paymentapimodels.PaymentIntentResponse{}, false, err
		}
		return paymentapimodels.PaymentIntentResponse{}, false, apperrors.NewConflict("already paid")
	case paymentprocessor.IntentFailed:
		if _, err = i.settle(rec, models.PaymentStatusFailed, intent.FailureReason); err != nil {
			return paymentapimodels.PaymentIntentResponse{}, false, err
		}
	}
	return paymentapimodels.PaymentIntentResponse{}, false, nil
}

func (i impl) Confirm(ctx context.Context, actor models.Actor, id string, data paymentapimodels.PaymentConfirm) (paymentapimodels.PaymentView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return paymentapimodels.PaymentView{}, errors.Wrap(err, "payment get error")
	}
	if rec == nil || rec.PayerUserID != actor.UserID {
		return paymentapimodels.PaymentView{}, apperrors.NewNotFound("payment not found")
	}
	if err = data.Validate(); err != nil {
		return paymentapimodels.PaymentView{}, apperrors.Validation(err)
	}
	if data.AmountCents != rec.AmountCents {
		return paymentapimodels.PaymentView{}, apperrors.NewValidation("amount does not match the payment")
	}
	if rec.Purpose == models.PaymentPurposeContactUnlock && data.AmountCents != i.cfg.UnlockFeeCents {
		return paymentapimodels.PaymentView{}, apperrors.NewValidation("amount does not match the unlock fee")
	}
	if rec.Status != models.PaymentStatusPending {
		return paymentapimodels.PaymentConvert(*rec), nil
	}
	if rec.ProviderRef == "" {
		return paymentapimodels.PaymentView{}, apperrors.NewConflict("payment has no processor intent")
	}
	intent, err := i.processor.GetIntent(ctx, rec.ProviderRef)
	if err != nil {
		return paymentapimodels.PaymentView{}, errors.Wrap(err, "payment intent get error")
	}
	switch intent.Status {
	case paymentprocessor.IntentSucceeded:
		rec, err = i.settle(rec, models.PaymentStatusSucceeded, "")
	case paymentprocessor.IntentFailed:
		reason := intent.FailureReason
		if reason == "" {
			reason = intent.RawStatus
		}
		rec, err = i.settle(rec, models.PaymentStatusFailed, reason)
	case paymentprocessor.IntentPending:
	}
	if err != nil {
		return paymentapimodels.PaymentView{}, err
	}
	return paymentapimodels.PaymentConvert(*rec), nil
}

// settle moves a pending payment to succeeded or failed together with its side effects.
func (i impl) settle(rec *dbmodels.Payment, status models.PaymentStatus, reason string) (*dbmodels.Payment, error) {
	updMap := map[string]interface{}{}
	switch status {
	case models.PaymentStatusSucceeded:
		updMap["paid_at"] = time.Now()
	case models.PaymentStatusFailed:
		updMap["failure_reason"] = reason
	default:
		return nil, errors.Errorf("payment can not be settled as %s", status)
	}
	var (
		changed bool
		pending notificationhandler.Pending
	)
	err := i.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		changed, txErr = paymentstore.NewInstance(tx).Transition(rec.ID, models.PaymentStatusPending, status, updMap)
		if txErr != nil {
			return errors.Wrap(txErr, "payment update error")
		}
		if !changed {
			return nil
		}
		msgs := []notificationhandler.Message{i.payerMessage(rec, status, reason)}
		if status == models.PaymentStatusSucceeded {
			var (
				msg   notificationhandler.Message
				txErr error
			)
			switch rec.Purpose {
			case models.PaymentPurposeMilestone:
				msg, txErr = i.markMilestonePaid(tx, rec)
			case models.PaymentPurposeContactUnlock:
				msg, txErr = i.markContactUnlocked(tx, rec)
			default:
				return errors.Errorf("unknown payment purpose %s", rec.Purpose)
			}
			if txErr != nil {
				return txErr
			}
			if msg.UserID != "" {
				msgs = append(msgs, msg)
			}
		}
		pending, txErr = i.notifier.Prepare(tx, msgs...)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	if changed {
		pending.Deliver()
		metrics.RecordPayment(string(rec.Purpose), string(status))
		i.getLogger(rec.ID).WithField("status", status).Info("payment settled")
	}
	updated, err := i.store.GetByID(rec.ID)
	if err != nil {
		return nil, errors.Wrap(err, "payment get error")
	}
	return updated, nil
}

func (i impl) markMilestonePaid(tx *gorm.DB, rec *dbmodels.Payment) (notificationhandler.Message, error) {
	if rec.MilestoneID == nil || rec.ContractID == nil {
		return notificationhandler.Message{}, errors.New("milestone payment without milestone")
	}
	ok, err := milestonestore.NewInstance(tx).SetStatus(*rec.MilestoneID, models.MilestoneStatusApproved, models.MilestoneStatusPaid)
	if err != nil {
		return notificationhandler.Message{}, errors.Wrap(err, "milestone update error")
	}
	if !ok {
		i.getLogger(rec.ID).WithField("milestone_id", *rec.MilestoneID).Warn("paid milestone was not approved")
	}
	contract, err := contractstore.NewInstance(tx).GetByID(*rec.ContractID)
	if err != nil {
		return notificationhandler.Message{}, errors.Wrap(err, "contract get error")
	}
	if contract == nil {
		return notificationhandler.Message{}, errors.New("contract not found")
	}
	return notificationhandler.Message{
		UserID:   contract.VAUserID,
		Code:     models.NotificationMilestoneStatus,
		Title:    fmt.Sprintf("Milestone on %s was paid", contract.Title),
		EntityID: *rec.MilestoneID,
	}, nil
}

// markContactUnlocked opens the match contact for both parties. An already open contact yields no message.
func (i impl) markContactUnlocked(tx *gorm.DB, rec *dbmodels.Payment) (notificationhandler.Message, error) {
	if rec.MatchID == nil {
		return notificationhandler.Message{}, errors.New("unlock payment without match")
	}
	store := matchstore.NewInstance(tx)
	match, err := store.GetByID(*rec.MatchID)
	if err != nil {
		return notificationhandler.Message{}, errors.Wrap(err, "match get error")
	}
	if match == nil {
		return notificationhandler.Message{}, errors.New("match not found")
	}
	if match.ContactUnlocked {
		return notificationhandler.Message{}, nil
	}
	if err = store.SetContactUnlocked(match.ID, true); err != nil {
		return notificationhandler.Message{}, errors.Wrap(err, "match update error")
	}
	return notificationhandler.Message{
		UserID:   match.VAUserID,
		Code:     models.NotificationContactUnlocked,
		Title:    fmt.Sprintf("%s unlocked your contact details", match.CompanyName),
		EntityID: match.ID,
	}, nil
}

func (i impl) payerMessage(rec *dbmodels.Payment, status models.PaymentStatus, reason string) notificationhandler.Message {
	amount := fmt.Sprintf("%.2f %s", float64(rec.AmountCents)/100, strings.ToUpper(rec.Currency))
	msg := notificationhandler.Message{
		UserID:   rec.PayerUserID,
		EntityID: rec.ID,
	}
	switch status {
	case models.PaymentStatusSucceeded:
		msg.Code = models.NotificationPaymentSucceeded
		msg.Title = "Payment of " + amount + " succeeded"
	case models.PaymentStatusRefunded:
		msg.Code = models.NotificationPaymentRefunded
		msg.Title = "Payment of " + amount + " was refunded"
	default:
		msg.Code = models.NotificationPaymentFailed
		msg.Title = "Payment of " + amount + " failed"
		msg.Body = reason
	}
	return msg
}

func (i impl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := i.processor.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, paymentprocessor.ErrInvalidSignature) {
			return apperrors.NewValidation("invalid webhook signature")
		}
		return apperrors.Validation(err)
	}
	logger := i.getLogger("").
		WithField("event_id", event.ID).
		WithField("event_type", event.Type)
	if event.Type == paymentprocessor.EventIgnored {
		logger.Debug("webhook event ignored")
		return nil
	}
	rec, err := i.store.GetByProviderRef(event.IntentID)
	if err != nil {
		return errors.Wrap(err, "payment get error")
	}
	if rec == nil {
		logger.WithField("intent_id", event.IntentID).Warn("webhook for unknown payment")
		return nil
	}
	switch event.Type {
	case paymentprocessor.EventIntentSucceeded:
		if rec.Status == models.PaymentStatusPending {
			_, err = i.settle(rec, models.PaymentStatusSucceeded, "")
		}
	case paymentprocessor.EventIntentFailed:
		if rec.Status == models.PaymentStatusPending {
			_, err = i.settle(rec, models.PaymentStatusFailed, event.FailureReason)
		}
	case paymentprocessor.EventChargeRefunded:
		if rec.Status == models.PaymentStatusSucceeded {
			_, err = i.markRefunded(rec)
		}
	case paymentprocessor.EventIgnored:
	}
	if err != nil {
		return err
	}
	logger.WithField("payment_id", rec.ID).Info("webhook processed")
	return nil
}

func (i impl) Refund(ctx context.Context, actor models.Actor, id string) (paymentapimodels.PaymentView, error) {
	if actor.Role != models.UserRoleAdmin {
		return paymentapimodels.PaymentView{}, apperrors.NewForbidden("only administrators refund payments")
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return paymentapimodels.PaymentView{}, errors.Wrap(err, "payment get error")
	}
	if rec == nil {
		return paymentapimodels.PaymentView{}, apperrors.NewNotFound("payment not found")
	}
	if rec.Status != models.PaymentStatusSucceeded {
		return paymentapimodels.PaymentView{}, apperrors.NewConflict("only a succeeded payment can be refunded")
	}
	if err = i.processor.Refund(ctx, rec.ProviderRef); err != nil {
		return paymentapimodels.PaymentView{}, errors.Wrap(err, "payment refund error")
	}
	updated, err := i.markRefunded(rec)
	if err != nil {
		return paymentapimodels.PaymentView{}, err
	}
	i.getLogger(rec.ID).WithField("user_id", actor.UserID).Info("payment refunded")
	return paymentapimodels.PaymentConvert(*updated), nil
}

// markRefunded also locks the match contact again or reopens the milestone for payment.
func (i impl) markRefunded(rec *dbmodels.Payment) (*dbmodels.Payment, error) {
	var (
		changed bool
		pending notificationhandler.Pending
	)
	err := i.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		changed, txErr = paymentstore.NewInstance(tx).Transition(rec.ID, models.PaymentStatusSucceeded, models.PaymentStatusRefunded,
			map[string]interface{}{"refunded_at": time.Now()})
		if txErr != nil {
			return errors.Wrap(txErr, "payment update error")
		}
		if !changed {
			return nil
		}
		switch rec.Purpose {
		case models.PaymentPurposeContactUnlock:
			if rec.MatchID != nil {
				if txErr = matchstore.NewInstance(tx).SetContactUnlocked(*rec.MatchID, false); txErr != nil {
					return errors.Wrap(txErr, "match update error")
				}
			}
		case models.PaymentPurposeMilestone:
			if rec.MilestoneID != nil {
				if _, txErr = milestonestore.NewInstance(tx).SetStatus(*rec.MilestoneID, models.MilestoneStatusPaid, models.MilestoneStatusApproved); txErr != nil {
					return errors.Wrap(txErr, "milestone update error")
				}
			}
		}
		pending, txErr = i.notifier.Prepare(tx, i.payerMessage(rec, models.PaymentStatusRefunded, ""))
		return txErr
	})
	if err != nil {
		return nil, err
	}
	if changed {
		pending.Deliver()
		metrics.RecordPayment(string(rec.Purpose), string(models.PaymentStatusRefunded))
	}
	updated, err := i.store.GetByID(rec.ID)
	if err != nil {
		return nil, errors.Wrap(err, "payment get error")
	}
	return updated, nil
}

func (i impl) List(actor models.Actor, filter paymentapimodels.PaymentFilter) ([]paymentapimodels.PaymentView, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, apperrors.Validation(err)
	}
	payer := actor.UserID
	if actor.Role == models.UserRoleAdmin {
		payer = ""
	}
	rowCount, err := i.store.ListCount(payer, filter)
	if err != nil {
		return nil, 0, err
	}
	list, err := i.store.List(payer, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "payment list error")
	}
	result := make([]paymentapimodels.PaymentView, 0, len(list))
	for _, rec := range list {
		result = append(result, paymentapimodels.PaymentConvert(rec))
	}
	return result, rowCount, nil
}

const expireBatchSize = 100

func (i impl) ExpirePending(ctx context.Context, before time.Time) (int, error) {
	list, err := i.store.ListPendingBefore(before, expireBatchSize)
	if err != nil {
		return 0, errors.Wrap(err, "pending payment list error")
	}
	changed := 0
	for idx := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		rec := &list[idx]
		status, reason := models.PaymentStatusFailed, "expired"
		if rec.ProviderRef != "" {
			intent, err := i.processor.GetIntent(ctx, rec.ProviderRef)
			if err != nil && !errors.Is(err, paymentprocessor.ErrIntentNotFound) {
				i.getLogger(rec.ID).WithError(err).Warn("pending payment intent get error")
				continue
			}
			if err == nil && intent.Status == paymentprocessor.IntentSucceeded {
				status, reason = models.PaymentStatusSucceeded, ""
			}
		}
		if _, err = i.settle(rec, status, reason); err != nil {
			i.getLogger(rec.ID).WithError(err).Error("pending payment settle error")
			continue
		}
		changed++
	}
	return changed, nil
}
