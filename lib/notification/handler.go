package notificationhandler

import (
	"fmt"

	notificationstore "blytzwork-backend/lib/notification/store"
	"blytzwork-backend/lib/smtp"
	usersstore "blytzwork-backend/lib/users/store"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"
	"blytzwork-backend/models"
	notificationapimodels "blytzwork-backend/models/api/notification"
	dbmodels "blytzwork-backend/models/db"
	wsmodels "blytzwork-backend/models/ws"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Message struct {
	UserID   string
	Code     models.NotificationCode
	Title    string
	Body     string
	EntityID string
	// Email also sends the message to the user's address.
	Email bool
}

type Provider interface {
	// Prepare stores notifications using tx when given. Call Deliver on the result once tx is committed.
	Prepare(tx *gorm.DB, msgs ...Message) (Pending, error)
	Notify(msgs ...Message) error
	List(actor models.Actor, filter notificationapimodels.NotificationFilter) ([]notificationapimodels.NotificationView, int64, error)
	MarkRead(actor models.Actor, id string) error
	MarkAllRead(actor models.Actor) (int64, error)
}

func NewHandler(DB *gorm.DB, hub connectionhub.Provider, mailer smtp.Provider) Provider {
	return &impl{
		db:        DB,
		store:     notificationstore.NewInstance(DB),
		userStore: usersstore.NewInstance(DB),
		hub:       hub,
		mailer:    mailer,
	}
}

type impl struct {
	db        *gorm.DB
	store     notificationstore.Provider
	userStore usersstore.Provider
	hub       connectionhub.Provider
	mailer    smtp.Provider
}

// Pending holds stored notifications awaiting push and email delivery.
type Pending struct {
	items   []pendingItem
	deliver func(items []pendingItem)
}

type pendingItem struct {
	rec   dbmodels.Notification
	email bool
}

func (p Pending) Deliver() {
	if p.deliver != nil && len(p.items) > 0 {
		p.deliver(p.items)
	}
}

func (i impl) getLogger(userID string, code models.NotificationCode) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("event_code", code)
}

func (i impl) Prepare(tx *gorm.DB, msgs ...Message) (Pending, error) {
	store := i.store
	if tx != nil {
		store = notificationstore.NewInstance(tx)
	}
	result := Pending{deliver: i.deliver}
	for _, msg := range msgs {
		if msg.UserID == "" {
			continue
		}
		rec, err := store.Create(dbmodels.Notification{
			UserID:   msg.UserID,
			Code:     msg.Code,
			Title:    msg.Title,
			Body:     msg.Body,
			EntityID: msg.EntityID,
		})
		if err != nil {
			return Pending{}, errors.Wrap(err, "notification create error")
		}
		result.items = append(result.items, pendingItem{rec: *rec, email: msg.Email})
	}
	return result, nil
}

func (i impl) Notify(msgs ...Message) error {
	pending, err := i.Prepare(nil, msgs...)
	if err != nil {
		return err
	}
	pending.Deliver()
	return nil
}

func (i impl) deliver(items []pendingItem) {
	for _, item := range items {
		logger := i.getLogger(item.rec.UserID, item.rec.Code)
		err := i.hub.Push(wsmodels.ServerMessage{
			ToUserID: item.rec.UserID,
			Code:     string(item.rec.Code),
			EntityID: item.rec.EntityID,
			Msg:      item.rec.Title,
		})
		if err != nil {
			logger.WithError(err).Error("notification push error")
		}
		if item.email && i.mailer.IsConfigured() {
			go i.sendEmail(item.rec)
		}
	}
}

func (i impl) sendEmail(rec dbmodels.Notification) {
	logger := i.getLogger(rec.UserID, rec.Code)
	user, err := i.userStore.GetByID(rec.UserID)
	if err != nil {
		logger.WithError(err).Error("notification recipient get error")
		return
	}
	if user == nil || user.Email == "" {
		logger.Warn("notification recipient has no email")
		return
	}
	body := fmt.Sprintf("%s\r\n\r\n%s", rec.Title, rec.Body)
	if err = i.mailer.SendEMail(user.Email, rec.Title, body); err != nil {
		logger.WithError(err).Error("notification email error")
	}
}

func (i impl) List(actor models.Actor, filter notificationapimodels.NotificationFilter) ([]notificationapimodels.NotificationView, int64, error) {
	rowCount, err := i.store.ListCount(actor.UserID, filter)
	if err != nil {
		return nil, 0, err
	}
	list, err := i.store.List(actor.UserID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "notification list error")
	}
	result := make([]notificationapimodels.NotificationView, 0, len(list))
	for _, rec := range list {
		result = append(result, notificationapimodels.NotificationConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) MarkRead(actor models.Actor, id string) error {
	found, err := i.store.MarkRead(actor.UserID, id)
	if err != nil {
		return errors.Wrap(err, "notification update error")
	}
	if !found {
		return apperrors.NewNotFound("notification not found")
	}
	return nil
}

func (i impl) MarkAllRead(actor models.Actor) (int64, error) {
	count, err := i.store.MarkAllRead(actor.UserID)
	if err != nil {
		return 0, errors.Wrap(err, "notification update error")
	}
	return count, nil
}
