package chathandler

import (
	"encoding/json"
	"strings"
	"time"

	chatstore "blytzwork-backend/lib/chat/store"
	matchinghandler "blytzwork-backend/lib/matching"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"
	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	notificationapimodels "blytzwork-backend/models/api/notification"
	dbmodels "blytzwork-backend/models/db"
	wsmodels "blytzwork-backend/models/ws"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Send(actor models.Actor, matchID string, data notificationapimodels.ChatMessageData) (notificationapimodels.ChatMessageView, error)
	List(actor models.Actor, matchID string, page apimodels.Pagination) ([]notificationapimodels.ChatMessageView, int64, error)
}

func NewHandler(DB *gorm.DB, matching matchinghandler.Provider, hub connectionhub.Provider) Provider {
	return &impl{
		store:    chatstore.NewInstance(DB),
		matching: matching,
		hub:      hub,
	}
}

type impl struct {
	store    chatstore.Provider
	matching matchinghandler.Provider
	hub      connectionhub.Provider
}

func (i impl) getLogger(userID, matchID string) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("match_id", matchID)
}

// chatMatch returns the match when the actor is a party and the contact is unlocked.
func (i impl) chatMatch(actor models.Actor, matchID string) (*dbmodels.MatchExt, error) {
	match, err := i.matching.GetForParty(actor, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParty(actor.UserID) {
		return nil, apperrors.NewForbidden("only match parties can chat")
	}
	if !match.ContactUnlocked {
		return nil, apperrors.NewPaymentRequired("chat is available after the contact unlock")
	}
	return match, nil
}

func (i impl) Send(actor models.Actor, matchID string, data notificationapimodels.ChatMessageData) (notificationapimodels.ChatMessageView, error) {
	match, err := i.chatMatch(actor, matchID)
	if err != nil {
		return notificationapimodels.ChatMessageView{}, err
	}
	data.Body = strings.TrimSpace(data.Body)
	if err = data.Validate(); err != nil {
		return notificationapimodels.ChatMessageView{}, apperrors.Validation(err)
	}
	rec, err := i.store.Create(dbmodels.ChatMessage{
		MatchID:      match.ID,
		SenderUserID: actor.UserID,
		Body:         data.Body,
	})
	if err != nil {
		return notificationapimodels.ChatMessageView{}, errors.Wrap(err, "chat message create error")
	}
	view := notificationapimodels.ChatMessageConvert(*rec)
	logger := i.getLogger(actor.UserID, match.ID)
	body, err := json.Marshal(view)
	if err != nil {
		logger.WithError(err).Error("chat message encode error")
		return view, nil
	}
	err = i.hub.Push(wsmodels.ServerMessage{
		ToUserID: match.OtherParty(actor.UserID),
		Code:     string(models.NotificationChatMessage),
		EntityID: match.ID,
		Msg:      string(body),
	})
	if err != nil {
		logger.WithError(err).Error("chat message push error")
	}
	return view, nil
}

func (i impl) List(actor models.Actor, matchID string, page apimodels.Pagination) ([]notificationapimodels.ChatMessageView, int64, error) {
	match, err := i.chatMatch(actor, matchID)
	if err != nil {
		return nil, 0, err
	}
	rowCount, err := i.store.Count(match.ID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "chat message count error")
	}
	list, err := i.store.List(match.ID, page)
	if err != nil {
		return nil, 0, errors.Wrap(err, "chat message list error")
	}
	if _, err = i.store.MarkRead(match.ID, actor.UserID, time.Now()); err != nil {
		i.getLogger(actor.UserID, match.ID).WithError(err).Error("chat message read mark error")
	}
	result := make([]notificationapimodels.ChatMessageView, 0, len(list))
	for _, rec := range list {
		result = append(result, notificationapimodels.ChatMessageConvert(rec))
	}
	return result, rowCount, nil
}
