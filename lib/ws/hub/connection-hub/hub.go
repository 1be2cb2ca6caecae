package connectionhub

import (
	"sync"
	"time"

	pushstore "blytzwork-backend/lib/ws/push-store"
	dbmodels "blytzwork-backend/models/db"
	wsmodels "blytzwork-backend/models/ws"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Provider interface {
	AddClient(userID string, conn Conn)
	DeleteClient(userID string, conn Conn)
	// SendMessage delivers to a connected user and reports whether the message was queued.
	SendMessage(msg wsmodels.ServerMessage) bool
	// Push sends the message or keeps it until the user connects.
	Push(msg wsmodels.ServerMessage) error
	SendClose(userID string)
	IsConnected(userID string) bool
}

func NewHub(DB *gorm.DB) Provider {
	return &impl{
		clients: map[string]*clientSession{},
		store:   pushstore.NewInstance(DB),
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]*clientSession //map[userID]
	store   pushstore.Provider
}

func (i *impl) DeleteClient(userID string, conn Conn) {
	i.mu.Lock()
	sess, ok := i.clients[userID]
	if !ok || (conn != nil && sess.conn != conn) {
		i.mu.Unlock()
		return
	}
	delete(i.clients, userID)
	i.mu.Unlock()
	sess.stop()
}

func (i *impl) AddClient(userID string, conn Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	i.clients[userID] = newSession(conn)
	i.mu.Unlock()
	if ok {
		oldSess.stop()
	}
	go i.sendDelayedMessages(userID)
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) bool {
	i.mu.RLock()
	sess, ok := i.clients[msg.ToUserID]
	i.mu.RUnlock()
	if !ok {
		return false
	}
	return sess.enqueue(msg)
}

func (i *impl) Push(msg wsmodels.ServerMessage) error {
	if msg.Time == "" {
		msg.Time = time.Now().UTC().Format(time.RFC3339)
	}
	if i.SendMessage(msg) {
		return nil
	}
	err := i.store.Create(dbmodels.PendingPush{
		UserID:   msg.ToUserID,
		Code:     msg.Code,
		EntityID: msg.EntityID,
		Msg:      msg.Msg,
	})
	if err != nil {
		return errors.Wrap(err, "pending push save error")
	}
	return nil
}

func (i *impl) SendClose(userID string) {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	return ok && sess.conn != nil
}

func (i *impl) sendDelayedMessages(userID string) {
	logger := log.WithField("user_id", userID)
	list, err := i.store.List(userID)
	if err != nil {
		logger.WithError(err).Error("pending push list error")
		return
	}
	sentIDs := []string{}
	for _, item := range list {
		msg := wsmodels.ServerMessage{
			ToUserID: userID,
			Time:     item.CreatedAt.UTC().Format(time.RFC3339),
			Code:     item.Code,
			EntityID: item.EntityID,
			Msg:      item.Msg,
		}
		if !i.SendMessage(msg) {
			break
		}
		sentIDs = append(sentIDs, item.ID)
	}
	if len(sentIDs) > 0 {
		if err = i.store.Delete(sentIDs); err != nil {
			logger.WithError(err).Error("sent pending push delete error")
		}
	}
}
