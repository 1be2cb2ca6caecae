package notificationhandler

import (
	"sync"
	"testing"

	"blytzwork-backend/lib/smtp"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/testdb"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"
	"blytzwork-backend/models"
	notificationapimodels "blytzwork-backend/models/api/notification"
	dbmodels "blytzwork-backend/models/db"
	wsmodels "blytzwork-backend/models/ws"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingHub struct {
	connectionhub.Provider
	mu     sync.Mutex
	pushed []wsmodels.ServerMessage
}

func (h *recordingHub) Push(msg wsmodels.ServerMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushed = append(h.pushed, msg)
	return nil
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pushed)
}

func actorOf(user dbmodels.User) models.Actor {
	return models.Actor{UserID: user.ID, Email: user.Email, Role: user.Role, ProfileComplete: true}
}

func TestPrepare(t *testing.T) {
	t.Run("deliver after commit check", func(t *testing.T) {
		db := testdb.New(t)
		hub := &recordingHub{}
		h := NewHandler(db, hub, smtp.NewMailer(smtp.Config{}))
		user := testdb.CreateUser(t, db, models.UserRoleVA, "ann@va.test")

		var pending Pending
		err := db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			pending, txErr = h.Prepare(tx,
				Message{UserID: user.ID, Code: models.NotificationMatchCreated, Title: "It's a match"},
				Message{Code: models.NotificationMatchCreated, Title: "nobody"},
			)
			return txErr
		})
		require.NoError(t, err)
		require.Equal(t, 0, hub.count())

		pending.Deliver()
		require.Equal(t, 1, hub.count())
		require.Equal(t, user.ID, hub.pushed[0].ToUserID)
		require.Equal(t, string(models.NotificationMatchCreated), hub.pushed[0].Code)
	})
	t.Run("rolled back transaction check", func(t *testing.T) {
		db := testdb.New(t)
		hub := &recordingHub{}
		h := NewHandler(db, hub, smtp.NewMailer(smtp.Config{}))
		user := testdb.CreateUser(t, db, models.UserRoleVA, "ann@va.test")

		err := db.Transaction(func(tx *gorm.DB) error {
			if _, txErr := h.Prepare(tx, Message{UserID: user.ID, Code: models.NotificationMatchCreated, Title: "x"}); txErr != nil {
				return txErr
			}
			return apperrors.NewConflict("abort")
		})
		require.True(t, apperrors.Is(err, apperrors.KindConflict))

		var count int64
		require.NoError(t, db.Model(&dbmodels.Notification{}).Count(&count).Error)
		require.Zero(t, count)
		require.Equal(t, 0, hub.count())
	})
}

func TestReadState(t *testing.T) {
	db := testdb.New(t)
	h := NewHandler(db, &recordingHub{}, smtp.NewMailer(smtp.Config{}))
	user := testdb.CreateUser(t, db, models.UserRoleVA, "ann@va.test")
	other := testdb.CreateUser(t, db, models.UserRoleVA, "bob@va.test")
	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, h.Notify(Message{UserID: user.ID, Code: models.NotificationChatMessage, Title: title}))
	}
	require.NoError(t, h.Notify(Message{UserID: other.ID, Code: models.NotificationChatMessage, Title: "foreign"}))

	t.Run("list check", func(t *testing.T) {
		list, rowCount, err := h.List(actorOf(user), notificationapimodels.NotificationFilter{})
		require.NoError(t, err)
		require.Equal(t, int64(3), rowCount)
		require.Len(t, list, 3)
		for _, item := range list {
			require.False(t, item.Read)
		}
	})
	t.Run("mark read check", func(t *testing.T) {
		list, _, err := h.List(actorOf(user), notificationapimodels.NotificationFilter{})
		require.NoError(t, err)

		foreign, _, err := h.List(actorOf(other), notificationapimodels.NotificationFilter{})
		require.NoError(t, err)
		require.True(t, apperrors.Is(h.MarkRead(actorOf(user), foreign[0].ID), apperrors.KindNotFound))

		require.NoError(t, h.MarkRead(actorOf(user), list[0].ID))
		unread, rowCount, err := h.List(actorOf(user), notificationapimodels.NotificationFilter{UnreadOnly: true})
		require.NoError(t, err)
		require.Equal(t, int64(2), rowCount)
		require.Len(t, unread, 2)
	})
	t.Run("mark all read check", func(t *testing.T) {
		count, err := h.MarkAllRead(actorOf(user))
		require.NoError(t, err)
		require.Equal(t, int64(2), count)

		_, rowCount, err := h.List(actorOf(user), notificationapimodels.NotificationFilter{UnreadOnly: true})
		require.NoError(t, err)
		require.Zero(t, rowCount)

		_, rowCount, err = h.List(actorOf(other), notificationapimodels.NotificationFilter{UnreadOnly: true})
		require.NoError(t, err)
		require.Equal(t, int64(1), rowCount)
	})
}
