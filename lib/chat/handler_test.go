package chathandler

import (
	"strings"
	"testing"

	matchinghandler "blytzwork-backend/lib/matching"
	notificationhandler "blytzwork-backend/lib/notification"
	"blytzwork-backend/lib/smtp"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/testdb"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"
	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	notificationapimodels "blytzwork-backend/models/api/notification"
	dbmodels "blytzwork-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	chat    Provider
	company models.Actor
	va      models.Actor
	match   dbmodels.Match
}

func actorOf(user dbmodels.User) models.Actor {
	return models.Actor{UserID: user.ID, Email: user.Email, Role: user.Role, ProfileComplete: true}
}

func newTestEnv(t *testing.T) testEnv {
	db := testdb.New(t)
	hub := connectionhub.NewHub(db)
	notifier := notificationhandler.NewHandler(db, hub, smtp.NewMailer(smtp.Config{}))
	companyUser, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
	vaUser, profile := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
	job := testdb.CreateJob(t, db, company.ID, "Support agent")
	return testEnv{
		db:      db,
		chat:    NewHandler(db, matchinghandler.NewHandler(db, notifier), hub),
		company: actorOf(companyUser),
		va:      actorOf(vaUser),
		match:   testdb.CreateMatch(t, db, job.ID, profile.ID),
	}
}

func (e testEnv) unlock(t *testing.T) {
	require.NoError(t, e.db.Model(&dbmodels.Match{}).
		Where("id = ?", e.match.ID).
		Update("contact_unlocked", true).Error)
}

func message(body string) notificationapimodels.ChatMessageData {
	return notificationapimodels.ChatMessageData{Body: body}
}

func TestSend(t *testing.T) {
	t.Run("locked contact check", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.chat.Send(env.company, env.match.ID, message("hello"))
		require.True(t, apperrors.Is(err, apperrors.KindPaymentRequired))

		_, _, err = env.chat.List(env.va, env.match.ID, apimodels.Pagination{})
		require.True(t, apperrors.Is(err, apperrors.KindPaymentRequired))

		var count int64
		require.NoError(t, env.db.Model(&dbmodels.ChatMessage{}).Count(&count).Error)
		require.Zero(t, count)
	})
	t.Run("non party check", func(t *testing.T) {
		env := newTestEnv(t)
		env.unlock(t)
		otherUser, _ := testdb.CreateCompany(t, env.db, "boss@other.test", "Other")
		admin := testdb.CreateUser(t, env.db, models.UserRoleAdmin, "root@blytz.test")

		_, err := env.chat.Send(actorOf(otherUser), env.match.ID, message("hi"))
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		_, err = env.chat.Send(actorOf(admin), env.match.ID, message("hi"))
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		_, err = env.chat.Send(env.company, "missing-match", message("hi"))
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
	t.Run("body length check", func(t *testing.T) {
		env := newTestEnv(t)
		env.unlock(t)

		_, err := env.chat.Send(env.company, env.match.ID, message("   "))
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		_, err = env.chat.Send(env.company, env.match.ID, message(strings.Repeat("a", 4001)))
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		view, err := env.chat.Send(env.company, env.match.ID, message(strings.Repeat("a", 4000)))
		require.NoError(t, err)
		require.Len(t, view.Body, 4000)
	})
	t.Run("offline party gets a pending push check", func(t *testing.T) {
		env := newTestEnv(t)
		env.unlock(t)

		view, err := env.chat.Send(env.company, env.match.ID, message("  Welcome aboard  "))
		require.NoError(t, err)
		require.Equal(t, "Welcome aboard", view.Body)
		require.Equal(t, env.company.UserID, view.SenderUserID)

		var pushes []dbmodels.PendingPush
		require.NoError(t, env.db.Where("user_id = ?", env.va.UserID).Find(&pushes).Error)
		require.Len(t, pushes, 1)
		require.Equal(t, string(models.NotificationChatMessage), pushes[0].Code)
		require.Equal(t, env.match.ID, pushes[0].EntityID)
	})
}

func TestList(t *testing.T) {
	t.Run("history and read mark check", func(t *testing.T) {
		env := newTestEnv(t)
		env.unlock(t)
		_, err := env.chat.Send(env.company, env.match.ID, message("first"))
		require.NoError(t, err)
		_, err = env.chat.Send(env.va, env.match.ID, message("second"))
		require.NoError(t, err)

		list, rowCount, err := env.chat.List(env.va, env.match.ID, apimodels.Pagination{Limit: 10, Page: 1})
		require.NoError(t, err)
		require.Equal(t, int64(2), rowCount)
		require.Len(t, list, 2)

		var unread int64
		require.NoError(t, env.db.Model(&dbmodels.ChatMessage{}).
			Where("match_id = ? AND read_at IS NULL", env.match.ID).
			Count(&unread).Error)
		// only the assistant's own message stays unread
		require.Equal(t, int64(1), unread)

		var own dbmodels.ChatMessage
		require.NoError(t, env.db.First(&own, "sender_user_id = ?", env.va.UserID).Error)
		require.Nil(t, own.ReadAt)
	})
}
