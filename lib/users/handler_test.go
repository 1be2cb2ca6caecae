package usershandler

import (
	"context"
	"testing"
	"time"

	"blytzwork-backend/lib/cache"
	"blytzwork-backend/lib/identity"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/testdb"
	"blytzwork-backend/models"
	authapimodels "blytzwork-backend/models/api/auth"
	dbmodels "blytzwork-backend/models/db"

	"github.com/stretchr/testify/require"
)

func TestSync(t *testing.T) {
	ctx := context.Background()
	ident := identity.Identity{UID: "uid-1", Email: "Ann@VA.test", Name: "Ann"}

	t.Run("register and repeat check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db, cache.NewMemory(), time.Minute)

		resp, err := h.Sync(ctx, ident, authapimodels.SyncRequest{Role: models.UserRoleVA})
		require.NoError(t, err)
		require.True(t, resp.Created)
		require.Equal(t, "ann@va.test", resp.User.Email)
		require.Equal(t, "Ann", resp.User.DisplayName)
		require.False(t, resp.User.ProfileComplete)

		again, err := h.Sync(ctx, ident, authapimodels.SyncRequest{Role: models.UserRoleVA})
		require.NoError(t, err)
		require.False(t, again.Created)
		require.Equal(t, resp.User.ID, again.User.ID)

		_, err = h.Sync(ctx, ident, authapimodels.SyncRequest{Role: models.UserRoleCompany})
		require.True(t, apperrors.Is(err, apperrors.KindConflict))
	})
	t.Run("role and email validation check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db, cache.NewMemory(), time.Minute)

		_, err := h.Sync(ctx, ident, authapimodels.SyncRequest{Role: models.UserRoleAdmin})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		_, err = h.Sync(ctx, identity.Identity{UID: "uid-2"}, authapimodels.SyncRequest{Role: models.UserRoleVA})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		var count int64
		require.NoError(t, db.Model(&dbmodels.User{}).Count(&count).Error)
		require.Zero(t, count)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown identity check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db, cache.NewMemory(), time.Minute)

		actor, err := h.Resolve(ctx, identity.Identity{UID: "uid-x", Email: "x@test"})
		require.NoError(t, err)
		require.False(t, actor.IsRegistered())
		require.Equal(t, "uid-x", actor.FirebaseUID)
	})
	t.Run("cached actor is refreshed after profile completion check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db, cache.NewMemory(), time.Minute)
		ident := identity.Identity{UID: "uid-1", Email: "ann@va.test"}
		resp, err := h.Sync(ctx, ident, authapimodels.SyncRequest{Role: models.UserRoleVA, DisplayName: "Ann"})
		require.NoError(t, err)

		actor, err := h.Resolve(ctx, ident)
		require.NoError(t, err)
		require.Equal(t, resp.User.ID, actor.UserID)
		require.False(t, actor.ProfileComplete)

		require.NoError(t, h.SetProfileComplete(ctx, nil, actor.UserID))
		actor, err = h.Resolve(ctx, ident)
		require.NoError(t, err)
		require.True(t, actor.ProfileComplete)

		me, err := h.Me(actor)
		require.NoError(t, err)
		require.True(t, me.ProfileComplete)
		require.Equal(t, "Virtual assistant", me.RoleName)
	})
	t.Run("seeded account link check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db, cache.NewMemory(), time.Minute)
		seeded := dbmodels.User{
			FirebaseUID: models.PendingUIDPrefix + "root@blytz.test",
			Email:       "root@blytz.test",
			Role:        models.UserRoleAdmin,
			IsActive:    true,
		}
		require.NoError(t, db.Create(&seeded).Error)

		actor, err := h.Resolve(ctx, identity.Identity{UID: "uid-root", Email: "root@blytz.test", EmailVerified: true})
		require.NoError(t, err)
		require.Equal(t, seeded.ID, actor.UserID)
		require.Equal(t, models.UserRoleAdmin, actor.Role)

		var rec dbmodels.User
		require.NoError(t, db.First(&rec, "id = ?", seeded.ID).Error)
		require.Equal(t, "uid-root", rec.FirebaseUID)

		// once linked, the same email from another identity gets nothing
		other, err := h.Resolve(ctx, identity.Identity{UID: "uid-other", Email: "root@blytz.test", EmailVerified: true})
		require.NoError(t, err)
		require.False(t, other.IsRegistered())
	})
	t.Run("unverified email does not link check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db, cache.NewMemory(), time.Minute)
		seeded := dbmodels.User{
			FirebaseUID: models.PendingUIDPrefix + "admin@blytz.test",
			Email:       "admin@blytz.test",
			Role:        models.UserRoleAdmin,
			IsActive:    true,
		}
		require.NoError(t, db.Create(&seeded).Error)

		actor, err := h.Resolve(ctx, identity.Identity{UID: "attacker-uid", Email: "admin@blytz.test"})
		require.NoError(t, err)
		require.False(t, actor.IsRegistered())
		require.Empty(t, actor.Role)

		var rec dbmodels.User
		require.NoError(t, db.First(&rec, "id = ?", seeded.ID).Error)
		require.Equal(t, seeded.FirebaseUID, rec.FirebaseUID)
	})
	t.Run("linked account is not taken over check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db, cache.NewMemory(), time.Minute)
		user := testdb.CreateUser(t, db, models.UserRoleCompany, "hr@acme.test")

		actor, err := h.Resolve(ctx, identity.Identity{UID: "uid-new", Email: "hr@acme.test", EmailVerified: true})
		require.NoError(t, err)
		require.False(t, actor.IsRegistered())

		_, err = h.Sync(ctx, identity.Identity{UID: "uid-new", Email: "hr@acme.test", EmailVerified: true},
			authapimodels.SyncRequest{Role: models.UserRoleCompany})
		require.True(t, apperrors.Is(err, apperrors.KindConflict))

		var rec dbmodels.User
		require.NoError(t, db.First(&rec, "id = ?", user.ID).Error)
		require.Equal(t, user.FirebaseUID, rec.FirebaseUID)
	})
	t.Run("deactivated user check", func(t *testing.T) {
		db := testdb.New(t)
		h := NewHandler(db, cache.NewMemory(), time.Minute)
		user := testdb.CreateUser(t, db, models.UserRoleVA, "ann@va.test")
		require.NoError(t, db.Model(&dbmodels.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

		_, err := h.Resolve(ctx, identity.Identity{UID: user.FirebaseUID})
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))
	})
}
