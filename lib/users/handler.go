package usershandler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blytzwork-backend/lib/cache"
	"blytzwork-backend/lib/identity"
	usersstore "blytzwork-backend/lib/users/store"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/models"
	authapimodels "blytzwork-backend/models/api/auth"
	dbmodels "blytzwork-backend/models/db"

	"github.com/badoux/checkmail"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// Resolve maps a verified identity to the internal user. A missing user yields an actor without UserID.
	Resolve(ctx context.Context, ident identity.Identity) (models.Actor, error)
	Sync(ctx context.Context, ident identity.Identity, data authapimodels.SyncRequest) (authapimodels.SyncResponse, error)
	Me(actor models.Actor) (authapimodels.UserView, error)
	SetProfileComplete(ctx context.Context, tx *gorm.DB, userID string) error
	Invalidate(ctx context.Context, firebaseUID string)
}

func NewHandler(DB *gorm.DB, userCache cache.Provider, cacheTTL time.Duration) Provider {
	return &impl{
		db:       DB,
		store:    usersstore.NewInstance(DB),
		cache:    userCache,
		cacheTTL: cacheTTL,
	}
}

type impl struct {
	db       *gorm.DB
	store    usersstore.Provider
	cache    cache.Provider
	cacheTTL time.Duration
}

func (i impl) getLogger(uid string) *log.Entry {
	return log.WithField("firebase_uid", uid)
}

func cacheKey(uid string) string {
	return fmt.Sprintf("auth:user:%s", uid)
}

func (i impl) Resolve(ctx context.Context, ident identity.Identity) (models.Actor, error) {
	logger := i.getLogger(ident.UID)
	cached := models.Actor{}
	found, err := i.cache.GetJSON(ctx, cacheKey(ident.UID), &cached)
	if err != nil {
		logger.WithError(err).Debug("auth user cache read error")
	}
	if found && cached.UserID != "" {
		return cached, nil
	}
	rec, err := i.store.GetByFirebaseUID(ident.UID)
	if err != nil {
		return models.Actor{}, errors.Wrap(err, "user lookup by uid error")
	}
	if rec == nil {
		rec, err = i.linkSeeded(ident)
		if err != nil {
			return models.Actor{}, err
		}
	}
	if rec == nil {
		return models.Actor{FirebaseUID: ident.UID, Email: ident.Email}, nil
	}
	if !rec.IsActive {
		return models.Actor{}, apperrors.NewForbidden("user is deactivated")
	}
	actor := rec.ToActor()
	if err = i.cache.SetJSON(ctx, cacheKey(ident.UID), actor, i.cacheTTL); err != nil {
		logger.WithError(err).Debug("auth user cache write error")
	}
	return actor, nil
}

// linkSeeded attaches a verified identity to a seeded account waiting for its first sign in.
// Accounts already bound to another identity are never relinked.
func (i impl) linkSeeded(ident identity.Identity) (*dbmodels.User, error) {
	if !ident.EmailVerified || ident.Email == "" {
		return nil, nil
	}
	rec, err := i.store.GetByEmail(ident.Email)
	if err != nil {
		return nil, errors.Wrap(err, "user lookup by email error")
	}
	if rec == nil || !models.IsPendingUID(rec.FirebaseUID) {
		return nil, nil
	}
	if err = i.store.Update(rec.ID, map[string]interface{}{"firebase_uid": ident.UID}); err != nil {
		return nil, errors.Wrap(err, "user uid link error")
	}
	i.getLogger(ident.UID).WithField("user_id", rec.ID).Info("seeded account linked")
	rec.FirebaseUID = ident.UID
	return rec, nil
}

func (i impl) Sync(ctx context.Context, ident identity.Identity, data authapimodels.SyncRequest) (authapimodels.SyncResponse, error) {
	logger := i.getLogger(ident.UID)
	if err := data.Validate(); err != nil {
		return authapimodels.SyncResponse{}, apperrors.Validation(err)
	}
	email := strings.ToLower(strings.TrimSpace(ident.Email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return authapimodels.SyncResponse{}, apperrors.NewValidation("identity token carries no valid email")
	}
	existing, err := i.store.GetByFirebaseUID(ident.UID)
	if err != nil {
		return authapimodels.SyncResponse{}, errors.Wrap(err, "user lookup error")
	}
	if existing == nil {
		byEmail, err := i.store.GetByEmail(email)
		if err != nil {
			return authapimodels.SyncResponse{}, errors.Wrap(err, "user lookup error")
		}
		if byEmail != nil {
			return authapimodels.SyncResponse{}, apperrors.NewConflict("email is already registered with another account")
		}
	}
	if existing != nil {
		if existing.Role != data.Role {
			return authapimodels.SyncResponse{}, apperrors.NewConflict(
				fmt.Sprintf("user is already registered as %s", existing.Role.ToHuman()))
		}
		return authapimodels.SyncResponse{User: authapimodels.UserConvert(*existing), Created: false}, nil
	}
	displayName := strings.TrimSpace(data.DisplayName)
	if displayName == "" {
		displayName = ident.Name
	}
	rec := dbmodels.User{
		FirebaseUID: ident.UID,
		Email:       email,
		Role:        data.Role,
		DisplayName: displayName,
		IsActive:    true,
	}
	if err = rec.Validate(); err != nil {
		return authapimodels.SyncResponse{}, apperrors.Validation(err)
	}
	created, err := i.store.Create(rec)
	if err != nil {
		return authapimodels.SyncResponse{}, errors.Wrap(err, "user create error")
	}
	i.Invalidate(ctx, ident.UID)
	logger.WithField("user_id", created.ID).WithField("role", created.Role).Info("user registered")
	return authapimodels.SyncResponse{User: authapimodels.UserConvert(*created), Created: true}, nil
}

func (i impl) Me(actor models.Actor) (authapimodels.UserView, error) {
	rec, err := i.store.GetByID(actor.UserID)
	if err != nil {
		return authapimodels.UserView{}, errors.Wrap(err, "user get error")
	}
	if rec == nil {
		return authapimodels.UserView{}, apperrors.NewNotFound("user not found")
	}
	return authapimodels.UserConvert(*rec), nil
}

func (i impl) SetProfileComplete(ctx context.Context, tx *gorm.DB, userID string) error {
	store := i.store
	if tx != nil {
		store = usersstore.NewInstance(tx)
	}
	rec, err := store.GetByID(userID)
	if err != nil {
		return errors.Wrap(err, "user get error")
	}
	if rec == nil {
		return apperrors.NewNotFound("user not found")
	}
	if err = store.Update(userID, map[string]interface{}{"profile_complete": true}); err != nil {
		return errors.Wrap(err, "user update error")
	}
	i.Invalidate(ctx, rec.FirebaseUID)
	return nil
}

func (i impl) Invalidate(ctx context.Context, firebaseUID string) {
	if err := i.cache.Delete(ctx, cacheKey(firebaseUID)); err != nil {
		i.getLogger(firebaseUID).WithError(err).Warn("auth user cache invalidate error")
	}
}
