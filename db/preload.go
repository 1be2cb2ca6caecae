package db

import (
	"strings"

	usersstore "blytzwork-backend/lib/users/store"
	"blytzwork-backend/models"
	dbmodels "blytzwork-backend/models/db"

	"github.com/badoux/checkmail"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InitPreload seeds the administrator accounts.
// The first sign in with the same verified email links the seeded account.
func InitPreload(tx *gorm.DB, adminEmails []string) {
	for _, email := range adminEmails {
		if err := addAdmin(tx, email); err != nil {
			log.WithError(err).WithField("email", email).Error("admin seed error")
		}
	}
}

func addAdmin(tx *gorm.DB, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return errors.Wrap(err, "invalid admin email")
	}
	store := usersstore.NewInstance(tx)
	existing, err := store.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role == models.UserRoleAdmin {
			return nil
		}
		log.WithField("user_id", existing.ID).WithField("role", existing.Role).Warn("admin email belongs to a non admin user, skipped")
		return nil
	}
	_, err = store.Create(dbmodels.User{
		FirebaseUID:     models.PendingUIDPrefix + email,
		Email:           email,
		Role:            models.UserRoleAdmin,
		DisplayName:     strings.Split(email, "@")[0],
		ProfileComplete: true,
		IsActive:        true,
	})
	if err != nil {
		return errors.Wrap(err, "admin create error")
	}
	log.WithField("email", email).Info("admin account seeded")
	return nil
}
