package db

import (
	dbmodels "blytzwork-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Models lists every persisted entity in migration order.
func Models() []interface{} {
	return []interface{}{
		&dbmodels.User{},
		&dbmodels.VAProfile{},
		&dbmodels.Company{},
		&dbmodels.JobPosting{},
		&dbmodels.Proposal{},
		&dbmodels.Contract{},
		&dbmodels.Milestone{},
		&dbmodels.Timesheet{},
		&dbmodels.MatchVote{},
		&dbmodels.Match{},
		&dbmodels.Payment{},
		&dbmodels.Notification{},
		&dbmodels.PendingPush{},
		&dbmodels.ChatMessage{},
	}
}

func AutoMigrateDB(tx *gorm.DB) error {
	log.Info("Running migrations")
	for _, model := range Models() {
		if err := tx.AutoMigrate(model); err != nil {
			return errors.Wrapf(err, "migration error for %T", model)
		}
	}
	log.Info("Migrations finished")
	return nil
}
