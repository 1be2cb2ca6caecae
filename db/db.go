package db

import (
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ConnectParams struct {
	Host      string
	Port      string
	Database  string
	User      string
	Password  string
	SslMode   string
	DebugMode bool
	Migrate   bool
}

func (p ConnectParams) dsn() string {
	sslMode := p.SslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s password=%s",
		p.Host, p.Port, p.User, p.Database, sslMode, p.Password)
}

// Connect opens the Postgres pool. The caller owns the returned handle.
func Connect(params ConnectParams) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(params.dsn()), &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "db connection error")
	}
	if params.DebugMode {
		db = db.Debug()
	}
	if params.Migrate {
		db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
		if err = AutoMigrateDB(db); err != nil {
			return nil, err
		}
	}
	log.Info("Service connected to the database")
	return db, nil
}

func PingDB(tx *gorm.DB) error {
	db, err := tx.DB()
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	return nil
}
