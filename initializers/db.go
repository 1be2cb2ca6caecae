package initializers

import (
	"blytzwork-backend/config"
	"blytzwork-backend/db"

	"gorm.io/gorm"
)

func InitDBConnection() *gorm.DB {
	conn, err := db.Connect(db.ConnectParams{
		Host:      config.Conf.Database.Host,
		Port:      config.Conf.Database.Port,
		Database:  config.Conf.Database.Name,
		User:      config.Conf.Database.User,
		Password:  config.Conf.Database.Password,
		SslMode:   config.Conf.Database.SslMode,
		DebugMode: *config.Conf.Database.DebugMode,
		Migrate:   *config.Conf.Database.MigrateOnStart,
	})
	if err != nil {
		panic(err.Error())
	}
	db.InitPreload(conn, config.Conf.AdminEmails())
	return conn
}
