package initializers

import (
	"blytzwork-backend/config"
	"blytzwork-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() smtp.Provider {
	mailer := smtp.NewMailer(smtp.Config{
		User:       config.Conf.Smtp.User,
		Password:   config.Conf.Smtp.Password,
		Host:       config.Conf.Smtp.Host,
		Port:       config.Conf.Smtp.Port,
		TLSEnabled: *config.Conf.Smtp.TLSEnabled,
		From:       config.Conf.Smtp.From,
	})
	if !mailer.IsConfigured() {
		log.Warn("SMTP is not configured, email notifications are disabled")
	}
	return mailer
}
