package smtp

import (
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	SendEMail(to, subject, message string) error
	IsConfigured() bool
}

type Config struct {
	User       string
	Password   string
	Host       string
	Port       string
	TLSEnabled bool
	From       string
}

func NewMailer(cfg Config) Provider {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &impl{cfg: cfg}
}

type impl struct {
	cfg Config
}

func (i impl) IsConfigured() bool {
	return i.cfg.User != "" && i.cfg.Host != "" && i.cfg.Port != ""
}

func (i impl) SendEMail(to, subject, message string) (err error) {
	logger := log.WithField("recipient", to)
	if !i.IsConfigured() {
		logger.Debug("email skipped, smtp client is not configured")
		return nil
	}
	auth := sasl.NewPlainClient("", i.cfg.User, i.cfg.Password)
	body := strings.NewReader(buildMessage(i.cfg.From, to, subject, message))
	addr := i.cfg.Host + ":" + i.cfg.Port
	if i.cfg.TLSEnabled {
		err = smtp.SendMailTLS(addr, auth, i.cfg.From, []string{to}, body)
	} else {
		err = smtp.SendMail(addr, auth, i.cfg.From, []string{to}, body)
	}
	if err != nil {
		logger.WithError(err).Error("email send error")
		return err
	}
	logger.Info("email sent")
	return nil
}

func buildMessage(from, to, subject, message string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: BlytzWork - %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		from, to, subject, message)
}
