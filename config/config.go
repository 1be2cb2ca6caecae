package config

import (
	"strings"

	"github.com/gotify/configor"
	"github.com/pkg/errors"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr      string `default:"" env:"APP_HOST"`
		Port            int    `default:"8080"  env:"APP_PORT"`
		Env             string `default:"development" env:"APP_ENV"`
		CorsOrigins     string `default:"http://localhost:3000" env:"CORS_ALLOWED_ORIGINS"`
		BodyLimitMb     int    `default:"10" env:"APP_BODY_LIMIT_MB"`
		ShutdownTimeout int    `default:"10" env:"APP_SHUTDOWN_TIMEOUT_SEC"`
		ErrNotifyURL    string `default:"" env:"ERR_NOTIFY_URL"`
		LogLevel        string `default:"" env:"LOG_LEVEL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"blytzwork" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		SslMode        string `default:"disable" env:"DB_SSLMODE"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Firebase struct {
		ProjectID       string `default:"" env:"FIREBASE_PROJECT_ID"`
		CredentialsFile string `default:"" env:"FIREBASE_CREDENTIALS_FILE"`
		CredentialsJSON string `default:"" env:"FIREBASE_CREDENTIALS_JSON"`
	}
	Stripe struct {
		SecretKey      string `default:"" env:"STRIPE_SECRET_KEY"`
		WebhookSecret  string `default:"" env:"STRIPE_WEBHOOK_SECRET"`
		UnlockFeeCents int64  `default:"2500" env:"UNLOCK_FEE_CENTS"`
		Currency       string `default:"usd" env:"PAYMENT_CURRENCY"`
		CallTimeoutSec int    `default:"15" env:"STRIPE_CALL_TIMEOUT_SEC"`
	}
	S3 struct {
		Endpoint         string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID      string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey  string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		Region           string `default:"auto" env:"S3_REGION"`
		UseSSL           *bool  `default:"true" env:"S3_USE_SSL"`
		BucketName       string `default:"blytzwork-files" env:"S3_BUCKET_NAME"`
		PresignExpiryMin int    `default:"15" env:"S3_PRESIGN_EXPIRY_MIN"`
		CallTimeoutSec   int    `default:"10" env:"S3_CALL_TIMEOUT_SEC"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"" env:"EMAIL_FROM"`
	}
	Redis struct {
		URL             string `default:"" env:"REDIS_URL"`
		Addr            string `default:"" env:"REDIS_ADDR"`
		Password        string `default:"" env:"REDIS_PASSWORD"`
		DB              int    `default:"0" env:"REDIS_DB"`
		UserCacheTTLSec int    `default:"300" env:"REDIS_USER_CACHE_TTL_SEC"`
	}
	RateLimit struct {
		WindowSec      int     `default:"60" env:"RATE_LIMIT_WINDOW_SEC"`
		MaxRequests    int     `default:"300" env:"RATE_LIMIT_MAX"`
		VotesPerSecond float64 `default:"2" env:"VOTE_RATE_PER_SEC"`
		VoteBurst      int     `default:"10" env:"VOTE_RATE_BURST"`
	}
	Admin struct {
		Emails string `default:"" env:"ADMIN_EMAILS"`
	}
	Workers struct {
		PendingPaymentExpiryMin int `default:"60" env:"PENDING_PAYMENT_EXPIRY_MIN"`
		PaymentExpiryRunMin     int `default:"5" env:"PAYMENT_EXPIRY_RUN_MIN"`
	}
}

func (c Configuration) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// CorsOrigins returns the allow-list as fiber expects it.
func (c Configuration) CorsOrigins() string {
	parts := strings.Split(c.App.CorsOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			origins = append(origins, part)
		}
	}
	return strings.Join(origins, ",")
}

// AdminEmails lists the accounts seeded with the admin role.
func (c Configuration) AdminEmails() []string {
	var emails []string
	for _, part := range strings.Split(c.Admin.Emails, ",") {
		if part = strings.TrimSpace(part); part != "" {
			emails = append(emails, part)
		}
	}
	return emails
}

func (c Configuration) Validate() error {
	if c.Database.Host == "" || c.Database.Name == "" {
		return errors.New("database host and name must be set")
	}
	if c.Firebase.ProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID must be set")
	}
	if c.Stripe.UnlockFeeCents <= 0 {
		return errors.New("UNLOCK_FEE_CENTS must be positive")
	}
	if c.IsProduction() {
		if c.Stripe.SecretKey == "" || c.Stripe.WebhookSecret == "" {
			return errors.New("stripe secret and webhook keys must be set in production")
		}
	}
	return nil
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
