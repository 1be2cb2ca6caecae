package initializers

import (
	"context"
	"time"

	"blytzwork-backend/config"
	"blytzwork-backend/fiberlog"
	"blytzwork-backend/lib/cache"
	chathandler "blytzwork-backend/lib/chat"
	companyhandler "blytzwork-backend/lib/company"
	contracthandler "blytzwork-backend/lib/contract"
	filestorage "blytzwork-backend/lib/file-storage"
	"blytzwork-backend/lib/identity"
	jobpostinghandler "blytzwork-backend/lib/job-posting"
	matchinghandler "blytzwork-backend/lib/matching"
	notificationhandler "blytzwork-backend/lib/notification"
	paymenthandler "blytzwork-backend/lib/payment"
	paymentprocessor "blytzwork-backend/lib/payment-processor"
	proposalhandler "blytzwork-backend/lib/proposal"
	"blytzwork-backend/lib/smtp"
	timesheethandler "blytzwork-backend/lib/timesheet"
	usershandler "blytzwork-backend/lib/users"
	initchecker "blytzwork-backend/lib/utils/init-checker"
	vaprofilehandler "blytzwork-backend/lib/va-profile"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services holds every wired dependency of the HTTP layer.
type Services struct {
	LoggerConfig  *fiberlog.Config
	DB            *gorm.DB
	Verifier      identity.Verifier
	Hub           connectionhub.Provider
	Users         usershandler.Provider
	VAProfiles    vaprofilehandler.Provider
	Companies     companyhandler.Provider
	Jobs          jobpostinghandler.Provider
	Notifications notificationhandler.Provider
	Matching      matchinghandler.Provider
	Chat          chathandler.Provider
	Contracts     contracthandler.Provider
	Proposals     proposalhandler.Provider
	Timesheets    timesheethandler.Provider
	Payments      paymenthandler.Provider
}

func InitAllServices(ctx context.Context) *Services {
	config.InitConfig()
	if err := config.Conf.Validate(); err != nil {
		panic(err.Error())
	}
	s := NewServices(Deps{
		DB:        InitDBConnection(),
		Verifier:  InitIdentity(ctx),
		Storage:   InitS3(ctx),
		Mailer:    InitSmtp(),
		UserCache: InitCache(ctx),
		Processor: InitPaymentProcessor(),
	})
	go initWorkers(ctx, s)
	return s
}

// Deps are the external clients the services are built on.
type Deps struct {
	DB        *gorm.DB
	Verifier  identity.Verifier
	Storage   filestorage.Provider
	Mailer    smtp.Provider
	UserCache cache.Provider
	Processor paymentprocessor.Provider
}

// NewServices wires the domain handlers. config.Conf must be loaded.
func NewServices(deps Deps) *Services {
	err := initchecker.Check(
		"db", deps.DB,
		"verifier", deps.Verifier,
		"storage", deps.Storage,
		"mailer", deps.Mailer,
		"cache", deps.UserCache,
		"payment processor", deps.Processor,
	)
	if err != nil {
		panic(err.Error())
	}
	s := &Services{
		LoggerConfig: InitLogger(config.Conf.App.LogLevel, config.Conf.IsProduction()),
		DB:           deps.DB,
		Verifier:     deps.Verifier,
	}
	s.Hub = connectionhub.NewHub(s.DB)
	s.Users = usershandler.NewHandler(s.DB, deps.UserCache, time.Duration(config.Conf.Redis.UserCacheTTLSec)*time.Second)
	s.VAProfiles = vaprofilehandler.NewHandler(s.DB, s.Users, deps.Storage)
	s.Companies = companyhandler.NewHandler(s.DB, s.Users, deps.Storage)
	s.Jobs = jobpostinghandler.NewHandler(s.DB)
	s.Notifications = notificationhandler.NewHandler(s.DB, s.Hub, deps.Mailer)
	s.Matching = matchinghandler.NewHandler(s.DB, s.Notifications)
	s.Chat = chathandler.NewHandler(s.DB, s.Matching, s.Hub)
	s.Contracts = contracthandler.NewHandler(s.DB, s.Notifications, config.Conf.Stripe.Currency)
	s.Proposals = proposalhandler.NewHandler(s.DB, s.Contracts, s.Notifications)
	s.Timesheets = timesheethandler.NewHandler(s.DB, s.Contracts, s.Notifications)
	s.Payments = paymenthandler.NewHandler(s.DB, deps.Processor, s.Notifications, paymenthandler.Config{
		UnlockFeeCents: config.Conf.Stripe.UnlockFeeCents,
		Currency:       config.Conf.Stripe.Currency,
	})
	return s
}

func InitIdentity(ctx context.Context) identity.Verifier {
	verifier, err := identity.NewFirebaseVerifier(ctx, identity.Config{
		ProjectID:       config.Conf.Firebase.ProjectID,
		CredentialsFile: config.Conf.Firebase.CredentialsFile,
		CredentialsJSON: config.Conf.Firebase.CredentialsJSON,
	})
	if err != nil {
		panic(err.Error())
	}
	return verifier
}

// InitCache falls back to the in-process cache when no Redis address is configured.
func InitCache(ctx context.Context) cache.Provider {
	if config.Conf.Redis.URL == "" && config.Conf.Redis.Addr == "" {
		log.Warn("Redis is not configured, using in-memory user cache")
		return cache.NewMemory()
	}
	return cache.NewRedis(ctx, cache.Config{
		URL:      config.Conf.Redis.URL,
		Addr:     config.Conf.Redis.Addr,
		Password: config.Conf.Redis.Password,
		DB:       config.Conf.Redis.DB,
	})
}

// InitPaymentProcessor uses the in-process fake outside production when Stripe keys are missing.
func InitPaymentProcessor() paymentprocessor.Provider {
	if config.Conf.Stripe.SecretKey == "" && !config.Conf.IsProduction() {
		log.Warn("Stripe is not configured, using the fake payment processor")
		return paymentprocessor.NewFake(config.Conf.Stripe.WebhookSecret)
	}
	return paymentprocessor.NewStripe(paymentprocessor.StripeConfig{
		SecretKey:     config.Conf.Stripe.SecretKey,
		WebhookSecret: config.Conf.Stripe.WebhookSecret,
		CallTimeout:   time.Duration(config.Conf.Stripe.CallTimeoutSec) * time.Second,
	})
}

func initWorkers(ctx context.Context, s *Services) {
	if !makeTimeGap(ctx) {
		return
	}
	paymenthandler.StartExpiryWorker(ctx, s.Payments,
		time.Duration(config.Conf.Workers.PendingPaymentExpiryMin)*time.Minute,
		time.Duration(config.Conf.Workers.PaymentExpiryRunMin)*time.Minute)
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
