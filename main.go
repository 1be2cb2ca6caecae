package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blytzwork-backend/config"
	"blytzwork-backend/controllers"
	apiv1 "blytzwork-backend/controllers/v1"
	webhooksapi "blytzwork-backend/controllers/v1/webhooks"
	"blytzwork-backend/fiberlog"
	"blytzwork-backend/initializers"
	"blytzwork-backend/lib/metrics"
	"blytzwork-backend/middleware"
	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	services := initializers.InitAllServices(ctx)
	app := buildApp(services)

	stopped := make(chan struct{})
	go shutdownOnSignal(app, services, cancel, stopped)

	addr := fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
	<-stopped
	log.Info("http server stopped")
}

// shutdownOnSignal stops workers, drains the server and closes the database on SIGINT or SIGTERM.
func shutdownOnSignal(app *fiber.App, s *initializers.Services, stopWorkers context.CancelFunc, stopped chan<- struct{}) {
	defer close(stopped)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	sig := <-signals
	log.WithField("signal", sig.String()).Info("shutting down")

	stopWorkers()
	timeout := time.Duration(config.Conf.App.ShutdownTimeout) * time.Second
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		log.WithError(err).Error("http server shutdown error")
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			log.WithError(err).Warn("database close error")
		}
	}
}

func buildApp(s *initializers.Services) *fiber.App {
	bodyLimit := config.Conf.App.BodyLimitMb * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: controllers.ErrorHandler,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())
	apiv1.InitHealthApiRouters(app, s.DB)

	//api
	apiV1 := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: controllers.ErrorHandler,
	})
	apiV1.Use(fiberlog.New(*s.LoggerConfig))
	if config.Conf.App.ErrNotifyURL != "" {
		apiV1.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyURL))
	}
	apiV1.Use(cors.New(cors.Config{
		AllowOrigins: config.Conf.CorsOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiV1.Use(limiter.New(limiter.Config{
		Max:        config.Conf.RateLimit.MaxRequests,
		Expiration: time.Duration(config.Conf.RateLimit.WindowSec) * time.Second,
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(apimodels.NewError("too many requests"))
		},
	}))
	apiV1.Use(middleware.WithBodyLimit(int64(bodyLimit)))
	app.Mount("/api/v1", apiV1)

	// public
	apiv1.InitHealthApiRouters(apiV1, s.DB)
	webhooksapi.InitStripeWebhookApiRouters(apiV1, s.Payments)

	secured := apiV1.Group("",
		middleware.AuthorizationRequired(s.Verifier, s.Users),
		middleware.UserRequired("/auth/sync"))
	voteLimiter := middleware.NewUserRateLimiter(config.Conf.RateLimit.VotesPerSecond, config.Conf.RateLimit.VoteBurst)

	apiv1.InitAuthApiRouters(secured, s.Users)
	apiv1.InitVAApiRouters(secured, s.VAProfiles, s.Matching, s.Proposals)
	apiv1.InitCompanyApiRouters(secured, s.Companies, s.Jobs)
	apiv1.InitJobsApiRouters(secured, s.Jobs, s.Proposals, s.Matching)
	apiv1.InitProposalsApiRouters(secured, s.Proposals)
	apiv1.InitContractsApiRouters(secured, s.Contracts, s.Timesheets)
	apiv1.InitPaymentsApiRouters(secured, s.Payments)
	apiv1.InitMatchesApiRouters(secured, s.Matching, s.Chat, voteLimiter.Handler())
	apiv1.InitNotificationsApiRouters(secured, s.Notifications)
	apiv1.InitWsApiRouters(secured, s.Hub)
	return app
}
