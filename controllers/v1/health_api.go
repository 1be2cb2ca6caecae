package apiv1

import (
	"blytzwork-backend/db"
	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func InitHealthApiRouters(app fiber.Router, DB *gorm.DB) {
	app.Get("health", func(ctx *fiber.Ctx) error {
		if err := db.PingDB(DB); err != nil {
			log.WithError(err).Error("health check: database unavailable")
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("database unavailable"))
		}
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"status": "ok"}))
	})
}
