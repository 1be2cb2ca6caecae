package apiv1

import (
	"blytzwork-backend/lib/ws"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"
	"blytzwork-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

// InitWsApiRouters exposes the realtime channel for match, message and payment pushes.
func InitWsApiRouters(app fiber.Router, hub connectionhub.Provider) {
	app.Get("ws", ws.Upgrade(middleware.GetUserID), ws.NewHandler(hub))
}
