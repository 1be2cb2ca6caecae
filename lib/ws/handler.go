package ws

import (
	wsclient "blytzwork-backend/lib/ws/client"
	connectionhub "blytzwork-backend/lib/ws/hub/connection-hub"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const userIDKey = "ws_user_id"

// Upgrade stores the authenticated user for the websocket handler and rejects plain HTTP requests.
func Upgrade(userID func(ctx *fiber.Ctx) string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals(userIDKey, userID(ctx))
		return ctx.Next()
	}
}

// NewHandler registers the connection in the hub for the lifetime of the socket.
func NewHandler(hub connectionhub.Provider) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals(userIDKey).(string)
		if userID == "" {
			_ = c.Close()
			return
		}
		hub.AddClient(userID, c)
		defer hub.DeleteClient(userID, c)
		wsclient.NewSession(userID, c).Listen()
	})
}
