package authutils

import (
	"strings"

	"blytzwork-backend/lib/identity"
	"blytzwork-backend/models"

	"github.com/gofiber/fiber/v2"
)

const (
	actorKey    = "actor"
	identityKey = "identity"
)

// BearerToken extracts the token from the Authorization header, falling back to the "token" query param used by websocket clients.
func BearerToken(ctx *fiber.Ctx) string {
	header := strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ctx.Query("token")
}

func SetActor(ctx *fiber.Ctx, actor models.Actor) {
	ctx.Locals(actorKey, actor)
	if actor.UserID != "" {
		ctx.Locals("user_id", actor.UserID)
	}
}

func GetActor(ctx *fiber.Ctx) models.Actor {
	actor, ok := ctx.Locals(actorKey).(models.Actor)
	if !ok {
		return models.Actor{}
	}
	return actor
}

func SetIdentity(ctx *fiber.Ctx, ident identity.Identity) {
	ctx.Locals(identityKey, ident)
}

func GetIdentity(ctx *fiber.Ctx) (identity.Identity, bool) {
	ident, ok := ctx.Locals(identityKey).(identity.Identity)
	return ident, ok
}
