package middleware

import (
	"slices"

	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// RoleRequired lets through actors holding one of roles.
func RoleRequired(roles ...models.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if slices.Contains(roles, GetActor(ctx).Role) {
			return ctx.Next()
		}
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not allowed for your role"))
	}
}

func AdminRequired() fiber.Handler {
	return RoleRequired(models.UserRoleAdmin)
}
