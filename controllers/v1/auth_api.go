package apiv1

import (
	"blytzwork-backend/controllers"
	usershandler "blytzwork-backend/lib/users"
	authutils "blytzwork-backend/lib/utils/auth-utils"
	"blytzwork-backend/middleware"
	apimodels "blytzwork-backend/models/api"
	authapimodels "blytzwork-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type authApiController struct {
	controllers.BaseAPIController
	users usershandler.Provider
}

func InitAuthApiRouters(app fiber.Router, users usershandler.Provider) {
	controller := authApiController{users: users}
	app.Route("auth", func(router fiber.Router) {
		router.Post("sync", controller.sync)
		router.Get("me", controller.me)
	})
}

// @Summary First sign in / user sync
// @Tags Auth
// @Param	body	body	authapimodels.SyncRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.SyncResponse}
// @Failure 400,401,409 {object} apimodels.Response
// @router /api/v1/auth/sync [post]
func (c *authApiController) sync(ctx *fiber.Ctx) error {
	var payload authapimodels.SyncRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	ident, ok := authutils.GetIdentity(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("identity is missing"))
	}
	resp, err := c.users.Sync(ctx.UserContext(), ident, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "user sync error")
	}
	status := fiber.StatusOK
	if resp.Created {
		status = fiber.StatusCreated
	}
	return ctx.Status(status).JSON(apimodels.NewResponse(resp))
}

// @Summary Current user
// @Tags Auth
// @Success 200 {object} apimodels.Response{data=authapimodels.UserView}
// @router /api/v1/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	resp, err := c.users.Me(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "current user error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
