package apiv1

import (
	"blytzwork-backend/controllers"
	notificationhandler "blytzwork-backend/lib/notification"
	"blytzwork-backend/middleware"
	apimodels "blytzwork-backend/models/api"
	notificationapimodels "blytzwork-backend/models/api/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type notificationsApiController struct {
	controllers.BaseAPIController
	notifier notificationhandler.Provider
}

func InitNotificationsApiRouters(app fiber.Router, notifier notificationhandler.Provider) {
	controller := notificationsApiController{notifier: notifier}
	app.Route("notifications", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put("read-all", controller.markAllRead)
		router.Put(":id/read", controller.markRead)
	})
}

// @Summary Own notifications, newest first
// @Tags Notifications
// @Param	unread_only	query	bool	false	"unread only"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]notificationapimodels.NotificationView}
// @router /api/v1/notifications [get]
func (c *notificationsApiController) list(ctx *fiber.Ctx) error {
	var filter notificationapimodels.NotificationFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return c.SendBadRequest(ctx, errors.New("invalid query params"))
	}
	list, rowCount, err := c.notifier.List(middleware.GetActor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Mark notification read
// @Tags Notifications
// @Param	id	path	string	true	"notification ID"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/notifications/{id}/read [put]
func (c *notificationsApiController) markRead(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = c.notifier.MarkRead(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification update error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Mark all notifications read
// @Tags Notifications
// @Success 200 {object} apimodels.Response
// @router /api/v1/notifications/read-all [put]
func (c *notificationsApiController) markAllRead(ctx *fiber.Ctx) error {
	count, err := c.notifier.MarkAllRead(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification update error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"updated": count}))
}
