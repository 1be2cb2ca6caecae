package apiv1

import (
	"blytzwork-backend/controllers"
	paymenthandler "blytzwork-backend/lib/payment"
	"blytzwork-backend/middleware"
	apimodels "blytzwork-backend/models/api"
	paymentapimodels "blytzwork-backend/models/api/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type paymentsApiController struct {
	controllers.BaseAPIController
	payments paymenthandler.Provider
}

func InitPaymentsApiRouters(app fiber.Router, payments paymenthandler.Provider) {
	controller := paymentsApiController{payments: payments}
	app.Get("payments", controller.list)
	app.Post("payments/:id/confirm", controller.confirm)
	app.Post("matches/:id/unlock/intent", controller.unlockIntent)
	app.Post("milestones/:id/pay/intent", controller.milestoneIntent)
	app.Post("admin/payments/:id/refund", middleware.AdminRequired(), controller.refund)
}

// @Summary Payment intent for a contact unlock
// @Tags Payments
// @Param	id	path	string	true	"match ID"
// @Success 200 {object} apimodels.Response{data=paymentapimodels.PaymentIntentResponse}
// @Failure 403,404,409 {object} apimodels.Response
// @router /api/v1/matches/{id}/unlock/intent [post]
func (c *paymentsApiController) unlockIntent(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.payments.CreateUnlockIntent(ctx.UserContext(), middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payment intent error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Payment intent for an approved milestone
// @Tags Payments
// @Param	id	path	string	true	"milestone ID"
// @Success 200 {object} apimodels.Response{data=paymentapimodels.PaymentIntentResponse}
// @Failure 403,404,409 {object} apimodels.Response
// @router /api/v1/milestones/{id}/pay/intent [post]
func (c *paymentsApiController) milestoneIntent(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.payments.CreateMilestoneIntent(ctx.UserContext(), middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payment intent error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Confirm payment after the client completed it
// @Tags Payments
// @Param	id		path	string							true	"payment ID"
// @Param	body	body	paymentapimodels.PaymentConfirm	true	"request body"
// @Success 200 {object} apimodels.Response{data=paymentapimodels.PaymentView}
// @Failure 400,404 {object} apimodels.Response
// @router /api/v1/payments/{id}/confirm [post]
func (c *paymentsApiController) confirm(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload paymentapimodels.PaymentConfirm
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.payments.Confirm(ctx.UserContext(), middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payment confirm error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Own payments
// @Tags Payments
// @Param	status	query	string	false	"payment status"
// @Param	page	query	int		false	"page"
// @Param	limit	query	int		false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]paymentapimodels.PaymentView}
// @router /api/v1/payments [get]
func (c *paymentsApiController) list(ctx *fiber.Ctx) error {
	var filter paymentapimodels.PaymentFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return c.SendBadRequest(ctx, errors.New("invalid query params"))
	}
	list, rowCount, err := c.payments.List(middleware.GetActor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payment list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Refund a succeeded payment
// @Tags Payments
// @Param	id	path	string	true	"payment ID"
// @Success 200 {object} apimodels.Response{data=paymentapimodels.PaymentView}
// @Failure 403,404,409 {object} apimodels.Response
// @router /api/v1/admin/payments/{id}/refund [post]
func (c *paymentsApiController) refund(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.payments.Refund(ctx.UserContext(), middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payment refund error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
