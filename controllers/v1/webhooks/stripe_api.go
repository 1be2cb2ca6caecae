package webhooksapi

import (
	paymenthandler "blytzwork-backend/lib/payment"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const stripeSignatureHeader = "Stripe-Signature"

type stripeWebhookController struct {
	payments paymenthandler.Provider
}

func InitStripeWebhookApiRouters(app fiber.Router, payments paymenthandler.Provider) {
	controller := stripeWebhookController{payments: payments}
	app.Route("webhooks", func(router fiber.Router) {
		router.Post("stripe", controller.handle)
	})
}

// @Summary Payment processor events
// @Tags Webhooks. Stripe
// @Success 200
// @Failure 400
// @Failure 500
// @router /api/v1/webhooks/stripe [post]
func (c *stripeWebhookController) handle(ctx *fiber.Ctx) error {
	payload := append([]byte(nil), ctx.Body()...)
	err := c.payments.HandleWebhook(ctx.UserContext(), payload, ctx.Get(stripeSignatureHeader))
	if err != nil {
		if apperrors.Is(err, apperrors.KindValidation) {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(apperrors.Message(err)))
		}
		log.WithError(err).Error("stripe webhook error")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("webhook handling error"))
	}
	return ctx.SendStatus(fiber.StatusOK)
}
