package apiv1

import (
	"blytzwork-backend/controllers"
	proposalhandler "blytzwork-backend/lib/proposal"
	"blytzwork-backend/middleware"
	apimodels "blytzwork-backend/models/api"
	proposalapimodels "blytzwork-backend/models/api/proposal"

	"github.com/gofiber/fiber/v2"
)

type proposalsApiController struct {
	controllers.BaseAPIController
	proposals proposalhandler.Provider
}

func InitProposalsApiRouters(app fiber.Router, proposals proposalhandler.Provider) {
	controller := proposalsApiController{proposals: proposals}
	app.Route("proposals/:id", func(router fiber.Router) {
		router.Put("withdraw", controller.withdraw)
		router.Put("reject", controller.reject)
		router.Post("accept", controller.accept)
	})
}

// @Summary Withdraw own pending proposal
// @Tags Proposals
// @Param	id	path	string	true	"proposal ID"
// @Success 200 {object} apimodels.Response
// @Failure 403,404,409 {object} apimodels.Response
// @router /api/v1/proposals/{id}/withdraw [put]
func (c *proposalsApiController) withdraw(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = c.proposals.Withdraw(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal withdraw error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Reject proposal on own job posting
// @Tags Proposals
// @Param	id	path	string	true	"proposal ID"
// @Success 200 {object} apimodels.Response
// @Failure 403,404,409 {object} apimodels.Response
// @router /api/v1/proposals/{id}/reject [put]
func (c *proposalsApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = c.proposals.Reject(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal reject error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Accept proposal and open a contract
// @Tags Proposals
// @Param	id		path	string								true	"proposal ID"
// @Param	body	body	proposalapimodels.AcceptProposal	true	"request body"
// @Success 201 {object} apimodels.Response{data=proposalapimodels.AcceptProposalResponse}
// @Failure 400,403,404,409 {object} apimodels.Response
// @router /api/v1/proposals/{id}/accept [post]
func (c *proposalsApiController) accept(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload proposalapimodels.AcceptProposal
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.proposals.Accept(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal accept error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}
