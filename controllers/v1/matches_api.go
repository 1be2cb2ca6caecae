package apiv1

import (
	"blytzwork-backend/controllers"
	chathandler "blytzwork-backend/lib/chat"
	matchinghandler "blytzwork-backend/lib/matching"
	"blytzwork-backend/middleware"
	apimodels "blytzwork-backend/models/api"
	matchapimodels "blytzwork-backend/models/api/match"
	notificationapimodels "blytzwork-backend/models/api/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type matchesApiController struct {
	controllers.BaseAPIController
	matching matchinghandler.Provider
	chat     chathandler.Provider
}

// InitMatchesApiRouters registers the vote, match and chat routes. Votes pass through voteLimit.
func InitMatchesApiRouters(app fiber.Router, matching matchinghandler.Provider, chat chathandler.Provider, voteLimit fiber.Handler) {
	controller := matchesApiController{
		matching: matching,
		chat:     chat,
	}
	app.Route("matches", func(router fiber.Router) {
		router.Post("vote", voteLimit, controller.vote)
		router.Get("", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Post("unlock", controller.unlock)
			idRoute.Get("contact", controller.contact)
			idRoute.Post("messages", controller.sendMessage)
			idRoute.Get("messages", controller.listMessages)
		})
	})
}

// @Summary Vote on a job posting / assistant pair
// @Tags Matches
// @Param	body	body	matchapimodels.VoteRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=matchapimodels.VoteResult}
// @Failure 400,403,404,429 {object} apimodels.Response
// @router /api/v1/matches/vote [post]
func (c *matchesApiController) vote(ctx *fiber.Ctx) error {
	var payload matchapimodels.VoteRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.matching.Vote(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "vote error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Own matches
// @Tags Matches
// @Success 200 {object} apimodels.Response{data=[]matchapimodels.MatchView}
// @router /api/v1/matches [get]
func (c *matchesApiController) list(ctx *fiber.Ctx) error {
	resp, err := c.matching.ListMatches(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "match list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Unlock contact details after the unlock payment succeeded
// @Tags Matches
// @Param	id	path	string	true	"match ID"
// @Success 200 {object} apimodels.Response{data=matchapimodels.ContactInfo}
// @Failure 402,403,404 {object} apimodels.Response
// @router /api/v1/matches/{id}/unlock [post]
func (c *matchesApiController) unlock(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.matching.Unlock(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "contact unlock error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Contact details of an unlocked match
// @Tags Matches
// @Param	id	path	string	true	"match ID"
// @Success 200 {object} apimodels.Response{data=matchapimodels.ContactInfo}
// @Failure 402,403,404 {object} apimodels.Response
// @router /api/v1/matches/{id}/contact [get]
func (c *matchesApiController) contact(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.matching.Contact(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "contact get error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Send chat message
// @Tags Chat
// @Param	id		path	string									true	"match ID"
// @Param	body	body	notificationapimodels.ChatMessageData	true	"request body"
// @Success 201 {object} apimodels.Response{data=notificationapimodels.ChatMessageView}
// @Failure 400,402,403,404 {object} apimodels.Response
// @router /api/v1/matches/{id}/messages [post]
func (c *matchesApiController) sendMessage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload notificationapimodels.ChatMessageData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.chat.Send(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "message send error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Chat history, newest first
// @Tags Chat
// @Param	id		path	string	true	"match ID"
// @Param	page	query	int		false	"page"
// @Param	limit	query	int		false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]notificationapimodels.ChatMessageView}
// @Failure 402,403,404 {object} apimodels.Response
// @router /api/v1/matches/{id}/messages [get]
func (c *matchesApiController) listMessages(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var page apimodels.Pagination
	if err = ctx.QueryParser(&page); err != nil {
		return c.SendBadRequest(ctx, errors.New("invalid query params"))
	}
	list, rowCount, err := c.chat.List(middleware.GetActor(ctx), id, page)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "message list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
