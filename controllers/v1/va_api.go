package apiv1

import (
	"blytzwork-backend/controllers"
	matchinghandler "blytzwork-backend/lib/matching"
	proposalhandler "blytzwork-backend/lib/proposal"
	vaprofilehandler "blytzwork-backend/lib/va-profile"
	"blytzwork-backend/middleware"
	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	profileapimodels "blytzwork-backend/models/api/profile"

	"github.com/gofiber/fiber/v2"
)

type vaApiController struct {
	controllers.BaseAPIController
	profiles  vaprofilehandler.Provider
	matching  matchinghandler.Provider
	proposals proposalhandler.Provider
}

func InitVAApiRouters(app fiber.Router, profiles vaprofilehandler.Provider, matching matchinghandler.Provider, proposals proposalhandler.Provider) {
	controller := vaApiController{
		profiles:  profiles,
		matching:  matching,
		proposals: proposals,
	}
	app.Route("va", func(router fiber.Router) {
		router.Route("profile", func(profileRoute fiber.Router) {
			profileRoute.Use(middleware.RoleRequired(models.UserRoleVA))
			profileRoute.Post("", controller.create)
			profileRoute.Put("", controller.update)
			profileRoute.Get("", controller.getOwn)
			profileRoute.Post("upload-url", controller.uploadURL)
			profileRoute.Put("files", controller.attachFiles)
		})
		router.Post("profiles/list", controller.list)
		router.Get("profiles/:id", controller.getPublic)
		router.Get("discovery", middleware.RoleRequired(models.UserRoleVA), controller.discovery)
		router.Get("proposals", middleware.RoleRequired(models.UserRoleVA), controller.ownProposals)
	})
}

// @Summary Create own VA profile
// @Tags VA
// @Param	body	body	profileapimodels.VAProfileData	true	"request body"
// @Success 201 {object} apimodels.Response{data=profileapimodels.VAProfileView}
// @Failure 400,403,409 {object} apimodels.Response
// @router /api/v1/va/profile [post]
func (c *vaApiController) create(ctx *fiber.Ctx) error {
	var payload profileapimodels.VAProfileData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.profiles.Create(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "va profile create error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Update own VA profile
// @Tags VA
// @Param	body	body	profileapimodels.VAProfileData	true	"request body"
// @Success 200 {object} apimodels.Response{data=profileapimodels.VAProfileView}
// @Failure 400,403,404 {object} apimodels.Response
// @router /api/v1/va/profile [put]
func (c *vaApiController) update(ctx *fiber.Ctx) error {
	var payload profileapimodels.VAProfileData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.profiles.Update(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "va profile update error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Own VA profile
// @Tags VA
// @Success 200 {object} apimodels.Response{data=profileapimodels.VAProfileView}
// @Failure 403,404 {object} apimodels.Response
// @router /api/v1/va/profile [get]
func (c *vaApiController) getOwn(ctx *fiber.Ctx) error {
	resp, err := c.profiles.GetOwn(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "va profile get error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Presigned upload url for avatar, resume or portfolio
// @Tags VA
// @Param	body	body	profileapimodels.UploadURLRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=profileapimodels.UploadURLResponse}
// @router /api/v1/va/profile/upload-url [post]
func (c *vaApiController) uploadURL(ctx *fiber.Ctx) error {
	var payload profileapimodels.UploadURLRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.profiles.UploadURL(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "upload url error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Attach uploaded avatar, resume or portfolio
// @Tags VA
// @Param	body	body	profileapimodels.VAFilesData	true	"request body"
// @Success 200 {object} apimodels.Response{data=profileapimodels.VAProfileView}
// @Failure 400,403,404 {object} apimodels.Response
// @router /api/v1/va/profile/files [put]
func (c *vaApiController) attachFiles(ctx *fiber.Ctx) error {
	var payload profileapimodels.VAFilesData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.profiles.AttachFiles(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "va files attach error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary VA profile list
// @Tags VA
// @Param	body	body	profileapimodels.VAProfileFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]profileapimodels.VAProfilePublicView}
// @router /api/v1/va/profiles/list [post]
func (c *vaApiController) list(ctx *fiber.Ctx) error {
	var payload profileapimodels.VAProfileFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, rowCount, err := c.profiles.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "va profile list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Public VA profile
// @Tags VA
// @Param	id	path	string	true	"VA profile ID"
// @Success 200 {object} apimodels.Response{data=profileapimodels.VAProfilePublicView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/va/profiles/{id} [get]
func (c *vaApiController) getPublic(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.profiles.GetPublic(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "va profile get error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Open job postings the VA has not voted on yet
// @Tags VA
// @Success 200 {object} apimodels.Response{data=matchapimodels.JobDiscovery}
// @router /api/v1/va/discovery [get]
func (c *vaApiController) discovery(ctx *fiber.Ctx) error {
	resp, err := c.matching.Discovery(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job discovery error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Own proposals
// @Tags Proposals
// @Success 200 {object} apimodels.Response{data=[]proposalapimodels.ProposalView}
// @router /api/v1/va/proposals [get]
func (c *vaApiController) ownProposals(ctx *fiber.Ctx) error {
	resp, err := c.proposals.ListOwn(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
