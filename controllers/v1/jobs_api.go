package apiv1

import (
	"blytzwork-backend/controllers"
	jobpostinghandler "blytzwork-backend/lib/job-posting"
	matchinghandler "blytzwork-backend/lib/matching"
	proposalhandler "blytzwork-backend/lib/proposal"
	"blytzwork-backend/middleware"
	apimodels "blytzwork-backend/models/api"
	jobapimodels "blytzwork-backend/models/api/job"
	proposalapimodels "blytzwork-backend/models/api/proposal"

	"github.com/gofiber/fiber/v2"
)

type jobsApiController struct {
	controllers.BaseAPIController
	jobs      jobpostinghandler.Provider
	proposals proposalhandler.Provider
	matching  matchinghandler.Provider
}

func InitJobsApiRouters(app fiber.Router, jobs jobpostinghandler.Provider, proposals proposalhandler.Provider, matching matchinghandler.Provider) {
	controller := jobsApiController{
		jobs:      jobs,
		proposals: proposals,
		matching:  matching,
	}
	app.Route("jobs", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Put("close", controller.close)
			idRoute.Post("proposals", controller.submitProposal)
			idRoute.Get("proposals", controller.listProposals)
			idRoute.Get("recommendations", controller.recommendations)
		})
	})
}

// @Summary Create job posting
// @Tags Jobs
// @Param	body	body	jobapimodels.JobPostingData	true	"request body"
// @Success 201 {object} apimodels.Response{data=jobapimodels.JobPostingView}
// @Failure 400,403,404 {object} apimodels.Response
// @router /api/v1/jobs [post]
func (c *jobsApiController) create(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobPostingData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.jobs.Create(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting create error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Job posting list
// @Tags Jobs
// @Param	body	body	jobapimodels.JobPostingFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]jobapimodels.JobPostingView}
// @router /api/v1/jobs/list [post]
func (c *jobsApiController) list(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobPostingFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, rowCount, err := c.jobs.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Job posting
// @Tags Jobs
// @Param	id	path	string	true	"job posting ID"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobPostingView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/jobs/{id} [get]
func (c *jobsApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.jobs.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting get error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update own job posting
// @Tags Jobs
// @Param	id		path	string						true	"job posting ID"
// @Param	body	body	jobapimodels.JobPostingData	true	"request body"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobPostingView}
// @Failure 400,403,404,409 {object} apimodels.Response
// @router /api/v1/jobs/{id} [put]
func (c *jobsApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload jobapimodels.JobPostingData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.jobs.Update(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting update error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Delete own job posting without matches or contracts
// @Tags Jobs
// @Param	id	path	string	true	"job posting ID"
// @Success 200 {object} apimodels.Response
// @Failure 403,404,409 {object} apimodels.Response
// @router /api/v1/jobs/{id} [delete]
func (c *jobsApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = c.jobs.Delete(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting delete error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Close own job posting
// @Tags Jobs
// @Param	id	path	string	true	"job posting ID"
// @Success 200 {object} apimodels.Response
// @Failure 403,404 {object} apimodels.Response
// @router /api/v1/jobs/{id}/close [put]
func (c *jobsApiController) close(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = c.jobs.Close(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting close error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Submit proposal to a job posting
// @Tags Proposals
// @Param	id		path	string							true	"job posting ID"
// @Param	body	body	proposalapimodels.ProposalData	true	"request body"
// @Success 201 {object} apimodels.Response{data=proposalapimodels.ProposalView}
// @Failure 400,403,404,409 {object} apimodels.Response
// @router /api/v1/jobs/{id}/proposals [post]
func (c *jobsApiController) submitProposal(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload proposalapimodels.ProposalData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.proposals.Submit(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal submit error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Proposals on own job posting
// @Tags Proposals
// @Param	id	path	string	true	"job posting ID"
// @Success 200 {object} apimodels.Response{data=[]proposalapimodels.ProposalView}
// @Failure 403,404 {object} apimodels.Response
// @router /api/v1/jobs/{id}/proposals [get]
func (c *jobsApiController) listProposals(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.proposals.ListForJob(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "proposal list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Assistant recommendations for a job posting
// @Tags Matches
// @Param	id	path	string	true	"job posting ID"
// @Success 200 {object} apimodels.Response{data=matchapimodels.Recommendations}
// @router /api/v1/jobs/{id}/recommendations [get]
func (c *jobsApiController) recommendations(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.matching.Recommendations(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "recommendations error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
