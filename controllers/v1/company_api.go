package apiv1

import (
	"blytzwork-backend/controllers"
	companyhandler "blytzwork-backend/lib/company"
	jobpostinghandler "blytzwork-backend/lib/job-posting"
	"blytzwork-backend/middleware"
	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	profileapimodels "blytzwork-backend/models/api/profile"

	"github.com/gofiber/fiber/v2"
)

type companyApiController struct {
	controllers.BaseAPIController
	companies companyhandler.Provider
	jobs      jobpostinghandler.Provider
}

func InitCompanyApiRouters(app fiber.Router, companies companyhandler.Provider, jobs jobpostinghandler.Provider) {
	controller := companyApiController{
		companies: companies,
		jobs:      jobs,
	}
	app.Route("company", func(router fiber.Router) {
		router.Use(middleware.RoleRequired(models.UserRoleCompany))
		router.Route("profile", func(profileRoute fiber.Router) {
			profileRoute.Post("", controller.create)
			profileRoute.Put("", controller.update)
			profileRoute.Get("", controller.getOwn)
			profileRoute.Post("upload-url", controller.uploadURL)
			profileRoute.Put("logo", controller.setLogo)
		})
		router.Get("jobs", controller.ownJobs)
	})
	app.Get("companies/:id", controller.getPublic)
}

// @Summary Create own company profile
// @Tags Company
// @Param	body	body	profileapimodels.CompanyData	true	"request body"
// @Success 201 {object} apimodels.Response{data=profileapimodels.CompanyOwnerView}
// @Failure 400,403,409 {object} apimodels.Response
// @router /api/v1/company/profile [post]
func (c *companyApiController) create(ctx *fiber.Ctx) error {
	var payload profileapimodels.CompanyData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.companies.Create(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "company create error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Update own company profile
// @Tags Company
// @Param	body	body	profileapimodels.CompanyData	true	"request body"
// @Success 200 {object} apimodels.Response{data=profileapimodels.CompanyOwnerView}
// @Failure 400,403,404 {object} apimodels.Response
// @router /api/v1/company/profile [put]
func (c *companyApiController) update(ctx *fiber.Ctx) error {
	var payload profileapimodels.CompanyData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.companies.Update(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "company update error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Own company profile
// @Tags Company
// @Success 200 {object} apimodels.Response{data=profileapimodels.CompanyOwnerView}
// @Failure 403,404 {object} apimodels.Response
// @router /api/v1/company/profile [get]
func (c *companyApiController) getOwn(ctx *fiber.Ctx) error {
	resp, err := c.companies.GetOwn(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "company get error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Presigned logo upload URL
// @Tags Company
// @Param	body	body	profileapimodels.UploadURLRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=profileapimodels.UploadURLResponse}
// @Failure 400,403 {object} apimodels.Response
// @router /api/v1/company/profile/upload-url [post]
func (c *companyApiController) uploadURL(ctx *fiber.Ctx) error {
	var payload profileapimodels.UploadURLRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.companies.UploadURL(ctx.UserContext(), middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "upload url error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Attach uploaded logo
// @Tags Company
// @Param	body	body	profileapimodels.CompanyLogoData	true	"request body"
// @Success 200 {object} apimodels.Response{data=profileapimodels.CompanyOwnerView}
// @Failure 400,403,404 {object} apimodels.Response
// @router /api/v1/company/profile/logo [put]
func (c *companyApiController) setLogo(ctx *fiber.Ctx) error {
	var payload profileapimodels.CompanyLogoData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.companies.SetLogo(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "company logo error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Own job postings, open and closed
// @Tags Company
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.JobPostingView}
// @Failure 403,404 {object} apimodels.Response
// @router /api/v1/company/jobs [get]
func (c *companyApiController) ownJobs(ctx *fiber.Ctx) error {
	resp, err := c.jobs.ListOwn(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job posting list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Public company profile
// @Tags Company
// @Param	id	path	string	true	"company ID"
// @Success 200 {object} apimodels.Response{data=profileapimodels.CompanyView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/companies/{id} [get]
func (c *companyApiController) getPublic(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.companies.GetPublic(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "company get error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
