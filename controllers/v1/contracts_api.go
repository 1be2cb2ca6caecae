package apiv1

import (
	"fmt"
	"time"

	"blytzwork-backend/controllers"
	contracthandler "blytzwork-backend/lib/contract"
	timesheethandler "blytzwork-backend/lib/timesheet"
	"blytzwork-backend/middleware"
	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"
	contractapimodels "blytzwork-backend/models/api/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

type contractsApiController struct {
	controllers.BaseAPIController
	contracts  contracthandler.Provider
	timesheets timesheethandler.Provider
}

func InitContractsApiRouters(app fiber.Router, contracts contracthandler.Provider, timesheets timesheethandler.Provider) {
	controller := contractsApiController{
		contracts:  contracts,
		timesheets: timesheets,
	}
	app.Route("contracts", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("status", controller.changeStatus)
			idRoute.Post("milestones", controller.addMilestone)
			idRoute.Post("timesheets", controller.logHours)
			idRoute.Get("timesheets", controller.listTimesheets)
			idRoute.Get("timesheets/export", controller.exportTimesheets)
		})
	})
	app.Route("milestones/:id", func(router fiber.Router) {
		router.Put("submit", controller.submitMilestone)
		router.Put("approve", controller.approveMilestone)
		router.Get("invoice", controller.invoice)
	})
	app.Put("timesheets/:id/review", controller.reviewTimesheet)
}

// @Summary Create contract
// @Tags Contracts
// @Param	body	body	contractapimodels.ContractData	true	"request body"
// @Success 201 {object} apimodels.Response{data=contractapimodels.ContractView}
// @Failure 400,403,404,409 {object} apimodels.Response
// @router /api/v1/contracts [post]
func (c *contractsApiController) create(ctx *fiber.Ctx) error {
	var payload contractapimodels.ContractData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.contracts.Create(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "contract create error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Contract list
// @Tags Contracts
// @Param	status	query	string	false	"contract status"
// @Param	page	query	int		false	"page"
// @Param	limit	query	int		false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]contractapimodels.ContractView}
// @router /api/v1/contracts [get]
func (c *contractsApiController) list(ctx *fiber.Ctx) error {
	var filter contractapimodels.ContractFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return c.SendBadRequest(ctx, errors.New("invalid query params"))
	}
	list, rowCount, err := c.contracts.List(middleware.GetActor(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "contract list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Contract with milestones
// @Tags Contracts
// @Param	id	path	string	true	"contract ID"
// @Success 200 {object} apimodels.Response{data=contractapimodels.ContractView}
// @Failure 403,404 {object} apimodels.Response
// @router /api/v1/contracts/{id} [get]
func (c *contractsApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.contracts.Get(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "contract get error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Change contract status
// @Tags Contracts
// @Param	id		path	string	true	"contract ID"
// @Param	body	body	contractapimodels.ContractStatusChange	true	"request body"
// @Success 200 {object} apimodels.Response{data=contractapimodels.ContractView}
// @Failure 400,403,404,409 {object} apimodels.Response
// @router /api/v1/contracts/{id}/status [put]
func (c *contractsApiController) changeStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload contractapimodels.ContractStatusChange
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.contracts.ChangeStatus(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "contract status change error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Add milestone to a fixed contract
// @Tags Contracts
// @Param	id		path	string	true	"contract ID"
// @Param	body	body	contractapimodels.MilestoneData	true	"request body"
// @Success 201 {object} apimodels.Response{data=contractapimodels.MilestoneView}
// @Failure 400,403,404,409 {object} apimodels.Response
// @router /api/v1/contracts/{id}/milestones [post]
func (c *contractsApiController) addMilestone(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload contractapimodels.MilestoneData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.contracts.AddMilestone(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "milestone add error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Submit milestone for approval
// @Tags Contracts
// @Param	id	path	string	true	"milestone ID"
// @Success 200 {object} apimodels.Response{data=contractapimodels.MilestoneView}
// @Failure 403,404,409 {object} apimodels.Response
// @router /api/v1/milestones/{id}/submit [put]
func (c *contractsApiController) submitMilestone(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.contracts.SubmitMilestone(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "milestone submit error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Approve submitted milestone
// @Tags Contracts
// @Param	id	path	string	true	"milestone ID"
// @Success 200 {object} apimodels.Response{data=contractapimodels.MilestoneView}
// @Failure 403,404,409 {object} apimodels.Response
// @router /api/v1/milestones/{id}/approve [put]
func (c *contractsApiController) approveMilestone(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.contracts.ApproveMilestone(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "milestone approve error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Milestone invoice
// @Tags Contracts
// @Param	id	path	string	true	"milestone ID"
// @Produce application/pdf
// @Success 200
// @router /api/v1/milestones/{id}/invoice [get]
func (c *contractsApiController) invoice(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	file, fileName, err := c.contracts.Invoice(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invoice error")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return ctx.Status(fiber.StatusOK).Send(file)
}

// @Summary Log hours on an hourly contract
// @Tags Contracts
// @Param	id		path	string	true	"contract ID"
// @Param	body	body	contractapimodels.TimesheetData	true	"request body"
// @Success 201 {object} apimodels.Response{data=contractapimodels.TimesheetView}
// @Failure 400,403,404,409 {object} apimodels.Response
// @router /api/v1/contracts/{id}/timesheets [post]
func (c *contractsApiController) logHours(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload contractapimodels.TimesheetData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.timesheets.Log(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "timesheet log error")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}

// @Summary Contract timesheets with totals
// @Tags Contracts
// @Param	id		path	string	true	"contract ID"
// @Param	from	query	string	false	"first day, YYYY-MM-DD"
// @Param	to		query	string	false	"last day, YYYY-MM-DD"
// @Param	status	query	string	false	"timesheet status"
// @Success 200 {object} apimodels.Response{data=contractapimodels.TimesheetSummary}
// @router /api/v1/contracts/{id}/timesheets [get]
func (c *contractsApiController) listTimesheets(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	filter, err := timesheetFilter(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.timesheets.List(middleware.GetActor(ctx), id, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "timesheet list error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Export timesheets to xlsx
// @Tags Contracts
// @Param	id		path	string	true	"contract ID"
// @Param	from	query	string	false	"first day, YYYY-MM-DD"
// @Param	to		query	string	false	"last day, YYYY-MM-DD"
// @Param	status	query	string	false	"timesheet status"
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200
// @router /api/v1/contracts/{id}/timesheets/export [get]
func (c *contractsApiController) exportTimesheets(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	filter, err := timesheetFilter(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	file, fileName, err := c.timesheets.Export(middleware.GetActor(ctx), id, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "timesheet export error")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return ctx.Status(fiber.StatusOK).SendStream(file, file.Len())
}

// @Summary Approve or reject a timesheet
// @Tags Contracts
// @Param	id		path	string	true	"timesheet ID"
// @Param	body	body	contractapimodels.TimesheetReview	true	"request body"
// @Success 200 {object} apimodels.Response{data=contractapimodels.TimesheetView}
// @Failure 400,403,404,409 {object} apimodels.Response
// @router /api/v1/timesheets/{id}/review [put]
func (c *contractsApiController) reviewTimesheet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload contractapimodels.TimesheetReview
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	resp, err := c.timesheets.Review(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "timesheet review error")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func timesheetFilter(ctx *fiber.Ctx) (contractapimodels.TimesheetFilter, error) {
	filter := contractapimodels.TimesheetFilter{
		Status: models.TimesheetStatus(ctx.Query("status")),
	}
	if value := ctx.Query("from"); value != "" {
		from, err := time.Parse(dateLayout, value)
		if err != nil {
			return filter, errors.New("from must be a YYYY-MM-DD date")
		}
		filter.From = &from
	}
	if value := ctx.Query("to"); value != "" {
		to, err := time.Parse(dateLayout, value)
		if err != nil {
			return filter, errors.New("to must be a YYYY-MM-DD date")
		}
		filter.To = &to
	}
	return filter, nil
}
