package controllers

import (
	apperrors "blytzwork-backend/lib/utils/app-errors"
	authutils "blytzwork-backend/lib/utils/auth-utils"
	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		c.GetLogger(ctx).WithError(err).Debug("request body parse error")
		return errors.New("invalid request body")
	}
	return nil
}

// GetID returns the ":id" route param. It must be a uuid.
func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetParam(ctx, "id")
}

func (c *BaseAPIController) GetParam(ctx *fiber.Ctx, name string) (string, error) {
	value := ctx.Params(name)
	if value == "" {
		return "", errors.Errorf("%s is required", name)
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", errors.Errorf("%s is not a valid identifier", name)
	}
	return value, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if id, ok := ctx.Locals("requestid").(string); ok && id != "" {
		logger = logger.WithField("request_id", id)
	}
	if userID := authutils.GetActor(ctx).UserID; userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}

// SendError writes the response for a handler error. Unexpected errors are logged and answered with msg.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		logger.WithError(err).Error(msg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
	}
	logger.WithField("status", kind.HTTPStatus()).Debug(apperrors.Message(err))
	return ctx.Status(kind.HTTPStatus()).JSON(apimodels.NewError(apperrors.Message(err)))
}

func (c *BaseAPIController) SendBadRequest(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
}

// ErrorHandler renders errors escaping the handlers, fiber ones included, as the JSON envelope.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(apimodels.NewError(fiberErr.Message))
	}
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		log.WithError(err).WithField("path", ctx.Path()).Error("unhandled request error")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("internal server error"))
	}
	return ctx.Status(kind.HTTPStatus()).JSON(apimodels.NewError(apperrors.Message(err)))
}
