package middleware

import (
	"strings"

	"blytzwork-backend/lib/identity"
	usershandler "blytzwork-backend/lib/users"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	authutils "blytzwork-backend/lib/utils/auth-utils"
	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AuthorizationRequired verifies the bearer identity token and attaches the caller to the request.
func AuthorizationRequired(verifier identity.Verifier, users usershandler.Provider) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := authutils.BearerToken(ctx)
		if token == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("authorization token is missing"))
		}
		ident, err := verifier.VerifyIDToken(ctx.UserContext(), token)
		if err != nil {
			msg := "authorization token is invalid"
			if errors.Is(err, identity.ErrExpiredToken) {
				msg = "authorization token is expired"
			}
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(msg))
		}
		actor, err := users.Resolve(ctx.UserContext(), *ident)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindInternal {
				log.WithError(err).WithField("firebase_uid", ident.UID).Error("user resolve error")
				return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("user resolve error"))
			}
			return ctx.Status(apperrors.KindOf(err).HTTPStatus()).JSON(apimodels.NewError(apperrors.Message(err)))
		}
		authutils.SetIdentity(ctx, *ident)
		authutils.SetActor(ctx, actor)
		return ctx.Next()
	}
}

// UserRequired rejects callers that have not registered yet. Only the sync route is open to them.
func UserRequired(allowedSuffixes ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if GetActor(ctx).IsRegistered() {
			return ctx.Next()
		}
		for _, suffix := range allowedSuffixes {
			if strings.HasSuffix(strings.TrimRight(ctx.Path(), "/"), suffix) {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("user is not registered, call /auth/sync first"))
	}
}

func GetActor(ctx *fiber.Ctx) models.Actor {
	return authutils.GetActor(ctx)
}

func GetUserID(ctx *fiber.Ctx) string {
	return authutils.GetActor(ctx).UserID
}
