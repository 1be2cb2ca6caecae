package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blytzwork-backend/lib/cache"
	"blytzwork-backend/lib/identity"
	usershandler "blytzwork-backend/lib/users"
	"blytzwork-backend/lib/utils/testdb"
	"blytzwork-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	db := testdb.New(t)
	va := testdb.CreateUser(t, db, models.UserRoleVA, "ann@va.test")
	admin := testdb.CreateUser(t, db, models.UserRoleAdmin, "root@blytz.test")
	verifier := identity.StaticVerifier{
		"va-token":    {UID: va.FirebaseUID, Email: va.Email},
		"admin-token": {UID: admin.FirebaseUID, Email: admin.Email},
		"new-token":   {UID: "uid-new", Email: "new@va.test"},
	}
	users := usershandler.NewHandler(db, cache.NewMemory(), time.Minute)

	app := fiber.New()
	secured := app.Group("", AuthorizationRequired(verifier, users), UserRequired("/auth/sync"))
	secured.Post("auth/sync", func(ctx *fiber.Ctx) error {
		return ctx.SendString("sync")
	})
	secured.Get("me", func(ctx *fiber.Ctx) error {
		return ctx.SendString(string(GetActor(ctx).Role))
	})
	secured.Get("admin", AdminRequired(), func(ctx *fiber.Ctx) error {
		return ctx.SendString("admin")
	})
	secured.Post("vote", NewUserRateLimiter(0.001, 2).Handler(), func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUserID(ctx))
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string) (int, string) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthorization(t *testing.T) {
	app := newTestApp(t)

	t.Run("missing and invalid token check", func(t *testing.T) {
		status, body := call(t, app, fiber.MethodGet, "/me", "")
		require.Equal(t, fiber.StatusUnauthorized, status)
		errResp := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(body), &errResp))
		require.Equal(t, "authorization token is missing", errResp["message"])

		status, _ = call(t, app, fiber.MethodGet, "/me", "bogus")
		require.Equal(t, fiber.StatusUnauthorized, status)
	})
	t.Run("registered user check", func(t *testing.T) {
		status, body := call(t, app, fiber.MethodGet, "/me", "va-token")
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, string(models.UserRoleVA), body)
	})
	t.Run("unregistered user check", func(t *testing.T) {
		status, _ := call(t, app, fiber.MethodGet, "/me", "new-token")
		require.Equal(t, fiber.StatusForbidden, status)

		status, body := call(t, app, fiber.MethodPost, "/auth/sync", "new-token")
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "sync", body)
	})
	t.Run("admin role check", func(t *testing.T) {
		status, _ := call(t, app, fiber.MethodGet, "/admin", "va-token")
		require.Equal(t, fiber.StatusForbidden, status)

		status, _ = call(t, app, fiber.MethodGet, "/admin", "admin-token")
		require.Equal(t, fiber.StatusOK, status)
	})
}

func TestUserRateLimiter(t *testing.T) {
	t.Run("burst per user check", func(t *testing.T) {
		app := newTestApp(t)
		for idx := 0; idx < 2; idx++ {
			status, _ := call(t, app, fiber.MethodPost, "/vote", "va-token")
			require.Equal(t, fiber.StatusOK, status)
		}
		status, _ := call(t, app, fiber.MethodPost, "/vote", "va-token")
		require.Equal(t, fiber.StatusTooManyRequests, status)

		status, _ = call(t, app, fiber.MethodPost, "/vote", "admin-token")
		require.Equal(t, fiber.StatusOK, status)
	})
	t.Run("allow check", func(t *testing.T) {
		limiter := NewUserRateLimiter(1, 1)
		require.True(t, limiter.Allow("a"))
		require.False(t, limiter.Allow("a"))
		require.True(t, limiter.Allow("b"))
	})
}

func TestWithBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Post("/upload", WithBodyLimit(8), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/upload", strings.NewReader("small"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/upload", strings.NewReader("this body is too large"))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}
