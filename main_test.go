package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"blytzwork-backend/config"
	"blytzwork-backend/initializers"
	"blytzwork-backend/lib/cache"
	filestorage "blytzwork-backend/lib/file-storage"
	"blytzwork-backend/lib/identity"
	paymentprocessor "blytzwork-backend/lib/payment-processor"
	"blytzwork-backend/lib/smtp"
	"blytzwork-backend/lib/utils/testdb"
	"blytzwork-backend/models"
	matchapimodels "blytzwork-backend/models/api/match"
	dbmodels "blytzwork-backend/models/db"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const webhookSecret = "whsec_e2e"

type stubPresigner struct{}

func (stubPresigner) PresignedPutObject(_ context.Context, bucketName, objectName string, _ time.Duration) (*url.URL, error) {
	return url.Parse("https://files.test/" + bucketName + "/" + objectName + "?upload")
}

func (stubPresigner) PresignedGetObject(_ context.Context, bucketName, objectName string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse("https://files.test/" + bucketName + "/" + objectName)
}

func (stubPresigner) BucketExists(context.Context, string) (bool, error) {
	return true, nil
}

func (stubPresigner) MakeBucket(context.Context, string, minio.MakeBucketOptions) error {
	return nil
}

func testConfig() *config.Configuration {
	conf := new(config.Configuration)
	conf.App.Env = "test"
	conf.App.CorsOrigins = "http://localhost:3000"
	conf.App.BodyLimitMb = 1
	conf.Stripe.UnlockFeeCents = 2500
	conf.Stripe.Currency = "usd"
	conf.Redis.UserCacheTTLSec = 60
	conf.RateLimit.WindowSec = 60
	conf.RateLimit.MaxRequests = 1000
	conf.RateLimit.VotesPerSecond = 10
	conf.RateLimit.VoteBurst = 10
	return conf
}

type e2eEnv struct {
	app     *fiber.App
	db      *gorm.DB
	fake    *paymentprocessor.Fake
	job     dbmodels.JobPosting
	profile dbmodels.VAProfile
}

func newE2EEnv(t *testing.T) e2eEnv {
	config.Conf = testConfig()
	db := testdb.New(t)
	companyUser, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
	vaUser, profile := testdb.CreateVA(t, db, "ann@va.test", "Ann", "PH", 8, true)
	fake := paymentprocessor.NewFake(webhookSecret)
	services := initializers.NewServices(initializers.Deps{
		DB: db,
		Verifier: identity.StaticVerifier{
			"company-token": {UID: companyUser.FirebaseUID, Email: companyUser.Email},
			"va-token":      {UID: vaUser.FirebaseUID, Email: vaUser.Email},
			"new-token":     {UID: "uid-new", Email: "new@va.test", Name: "Newbie"},
		},
		Storage:   filestorage.NewInstance(stubPresigner{}, filestorage.Config{Bucket: "blytzwork-files"}),
		Mailer:    smtp.NewMailer(smtp.Config{}),
		UserCache: cache.NewMemory(),
		Processor: fake,
	})
	return e2eEnv{
		app:     buildApp(services),
		db:      db,
		fake:    fake,
		job:     testdb.CreateJob(t, db, company.ID, "Support agent"),
		profile: profile,
	}
}

func (e e2eEnv) call(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func TestPublicRoutes(t *testing.T) {
	env := newE2EEnv(t)

	t.Run("health check", func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, env.call(t, fiber.MethodGet, "/health", "", nil, nil))
		require.Equal(t, fiber.StatusOK, env.call(t, fiber.MethodGet, "/api/v1/health", "", nil, nil))
	})
	t.Run("swagger document check", func(t *testing.T) {
		var doc struct {
			Swagger string                 `json:"swagger"`
			Paths   map[string]interface{} `json:"paths"`
		}
		require.Equal(t, fiber.StatusOK, env.call(t, fiber.MethodGet, "/docs/swagger.json", "", nil, &doc))
		require.Equal(t, "2.0", doc.Swagger)
		require.Contains(t, doc.Paths, "/api/v1/matches/{id}/unlock")
	})
	t.Run("secured routes need a token check", func(t *testing.T) {
		require.Equal(t, fiber.StatusUnauthorized, env.call(t, fiber.MethodGet, "/api/v1/matches", "", nil, nil))
		require.Equal(t, fiber.StatusUnauthorized, env.call(t, fiber.MethodGet, "/api/v1/matches", "bogus", nil, nil))
	})
	t.Run("webhook signature check", func(t *testing.T) {
		status := env.call(t, fiber.MethodPost, "/api/v1/webhooks/stripe", "", paymentprocessor.FakeWebhook{ID: "evt_1"}, nil)
		require.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestSignUp(t *testing.T) {
	env := newE2EEnv(t)

	require.Equal(t, fiber.StatusForbidden, env.call(t, fiber.MethodGet, "/api/v1/auth/me", "new-token", nil, nil))

	created := envelope[map[string]interface{}]{}
	status := env.call(t, fiber.MethodPost, "/api/v1/auth/sync", "new-token", map[string]string{"role": "va"}, &created)
	require.Equal(t, fiber.StatusCreated, status)

	again := envelope[map[string]interface{}]{}
	status = env.call(t, fiber.MethodPost, "/api/v1/auth/sync", "new-token", map[string]string{"role": "va"}, &again)
	require.Equal(t, fiber.StatusOK, status)

	me := envelope[map[string]interface{}]{}
	require.Equal(t, fiber.StatusOK, env.call(t, fiber.MethodGet, "/api/v1/auth/me", "new-token", nil, &me))
	require.Equal(t, "new@va.test", me.Data["email"])
	require.Equal(t, false, me.Data["profile_complete"])
}

func TestMatchUnlockFlow(t *testing.T) {
	env := newE2EEnv(t)
	yes := true
	vote := map[string]interface{}{"job_posting_id": env.job.ID, "va_profile_id": env.profile.ID, "vote": &yes}

	first := envelope[map[string]interface{}]{}
	require.Equal(t, fiber.StatusOK, env.call(t, fiber.MethodPost, "/api/v1/matches/vote", "company-token", vote, &first))
	require.Equal(t, false, first.Data["matched"])

	second := envelope[map[string]interface{}]{}
	require.Equal(t, fiber.StatusOK, env.call(t, fiber.MethodPost, "/api/v1/matches/vote", "va-token", vote, &second))
	require.Equal(t, true, second.Data["matched"])
	matchID, ok := second.Data["match_id"].(string)
	require.True(t, ok)

	matches := envelope[[]map[string]interface{}]{}
	require.Equal(t, fiber.StatusOK, env.call(t, fiber.MethodGet, "/api/v1/matches", "va-token", nil, &matches))
	require.Len(t, matches.Data, 1)
	require.NotContains(t, matches.Data[0], "email")

	status := env.call(t, fiber.MethodPost, "/api/v1/matches/"+matchID+"/unlock", "company-token", nil, nil)
	require.Equal(t, fiber.StatusPaymentRequired, status)

	intent := envelope[map[string]interface{}]{}
	status = env.call(t, fiber.MethodPost, "/api/v1/matches/"+matchID+"/unlock/intent", "company-token", nil, &intent)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, float64(2500), intent.Data["amount_cents"])

	var payment dbmodels.Payment
	require.NoError(t, env.db.First(&payment, "id = ?", intent.Data["payment_id"]).Error)
	raw, err := json.Marshal(paymentprocessor.FakeWebhook{
		ID:       "evt_ok",
		Type:     paymentprocessor.EventIntentSucceeded,
		IntentID: payment.ProviderRef,
	})
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(raw))
	req.Header.Set("Stripe-Signature", webhookSecret)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	vaContact := envelope[matchapimodels.ContactInfo]{}
	status = env.call(t, fiber.MethodGet, "/api/v1/matches/"+matchID+"/contact", "va-token", nil, &vaContact)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, matchID, vaContact.Data.MatchID)
	require.Equal(t, "hr@acme.test", vaContact.Data.Company.Email)

	contact := envelope[matchapimodels.ContactInfo]{}
	status = env.call(t, fiber.MethodPost, "/api/v1/matches/"+matchID+"/unlock", "company-token", nil, &contact)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, matchID, contact.Data.MatchID)
	require.Equal(t, "ann@va.test", contact.Data.VA.Email)
	require.Equal(t, "hr@acme.test", contact.Data.Company.Email)

	notifications := struct {
		Data     []map[string]interface{} `json:"data"`
		RowCount int64                    `json:"row_count"`
	}{}
	require.Equal(t, fiber.StatusOK, env.call(t, fiber.MethodGet, "/api/v1/notifications", "va-token", nil, &notifications))
	codes := make([]interface{}, 0, len(notifications.Data))
	for _, item := range notifications.Data {
		codes = append(codes, item["code"])
	}
	require.Contains(t, codes, string(models.NotificationMatchCreated))
	require.Contains(t, codes, string(models.NotificationContactUnlocked))
}
