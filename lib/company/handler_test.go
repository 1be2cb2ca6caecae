package companyhandler

import (
	"context"
	"net/url"
	"testing"
	"time"

	"blytzwork-backend/lib/cache"
	filestorage "blytzwork-backend/lib/file-storage"
	usershandler "blytzwork-backend/lib/users"
	apperrors "blytzwork-backend/lib/utils/app-errors"
	"blytzwork-backend/lib/utils/testdb"
	"blytzwork-backend/models"
	profileapimodels "blytzwork-backend/models/api/profile"
	dbmodels "blytzwork-backend/models/db"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubPresigner struct{}

func (stubPresigner) PresignedPutObject(_ context.Context, bucket, object string, _ time.Duration) (*url.URL, error) {
	return url.Parse("https://storage.local/" + bucket + "/" + object)
}

func (stubPresigner) PresignedGetObject(_ context.Context, bucket, object string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse("https://storage.local/" + bucket + "/" + object)
}

func (stubPresigner) BucketExists(context.Context, string) (bool, error) {
	return true, nil
}

func (stubPresigner) MakeBucket(context.Context, string, minio.MakeBucketOptions) error {
	return nil
}

func actorOf(user dbmodels.User) models.Actor {
	return models.Actor{UserID: user.ID, Email: user.Email, Role: user.Role, ProfileComplete: user.ProfileComplete}
}

func newTestHandler(t *testing.T) (Provider, *gorm.DB) {
	db := testdb.New(t)
	users := usershandler.NewHandler(db, cache.NewMemory(), time.Minute)
	storage := filestorage.NewInstance(stubPresigner{}, filestorage.Config{Bucket: "files"})
	return NewHandler(db, users, storage), db
}

func companyData(name string) profileapimodels.CompanyData {
	return profileapimodels.CompanyData{
		Name:     name,
		Industry: "Logistics",
		Website:  "https://acme.test",
		Country:  "US",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("create and duplicate check", func(t *testing.T) {
		h, db := newTestHandler(t)
		user := testdb.CreateUser(t, db, models.UserRoleCompany, "hr@acme.test")
		require.NoError(t, db.Model(&dbmodels.User{}).Where("id = ?", user.ID).Update("profile_complete", false).Error)

		view, err := h.Create(ctx, actorOf(user), companyData(" Acme "))
		require.NoError(t, err)
		require.Equal(t, "Acme", view.Name)
		// contact email falls back to the account email
		require.Equal(t, "hr@acme.test", view.ContactEmail)

		var rec dbmodels.User
		require.NoError(t, db.First(&rec, "id = ?", user.ID).Error)
		require.True(t, rec.ProfileComplete)

		_, err = h.Create(ctx, actorOf(user), companyData("Acme two"))
		require.True(t, apperrors.Is(err, apperrors.KindConflict))

		var count int64
		require.NoError(t, db.Model(&dbmodels.Company{}).Where("user_id = ?", user.ID).Count(&count).Error)
		require.Equal(t, int64(1), count)
	})
	t.Run("role and data check", func(t *testing.T) {
		h, db := newTestHandler(t)
		vaUser := testdb.CreateUser(t, db, models.UserRoleVA, "ann@va.test")
		_, err := h.Create(ctx, actorOf(vaUser), companyData("Ann Inc"))
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		user := testdb.CreateUser(t, db, models.UserRoleCompany, "hr@acme.test")
		data := companyData("Acme")
		data.ContactEmail = "not an email"
		_, err = h.Create(ctx, actorOf(user), data)
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		data = companyData("Acme")
		data.Website = "acme"
		_, err = h.Create(ctx, actorOf(user), data)
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
}

func TestProfile(t *testing.T) {
	t.Run("update and public view check", func(t *testing.T) {
		h, db := newTestHandler(t)
		user, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")

		data := companyData("Acme Global")
		data.ContactEmail = "jobs@acme.test"
		data.Phone = " +1 555 0100 "
		view, err := h.Update(actorOf(user), data)
		require.NoError(t, err)
		require.Equal(t, "Acme Global", view.Name)
		require.Equal(t, "jobs@acme.test", view.ContactEmail)
		require.Equal(t, "+1 555 0100", view.Phone)

		public, err := h.GetPublic(company.ID)
		require.NoError(t, err)
		require.Equal(t, "Acme Global", public.Name)

		_, err = h.GetPublic("missing")
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		stranger := testdb.CreateUser(t, db, models.UserRoleCompany, "new@corp.test")
		_, err = h.GetOwn(actorOf(stranger))
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))

		rec, err := h.GetByUser(stranger.ID)
		require.NoError(t, err)
		require.Nil(t, rec)
	})
	t.Run("logo ownership check", func(t *testing.T) {
		ctx := context.Background()
		h, db := newTestHandler(t)
		user, company := testdb.CreateCompany(t, db, "hr@acme.test", "Acme")
		otherUser, _ := testdb.CreateCompany(t, db, "boss@other.test", "Other")

		_, err := h.UploadURL(ctx, actorOf(user), profileapimodels.UploadURLRequest{
			Kind: models.FileKindResume, FileName: "cv.pdf", ContentType: "application/pdf",
		})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		res, err := h.UploadURL(ctx, actorOf(user), profileapimodels.UploadURLRequest{
			Kind: models.FileKindLogo, FileName: "logo.svg", ContentType: "image/svg+xml",
		})
		require.NoError(t, err)

		_, err = h.SetLogo(actorOf(otherUser), profileapimodels.CompanyLogoData{LogoKey: res.Key})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))

		view, err := h.SetLogo(actorOf(user), profileapimodels.CompanyLogoData{LogoKey: res.Key})
		require.NoError(t, err)
		require.Equal(t, res.Key, view.LogoKey)

		var rec dbmodels.Company
		require.NoError(t, db.First(&rec, "id = ?", company.ID).Error)
		require.Equal(t, res.Key, rec.LogoKey)
	})
}
