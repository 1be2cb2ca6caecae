package filestorage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"blytzwork-backend/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	buckets map[string]bool
}

func (f *fakePresigner) PresignedPutObject(_ context.Context, bucket, object string, _ time.Duration) (*url.URL, error) {
	return url.Parse("https://storage.local/" + bucket + "/" + object + "?X-Amz-Signature=put")
}

func (f *fakePresigner) PresignedGetObject(_ context.Context, bucket, object string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse("https://storage.local/" + bucket + "/" + object + "?X-Amz-Signature=get")
}

func (f *fakePresigner) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakePresigner) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func TestPresign(t *testing.T) {
	ctx := context.Background()
	client := &fakePresigner{buckets: map[string]bool{}}
	storage := NewInstance(client, Config{Bucket: "files", Expiry: time.Minute})

	t.Run("upload key check", func(t *testing.T) {
		res, err := storage.PresignUpload(ctx, "user-1", models.FileKindResume, "../My CV.pdf", "application/pdf")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(res.Key, "resume/user-1/"))
		require.True(t, strings.HasSuffix(res.Key, "-My_CV.pdf"))
		require.Contains(t, res.URL, "X-Amz-Signature=put")
		require.Equal(t, time.Minute, res.ExpiresIn)
		require.True(t, storage.OwnsKey("user-1", models.FileKindResume, res.Key))
		require.False(t, storage.OwnsKey("user-2", models.FileKindResume, res.Key))
		require.False(t, storage.OwnsKey("user-1", models.FileKindAvatar, res.Key))
	})
	t.Run("content type check", func(t *testing.T) {
		_, err := storage.PresignUpload(ctx, "user-1", models.FileKindAvatar, "a.exe", "application/x-msdownload")
		require.Error(t, err)
		_, err = storage.PresignUpload(ctx, "user-1", models.FileKind("video"), "a.mp4", "video/mp4")
		require.Error(t, err)
	})
	t.Run("download check", func(t *testing.T) {
		res, err := storage.PresignDownload(ctx, "avatar/user-1/x.png")
		require.NoError(t, err)
		require.Contains(t, res.URL, "X-Amz-Signature=get")
		_, err = storage.PresignDownload(ctx, "")
		require.Error(t, err)
	})
	t.Run("bucket check", func(t *testing.T) {
		require.NoError(t, storage.EnsureBucket(ctx))
		require.True(t, client.buckets["files"])
		require.NoError(t, storage.EnsureBucket(ctx))
	})
}
