package filestorage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"blytzwork-backend/lib/utils/helpers"
	"blytzwork-backend/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Presigner is the object storage API the handler relies on.
type Presigner interface {
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type Provider interface {
	PresignUpload(ctx context.Context, ownerID string, kind models.FileKind, fileName, contentType string) (PresignedURL, error)
	PresignDownload(ctx context.Context, key string) (PresignedURL, error)
	EnsureBucket(ctx context.Context) error
	// OwnsKey reports whether the key was issued to the owner for the kind.
	OwnsKey(ownerID string, kind models.FileKind, key string) bool
}

type PresignedURL struct {
	URL       string
	Key       string
	ExpiresIn time.Duration
}

type Config struct {
	Bucket      string
	Region      string
	Expiry      time.Duration
	CallTimeout time.Duration
}

func NewInstance(client Presigner, cfg Config) Provider {
	if cfg.Expiry <= 0 {
		cfg.Expiry = 15 * time.Minute
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	return &impl{
		client: client,
		cfg:    cfg,
	}
}

type impl struct {
	client Presigner
	cfg    Config
}

func keyPrefix(ownerID string, kind models.FileKind) string {
	return fmt.Sprintf("%s/%s/", kind, ownerID)
}

func (i impl) PresignUpload(ctx context.Context, ownerID string, kind models.FileKind, fileName, contentType string) (PresignedURL, error) {
	if !kind.IsValid() {
		return PresignedURL{}, errors.Errorf("unknown file kind %q", kind)
	}
	if !kind.AllowsContentType(contentType) {
		return PresignedURL{}, errors.Errorf("content type %q is not allowed for %s", contentType, kind)
	}
	key := keyPrefix(ownerID, kind) + uuid.NewString() + "-" + helpers.SanitizeFileName(fileName)
	ctx, cancel := context.WithTimeout(ctx, i.cfg.CallTimeout)
	defer cancel()
	u, err := i.client.PresignedPutObject(ctx, i.cfg.Bucket, key, i.cfg.Expiry)
	if err != nil {
		return PresignedURL{}, errors.Wrap(err, "presign upload error")
	}
	return PresignedURL{URL: u.String(), Key: key, ExpiresIn: i.cfg.Expiry}, nil
}

func (i impl) PresignDownload(ctx context.Context, key string) (PresignedURL, error) {
	if key == "" {
		return PresignedURL{}, errors.New("file key is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, i.cfg.CallTimeout)
	defer cancel()
	u, err := i.client.PresignedGetObject(ctx, i.cfg.Bucket, key, i.cfg.Expiry, url.Values{})
	if err != nil {
		return PresignedURL{}, errors.Wrap(err, "presign download error")
	}
	return PresignedURL{URL: u.String(), Key: key, ExpiresIn: i.cfg.Expiry}, nil
}

func (i impl) EnsureBucket(ctx context.Context) error {
	exists, err := i.client.BucketExists(ctx, i.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, "bucket check error")
	}
	if exists {
		return nil
	}
	err = i.client.MakeBucket(ctx, i.cfg.Bucket, minio.MakeBucketOptions{Region: i.cfg.Region})
	if err != nil {
		return errors.Wrap(err, "bucket create error")
	}
	return nil
}

func (i impl) OwnsKey(ownerID string, kind models.FileKind, key string) bool {
	prefix := keyPrefix(ownerID, kind)
	return len(key) > len(prefix) && key[:len(prefix)] == prefix
}
