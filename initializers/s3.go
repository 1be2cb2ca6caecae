package initializers

import (
	"context"
	"time"

	"blytzwork-backend/config"
	filestorage "blytzwork-backend/lib/file-storage"
	s3client "blytzwork-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) filestorage.Provider {
	client, err := s3client.NewClient(s3client.Config{
		Endpoint:        config.Conf.S3.Endpoint,
		AccessKeyID:     config.Conf.S3.AccessKeyID,
		SecretAccessKey: config.Conf.S3.SecretAccessKey,
		Region:          config.Conf.S3.Region,
		UseSSL:          *config.Conf.S3.UseSSL,
	})
	if err != nil {
		panic(err.Error())
	}
	storage := filestorage.NewInstance(client, filestorage.Config{
		Bucket:      config.Conf.S3.BucketName,
		Region:      config.Conf.S3.Region,
		Expiry:      time.Duration(config.Conf.S3.PresignExpiryMin) * time.Minute,
		CallTimeout: time.Duration(config.Conf.S3.CallTimeoutSec) * time.Second,
	})

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = storage.EnsureBucket(checkCtx); err != nil {
		log.WithError(err).Error("S3 bucket check failed, uploads may not work")
		return storage
	}
	log.Info("S3 client initialized")
	return storage
}
