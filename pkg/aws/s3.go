package aws

import (
	"time"

	"lostfound/pkg/config"

	"github.com/gofiber/storage/s3/v2"
)

type S3 struct {
	bucket *s3.Storage
}

func NewS3Bucket(appConfig *config.AppConfig) *S3 {
	storage := s3.New(s3.Config{
		Endpoint: appConfig.AWSEndpoint,
		Bucket:   appConfig.AWSBucket,
		Region:   appConfig.AWSDefaultRegion,
		Credentials: s3.Credentials{
			AccessKey:       appConfig.AWSAccessKey,
			SecretAccessKey: appConfig.AWSSecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return &S3{
		bucket: storage,
	}
}

func (s *S3) Upload(key string, data []byte) error {
	return s.bucket.Set(key, data, 0)
}

func (s *S3) Close() error {
	return s.bucket.Close()
}
