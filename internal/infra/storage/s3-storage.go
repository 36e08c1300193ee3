package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"voice-relay/internal/apperrors"
	"voice-relay/internal/infra/logger"
)

// uploader is the part of manager.Uploader used here.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Storage streams objects into one bucket. The multipart uploader accepts
// bodies of unknown length, so recordings are never buffered whole in memory.
type S3Storage struct {
	Logger   *logger.Logger
	Bucket   string
	uploader uploader
}

func NewS3Storage(logger *logger.Logger, client *s3.Client, bucket string) *S3Storage {
	return &S3Storage{Logger: logger, Bucket: bucket, uploader: manager.NewUploader(client)}
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.Logger.Error("S3 upload failed", logrus.Fields{"bucket": s.Bucket, "key": key, "error": err.Error()})
		return apperrors.Storage(fmt.Sprintf("failed to write s3://%s/%s", s.Bucket, key), err)
	}

	s.Logger.Info("Recording stored", logrus.Fields{"bucket": s.Bucket, "key": key, "location": out.Location})
	return nil
}

// compile-time check
var _ IObjectStorage = (*S3Storage)(nil)
