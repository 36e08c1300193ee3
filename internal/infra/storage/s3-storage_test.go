package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-relay/internal/apperrors"
	"voice-relay/internal/infra/logger"
)

// fakeUploader keeps the last body per key, like a bucket would.
type fakeUploader struct {
	objects      map[string]string
	contentTypes map[string]string
	err          error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string]string{}, contentTypes: map[string]string{}}
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(input.Bucket) + "/" + aws.ToString(input.Key)
	f.objects[key] = string(data)
	f.contentTypes[key] = aws.ToString(input.ContentType)
	return &manager.UploadOutput{Location: "https://" + aws.ToString(input.Bucket) + ".s3.amazonaws.com/" + aws.ToString(input.Key)}, nil
}

func TestS3Storage_Put(t *testing.T) {
	up := newFakeUploader()
	s := &S3Storage{Logger: logger.NewNopLogger(), Bucket: "voice-bucket", uploader: up}

	err := s.Put(context.Background(), "recordings/abc-123.mp3", strings.NewReader("audio"), "audio/mpeg")
	require.NoError(t, err)

	assert.Equal(t, "audio", up.objects["voice-bucket/recordings/abc-123.mp3"])
	assert.Equal(t, "audio/mpeg", up.contentTypes["voice-bucket/recordings/abc-123.mp3"])
}

func TestS3Storage_PutTwiceLastWriteWins(t *testing.T) {
	up := newFakeUploader()
	s := &S3Storage{Logger: logger.NewNopLogger(), Bucket: "voice-bucket", uploader: up}

	require.NoError(t, s.Put(context.Background(), "recordings/abc-123.mp3", strings.NewReader("first"), "audio/mpeg"))
	require.NoError(t, s.Put(context.Background(), "recordings/abc-123.mp3", strings.NewReader("second"), "audio/mpeg"))

	assert.Len(t, up.objects, 1)
	assert.Equal(t, "second", up.objects["voice-bucket/recordings/abc-123.mp3"])
}

func TestS3Storage_PutFailureIsStorageError(t *testing.T) {
	up := newFakeUploader()
	up.err = errors.New("AccessDenied")
	s := &S3Storage{Logger: logger.NewNopLogger(), Bucket: "voice-bucket", uploader: up}

	err := s.Put(context.Background(), "recordings/abc-123.mp3", strings.NewReader("audio"), "audio/mpeg")
	require.Error(t, err)

	appErr := apperrors.From(err)
	assert.Equal(t, apperrors.CodeStorage, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.ErrorIs(t, err, up.err)
}

func TestS3Storage_PutDeadlineIsTimeout(t *testing.T) {
	up := newFakeUploader()
	up.err = context.DeadlineExceeded
	s := &S3Storage{Logger: logger.NewNopLogger(), Bucket: "voice-bucket", uploader: up}

	err := s.Put(context.Background(), "recordings/abc-123.mp3", strings.NewReader("audio"), "audio/mpeg")
	assert.Equal(t, apperrors.CodeTimeout, apperrors.From(err).Code)
}
