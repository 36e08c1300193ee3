package transcriber

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-relay/internal/apperrors"
	"voice-relay/internal/infra/logger"
)

type fakeTranscribe struct {
	started   []*transcribe.StartTranscriptionJobInput
	startErr  error
	existing  *types.TranscriptionJob
	lookupErr error
}

func (f *fakeTranscribe) StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error) {
	f.started = append(f.started, params)
	if f.startErr != nil {
		return nil, f.startErr
	}
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &transcribe.StartTranscriptionJobOutput{
		TranscriptionJob: &types.TranscriptionJob{
			TranscriptionJobName:   params.TranscriptionJobName,
			TranscriptionJobStatus: types.TranscriptionJobStatusInProgress,
			LanguageCode:           params.LanguageCode,
			MediaFormat:            params.MediaFormat,
			Media:                  params.Media,
			CreationTime:           &created,
		},
	}, nil
}

func (f *fakeTranscribe) GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return &transcribe.GetTranscriptionJobOutput{TranscriptionJob: f.existing}, nil
}

var jobRequest = JobRequest{
	JobName:      "nexmo_voice_abc-123",
	MediaURI:     "https://voice-bucket.s3.amazonaws.com/recordings/abc-123.mp3",
	LanguageCode: "en-US",
	MediaFormat:  "mp3",
}

func TestStartJob_SubmitsRequest(t *testing.T) {
	api := &fakeTranscribe{}
	at := &AWSTranscriber{Logger: logger.NewNopLogger(), client: api}

	res, err := at.StartJob(context.Background(), jobRequest)
	require.NoError(t, err)

	require.Len(t, api.started, 1)
	in := api.started[0]
	assert.Equal(t, "nexmo_voice_abc-123", aws.ToString(in.TranscriptionJobName))
	assert.Equal(t, types.LanguageCodeEnUs, in.LanguageCode)
	assert.Equal(t, types.MediaFormatMp3, in.MediaFormat)
	assert.Equal(t, jobRequest.MediaURI, aws.ToString(in.Media.MediaFileUri))

	assert.Equal(t, "nexmo_voice_abc-123", res.JobName)
	assert.Equal(t, "IN_PROGRESS", res.Status)
	assert.Equal(t, jobRequest.MediaURI, res.MediaURI)
	assert.Equal(t, "en-US", res.LanguageCode)
	assert.Equal(t, "mp3", res.MediaFormat)
	require.NotNil(t, res.CreatedAt)
}

func TestStartJob_ConflictReturnsExistingJob(t *testing.T) {
	api := &fakeTranscribe{
		startErr: &types.ConflictException{Message: aws.String("The requested job name already exists.")},
		existing: &types.TranscriptionJob{
			TranscriptionJobName:   aws.String("nexmo_voice_abc-123"),
			TranscriptionJobStatus: types.TranscriptionJobStatusCompleted,
			LanguageCode:           types.LanguageCodeEnUs,
			MediaFormat:            types.MediaFormatMp3,
		},
	}
	at := &AWSTranscriber{Logger: logger.NewNopLogger(), client: api}

	res, err := at.StartJob(context.Background(), jobRequest)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", res.Status)
	assert.Equal(t, jobRequest.MediaURI, res.MediaURI)
}

func TestStartJob_FailureIsTranscriptionError(t *testing.T) {
	api := &fakeTranscribe{startErr: errors.New("AccessDeniedException")}
	at := &AWSTranscriber{Logger: logger.NewNopLogger(), client: api}

	_, err := at.StartJob(context.Background(), jobRequest)
	require.Error(t, err)

	appErr := apperrors.From(err)
	assert.Equal(t, apperrors.CodeTranscription, appErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
}

func TestStartJob_ConflictLookupFailure(t *testing.T) {
	api := &fakeTranscribe{
		startErr:  &types.ConflictException{Message: aws.String("exists")},
		lookupErr: errors.New("throttled"),
	}
	at := &AWSTranscriber{Logger: logger.NewNopLogger(), client: api}

	_, err := at.StartJob(context.Background(), jobRequest)
	assert.Equal(t, apperrors.CodeTranscription, apperrors.From(err).Code)
}
