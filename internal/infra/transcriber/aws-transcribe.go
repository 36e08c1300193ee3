package transcriber

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/sirupsen/logrus"

	"voice-relay/internal/apperrors"
	"voice-relay/internal/domain/dto"
	"voice-relay/internal/infra/logger"
)

type transcribeAPI interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

type AWSTranscriber struct {
	Logger *logger.Logger
	client transcribeAPI
}

func NewAWSTranscriber(logger *logger.Logger, client *transcribe.Client) *AWSTranscriber {
	return &AWSTranscriber{Logger: logger, client: client}
}

// StartJob submits the job. Job names are unique per account and region, so a
// resubmission is answered with the job that already exists under that name.
func (at *AWSTranscriber) StartJob(ctx context.Context, req JobRequest) (dto.TranscriptionJobResponse, error) {
	out, err := at.client.StartTranscriptionJob(ctx, &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(req.JobName),
		LanguageCode:         types.LanguageCode(req.LanguageCode),
		MediaFormat:          types.MediaFormat(req.MediaFormat),
		Media: &types.Media{
			MediaFileUri: aws.String(req.MediaURI),
		},
	})

	var conflict *types.ConflictException
	if errors.As(err, &conflict) {
		at.Logger.Warn("Transcription job already exists", logrus.Fields{"job_name": req.JobName})
		return at.existingJob(ctx, req)
	}
	if err != nil {
		at.Logger.Error("Failed to start transcription job", logrus.Fields{"job_name": req.JobName, "error": err.Error()})
		return dto.TranscriptionJobResponse{}, apperrors.Transcription("failed to start transcription job", err)
	}
	if out.TranscriptionJob == nil {
		return dto.TranscriptionJobResponse{}, apperrors.Transcription("transcription service returned no job", nil)
	}

	return toResponse(out.TranscriptionJob, req), nil
}

func (at *AWSTranscriber) existingJob(ctx context.Context, req JobRequest) (dto.TranscriptionJobResponse, error) {
	out, err := at.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(req.JobName),
	})
	if err != nil {
		return dto.TranscriptionJobResponse{}, apperrors.Transcription(fmt.Sprintf("failed to look up transcription job %s", req.JobName), err)
	}
	if out.TranscriptionJob == nil {
		return dto.TranscriptionJobResponse{}, apperrors.Transcription("transcription service returned no job", nil)
	}
	return toResponse(out.TranscriptionJob, req), nil
}

func toResponse(job *types.TranscriptionJob, req JobRequest) dto.TranscriptionJobResponse {
	res := dto.TranscriptionJobResponse{
		JobName:      aws.ToString(job.TranscriptionJobName),
		Status:       string(job.TranscriptionJobStatus),
		MediaURI:     req.MediaURI,
		LanguageCode: string(job.LanguageCode),
		MediaFormat:  string(job.MediaFormat),
		CreatedAt:    job.CreationTime,
	}
	if res.JobName == "" {
		res.JobName = req.JobName
	}
	if job.Media != nil && job.Media.MediaFileUri != nil {
		res.MediaURI = *job.Media.MediaFileUri
	}
	if res.LanguageCode == "" {
		res.LanguageCode = req.LanguageCode
	}
	if res.MediaFormat == "" {
		res.MediaFormat = req.MediaFormat
	}
	return res
}

// compile-time check
var _ ITranscriber = (*AWSTranscriber)(nil)
