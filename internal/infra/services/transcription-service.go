package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"voice-relay/internal/domain/dto"
	"voice-relay/internal/domain/entities"
	"voice-relay/internal/infra/logger"
	"voice-relay/internal/infra/transcriber"
)

const (
	TranscriptionLanguage = "en-US"
	TranscriptionFormat   = "mp3"
)

type TranscriptionService struct {
	Logger      *logger.Logger
	Transcriber transcriber.ITranscriber
	Location    entities.RecordingLocation
	Timeout     time.Duration
}

func NewTranscriptionService(logger *logger.Logger, t transcriber.ITranscriber, location entities.RecordingLocation, timeout time.Duration) *TranscriptionService {
	return &TranscriptionService{Logger: logger, Transcriber: t, Location: location, Timeout: timeout}
}

// StartTranscription submits a job over the object written by StoreRecording
// for the same conversation.
func (ts *TranscriptionService) StartTranscription(ctx context.Context, conversationUUID string) (dto.TranscriptionJobResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, ts.Timeout)
	defer cancel()

	req := transcriber.JobRequest{
		JobName:      entities.TranscriptionJobName(conversationUUID),
		MediaURI:     ts.Location.PublicURL(conversationUUID),
		LanguageCode: TranscriptionLanguage,
		MediaFormat:  TranscriptionFormat,
	}

	ts.Logger.Info("Starting transcription job", logrus.Fields{
		"conversation_uuid": conversationUUID,
		"job_name":          req.JobName,
		"media_uri":         req.MediaURI,
	})

	return ts.Transcriber.StartJob(ctx, req)
}
