package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"voice-relay/internal/domain/dto"
	"voice-relay/internal/domain/entities"
	"voice-relay/internal/infra/logger"
	"voice-relay/internal/infra/provider"
	"voice-relay/internal/infra/storage"
)

// RecordingService moves a finished recording from the voice platform into
// object storage.
type RecordingService struct {
	Logger        *logger.Logger
	VoiceProvider provider.IVoiceProvider
	Storage       storage.IObjectStorage
	Location      entities.RecordingLocation
	Timeout       time.Duration
}

func NewRecordingService(logger *logger.Logger, voiceProvider provider.IVoiceProvider, objectStorage storage.IObjectStorage, location entities.RecordingLocation, timeout time.Duration) *RecordingService {
	return &RecordingService{
		Logger:        logger,
		VoiceProvider: voiceProvider,
		Storage:       objectStorage,
		Location:      location,
		Timeout:       timeout,
	}
}

// StoreRecording downloads req.RecordingURL and writes it to the deterministic
// key of req.ConversationUUID. A repeated call overwrites the same object.
// Download and upload share one deadline because the body is streamed.
func (rs *RecordingService) StoreRecording(ctx context.Context, req dto.FetchRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, rs.Timeout)
	defer cancel()

	key := rs.Location.Key(req.ConversationUUID)
	fields := logrus.Fields{"conversation_uuid": req.ConversationUUID, "recording_url": req.RecordingURL, "key": key}

	rs.Logger.Info("Fetching recording", fields)

	body, err := rs.VoiceProvider.DownloadRecording(ctx, req.RecordingURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if err := rs.Storage.Put(ctx, key, body, entities.RecordingContentType); err != nil {
		return "", err
	}

	return key, nil
}
