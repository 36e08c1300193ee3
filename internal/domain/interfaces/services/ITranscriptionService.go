package Iservices

import (
	"context"

	"voice-relay/internal/domain/dto"
)

type ITranscriptionService interface {
	StartTranscription(ctx context.Context, conversationUUID string) (dto.TranscriptionJobResponse, error)
}
