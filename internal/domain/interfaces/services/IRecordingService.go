package Iservices

import (
	"context"

	"voice-relay/internal/domain/dto"
)

// IRecordingService copies a finished recording from the voice platform into
// object storage and returns the object key it was written to.
type IRecordingService interface {
	StoreRecording(ctx context.Context, req dto.FetchRequest) (string, error)
}
