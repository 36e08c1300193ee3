package transcriber

import (
	"context"

	"voice-relay/internal/domain/dto"
)

// JobRequest describes one transcription job over a stored recording.
type JobRequest struct {
	JobName      string
	MediaURI     string
	LanguageCode string
	MediaFormat  string
}

type ITranscriber interface {
	StartJob(ctx context.Context, req JobRequest) (dto.TranscriptionJobResponse, error)
}
