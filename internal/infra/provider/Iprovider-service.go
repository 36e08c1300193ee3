package provider

import (
	"context"
	"io"
)

type IVoiceProvider interface {
	// DownloadRecording streams the media at recordingURL. The caller closes
	// the returned body.
	DownloadRecording(ctx context.Context, recordingURL string) (io.ReadCloser, error)
	GenerateJWT() (string, error)
}
