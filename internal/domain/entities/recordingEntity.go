package entities

import (
	"fmt"
	"strings"
)

const (
	RecordingExtension   = ".mp3"
	RecordingContentType = "audio/mpeg"
	TranscriptionPrefix  = "nexmo_voice_"
)

// RecordingLocation derives every address of a stored recording from the
// conversation UUID. The fetch and transcribe webhooks both go through it so
// they always point at the same object.
type RecordingLocation struct {
	Bucket string
	Folder string
}

func NewRecordingLocation(bucket, folder string) RecordingLocation {
	return RecordingLocation{Bucket: bucket, Folder: strings.Trim(folder, "/")}
}

// Key is the object key, {folder}/{conversation_uuid}.mp3.
func (l RecordingLocation) Key(conversationUUID string) string {
	name := conversationUUID + RecordingExtension
	if l.Folder == "" {
		return name
	}
	return l.Folder + "/" + name
}

// PublicURL is the virtual-hosted S3 URL handed to the transcription service.
func (l RecordingLocation) PublicURL(conversationUUID string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", l.Bucket, l.Key(conversationUUID))
}

// TranscriptionJobName ties a job back to its call session.
func TranscriptionJobName(conversationUUID string) string {
	return TranscriptionPrefix + conversationUUID
}
