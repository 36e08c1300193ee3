package dto

import "time"

// TranscriptionJobResponse is returned by the transcribe webhook.
type TranscriptionJobResponse struct {
	JobName      string     `json:"job_name"`
	Status       string     `json:"status"`
	MediaURI     string     `json:"media_uri"`
	LanguageCode string     `json:"language_code"`
	MediaFormat  string     `json:"media_format"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}
