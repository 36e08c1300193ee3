package dto

// EventRequest is the subset of a voice event callback the event webhook reads.
// It arrives either as JSON or as a form body. The recording URL is only
// logged here, so only its presence is checked.
type EventRequest struct {
	RecordingURL     string `json:"recording_url" form:"recording_url" validate:"required"`
	ConversationUUID string `json:"conversation_uuid" form:"conversation_uuid" validate:"omitempty,conversation_uuid"`
	Status           string `json:"status" form:"status"`
}

// FetchRequest is the record action callback sent once a recording is ready.
type FetchRequest struct {
	RecordingURL     string `json:"recording_url" validate:"required,url"`
	ConversationUUID string `json:"conversation_uuid" validate:"required,conversation_uuid"`
	RecordingUUID    string `json:"recording_uuid,omitempty"`
	Size             int64  `json:"size,omitempty"`
}

// TranscribeRequest is the notify action callback that follows the recording.
type TranscribeRequest struct {
	ConversationUUID string `json:"conversation_uuid" validate:"required,conversation_uuid"`
}
