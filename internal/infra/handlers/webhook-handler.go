package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"voice-relay/internal/apperrors"
	"voice-relay/internal/domain/dto"
	"voice-relay/internal/domain/entities"
	Iservices "voice-relay/internal/domain/interfaces/services"
	"voice-relay/internal/domain/ncco"
	"voice-relay/internal/infra/logger"
	"voice-relay/internal/infra/services"
	"voice-relay/internal/validation"
)

type VoiceHandlers struct {
	Logger               *logger.Logger
	PublicBaseURL        string
	Prompts              ncco.Prompts
	RecordingService     Iservices.IRecordingService
	TranscriptionService Iservices.ITranscriptionService
	CallSessionService   Iservices.ICallSessionService
}

func NewVoiceHandlers(
	logger *logger.Logger,
	publicBaseURL string,
	prompts ncco.Prompts,
	recordingService Iservices.IRecordingService,
	transcriptionService Iservices.ITranscriptionService,
	callSessionService Iservices.ICallSessionService,
) *VoiceHandlers {
	return &VoiceHandlers{
		Logger:               logger,
		PublicBaseURL:        publicBaseURL,
		Prompts:              prompts,
		RecordingService:     recordingService,
		TranscriptionService: transcriptionService,
		CallSessionService:   callSessionService,
	}
}

// Answer returns the call-control script for an inbound call.
//
// The record step calls back Fetch once the recording is ready and the notify
// step calls Transcribe. Both callback URLs use PublicBaseURL when configured
// and otherwise the scheme and Host of this request.
//
// HTTP Status Codes:
// - 200 OK: body is the JSON script.
func (th *VoiceHandlers) Answer(w http.ResponseWriter, r *http.Request) {
	baseURL := ncco.BaseURL(th.PublicBaseURL, r)
	conversationUUID := r.URL.Query().Get("conversation_uuid")

	th.Logger.Info("Answering call", logrus.Fields{
		"conversation_uuid": conversationUUID,
		"from":              r.URL.Query().Get("from"),
		"to":                r.URL.Query().Get("to"),
		"callback_base":     baseURL,
	})

	if validation.IsConversationUUID(conversationUUID) {
		th.CallSessionService.Record(r.Context(), conversationUUID, entities.SessionUpdate{Stage: entities.StageAnswered})
	}

	writeJSON(w, http.StatusOK, ncco.NewVoicemailScript(baseURL, th.Prompts))
}

// Event receives call status updates and logs the recording URL.
//
// The body may be JSON, urlencoded or multipart form data and must carry
// recording_url.
//
// HTTP Status Codes:
// - 204 No Content: event accepted.
// - 400 Bad Request: body unreadable or recording_url missing.
func (th *VoiceHandlers) Event(w http.ResponseWriter, r *http.Request) {
	var event dto.EventRequest

	if isJSON(r) {
		if err := decodeJSON(w, r, &event); err != nil {
			writeError(w, th.Logger, r, err)
			return
		}
	} else {
		form, err := parseForm(w, r)
		if err != nil {
			writeError(w, th.Logger, r, err)
			return
		}
		event = dto.EventRequest{
			RecordingURL:     form.Get("recording_url"),
			ConversationUUID: form.Get("conversation_uuid"),
			Status:           form.Get("status"),
		}
		if err := validation.Struct(event); err != nil {
			writeError(w, th.Logger, r, err)
			return
		}
	}

	th.Logger.Info("Voice event received", logrus.Fields{
		"recording_url":     event.RecordingURL,
		"conversation_uuid": event.ConversationUUID,
		"status":            event.Status,
	})

	th.CallSessionService.Record(r.Context(), event.ConversationUUID, entities.SessionUpdate{
		Stage:        entities.StageRecorded,
		RecordingURL: event.RecordingURL,
		Detail:       event.Status,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Fetch downloads a finished recording and stores it in the bucket.
//
// HTTP Status Codes:
// - 204 No Content: recording stored.
// - 400 Bad Request: recording_url or conversation_uuid missing or invalid.
// - 502 Bad Gateway: the voice API refused or failed the download.
// - 500 Internal Server Error: the object store rejected the write.
// - 504 Gateway Timeout: an outbound call exceeded its deadline.
func (th *VoiceHandlers) Fetch(w http.ResponseWriter, r *http.Request) {
	var req dto.FetchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, th.Logger, r, err)
		return
	}

	key, err := th.RecordingService.StoreRecording(r.Context(), req)
	if err != nil {
		writeError(w, th.Logger, r, err)
		return
	}

	th.CallSessionService.Record(r.Context(), req.ConversationUUID, entities.SessionUpdate{
		Stage:        entities.StageFetched,
		RecordingURL: req.RecordingURL,
		ObjectKey:    key,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Transcribe submits a transcription job for the stored recording of a call.
//
// HTTP Status Codes:
// - 200 OK: body is the submitted (or already existing) job.
// - 400 Bad Request: conversation_uuid missing or invalid.
// - 503 Service Unavailable: the transcription service rejected the job.
// - 504 Gateway Timeout: the submission exceeded its deadline.
func (th *VoiceHandlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req dto.TranscribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, th.Logger, r, err)
		return
	}

	job, err := th.TranscriptionService.StartTranscription(r.Context(), req.ConversationUUID)
	if err != nil {
		writeError(w, th.Logger, r, err)
		return
	}

	th.CallSessionService.Record(r.Context(), req.ConversationUUID, entities.SessionUpdate{
		Stage:   entities.StageTranscribing,
		JobName: job.JobName,
		Detail:  job.Status,
	})

	writeJSON(w, http.StatusOK, job)
}

// Session returns the journaled lifecycle of one call.
func (th *VoiceHandlers) Session(w http.ResponseWriter, r *http.Request) {
	conversationUUID := mux.Vars(r)["conversation_uuid"]
	if !validation.IsConversationUUID(conversationUUID) {
		writeError(w, th.Logger, r, apperrors.InvalidInput("invalid conversation_uuid"))
		return
	}

	session, err := th.CallSessionService.Find(r.Context(), conversationUUID)
	if errors.Is(err, services.ErrSessionNotFound) {
		writeError(w, th.Logger, r, apperrors.NotFound("call session", conversationUUID))
		return
	}
	if err != nil {
		writeError(w, th.Logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
