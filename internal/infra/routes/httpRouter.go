package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"voice-relay/internal/infra/handlers"
)

type Routes struct {
	Mux           *mux.Router
	VoiceHandlers *handlers.VoiceHandlers
}

func NewRoutes(mux *mux.Router, voiceHandlers *handlers.VoiceHandlers) *Routes {
	return &Routes{mux, voiceHandlers}
}

func (r *Routes) Init() {
	webhooks := r.Mux.PathPrefix("/webhooks").Subrouter()
	webhooks.HandleFunc("/answer", r.VoiceHandlers.Answer).Methods(http.MethodGet)
	webhooks.HandleFunc("/event", r.VoiceHandlers.Event).Methods(http.MethodPost)
	webhooks.HandleFunc("/fetch", r.VoiceHandlers.Fetch).Methods(http.MethodPost)
	webhooks.HandleFunc("/transcribe", r.VoiceHandlers.Transcribe).Methods(http.MethodPost)

	r.Mux.HandleFunc("/sessions/{conversation_uuid}", r.VoiceHandlers.Session).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
