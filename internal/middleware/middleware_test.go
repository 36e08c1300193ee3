package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-relay/internal/infra/logger"
)

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(logger.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/webhooks/fetch", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["error"]["code"])
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	var captured *responseWriter
	handler := LoggingMiddleware(logger.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*responseWriter)
		w.WriteHeader(http.StatusNoContent)
		w.WriteHeader(http.StatusOK)
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/webhooks/event", nil))

	assert.Equal(t, http.StatusNoContent, res.Code)
	require.NotNil(t, captured)
	assert.Equal(t, http.StatusNoContent, captured.statusCode)
}
