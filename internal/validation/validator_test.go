package validation

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-relay/internal/apperrors"
)

type sample struct {
	RecordingURL     string `json:"recording_url" validate:"required,url"`
	ConversationUUID string `json:"conversation_uuid" validate:"required,conversation_uuid"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{
		RecordingURL:     "https://api.nexmo.com/v1/files/aaaa-bbbb",
		ConversationUUID: "CON-ddddaaaa-bbbb-cccc-dddd-0123456789ab",
	})
	assert.NoError(t, err)
}

func TestStruct_ReportsEveryFieldByJSONName(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Contains(t, appErr.Message, "recording_url: is required")
	assert.Contains(t, appErr.Message, "conversation_uuid: is required")

	fields, ok := appErr.Details["fields"].([]FieldError)
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestStruct_RejectsRelativeURL(t *testing.T) {
	err := Struct(sample{RecordingURL: "/v1/files/abc", ConversationUUID: "abc-123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording_url: must be an absolute URL")
}

func TestIsConversationUUID(t *testing.T) {
	cases := map[string]bool{
		"abc-123":                true,
		"CON-1f2e3d4c_5b6a.7980": true,
		"":                       false,
		".":                      false,
		"..":                     false,
		"../etc/passwd":          false,
		"a/b":                    false,
		"with space":             false,
		strings.Repeat("a", 190): true,
		strings.Repeat("a", 191): false,
	}
	for value, want := range cases {
		assert.Equal(t, want, IsConversationUUID(value), "value %q", value)
	}
}
