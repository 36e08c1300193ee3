package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"voice-relay/internal/apperrors"
	"voice-relay/internal/infra/logger"
	"voice-relay/internal/validation"
)

// maxBodyBytes bounds webhook bodies; callbacks are small JSON documents.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError answers with the status and JSON envelope of err's AppError.
func writeError(w http.ResponseWriter, log *logger.Logger, r *http.Request, err error) {
	appErr := apperrors.From(err)

	fields := logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": appErr.HTTPStatus,
		"code":   appErr.Code,
		"error":  err.Error(),
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("Webhook failed", fields)
	} else {
		log.Warn("Webhook rejected", fields)
	}

	writeJSON(w, appErr.HTTPStatus, appErr.ToResponse())
}

// decodeJSON decodes a JSON body into dst and validates it. Unknown fields are
// accepted since the voice platform sends more than each webhook reads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.InvalidInput("request body is required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	return validation.Struct(dst)
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return apperrors.InvalidInput("request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.InvalidInput("request body is not valid JSON")
	case errors.As(err, &typeErr):
		return apperrors.InvalidInput(fmt.Sprintf("field %s must be a %s", typeErr.Field, typeErr.Type)).
			WithDetail("field", typeErr.Field)
	case errors.As(err, &maxErr):
		return apperrors.InvalidInput(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
	default:
		return apperrors.InvalidInput("request body could not be decoded")
	}
}

func isJSON(r *http.Request) bool {
	return mediaType(r) == "application/json"
}

func mediaType(r *http.Request) string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mediaType
}

// parseForm reads a urlencoded or multipart body. Multipart file parts are
// dropped; only the text values are returned.
func parseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if mediaType(r) == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, apperrors.InvalidInput("request body is not a valid multipart form")
		}
		defer r.MultipartForm.RemoveAll()
		return url.Values(r.MultipartForm.Value), nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, apperrors.InvalidInput("request body is not a valid form")
	}
	return r.PostForm, nil
}
