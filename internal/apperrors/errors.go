// Package apperrors defines the error taxonomy returned by the webhook
// endpoints. Each kind maps to one HTTP status and one machine-readable code.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeNotFound      Code = "NOT_FOUND"
	CodeTelephony     Code = "TELEPHONY_ERROR"
	CodeStorage       Code = "STORAGE_ERROR"
	CodeTranscription Code = "TRANSCRIPTION_ERROR"
	CodeTimeout       Code = "TIMEOUT"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// AppError carries everything needed to answer a webhook caller.
type AppError struct {
	Code       Code           `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail sets a single detail and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// ErrorResponse is the JSON envelope written for every failed request.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e}
}

func InvalidInput(message string) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message, HTTPStatus: http.StatusBadRequest}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"id": id},
	}
}

// Telephony wraps failures talking to the voice platform, including media
// downloads rejected with a non-2xx status.
func Telephony(message string, cause error) *AppError {
	return wrapUpstream(CodeTelephony, message, http.StatusBadGateway, cause)
}

func Storage(message string, cause error) *AppError {
	return wrapUpstream(CodeStorage, message, http.StatusInternalServerError, cause)
}

func Transcription(message string, cause error) *AppError {
	return wrapUpstream(CodeTranscription, message, http.StatusServiceUnavailable, cause)
}

func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("%s timed out", operation),
		Retryable:  true,
		HTTPStatus: http.StatusGatewayTimeout,
		Details:    map[string]any{"operation": operation},
		Cause:      cause,
	}
}

func Internal(cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal server error", HTTPStatus: http.StatusInternalServerError, Cause: cause}
}

// wrapUpstream turns an exceeded deadline into a Timeout so the caller sees 504
// instead of the generic upstream status.
func wrapUpstream(code Code, message string, status int, cause error) *AppError {
	if errors.Is(cause, context.DeadlineExceeded) {
		return Timeout(message, cause)
	}
	return &AppError{
		Code:       code,
		Message:    message,
		Retryable:  true,
		HTTPStatus: status,
		Cause:      cause,
	}
}

// From returns err as an AppError, classifying anything unknown as internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout("request", err)
	}
	return Internal(err)
}
