package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"voice-relay/internal/apperrors"
)

// MaxConversationUUIDLength keeps the derived transcription job name within the
// provider limit of 200 characters.
const MaxConversationUUIDLength = 190

var conversationUUIDPattern = regexp.MustCompile(`^[0-9A-Za-z._-]+$`)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError names one rejected field of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})

		// conversation_uuid values end up as an object key segment and inside a
		// job name, so only a single safe path segment is accepted.
		_ = validate.RegisterValidation("conversation_uuid", func(fl validator.FieldLevel) bool {
			return IsConversationUUID(fl.Field().String())
		})
	})
	return validate
}

// IsConversationUUID reports whether value is usable as a recording key segment.
func IsConversationUUID(value string) bool {
	if value == "." || value == ".." || len(value) > MaxConversationUUIDLength {
		return false
	}
	return conversationUUIDPattern.MatchString(value)
}

// Struct validates s against its `validate` tags and returns an INVALID_INPUT
// AppError listing every failing field.
func Struct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.InvalidInput("validation failed")
	}

	fields := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msg := message(fe)
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
		messages = append(messages, fe.Field()+": "+msg)
	}

	return apperrors.InvalidInput(strings.Join(messages, "; ")).WithDetail("fields", fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "conversation_uuid":
		return fmt.Sprintf("must be 1-%d characters of letters, digits, '.', '_' or '-'", MaxConversationUUIDLength)
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
