package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"voice-relay/internal/apperrors"
	"voice-relay/internal/infra/logger"
)

// RecoveryMiddleware turns a handler panic into a 500 INTERNAL_ERROR response.
func RecoveryMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error(fmt.Sprintf("Recovered from panic: %v", rec), logrus.Fields{
						"method": r.Method,
						"path":   r.URL.Path,
						"stack":  string(debug.Stack()),
					})

					appErr := apperrors.Internal(fmt.Errorf("panic: %v", rec))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(appErr.HTTPStatus)
					_ = json.NewEncoder(w).Encode(appErr.ToResponse())
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
