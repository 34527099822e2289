package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id that is echoed back to the
// caller and carried through the log context, so a failed submission can
// be traced from the submitter's error report to the pipeline logs.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestID(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestID honors a caller-supplied id so the submit client's retries
// stay correlated; otherwise a fresh one is minted.
func requestID(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
