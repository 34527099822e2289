package middleware

import (
	"fmt"
	"net/http"

	"github.com/saipavansp/incubez-talent-stories/api/responses"
	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
)

// Recoverer converts handler panics into a coded 500 response. The
// multipart handlers hold open scratch files mid-request, so a panic
// must not take the process down with a submission in flight.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer recoverRequest(logg, w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func recoverRequest(logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	rec := recover()
	if rec == nil {
		return
	}

	err := fmt.Errorf("panic: %v", rec)
	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"panic": rec, "path": r.URL.Path})
		logg.Error(ctx, "request.panic", err)
	}
	responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "request handler panicked"))
}
