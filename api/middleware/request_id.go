package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID honors an inbound X-Request-Id (the wheel frontend forwards one
// per spin attempt) or mints a fresh uuid, echoes it on the response, and
// stamps it into the logging context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
