package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID trusts an inbound X-Request-Id only when it is a UUID;
// otherwise it mints a fresh one. The id is echoed on the response and
// attached to every log line for the request.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := resolveRequestID(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveRequestID(r *http.Request) string {
	inbound := r.Header.Get(requestIDHeader)
	if _, err := uuid.Parse(inbound); err == nil {
		return inbound
	}
	return uuid.NewString()
}
