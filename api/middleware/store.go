package middleware

import (
	"net/http"

	"github.com/avelarsoto/storeops-backend/api/responses"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
	"github.com/avelarsoto/storeops-backend/pkg/logger"
)

// StoreContext rejects callers whose token carried no store scope.
// Handlers behind it can assume StoreIDFromContext returns a valid id.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeID := StoreIDFromContext(r.Context())
			if storeID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store scope required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
