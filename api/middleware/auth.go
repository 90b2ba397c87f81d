package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/api/responses"
	"github.com/avelarsoto/storeops-backend/api/validators"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
	"github.com/avelarsoto/storeops-backend/pkg/logger"
)

// Auth parses the gateway-minted bearer token and seeds the request context
// with the caller's identity. Tokens are minted and revoked by the identity
// gateway in front of this service; here they are only decoded.
func Auth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := validators.ParseAuthToken(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if _, err := uuid.Parse(claims.UserID); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user identity"))
				return
			}
			role, err := enums.ParseActorRole(claims.Role)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown actor role"))
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			ctx = WithRole(ctx, role.String())
			if claims.StoreID != "" {
				if _, err := uuid.Parse(claims.StoreID); err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid store scope"))
					return
				}
				ctx = WithStoreID(ctx, claims.StoreID)
			}
			if claims.SupplierID != "" {
				if _, err := uuid.Parse(claims.SupplierID); err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid supplier scope"))
					return
				}
				ctx = WithSupplierID(ctx, claims.SupplierID)
			}

			if logg != nil {
				fields := map[string]any{
					"user_id":    claims.UserID,
					"actor_role": role.String(),
				}
				if claims.StoreID != "" {
					fields["store_id"] = claims.StoreID
				}
				if claims.SupplierID != "" {
					fields["supplier_id"] = claims.SupplierID
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
