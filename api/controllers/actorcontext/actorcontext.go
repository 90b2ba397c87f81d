package actorcontext

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/api/middleware"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
)

// ResolveStoreID extracts the authenticated store scope from the request.
func ResolveStoreID(r *http.Request) (uuid.UUID, error) {
	storeID := middleware.StoreIDFromContext(r.Context())
	if storeID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context required")
	}

	id, err := uuid.Parse(storeID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return id, nil
}

// ResolveSupplierID extracts the supplier scope a supplier-portal caller
// acts for. Callers without a supplier claim are not suppliers.
func ResolveSupplierID(r *http.Request) (uuid.UUID, error) {
	supplierID := middleware.SupplierIDFromContext(r.Context())
	if supplierID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity required")
	}

	id, err := uuid.Parse(supplierID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id")
	}
	return id, nil
}

// ResolveUserID extracts the authenticated user from the request.
func ResolveUserID(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}
