package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/api/controllers/actorcontext"
	"github.com/avelarsoto/storeops-backend/api/responses"
	performancesvc "github.com/avelarsoto/storeops-backend/internal/performance"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
	"github.com/avelarsoto/storeops-backend/pkg/logger"
)

// SupplierPerformanceReport builds the supplier scorecards for the
// authenticated store over a required from/to period, optionally narrowed
// to one supplier via the supplier_id query parameter.
func SupplierPerformanceReport(svc performancesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "performance service unavailable"))
			return
		}

		storeID, err := actorcontext.ResolveStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := parseQueryDate(r.URL.Query().Get("from"), "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseQueryDate(r.URL.Query().Get("to"), "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if from == nil || to == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "from and to are required"))
			return
		}

		var supplierID *uuid.UUID
		if raw := r.URL.Query().Get("supplier_id"); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid supplier id"))
				return
			}
			supplierID = &id
		}

		report, err := svc.GenerateReport(r.Context(), storeID, supplierID, *from, *to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
