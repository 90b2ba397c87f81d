package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/api/controllers/actorcontext"
	"github.com/avelarsoto/storeops-backend/api/responses"
	"github.com/avelarsoto/storeops-backend/api/validators"
	inventorysvc "github.com/avelarsoto/storeops-backend/internal/inventory"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
	"github.com/avelarsoto/storeops-backend/pkg/logger"
	"github.com/avelarsoto/storeops-backend/pkg/pagination"
)

type applyMovementRequest struct {
	ProductID        string  `json:"product_id" validate:"required,uuid"`
	Type             string  `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity         int     `json:"quantity" validate:"required"`
	Reason           string  `json:"reason" validate:"required"`
	ReferenceOrderID *string `json:"reference_order_id,omitempty" validate:"omitempty,uuid"`
}

// ApplyMovement appends a manual entry to the stock ledger and returns the
// updated inventory record with its recent movement tail.
func ApplyMovement(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		storeID, err := actorcontext.ResolveStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := actorcontext.ResolveUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyMovementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		movementType, err := enums.ParseStockMovementType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
			return
		}

		var referenceOrderID *uuid.UUID
		if payload.ReferenceOrderID != nil {
			orderID, parseErr := uuid.Parse(*payload.ReferenceOrderID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid reference order id"))
				return
			}
			referenceOrderID = &orderID
		}

		record, err := svc.ApplyMovement(r.Context(), inventorysvc.ApplyMovementInput{
			StoreID:          storeID,
			ProductID:        productID,
			Type:             movementType,
			Quantity:         payload.Quantity,
			Reason:           validators.SanitizeString(payload.Reason, 500),
			ReferenceOrderID: referenceOrderID,
			ActorUserID:      userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// ListInventory returns the store's materialized stock records, optionally
// only those at or below their reorder level.
func ListInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		storeID, err := actorcontext.ResolveStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lowOnly, err := validators.ParseQueryBool(r, "low_stock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListRecords(r.Context(), storeID, lowOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// InventoryRecordDetail returns a single stock record for the store.
func InventoryRecordDetail(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		storeID, err := actorcontext.ResolveStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetRecord(r.Context(), storeID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// ListMovements returns the ledger history for the store with cursor
// pagination and an optional product filter.
func ListMovements(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		storeID, err := actorcontext.ResolveStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var productID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("product_id")); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product filter"))
				return
			}
			productID = &id
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMovements(r.Context(), storeID, productID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type setReorderLevelRequest struct {
	ReorderLevel *int `json:"reorder_level" validate:"required,min=0"`
}

// SetReorderLevel updates the low-stock threshold for one product at the
// store.
func SetReorderLevel(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		storeID, err := actorcontext.ResolveStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setReorderLevelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetReorderLevel(r.Context(), storeID, productID, *payload.ReorderLevel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
