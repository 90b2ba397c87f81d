package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/api/controllers/actorcontext"
	"github.com/avelarsoto/storeops-backend/api/responses"
	"github.com/avelarsoto/storeops-backend/api/validators"
	ordersvc "github.com/avelarsoto/storeops-backend/internal/orders"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
	"github.com/avelarsoto/storeops-backend/pkg/logger"
	"github.com/avelarsoto/storeops-backend/pkg/pagination"
)

type placeOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"required,gt=0"`
}

type placeOrderRequest struct {
	SupplierID            string                  `json:"supplier_id" validate:"required,uuid"`
	RequestedDeliveryDate *string                 `json:"requested_delivery_date,omitempty"`
	BuyerNotes            *string                 `json:"buyer_notes,omitempty"`
	Items                 []placeOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PlaceOrder creates a pending purchase order for the authenticated store.
func PlaceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplierID, err := uuid.Parse(payload.SupplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		requestedDate, err := parseOptionalDate(payload.RequestedDeliveryDate, "requested_delivery_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]ordersvc.PlaceOrderItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			productID, parseErr := uuid.Parse(item.ProductID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product id"))
				return
			}
			items = append(items, ordersvc.PlaceOrderItem{ProductID: productID, Qty: item.Qty})
		}

		order, err := svc.Place(r.Context(), ordersvc.PlaceOrderInput{
			StoreID:               storeID,
			SupplierID:            supplierID,
			ActorUserID:           userID,
			RequestedDeliveryDate: requestedDate,
			BuyerNotes:            payload.BuyerNotes,
			Items:                 items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders returns the store's orders with optional filters and cursor
// pagination.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		storeID, err := actorcontext.ResolveStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := orderListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), storeID, filters, pagination.Params{
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

// OrderDetail returns one order with its lines and timeline.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		storeID, err := actorcontext.ResolveStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), storeID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type orderDecisionRequest struct {
	Decision             string  `json:"decision" validate:"required,oneof=approve reject"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date,omitempty"`
	SupplierNotes        *string `json:"supplier_notes,omitempty"`
}

// DecideOrder records the supplier's approve or reject verdict on a pending
// order.
func DecideOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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
		supplierID, err := actorcontext.ResolveSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderDecisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expectedDate, err := parseOptionalDate(payload.ExpectedDeliveryDate, "expected_delivery_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Decide(r.Context(), ordersvc.DecisionInput{
			OrderID:              orderID,
			StoreID:              storeID,
			Decision:             ordersvc.Decision(payload.Decision),
			ExpectedDeliveryDate: expectedDate,
			SupplierNotes:        payload.SupplierNotes,
			ActorUserID:          userID,
			ActorSupplierID:      supplierID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type cancelOrderRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelOrder withdraws a pending order on the buyer's behalf.
func CancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelOrderRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		order, err := svc.Cancel(r.Context(), ordersvc.CancelInput{
			OrderID:     orderID,
			StoreID:     storeID,
			Reason:      payload.Reason,
			ActorUserID: userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type lineDeliveryRequest struct {
	LineItemID   string  `json:"line_item_id" validate:"required,uuid"`
	DeliveredQty *int    `json:"delivered_qty" validate:"required,min=0"`
	Notes        *string `json:"notes,omitempty"`
}

type acceptDeliveryRequest struct {
	ActualDeliveryDate *string               `json:"actual_delivery_date,omitempty"`
	DeliveryNotes      *string               `json:"delivery_notes,omitempty"`
	Lines              []lineDeliveryRequest `json:"lines" validate:"required,min=1,dive"`
}

// AcceptDelivery records the delivery report for an approved order. Every
// line must be reported exactly once; stock effects apply atomically.
func AcceptDelivery(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload acceptDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actualDate, err := parseOptionalDate(payload.ActualDeliveryDate, "actual_delivery_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]ordersvc.LineDelivery, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lineID, parseErr := uuid.Parse(line.LineItemID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid line item id"))
				return
			}
			lines = append(lines, ordersvc.LineDelivery{
				LineItemID:   lineID,
				DeliveredQty: *line.DeliveredQty,
				Notes:        line.Notes,
			})
		}

		order, err := svc.AcceptDelivery(r.Context(), ordersvc.AcceptDeliveryInput{
			OrderID:            orderID,
			StoreID:            storeID,
			ActorUserID:        userID,
			ActualDeliveryDate: actualDate,
			DeliveryNotes:      payload.DeliveryNotes,
			Lines:              lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

func orderListFilters(r *http.Request) (ordersvc.ListFilters, error) {
	var filters ordersvc.ListFilters
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(query.Get("supplier_id")); raw != "" {
		supplierID, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier filter")
		}
		filters.SupplierID = &supplierID
	}

	from, err := parseQueryDate(query.Get("date_from"), "date_from")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from

	to, err := parseQueryDate(query.Get("date_to"), "date_to")
	if err != nil {
		return filters, err
	}
	filters.DateTo = to

	return filters, nil
}

func parseQueryDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	return parseOptionalDate(&raw, field)
}

// parseOptionalDate accepts a calendar date or a full RFC3339 timestamp.
func parseOptionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	value := strings.TrimSpace(*raw)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &t, nil
}
