package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
)

// PlaceOrderItem is one requested line at order placement.
type PlaceOrderItem struct {
	ProductID uuid.UUID
	Qty       int
}

// PlaceOrderInput carries everything required to create a pending order.
type PlaceOrderInput struct {
	StoreID               uuid.UUID
	SupplierID            uuid.UUID
	ActorUserID           uuid.UUID
	RequestedDeliveryDate *time.Time
	BuyerNotes            *string
	Items                 []PlaceOrderItem
}

// Decision represents the supplier-side verdict on a pending order.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// DecisionInput captures the data required to approve or reject an order.
// ExpectedDeliveryDate is mandatory on approval and must be in the future.
// ActorSupplierID is the supplier the caller acts for; only the order's own
// supplier may decide it.
type DecisionInput struct {
	OrderID              uuid.UUID
	StoreID              uuid.UUID
	Decision             Decision
	ExpectedDeliveryDate *time.Time
	SupplierNotes        *string
	ActorUserID          uuid.UUID
	ActorSupplierID      uuid.UUID
}

// CancelInput captures a buyer-side cancellation of a pending order.
type CancelInput struct {
	OrderID     uuid.UUID
	StoreID     uuid.UUID
	Reason      *string
	ActorUserID uuid.UUID
}

// LineDelivery reports the received quantity for one order line.
type LineDelivery struct {
	LineItemID   uuid.UUID
	DeliveredQty int
	Notes        *string
}

// AcceptDeliveryInput carries a delivery report. Order lines absent from
// Lines are treated as delivered quantity 0; a line may appear at most once.
type AcceptDeliveryInput struct {
	OrderID            uuid.UUID
	StoreID            uuid.UUID
	ActorUserID        uuid.UUID
	ActualDeliveryDate *time.Time
	DeliveryNotes      *string
	Lines              []LineDelivery
}

// ListFilters describe the inputs supported by the store order list.
type ListFilters struct {
	Status     *enums.OrderStatus
	SupplierID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.PurchaseOrder `json:"orders"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}
