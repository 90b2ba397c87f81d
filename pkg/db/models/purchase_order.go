package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/pkg/enums"
)

// PurchaseOrder is the order header for a store-to-supplier purchase.
// TotalCents always equals the sum of line totals, fixed at placement.
// Status changes only through the transition table in pkg/enums; delivered,
// rejected and cancelled are terminal. Orders are never hard-deleted.
type PurchaseOrder struct {
	ID                     uuid.UUID                      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber            string                         `gorm:"column:order_number;not null;uniqueIndex" json:"order_number"`
	StoreID                uuid.UUID                      `gorm:"column:store_id;type:uuid;not null" json:"store_id"`
	SupplierID             uuid.UUID                      `gorm:"column:supplier_id;type:uuid;not null" json:"supplier_id"`
	PlacedByUserID         uuid.UUID                      `gorm:"column:placed_by_user_id;type:uuid;not null" json:"placed_by_user_id"`
	Status                 enums.OrderStatus              `gorm:"column:status;type:order_status;not null;default:'pending'" json:"status"`
	TotalCents             int                            `gorm:"column:total_cents;not null" json:"total_cents"`
	RequestedDeliveryDate  *time.Time                     `gorm:"column:requested_delivery_date" json:"requested_delivery_date,omitempty"`
	ExpectedDeliveryDate   *time.Time                     `gorm:"column:expected_delivery_date" json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate     *time.Time                     `gorm:"column:actual_delivery_date" json:"actual_delivery_date,omitempty"`
	DeliveryClassification *enums.DeliveryClassification  `gorm:"column:delivery_classification;type:delivery_classification" json:"delivery_classification,omitempty"`
	BuyerNotes             *string                        `gorm:"column:buyer_notes" json:"buyer_notes,omitempty"`
	SupplierNotes          *string                        `gorm:"column:supplier_notes" json:"supplier_notes,omitempty"`
	DeliveryNotes          *string                        `gorm:"column:delivery_notes" json:"delivery_notes,omitempty"`
	Items                  []OrderLineItem                `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Timeline               []OrderTimelineEntry           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"timeline,omitempty"`
	DecidedAt              *time.Time                     `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DeliveredAt            *time.Time                     `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	CancelledAt            *time.Time                     `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt              time.Time                      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time                      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
