package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the snapshot of each item within a purchase order.
// Name, SKU and UnitPriceCents are copied from the catalog at placement and
// immutable thereafter. DeliveredQty stays nil until delivery acceptance and
// once set is bounded by 0 <= delivered <= ordered.
type OrderLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	SKU            string    `gorm:"column:sku;not null" json:"sku"`
	Qty            int       `gorm:"column:qty;not null" json:"qty"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	TotalCents     int       `gorm:"column:total_cents;not null" json:"total_cents"`
	DeliveredQty   *int      `gorm:"column:delivered_qty" json:"delivered_qty,omitempty"`
	DeliveryNotes  *string   `gorm:"column:delivery_notes" json:"delivery_notes,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
