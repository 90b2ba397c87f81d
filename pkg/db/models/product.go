package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a supplier catalog entry. PriceCents is the live catalog price;
// orders freeze it onto the line item at placement time and never read it
// again for that order.
type Product struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierID   uuid.UUID `gorm:"column:supplier_id;type:uuid;not null" json:"supplier_id"`
	SKU          string    `gorm:"column:sku;not null" json:"sku"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	Unit         string    `gorm:"column:unit;not null;default:'each'" json:"unit"`
	PriceCents   int       `gorm:"column:price_cents;not null" json:"price_cents"`
	ReorderLevel int       `gorm:"column:reorder_level;not null;default:0" json:"reorder_level"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
