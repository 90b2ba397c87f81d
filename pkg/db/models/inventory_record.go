package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryRecord is the materialized current-quantity projection for one
// product at one store. QuantityOnHand is a cache over the stock movement
// log: it is only ever changed by appending a movement, and replaying the
// log from zero must reproduce it exactly.
type InventoryRecord struct {
	StoreID        uuid.UUID `gorm:"column:store_id;type:uuid;primaryKey" json:"store_id"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey" json:"product_id"`
	QuantityOnHand int       `gorm:"column:quantity_on_hand;not null;default:0" json:"quantity_on_hand"`
	ReorderLevel   int       `gorm:"column:reorder_level;not null;default:0" json:"reorder_level"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// RecentMovements is a read-time attachment of the newest ledger
	// entries for this record, not a persisted column.
	RecentMovements []StockMovement `gorm:"-" json:"recent_movements,omitempty"`
}

// LowStock reports whether the record is at or below its reorder level.
// Evaluated at read time; there is no push notification for low stock.
func (r InventoryRecord) LowStock() bool {
	return r.QuantityOnHand <= r.ReorderLevel
}
