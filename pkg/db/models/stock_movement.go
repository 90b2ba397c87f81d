package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/pkg/enums"
)

// StockMovement is one append-only ledger entry for a product at a store.
// QuantityDelta is signed: positive for `in`, negative for `out`, and either
// sign for `adjustment`. Rows are never updated or deleted.
type StockMovement struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID          uuid.UUID               `gorm:"column:store_id;type:uuid;not null" json:"store_id"`
	ProductID        uuid.UUID               `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Type             enums.StockMovementType `gorm:"column:type;type:stock_movement_type;not null" json:"type"`
	QuantityDelta    int                     `gorm:"column:quantity_delta;not null" json:"quantity_delta"`
	Reason           string                  `gorm:"column:reason;not null" json:"reason"`
	ReferenceOrderID *uuid.UUID              `gorm:"column:reference_order_id;type:uuid" json:"reference_order_id,omitempty"`
	ActorUserID      uuid.UUID               `gorm:"column:actor_user_id;type:uuid;not null" json:"actor_user_id"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
