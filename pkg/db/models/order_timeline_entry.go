package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelarsoto/storeops-backend/pkg/enums"
)

// OrderTimelineEntry is an append-only audit row recorded on every status
// change of a purchase order.
type OrderTimelineEntry struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status;not null" json:"status"`
	Note        *string           `gorm:"column:note" json:"note,omitempty"`
	ActorUserID uuid.UUID         `gorm:"column:actor_user_id;type:uuid;not null" json:"actor_user_id"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
