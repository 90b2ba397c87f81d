package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a receiving retail location. Every order and inventory record is
// scoped to exactly one store; there is no ambient "current store".
type Store struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Address   *string   `gorm:"column:address" json:"address,omitempty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	Email     *string   `gorm:"column:email" json:"email,omitempty"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
