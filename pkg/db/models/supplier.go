package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the vendor master record orders are placed against.
type Supplier struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	ContactName  *string   `gorm:"column:contact_name" json:"contact_name,omitempty"`
	ContactEmail *string   `gorm:"column:contact_email" json:"contact_email,omitempty"`
	Phone        *string   `gorm:"column:phone" json:"phone,omitempty"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Products     []Product `gorm:"foreignKey:SupplierID" json:"products,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
