package performance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
)

// Repository exposes the read queries behind supplier scorecards.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindDeliveredOrders(ctx context.Context, storeID uuid.UUID, supplierID *uuid.UUID, from, to time.Time) ([]models.PurchaseOrder, error)
	FindSuppliersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Supplier, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a performance repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindDeliveredOrders(ctx context.Context, storeID uuid.UUID, supplierID *uuid.UUID, from, to time.Time) ([]models.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND status = ?", storeID, enums.OrderStatusDelivered).
		Where("actual_delivery_date >= ? AND actual_delivery_date <= ?", from, to)
	if supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}

	var orders []models.PurchaseOrder
	err := query.
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindSuppliersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}
