package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	"github.com/avelarsoto/storeops-backend/pkg/pagination"
)

// Repository exposes the persistence operations the order service needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.PurchaseOrder) (*models.PurchaseOrder, error)
	CreateTimelineEntry(ctx context.Context, entry *models.OrderTimelineEntry) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	ListOrders(ctx context.Context, storeID uuid.UUID, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.PurchaseOrder, error)
	// UpdateStatusGuarded writes the status change only when the row still
	// holds the expected current status, and reports whether it did. The
	// compare-and-set is what makes approve and delivery acceptance safe
	// against concurrent callers.
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, current, next enums.OrderStatus, updates map[string]any) (bool, error)
	UpdateLineDelivery(ctx context.Context, lineItemID uuid.UUID, deliveredQty int, notes *string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateTimelineEntry(ctx context.Context, entry *models.OrderTimelineEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context, storeID uuid.UUID, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Preload("Items").
		Where("store_id = ?", storeID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.PurchaseOrder
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateStatusGuarded(ctx context.Context, id uuid.UUID, current, next enums.OrderStatus, updates map[string]any) (bool, error) {
	values := map[string]any{
		"status":     next,
		"updated_at": time.Now().UTC(),
	}
	for column, value := range updates {
		values[column] = value
	}

	result := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, current).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) UpdateLineDelivery(ctx context.Context, lineItemID uuid.UUID, deliveredQty int, notes *string) error {
	values := map[string]any{
		"delivered_qty": deliveredQty,
		"updated_at":    time.Now().UTC(),
	}
	if notes != nil {
		values["delivery_notes"] = *notes
	}
	return r.db.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Where("id = ?", lineItemID).
		Updates(values).Error
}
