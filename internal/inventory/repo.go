package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/pagination"
)

// Repository exposes the persistence operations behind the stock ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	EnsureRecord(ctx context.Context, storeID, productID uuid.UUID) error
	// AdjustQuantityGuarded applies the signed delta only when the result
	// stays non-negative, and reports whether it did. The check and the
	// write are a single statement so concurrent movements cannot drive
	// the quantity below zero between them.
	AdjustQuantityGuarded(ctx context.Context, storeID, productID uuid.UUID, delta int) (bool, error)
	CreateMovement(ctx context.Context, movement *models.StockMovement) (*models.StockMovement, error)
	FindRecord(ctx context.Context, storeID, productID uuid.UUID) (*models.InventoryRecord, error)
	ListRecords(ctx context.Context, storeID uuid.UUID, lowOnly bool) ([]models.InventoryRecord, error)
	ListMovements(ctx context.Context, storeID uuid.UUID, productID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.StockMovement, error)
	UpdateReorderLevel(ctx context.Context, storeID, productID uuid.UUID, level int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) EnsureRecord(ctx context.Context, storeID, productID uuid.UUID) error {
	record := models.InventoryRecord{
		StoreID:   storeID,
		ProductID: productID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&record).Error
}

func (r *repository) AdjustQuantityGuarded(ctx context.Context, storeID, productID uuid.UUID, delta int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("store_id = ? AND product_id = ? AND quantity_on_hand + ? >= 0", storeID, productID, delta).
		Updates(map[string]any{
			"quantity_on_hand": gorm.Expr("quantity_on_hand + ?", delta),
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.StockMovement) (*models.StockMovement, error) {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return nil, err
	}
	return movement, nil
}

func (r *repository) FindRecord(ctx context.Context, storeID, productID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListRecords(ctx context.Context, storeID uuid.UUID, lowOnly bool) ([]models.InventoryRecord, error) {
	query := r.db.WithContext(ctx).
		Where("store_id = ?", storeID)
	if lowOnly {
		query = query.Where("quantity_on_hand <= reorder_level")
	}

	var records []models.InventoryRecord
	err := query.
		Order("product_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListMovements(ctx context.Context, storeID uuid.UUID, productID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.StockMovement, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockMovement{}).
		Where("store_id = ?", storeID)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var movements []models.StockMovement
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repository) UpdateReorderLevel(ctx context.Context, storeID, productID uuid.UUID, level int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Updates(map[string]any{
			"reorder_level": level,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
