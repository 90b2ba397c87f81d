package inventory

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
	"github.com/avelarsoto/storeops-backend/pkg/pagination"
)

// DeliveryReason is the ledger reason recorded for order delivery receipts.
const DeliveryReason = "order delivery"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ApplyMovementInput carries a manual stock movement request. Quantity is
// interpreted per type: positive magnitude for in and out, signed non-zero
// delta for adjustment.
type ApplyMovementInput struct {
	StoreID          uuid.UUID
	ProductID        uuid.UUID
	Type             enums.StockMovementType
	Quantity         int
	Reason           string
	ReferenceOrderID *uuid.UUID
	ActorUserID      uuid.UUID
}

// MovementList wraps the paginated ledger entries plus the next page cursor.
type MovementList struct {
	Movements  []models.StockMovement `json:"movements"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// Service defines the stock ledger operations.
type Service interface {
	ApplyMovement(ctx context.Context, input ApplyMovementInput) (*models.InventoryRecord, error)
	ReceiveDelivery(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty int, orderID, actorUserID uuid.UUID) error
	GetRecord(ctx context.Context, storeID, productID uuid.UUID) (*models.InventoryRecord, error)
	ListRecords(ctx context.Context, storeID uuid.UUID, lowOnly bool) ([]models.InventoryRecord, error)
	ListMovements(ctx context.Context, storeID uuid.UUID, productID *uuid.UUID, page pagination.Params) (*MovementList, error)
	SetReorderLevel(ctx context.Context, storeID, productID uuid.UUID, level int) (*models.InventoryRecord, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// movementTailLimit caps the ledger tail attached to the record returned
// by ApplyMovement.
const movementTailLimit = 10

func (s *service) ApplyMovement(ctx context.Context, input ApplyMovementInput) (*models.InventoryRecord, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement type")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement reason required")
	}

	delta, err := movementDelta(input.Type, input.Quantity)
	if err != nil {
		return nil, err
	}

	movement := &models.StockMovement{
		StoreID:          input.StoreID,
		ProductID:        input.ProductID,
		Type:             input.Type,
		QuantityDelta:    delta,
		Reason:           strings.TrimSpace(input.Reason),
		ReferenceOrderID: input.ReferenceOrderID,
		ActorUserID:      input.ActorUserID,
	}

	var record *models.InventoryRecord
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.applyDelta(ctx, repo, movement); err != nil {
			return err
		}

		record, err = repo.FindRecord(ctx, input.StoreID, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload inventory record")
		}
		tail, err := repo.ListMovements(ctx, input.StoreID, &input.ProductID, nil, movementTailLimit)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load movement tail")
		}
		record.RecentMovements = tail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) ReceiveDelivery(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty int, orderID, actorUserID uuid.UUID) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery qty must be positive")
	}
	movement := &models.StockMovement{
		StoreID:          storeID,
		ProductID:        productID,
		Type:             enums.StockMovementTypeIn,
		QuantityDelta:    qty,
		Reason:           DeliveryReason,
		ReferenceOrderID: &orderID,
		ActorUserID:      actorUserID,
	}
	return s.applyDelta(ctx, s.repo.WithTx(tx), movement)
}

// applyDelta appends the movement and bumps the materialized quantity as one
// unit. The materialized row is only ever touched here, which keeps it a
// faithful sum of the ledger.
func (s *service) applyDelta(ctx context.Context, repo Repository, movement *models.StockMovement) error {
	if err := repo.EnsureRecord(ctx, movement.StoreID, movement.ProductID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure inventory record")
	}

	ok, err := repo.AdjustQuantityGuarded(ctx, movement.StoreID, movement.ProductID, movement.QuantityDelta)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust quantity")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "movement would drive stock below zero").
			WithDetails(map[string]string{"product_id": movement.ProductID.String()})
	}

	if _, err := repo.CreateMovement(ctx, movement); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append stock movement")
	}
	return nil
}

func (s *service) GetRecord(ctx context.Context, storeID, productID uuid.UUID) (*models.InventoryRecord, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	record, err := s.repo.FindRecord(ctx, storeID, productID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
	}
	return record, nil
}

func (s *service) ListRecords(ctx context.Context, storeID uuid.UUID, lowOnly bool) ([]models.InventoryRecord, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	records, err := s.repo.ListRecords(ctx, storeID, lowOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory records")
	}
	return records, nil
}

func (s *service) ListMovements(ctx context.Context, storeID uuid.UUID, productID *uuid.UUID, page pagination.Params) (*MovementList, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	rows, err := s.repo.ListMovements(ctx, storeID, productID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}

	list := &MovementList{Movements: rows}
	if len(rows) > limit {
		list.Movements = rows[:limit]
		last := list.Movements[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (s *service) SetReorderLevel(ctx context.Context, storeID, productID uuid.UUID, level int) (*models.InventoryRecord, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if level < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder level cannot be negative")
	}

	var record *models.InventoryRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.EnsureRecord(ctx, storeID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure inventory record")
		}
		ok, err := repo.UpdateReorderLevel(ctx, storeID, productID, level)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reorder level")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		record, err = repo.FindRecord(ctx, storeID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload inventory record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func movementDelta(movementType enums.StockMovementType, quantity int) (int, error) {
	switch movementType {
	case enums.StockMovementTypeIn:
		if quantity <= 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "stock-in quantity must be positive")
		}
		return quantity, nil
	case enums.StockMovementTypeOut:
		if quantity <= 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "stock-out quantity must be positive")
		}
		return -quantity, nil
	case enums.StockMovementTypeAdjustment:
		if quantity == 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "adjustment delta cannot be zero")
		}
		return quantity, nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement type")
	}
}
