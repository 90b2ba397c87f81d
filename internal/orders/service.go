package orders

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
	"github.com/avelarsoto/storeops-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductCatalog resolves the supplier catalog rows an order snapshots from.
type ProductCatalog interface {
	FindActiveSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindActiveProducts(ctx context.Context, supplierID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)
}

// StockReceiver applies a delivered line to inventory inside the caller's
// transaction, so the order status change and the stock effect commit or
// roll back together.
type StockReceiver interface {
	ReceiveDelivery(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty int, orderID, actorUserID uuid.UUID) error
}

// Service defines the purchase order lifecycle operations.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*models.PurchaseOrder, error)
	Get(ctx context.Context, storeID, orderID uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, storeID uuid.UUID, filters ListFilters, page pagination.Params) (*OrderList, error)
	Decide(ctx context.Context, input DecisionInput) (*models.PurchaseOrder, error)
	Cancel(ctx context.Context, input CancelInput) (*models.PurchaseOrder, error)
	AcceptDelivery(ctx context.Context, input AcceptDeliveryInput) (*models.PurchaseOrder, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	catalog ProductCatalog
	stock   StockReceiver
	now     func() time.Time
}

// NewService builds a purchase order service with the required dependencies.
func NewService(repo Repository, tx txRunner, catalog ProductCatalog, stock StockReceiver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock receiver required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		catalog: catalog,
		stock:   stock,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*models.PurchaseOrder, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	now := s.now()
	if input.RequestedDeliveryDate != nil && input.RequestedDeliveryDate.Before(now.Truncate(24*time.Hour)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested delivery date cannot be in the past")
	}

	productIDs := make([]uuid.UUID, 0, len(input.Items))
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item qty must be positive")
		}
		if _, dup := seen[item.ProductID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in order items")
		}
		seen[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}

	supplier, err := s.catalog.FindActiveSupplier(ctx, input.SupplierID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}

	products, err := s.catalog.FindActiveProducts(ctx, supplier.ID, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	items := make([]models.OrderLineItem, 0, len(input.Items))
	total := 0
	for _, requested := range input.Items {
		product, ok := byID[requested.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not in supplier catalog").
				WithDetails(map[string]string{"product_id": requested.ProductID.String()})
		}
		lineTotal := product.PriceCents * requested.Qty
		items = append(items, models.OrderLineItem{
			ProductID:      product.ID,
			Name:           product.Name,
			SKU:            product.SKU,
			Qty:            requested.Qty,
			UnitPriceCents: product.PriceCents,
			TotalCents:     lineTotal,
		})
		total += lineTotal
	}

	// The random order-number suffix can collide; one retry with a fresh
	// number covers it, anything after that is a real fault.
	var order *models.PurchaseOrder
	for attempt := 0; attempt < 2; attempt++ {
		orderNumber, err := NewOrderNumber(now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}

		orderItems := make([]models.OrderLineItem, len(items))
		copy(orderItems, items)
		order = &models.PurchaseOrder{
			OrderNumber:           orderNumber,
			StoreID:               input.StoreID,
			SupplierID:            supplier.ID,
			PlacedByUserID:        input.ActorUserID,
			Status:                enums.OrderStatusPending,
			TotalCents:            total,
			RequestedDeliveryDate: input.RequestedDeliveryDate,
			BuyerNotes:            input.BuyerNotes,
			Items:                 orderItems,
		}

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			created, err := repo.CreateOrder(ctx, order)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}
			order = created
			return repo.CreateTimelineEntry(ctx, &models.OrderTimelineEntry{
				OrderID:     order.ID,
				Status:      enums.OrderStatusPending,
				Note:        input.BuyerNotes,
				ActorUserID: input.ActorUserID,
			})
		})
		if err == nil {
			return order, nil
		}
		if attempt == 0 && stdErrors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, storeID, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to store")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, filters ListFilters, page pagination.Params) (*OrderList, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	rows, err := s.repo.ListOrders(ctx, storeID, filters, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	list := &OrderList{Orders: rows}
	if len(rows) > limit {
		list.Orders = rows[:limit]
		last := list.Orders[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (s *service) Decide(ctx context.Context, input DecisionInput) (*models.PurchaseOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorSupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity missing")
	}

	targetStatus, err := mapDecisionToStatus(input.Decision)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if targetStatus == enums.OrderStatusApproved {
		if input.ExpectedDeliveryDate == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected delivery date required on approval")
		}
		if !input.ExpectedDeliveryDate.After(now) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected delivery date must be in the future")
		}
	}

	var order *models.PurchaseOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if current.StoreID != input.StoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to store")
		}
		if current.SupplierID != input.ActorSupplierID {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "order belongs to a different supplier")
		}
		if !current.Status.CanTransitionTo(targetStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be decided in current state").
				WithDetails(map[string]string{"status": current.Status.String()})
		}

		updates := map[string]any{"decided_at": now}
		if targetStatus == enums.OrderStatusApproved {
			updates["expected_delivery_date"] = *input.ExpectedDeliveryDate
		}
		if input.SupplierNotes != nil {
			updates["supplier_notes"] = *input.SupplierNotes
		}

		ok, err := repo.UpdateStatusGuarded(ctx, current.ID, current.Status, targetStatus, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order changed concurrently")
		}

		if err := repo.CreateTimelineEntry(ctx, &models.OrderTimelineEntry{
			OrderID:     current.ID,
			Status:      targetStatus,
			Note:        input.SupplierNotes,
			ActorUserID: input.ActorUserID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record timeline entry")
		}

		order, err = repo.FindOrderByID(ctx, current.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.PurchaseOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var order *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if current.StoreID != input.StoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to store")
		}
		if !current.Status.CanTransitionTo(enums.OrderStatusCancelled) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be cancelled in current state").
				WithDetails(map[string]string{"status": current.Status.String()})
		}

		ok, err := repo.UpdateStatusGuarded(ctx, current.ID, current.Status, enums.OrderStatusCancelled, map[string]any{
			"cancelled_at": s.now(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order changed concurrently")
		}

		if err := repo.CreateTimelineEntry(ctx, &models.OrderTimelineEntry{
			OrderID:     current.ID,
			Status:      enums.OrderStatusCancelled,
			Note:        input.Reason,
			ActorUserID: input.ActorUserID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record timeline entry")
		}

		order, err = repo.FindOrderByID(ctx, current.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) AcceptDelivery(ctx context.Context, input AcceptDeliveryInput) (*models.PurchaseOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery report requires line quantities")
	}

	now := s.now()
	actualDate := now
	if input.ActualDeliveryDate != nil {
		if input.ActualDeliveryDate.After(now) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "actual delivery date cannot be in the future")
		}
		actualDate = *input.ActualDeliveryDate
	}

	reported := make(map[uuid.UUID]LineDelivery, len(input.Lines))
	for _, line := range input.Lines {
		if line.LineItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id required")
		}
		if _, dup := reported[line.LineItemID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item reported more than once")
		}
		if line.DeliveredQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivered qty cannot be negative")
		}
		reported[line.LineItemID] = line
	}

	var order *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if current.StoreID != input.StoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to store")
		}
		if !current.Status.CanTransitionTo(enums.OrderStatusDelivered) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery can only be accepted on an approved order").
				WithDetails(map[string]string{"status": current.Status.String()})
		}
		// Unreported lines count as delivered qty 0 (a partial no-show),
		// but a report may not name lines outside the order.
		known := make(map[uuid.UUID]struct{}, len(current.Items))
		for _, item := range current.Items {
			known[item.ID] = struct{}{}
		}
		for lineItemID := range reported {
			if _, ok := known[lineItemID]; !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "delivery report names an unknown order line").
					WithDetails(map[string]string{"line_item_id": lineItemID.String()})
			}
		}
		for _, item := range current.Items {
			if line, ok := reported[item.ID]; ok && line.DeliveredQty > item.Qty {
				return pkgerrors.New(pkgerrors.CodeValidation, "delivered qty exceeds ordered qty").
					WithDetails(map[string]string{"line_item_id": item.ID.String()})
			}
		}

		classification := classifyDelivery(current.Items, reported)

		// The compare-and-set below is the exactly-once guard: a second
		// acceptance loses the race and rolls back before touching
		// inventory or line items.
		updates := map[string]any{
			"actual_delivery_date":    actualDate,
			"delivered_at":            now,
			"delivery_classification": classification,
		}
		if input.DeliveryNotes != nil {
			updates["delivery_notes"] = *input.DeliveryNotes
		}
		ok, err := repo.UpdateStatusGuarded(ctx, current.ID, enums.OrderStatusApproved, enums.OrderStatusDelivered, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery already accepted")
		}

		for _, item := range current.Items {
			line := reported[item.ID]
			if err := repo.UpdateLineDelivery(ctx, item.ID, line.DeliveredQty, line.Notes); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record line delivery")
			}
			if line.DeliveredQty > 0 {
				if err := s.stock.ReceiveDelivery(ctx, tx, current.StoreID, item.ProductID, line.DeliveredQty, current.ID, input.ActorUserID); err != nil {
					return err
				}
			}
		}

		if err := repo.CreateTimelineEntry(ctx, &models.OrderTimelineEntry{
			OrderID:     current.ID,
			Status:      enums.OrderStatusDelivered,
			Note:        input.DeliveryNotes,
			ActorUserID: input.ActorUserID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record timeline entry")
		}

		order, err = repo.FindOrderByID(ctx, current.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// classifyDelivery summarizes the report: complete when every line arrived
// in full, none when nothing arrived, partial otherwise.
func classifyDelivery(items []models.OrderLineItem, reported map[uuid.UUID]LineDelivery) enums.DeliveryClassification {
	allFull := true
	allZero := true
	for _, item := range items {
		line := reported[item.ID]
		if line.DeliveredQty != item.Qty {
			allFull = false
		}
		if line.DeliveredQty != 0 {
			allZero = false
		}
	}
	switch {
	case allFull:
		return enums.DeliveryClassificationComplete
	case allZero:
		return enums.DeliveryClassificationNone
	default:
		return enums.DeliveryClassificationPartial
	}
}

func mapDecisionToStatus(decision Decision) (enums.OrderStatus, error) {
	switch decision {
	case DecisionApprove:
		return enums.OrderStatusApproved, nil
	case DecisionReject:
		return enums.OrderStatusRejected, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "decision must be approve or reject")
	}
}
