package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	"github.com/avelarsoto/storeops-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	purchaseOrders := `
CREATE TABLE IF NOT EXISTS purchase_orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  store_id TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  placed_by_user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_cents INTEGER NOT NULL,
  requested_delivery_date DATETIME,
  expected_delivery_date DATETIME,
  actual_delivery_date DATETIME,
  delivery_classification TEXT,
  buyer_notes TEXT,
  supplier_notes TEXT,
  delivery_notes TEXT,
  decided_at DATETIME,
  delivered_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderLineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  delivered_qty INTEGER,
  delivery_notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderTimelineEntries := `
CREATE TABLE IF NOT EXISTS order_timeline_entries (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  note TEXT,
  actor_user_id TEXT NOT NULL,
  created_at DATETIME
);`

	for _, stmt := range []string{purchaseOrders, orderLineItems, orderTimelineEntries} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOrder(t *testing.T, repo Repository, storeID uuid.UUID, status enums.OrderStatus, number string, createdAt time.Time) *models.PurchaseOrder {
	t.Helper()

	order := &models.PurchaseOrder{
		ID:             uuid.New(),
		OrderNumber:    number,
		StoreID:        storeID,
		SupplierID:     uuid.New(),
		PlacedByUserID: uuid.New(),
		Status:         status,
		TotalCents:     2500,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
		Items: []models.OrderLineItem{
			{ID: uuid.New(), ProductID: uuid.New(), Name: "House Blend Beans", SKU: "FLR-001", Qty: 2, UnitPriceCents: 1250, TotalCents: 2500},
		},
	}
	created, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFindOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	created := seedOrder(t, repo, storeID, enums.OrderStatusPending, "PO-20260310-AAA111", time.Now().UTC())

	require.NoError(t, repo.CreateTimelineEntry(ctx, &models.OrderTimelineEntry{
		ID:          uuid.New(),
		OrderID:     created.ID,
		Status:      enums.OrderStatusPending,
		ActorUserID: uuid.New(),
	}))

	found, err := repo.FindOrderByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, found.OrderNumber)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "FLR-001", found.Items[0].SKU)
	require.Len(t, found.Timeline, 1)
	assert.Equal(t, enums.OrderStatusPending, found.Timeline[0].Status)
}

func TestRepositoryGuardedStatusUpdate(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedOrder(t, repo, uuid.New(), enums.OrderStatusApproved, "PO-20260310-BBB222", time.Now().UTC())

	now := time.Now().UTC()
	ok, err := repo.UpdateStatusGuarded(ctx, created.ID, enums.OrderStatusApproved, enums.OrderStatusDelivered, map[string]any{
		"delivered_at": now,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	// Second attempt fails the status guard.
	ok, err = repo.UpdateStatusGuarded(ctx, created.ID, enums.OrderStatusApproved, enums.OrderStatusDelivered, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindOrderByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, found.Status)
	require.NotNil(t, found.DeliveredAt)
}

func TestRepositoryUpdateLineDelivery(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedOrder(t, repo, uuid.New(), enums.OrderStatusApproved, "PO-20260310-CCC333", time.Now().UTC())
	notes := "two cases short"
	require.NoError(t, repo.UpdateLineDelivery(ctx, created.Items[0].ID, 1, &notes))

	found, err := repo.FindOrderByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Items[0].DeliveredQty)
	assert.Equal(t, 1, *found.Items[0].DeliveredQty)
	require.NotNil(t, found.Items[0].DeliveryNotes)
	assert.Equal(t, notes, *found.Items[0].DeliveryNotes)
}

func TestRepositoryListOrdersFiltersAndScopes(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	otherStore := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	seedOrder(t, repo, storeID, enums.OrderStatusPending, "PO-20260310-DDD444", base.Add(-2*time.Hour))
	seedOrder(t, repo, storeID, enums.OrderStatusApproved, "PO-20260310-EEE555", base.Add(-time.Hour))
	seedOrder(t, repo, otherStore, enums.OrderStatusPending, "PO-20260310-FFF666", base)

	rows, err := repo.ListOrders(ctx, storeID, ListFilters{}, nil, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	pending := enums.OrderStatusPending
	rows, err = repo.ListOrders(ctx, storeID, ListFilters{Status: &pending}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PO-20260310-DDD444", rows[0].OrderNumber)
}

func TestRepositoryListOrdersCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)
	oldest := seedOrder(t, repo, storeID, enums.OrderStatusPending, "PO-20260310-GGG777", base.Add(-3*time.Hour))
	middle := seedOrder(t, repo, storeID, enums.OrderStatusPending, "PO-20260310-HHH888", base.Add(-2*time.Hour))
	newest := seedOrder(t, repo, storeID, enums.OrderStatusPending, "PO-20260310-III999", base.Add(-time.Hour))

	rows, err := repo.ListOrders(ctx, storeID, ListFilters{}, nil, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)

	cursor := &pagination.Cursor{CreatedAt: rows[1].CreatedAt, ID: rows[1].ID}
	rows, err = repo.ListOrders(ctx, storeID, ListFilters{}, cursor, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
}
