package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	suppliers := `
CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_name TEXT,
  contact_email TEXT,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  unit TEXT NOT NULL DEFAULT 'each',
  price_cents INTEGER NOT NULL,
  reorder_level INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`

	for _, stmt := range []string{suppliers, products} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedSupplier(t *testing.T, db *gorm.DB, active bool) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{ID: uuid.New(), Name: "Harvest Foods", IsActive: active}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func TestRepositoryCreateAndFindProduct(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, true)
	product := &models.Product{
		ID:         uuid.New(),
		SupplierID: supplier.ID,
		SKU:        "FLR-001",
		Name:       "House Blend Beans",
		Unit:       "bag",
		PriceCents: 1250,
		IsActive:   true,
	}
	_, err := repo.Create(ctx, product)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "FLR-001", found.SKU)
	assert.Equal(t, 1250, found.PriceCents)
}

func TestRepositoryFindActiveByIDsFiltersInactive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, true)
	active := &models.Product{ID: uuid.New(), SupplierID: supplier.ID, SKU: "FLR-001", Name: "House Blend Beans", Unit: "bag", PriceCents: 1250, IsActive: true}
	inactive := &models.Product{ID: uuid.New(), SupplierID: supplier.ID, SKU: "FLR-002", Name: "Seasonal Roast", Unit: "bag", PriceCents: 1400, IsActive: false}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(inactive).Error)

	found, err := repo.FindActiveByIDs(ctx, supplier.ID, []uuid.UUID{active.ID, inactive.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, active.ID, found[0].ID)
}

func TestRepositoryFindActiveSupplier(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	inactive := seedSupplier(t, db, false)
	_, err := repo.FindActiveSupplierByID(ctx, inactive.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	activeSupplier := seedSupplier(t, db, true)
	found, err := repo.FindActiveSupplierByID(ctx, activeSupplier.ID)
	require.NoError(t, err)
	assert.Equal(t, activeSupplier.ID, found.ID)
}

func TestServiceUpdateProduct(t *testing.T) {
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	supplier := seedSupplier(t, db, true)
	created, err := svc.Create(ctx, CreateProductInput{
		SupplierID: supplier.ID,
		SKU:        "FLR-001",
		Name:       "House Blend Beans",
		PriceCents: 1250,
	})
	require.NoError(t, err)
	assert.Equal(t, "each", created.Unit)

	newPrice := 1350
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{PriceCents: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 1350, updated.PriceCents)

	badPrice := 0
	_, err = svc.Update(ctx, created.ID, UpdateProductInput{PriceCents: &badPrice})
	require.Error(t, err)
}
