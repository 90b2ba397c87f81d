package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
)

func setupStoresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stores := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  email TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(stores).Error)
	return db
}

func TestStoreLifecycle(t *testing.T) {
	svc, err := NewService(NewRepository(setupStoresTestDB(t)))
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateStoreInput{Name: "Main Street Market"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	address := "14 Main St"
	updated, err := svc.Update(ctx, created.ID, UpdateStoreInput{Address: &address})
	require.NoError(t, err)
	require.NotNil(t, updated.Address)
	assert.Equal(t, address, *updated.Address)

	_, err = svc.Create(ctx, CreateStoreInput{Name: ""})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
