package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelarsoto/storeops-backend/internal/inventory"
	"github.com/avelarsoto/storeops-backend/internal/orders"
	"github.com/avelarsoto/storeops-backend/internal/performance"
	"github.com/avelarsoto/storeops-backend/internal/products"
	"github.com/avelarsoto/storeops-backend/internal/stores"
	"github.com/avelarsoto/storeops-backend/internal/suppliers"
	"github.com/avelarsoto/storeops-backend/pkg/config"
	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubRouterOrders struct{}

func (stubRouterOrders) Place(context.Context, orders.PlaceOrderInput) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{}, nil
}

func (stubRouterOrders) Get(context.Context, uuid.UUID, uuid.UUID) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{}, nil
}

func (stubRouterOrders) List(context.Context, uuid.UUID, orders.ListFilters, pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubRouterOrders) Decide(context.Context, orders.DecisionInput) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{}, nil
}

func (stubRouterOrders) Cancel(context.Context, orders.CancelInput) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{}, nil
}

func (stubRouterOrders) AcceptDelivery(context.Context, orders.AcceptDeliveryInput) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{}, nil
}

type stubRouterInventory struct{}

func (stubRouterInventory) ApplyMovement(context.Context, inventory.ApplyMovementInput) (*models.InventoryRecord, error) {
	return &models.InventoryRecord{}, nil
}

func (stubRouterInventory) ReceiveDelivery(context.Context, *gorm.DB, uuid.UUID, uuid.UUID, int, uuid.UUID, uuid.UUID) error {
	return nil
}

func (stubRouterInventory) GetRecord(context.Context, uuid.UUID, uuid.UUID) (*models.InventoryRecord, error) {
	return &models.InventoryRecord{}, nil
}

func (stubRouterInventory) ListRecords(context.Context, uuid.UUID, bool) ([]models.InventoryRecord, error) {
	return nil, nil
}

func (stubRouterInventory) ListMovements(context.Context, uuid.UUID, *uuid.UUID, pagination.Params) (*inventory.MovementList, error) {
	return &inventory.MovementList{}, nil
}

func (stubRouterInventory) SetReorderLevel(context.Context, uuid.UUID, uuid.UUID, int) (*models.InventoryRecord, error) {
	return &models.InventoryRecord{}, nil
}

type stubRouterProducts struct{}

func (stubRouterProducts) Create(context.Context, products.CreateProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubRouterProducts) Update(context.Context, uuid.UUID, products.UpdateProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubRouterProducts) Get(context.Context, uuid.UUID) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubRouterProducts) ListBySupplier(context.Context, uuid.UUID, bool) ([]models.Product, error) {
	return nil, nil
}

func (stubRouterProducts) FindActiveSupplier(context.Context, uuid.UUID) (*models.Supplier, error) {
	return &models.Supplier{}, nil
}

func (stubRouterProducts) FindActiveProducts(context.Context, uuid.UUID, []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

type stubRouterSuppliers struct{}

func (stubRouterSuppliers) Create(context.Context, suppliers.CreateSupplierInput) (*models.Supplier, error) {
	return &models.Supplier{}, nil
}

func (stubRouterSuppliers) Update(context.Context, uuid.UUID, suppliers.UpdateSupplierInput) (*models.Supplier, error) {
	return &models.Supplier{}, nil
}

func (stubRouterSuppliers) Get(context.Context, uuid.UUID) (*models.Supplier, error) {
	return &models.Supplier{}, nil
}

func (stubRouterSuppliers) List(context.Context, bool) ([]models.Supplier, error) {
	return nil, nil
}

type stubRouterStores struct{}

func (stubRouterStores) Create(context.Context, stores.CreateStoreInput) (*models.Store, error) {
	return &models.Store{}, nil
}

func (stubRouterStores) Update(context.Context, uuid.UUID, stores.UpdateStoreInput) (*models.Store, error) {
	return &models.Store{}, nil
}

func (stubRouterStores) Get(context.Context, uuid.UUID) (*models.Store, error) {
	return &models.Store{}, nil
}

func (stubRouterStores) List(context.Context, bool) ([]models.Store, error) {
	return nil, nil
}

type stubRouterPerformance struct{}

func (stubRouterPerformance) GenerateReport(context.Context, uuid.UUID, *uuid.UUID, time.Time, time.Time) (*performance.Report, error) {
	return &performance.Report{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "dev", Port: "8080"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func testRouter() http.Handler {
	return NewRouter(
		testConfig(),
		nil,
		stubPinger{},
		nil,
		nil,
		stubRouterOrders{},
		stubRouterInventory{},
		stubRouterProducts{},
		stubRouterSuppliers{},
		stubRouterStores{},
		stubRouterPerformance{},
	)
}

func bearer(role string, storeID uuid.UUID) string {
	return "Bearer " + strings.Join([]string{uuid.NewString(), role, storeID.String()}, "|")
}

func TestRouterRejectsMissingCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRouterAllowsAuthenticatedOrderList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", bearer("staff", uuid.New()))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterForbidsSupplierPlacingOrder(t *testing.T) {
	body := strings.NewReader(`{"supplier_id":"` + uuid.NewString() + `","items":[{"product_id":"` + uuid.NewString() + `","qty":1}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
	req.Header.Set("Authorization", bearer("supplier", uuid.New()))
	req.Header.Set("Idempotency-Key", uuid.NewString())
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterThreadsSupplierScopeToDecision(t *testing.T) {
	storeID := uuid.New()
	token := "Bearer " + strings.Join([]string{uuid.NewString(), "supplier", storeID.String(), uuid.NewString()}, "|")

	body := strings.NewReader(`{"decision":"approve"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/decision", body)
	req.Header.Set("Authorization", token)
	req.Header.Set("Idempotency-Key", uuid.NewString())
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterServesHealthWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterRequiresStoreScopeForInventory(t *testing.T) {
	token := "Bearer " + uuid.NewString() + "|manager|"
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d: %s", rec.Code, rec.Body.String())
	}
}
