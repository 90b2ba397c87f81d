package performance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
	pkgerrors "github.com/avelarsoto/storeops-backend/pkg/errors"
)

type stubPerformanceRepo struct {
	orders         []models.PurchaseOrder
	suppliers      []models.Supplier
	filterSupplier *uuid.UUID
}

func (s *stubPerformanceRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPerformanceRepo) FindDeliveredOrders(ctx context.Context, storeID uuid.UUID, supplierID *uuid.UUID, from, to time.Time) ([]models.PurchaseOrder, error) {
	s.filterSupplier = supplierID
	if supplierID == nil {
		return s.orders, nil
	}
	var matched []models.PurchaseOrder
	for _, order := range s.orders {
		if order.SupplierID == *supplierID {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

func (s *stubPerformanceRepo) FindSuppliersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Supplier, error) {
	return s.suppliers, nil
}

func intPtr(v int) *int { return &v }

func deliveredOrder(storeID, supplierID uuid.UUID, expected, actual time.Time, classification enums.DeliveryClassification, items []models.OrderLineItem) models.PurchaseOrder {
	return models.PurchaseOrder{
		ID:                     uuid.New(),
		StoreID:                storeID,
		SupplierID:             supplierID,
		Status:                 enums.OrderStatusDelivered,
		ExpectedDeliveryDate:   &expected,
		ActualDeliveryDate:     &actual,
		DeliveryClassification: &classification,
		Items:                  items,
	}
}

func TestGenerateReportScoresSuppliers(t *testing.T) {
	storeID := uuid.New()
	punctual := uuid.New()
	sloppy := uuid.New()
	expected := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	repo := &stubPerformanceRepo{
		orders: []models.PurchaseOrder{
			// Full delivery, one day early.
			deliveredOrder(storeID, punctual, expected, expected.Add(-24*time.Hour), enums.DeliveryClassificationComplete, []models.OrderLineItem{
				{Qty: 10, DeliveredQty: intPtr(10)},
			}),
			// One of two lines arrived in full, two days late.
			deliveredOrder(storeID, sloppy, expected, expected.Add(48*time.Hour), enums.DeliveryClassificationPartial, []models.OrderLineItem{
				{Qty: 10, DeliveredQty: intPtr(10)},
				{Qty: 10, DeliveredQty: intPtr(5)},
			}),
		},
		suppliers: []models.Supplier{
			{ID: punctual, Name: "Harvest Foods"},
			{ID: sloppy, Name: "Valley Wholesale"},
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	report, err := svc.GenerateReport(context.Background(), storeID, nil, expected.AddDate(0, -1, 0), expected.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, report.Scorecards, 2)

	top := report.Scorecards[0]
	assert.Equal(t, punctual, top.SupplierID)
	assert.Equal(t, "Harvest Foods", top.SupplierName)
	assert.True(t, top.Score.Equal(decimal.NewFromInt(100)), "score was %s", top.Score)
	assert.True(t, top.OnTimeRate.Equal(decimal.NewFromInt(1)))

	bottom := report.Scorecards[1]
	assert.Equal(t, sloppy, bottom.SupplierID)
	// 0.4*0 on-time + 0.4*0.5 accuracy + 0.2*0 perfect = 20.
	assert.True(t, bottom.Score.Equal(decimal.NewFromInt(20)), "score was %s", bottom.Score)
}

func TestGenerateReportCountsMatchedLines(t *testing.T) {
	storeID := uuid.New()
	supplierID := uuid.New()
	expected := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	// Two of three lines arrive in full. Accuracy is line-based, so the
	// short 10-unit line counts the same as a short 3-unit line would.
	repo := &stubPerformanceRepo{
		orders: []models.PurchaseOrder{
			deliveredOrder(storeID, supplierID, expected, expected, enums.DeliveryClassificationPartial, []models.OrderLineItem{
				{Qty: 10, DeliveredQty: intPtr(10)},
				{Qty: 10, DeliveredQty: intPtr(5)},
				{Qty: 3, DeliveredQty: intPtr(3)},
			}),
		},
		suppliers: []models.Supplier{{ID: supplierID, Name: "Harvest Foods"}},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	report, err := svc.GenerateReport(context.Background(), storeID, nil, expected.AddDate(0, -1, 0), expected.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, report.Scorecards, 1)

	card := report.Scorecards[0]
	assert.True(t, card.AccuracyRate.Equal(decimal.NewFromFloat(0.6667)), "accuracy was %s", card.AccuracyRate)
	assert.Equal(t, 23, card.UnitsOrdered)
	assert.Equal(t, 18, card.UnitsDelivered)
	// 0.4*1 on-time + 0.4*0.6667 accuracy + 0.2*0 perfect = 66.67.
	assert.True(t, card.Score.Equal(decimal.NewFromFloat(66.67)), "score was %s", card.Score)
}

func TestGenerateReportLateCompleteStillPerfect(t *testing.T) {
	storeID := uuid.New()
	supplierID := uuid.New()
	expected := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	repo := &stubPerformanceRepo{
		orders: []models.PurchaseOrder{
			// Everything arrived in full, three days late.
			deliveredOrder(storeID, supplierID, expected, expected.Add(72*time.Hour), enums.DeliveryClassificationComplete, []models.OrderLineItem{
				{Qty: 6, DeliveredQty: intPtr(6)},
			}),
		},
		suppliers: []models.Supplier{{ID: supplierID, Name: "Harvest Foods"}},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	report, err := svc.GenerateReport(context.Background(), storeID, nil, expected.AddDate(0, -1, 0), expected.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, report.Scorecards, 1)

	card := report.Scorecards[0]
	assert.True(t, card.OnTimeRate.Equal(decimal.Zero))
	assert.True(t, card.PerfectRate.Equal(decimal.NewFromInt(1)), "perfect rate was %s", card.PerfectRate)
	// Lateness drags the on-time rate, not the perfect rate:
	// 0.4*0 + 0.4*1 + 0.2*1 = 60.
	assert.True(t, card.Score.Equal(decimal.NewFromInt(60)), "score was %s", card.Score)
}

func TestGenerateReportFiltersBySupplier(t *testing.T) {
	storeID := uuid.New()
	wanted := uuid.New()
	other := uuid.New()
	expected := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	repo := &stubPerformanceRepo{
		orders: []models.PurchaseOrder{
			deliveredOrder(storeID, wanted, expected, expected, enums.DeliveryClassificationComplete, []models.OrderLineItem{
				{Qty: 10, DeliveredQty: intPtr(10)},
			}),
			deliveredOrder(storeID, other, expected, expected, enums.DeliveryClassificationComplete, []models.OrderLineItem{
				{Qty: 4, DeliveredQty: intPtr(4)},
			}),
		},
		suppliers: []models.Supplier{{ID: wanted, Name: "Harvest Foods"}},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	report, err := svc.GenerateReport(context.Background(), storeID, &wanted, expected.AddDate(0, -1, 0), expected.AddDate(0, 1, 0))
	require.NoError(t, err)

	require.NotNil(t, repo.filterSupplier)
	assert.Equal(t, wanted, *repo.filterSupplier)
	require.Len(t, report.Scorecards, 1)
	assert.Equal(t, wanted, report.Scorecards[0].SupplierID)
}

func TestGenerateReportIsDeterministic(t *testing.T) {
	storeID := uuid.New()
	expected := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	var orders []models.PurchaseOrder
	var suppliers []models.Supplier
	for i := 0; i < 5; i++ {
		supplierID := uuid.New()
		suppliers = append(suppliers, models.Supplier{ID: supplierID, Name: "Supplier"})
		orders = append(orders, deliveredOrder(storeID, supplierID, expected, expected, enums.DeliveryClassificationComplete, []models.OrderLineItem{
			{Qty: 10, DeliveredQty: intPtr(10)},
		}))
	}

	repo := &stubPerformanceRepo{orders: orders, suppliers: suppliers}
	svc, err := NewService(repo)
	require.NoError(t, err)

	first, err := svc.GenerateReport(context.Background(), storeID, nil, expected.AddDate(0, -1, 0), expected.AddDate(0, 1, 0))
	require.NoError(t, err)
	second, err := svc.GenerateReport(context.Background(), storeID, nil, expected.AddDate(0, -1, 0), expected.AddDate(0, 1, 0))
	require.NoError(t, err)

	require.Len(t, first.Scorecards, 5)
	for i := range first.Scorecards {
		assert.Equal(t, first.Scorecards[i].SupplierID, second.Scorecards[i].SupplierID)
	}
	// Equal scores and counts fall back to supplier id ordering.
	for i := 1; i < len(first.Scorecards); i++ {
		previous := first.Scorecards[i-1].SupplierID.String()
		current := first.Scorecards[i].SupplierID.String()
		assert.Less(t, previous, current)
	}
}

func TestGenerateReportCountsNoneDeliveries(t *testing.T) {
	storeID := uuid.New()
	supplierID := uuid.New()
	expected := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	repo := &stubPerformanceRepo{
		orders: []models.PurchaseOrder{
			deliveredOrder(storeID, supplierID, expected, expected, enums.DeliveryClassificationNone, []models.OrderLineItem{
				{Qty: 8, DeliveredQty: intPtr(0)},
			}),
		},
		suppliers: []models.Supplier{{ID: supplierID, Name: "Harvest Foods"}},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	report, err := svc.GenerateReport(context.Background(), storeID, nil, expected.AddDate(0, -1, 0), expected.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, report.Scorecards, 1)

	card := report.Scorecards[0]
	assert.Equal(t, 1, card.OrdersDelivered)
	assert.True(t, card.AccuracyRate.Equal(decimal.Zero))
	// On time but nothing arrived: only the on-time weight contributes.
	assert.True(t, card.Score.Equal(decimal.NewFromInt(40)), "score was %s", card.Score)
}

func TestGenerateReportValidatesPeriod(t *testing.T) {
	svc, err := NewService(&stubPerformanceRepo{})
	require.NoError(t, err)

	from := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.GenerateReport(context.Background(), uuid.New(), nil, from, from)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.GenerateReport(context.Background(), uuid.Nil, nil, from, from.AddDate(0, 1, 0))
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	empty := uuid.Nil
	_, err = svc.GenerateReport(context.Background(), uuid.New(), &empty, from, from.AddDate(0, 1, 0))
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
