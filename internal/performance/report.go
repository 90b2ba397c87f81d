package performance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avelarsoto/storeops-backend/pkg/db/models"
	"github.com/avelarsoto/storeops-backend/pkg/enums"
)

// Scorecard weights. On-time and accuracy dominate; a bonus share rewards
// deliveries classified complete.
var (
	weightOnTime   = decimal.NewFromFloat(0.4)
	weightAccuracy = decimal.NewFromFloat(0.4)
	weightPerfect  = decimal.NewFromFloat(0.2)
	scoreScale     = decimal.NewFromInt(100)
)

// SupplierScorecard is one supplier's aggregated delivery performance for
// the reporting period. Rates are fractions in [0, 1]; Score is 0-100.
type SupplierScorecard struct {
	SupplierID      uuid.UUID       `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	OrdersDelivered int             `json:"orders_delivered"`
	UnitsOrdered    int             `json:"units_ordered"`
	UnitsDelivered  int             `json:"units_delivered"`
	OnTimeRate      decimal.Decimal `json:"on_time_rate"`
	AccuracyRate    decimal.Decimal `json:"accuracy_rate"`
	PerfectRate     decimal.Decimal `json:"perfect_rate"`
	Score           decimal.Decimal `json:"score"`
}

// Report is a deterministic supplier performance summary: the same delivered
// orders always produce byte-identical scorecards in the same order.
type Report struct {
	StoreID     uuid.UUID           `json:"store_id"`
	PeriodFrom  time.Time           `json:"period_from"`
	PeriodTo    time.Time           `json:"period_to"`
	GeneratedAt time.Time           `json:"generated_at"`
	Scorecards  []SupplierScorecard `json:"scorecards"`
}

type supplierAccumulator struct {
	delivered      int
	onTime         int
	perfect        int
	linesTotal     int
	linesMatched   int
	unitsOrdered   int
	unitsDelivered int
}

// BuildReport aggregates delivered orders into per-supplier scorecards.
// Ordering is score descending, then delivered count descending, then
// supplier id ascending, so equal inputs always rank identically.
func BuildReport(storeID uuid.UUID, from, to, generatedAt time.Time, orders []models.PurchaseOrder, supplierNames map[uuid.UUID]string) *Report {
	accumulators := make(map[uuid.UUID]*supplierAccumulator)
	for _, order := range orders {
		acc := accumulators[order.SupplierID]
		if acc == nil {
			acc = &supplierAccumulator{}
			accumulators[order.SupplierID] = acc
		}
		acc.delivered++

		if order.ExpectedDeliveryDate != nil &&
			order.ActualDeliveryDate != nil &&
			!order.ActualDeliveryDate.After(*order.ExpectedDeliveryDate) {
			acc.onTime++
		}
		// Perfect means classified complete; lateness is scored separately
		// through the on-time rate.
		if order.DeliveryClassification != nil &&
			*order.DeliveryClassification == enums.DeliveryClassificationComplete {
			acc.perfect++
		}

		for _, item := range order.Items {
			acc.linesTotal++
			acc.unitsOrdered += item.Qty
			if item.DeliveredQty != nil {
				acc.unitsDelivered += *item.DeliveredQty
				if *item.DeliveredQty == item.Qty {
					acc.linesMatched++
				}
			}
		}
	}

	scorecards := make([]SupplierScorecard, 0, len(accumulators))
	for supplierID, acc := range accumulators {
		onTimeRate := ratio(acc.onTime, acc.delivered)
		accuracyRate := ratio(acc.linesMatched, acc.linesTotal)
		perfectRate := ratio(acc.perfect, acc.delivered)

		score := weightOnTime.Mul(onTimeRate).
			Add(weightAccuracy.Mul(accuracyRate)).
			Add(weightPerfect.Mul(perfectRate)).
			Mul(scoreScale).
			Round(2)

		scorecards = append(scorecards, SupplierScorecard{
			SupplierID:      supplierID,
			SupplierName:    supplierNames[supplierID],
			OrdersDelivered: acc.delivered,
			UnitsOrdered:    acc.unitsOrdered,
			UnitsDelivered:  acc.unitsDelivered,
			OnTimeRate:      onTimeRate,
			AccuracyRate:    accuracyRate,
			PerfectRate:     perfectRate,
			Score:           score,
		})
	}

	sort.Slice(scorecards, func(i, j int) bool {
		if !scorecards[i].Score.Equal(scorecards[j].Score) {
			return scorecards[i].Score.GreaterThan(scorecards[j].Score)
		}
		if scorecards[i].OrdersDelivered != scorecards[j].OrdersDelivered {
			return scorecards[i].OrdersDelivered > scorecards[j].OrdersDelivered
		}
		return scorecards[i].SupplierID.String() < scorecards[j].SupplierID.String()
	})

	return &Report{
		StoreID:     storeID,
		PeriodFrom:  from,
		PeriodTo:    to,
		GeneratedAt: generatedAt,
		Scorecards:  scorecards,
	}
}

func ratio(numerator, denominator int) decimal.Decimal {
	if denominator == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(numerator)).
		Div(decimal.NewFromInt(int64(denominator))).
		Round(4)
}
