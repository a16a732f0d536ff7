package analytics

import (
	"time"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

func testEngine() *Engine {
	return NewEngine(config.DefaultAnalytics(), time.UTC, 4)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 8, 0, 0, 0, time.UTC)
}

// weekOf2024W11 covers Monday 11 March to Sunday 17 March 2024 inclusive.
func weekOf2024W11() models.Window {
	return models.Window{
		Start: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
	}
}

// farmSnapshot has one healthy cage (A) and one struggling cage (B).
func farmSnapshot() models.Snapshot {
	return models.Snapshot{
		AccountID: "acc-1",
		Units: []models.ProductionUnit{
			{ID: "B", AccountID: "acc-1", Name: "Cage B", Species: "tilapia", FishCount: 2000, InitialFishCount: 2000, AverageWeight: 0.5, FCR: 2.6, MortalityRate: 12, Status: models.UnitActive},
			{ID: "A", AccountID: "acc-1", Name: "Cage A", Species: "tilapia", FishCount: 1000, InitialFishCount: 1000, AverageWeight: 0.5, GrowthRate: "2.5%", Status: models.UnitActive},
		},
		Feedings: []models.FeedingSession{
			{ID: "f1", UnitID: "A", FedAt: date(2024, 3, 11), QuantityKg: 40},
			{ID: "f2", UnitID: "A", FedAt: date(2024, 3, 14), QuantityKg: 35},
			{ID: "f3", UnitID: "B", FedAt: date(2024, 3, 12), QuantityKg: 200},
		},
		Sales: []models.Sale{
			{ID: "s1", UnitID: "A", SoldAt: date(2024, 3, 15), QuantityKg: 500, PricePerKg: 4},
			{ID: "s2", UnitID: "B", SoldAt: date(2024, 3, 15), TotalAmount: 970, QuantityKg: 250},
		},
		Costs: []models.CostEntry{
			{ID: "c1", UnitID: "A", IncurredAt: date(2024, 3, 12), Category: "Aliment", Amount: 1200},
			{ID: "c2", UnitID: "A", IncurredAt: date(2024, 3, 13), Category: "salaire", Amount: 300},
			{ID: "c3", UnitID: "B", IncurredAt: date(2024, 3, 13), Category: "feed", Amount: 1000},
			{ID: "c4", IncurredAt: date(2024, 3, 16), Category: "carburant", Amount: 100},
		},
		Mortalities: []models.MortalityEvent{
			{ID: "m1", UnitID: "A", RecordedAt: date(2024, 3, 13), Count: 20},
			{ID: "m2", UnitID: "A", RecordedAt: date(2024, 3, 16), Count: 30},
		},
		WaterQuality: []models.WaterQualitySample{
			{ID: "w1", UnitID: "A", SampledAt: date(2024, 3, 12), Temperature: 28, PH: 7.2, DissolvedOxygen: 6, Ammonia: 0.1},
			{ID: "w2", UnitID: "A", SampledAt: date(2024, 3, 14), Temperature: 30, PH: 7.4, DissolvedOxygen: 5, Ammonia: 0.3},
		},
	}
}
