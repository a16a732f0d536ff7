package reporting

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
)

func testEngine() *analytics.Engine {
	return analytics.NewEngine(config.DefaultAnalytics(), time.UTC, 2)
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 8, 0, 0, 0, time.UTC)
}

// weekSnapshot covers ISO week 2024-W11 with one healthy and one struggling cage.
func weekSnapshot() models.Snapshot {
	return models.Snapshot{
		AccountID: "acc-1",
		Units: []models.ProductionUnit{
			{ID: "A", AccountID: "acc-1", Name: "Cage A", Species: "tilapia", FishCount: 1000, InitialFishCount: 1000, AverageWeight: 0.5, GrowthRate: "2.5%", Status: models.UnitActive},
			{ID: "B", AccountID: "acc-1", Name: "Cage B", Species: "tilapia", FishCount: 2000, InitialFishCount: 2000, AverageWeight: 0.5, FCR: 2.6, MortalityRate: 12, Status: models.UnitActive},
		},
		Feedings: []models.FeedingSession{
			{ID: "f1", UnitID: "A", FedAt: at(2024, 3, 11), QuantityKg: 40},
			{ID: "f2", UnitID: "A", FedAt: at(2024, 3, 14), QuantityKg: 35},
			{ID: "f3", UnitID: "B", FedAt: at(2024, 3, 12), QuantityKg: 200},
		},
		Sales: []models.Sale{
			{ID: "s1", UnitID: "A", SoldAt: at(2024, 3, 15), QuantityKg: 500, PricePerKg: 4},
			{ID: "s2", UnitID: "B", SoldAt: at(2024, 3, 15), TotalAmount: 970, QuantityKg: 250},
		},
		Costs: []models.CostEntry{
			{ID: "c1", UnitID: "A", IncurredAt: at(2024, 3, 12), Category: "Aliment", Amount: 1200},
			{ID: "c2", UnitID: "A", IncurredAt: at(2024, 3, 13), Category: "salaire", Amount: 300},
			{ID: "c3", UnitID: "B", IncurredAt: at(2024, 3, 13), Category: "feed", Amount: 1000},
			{ID: "c4", IncurredAt: at(2024, 3, 16), Category: "carburant", Amount: 100},
		},
		Mortalities: []models.MortalityEvent{
			{ID: "m1", UnitID: "A", RecordedAt: at(2024, 3, 13), Count: 20},
			{ID: "m2", UnitID: "A", RecordedAt: at(2024, 3, 16), Count: 30},
		},
		WaterQuality: []models.WaterQualitySample{
			{ID: "w1", UnitID: "A", SampledAt: at(2024, 3, 12), Temperature: 28, PH: 7.2, DissolvedOxygen: 6, Ammonia: 0.1},
			{ID: "w2", UnitID: "A", SampledAt: at(2024, 3, 14), Temperature: 30, PH: 7.4, DissolvedOxygen: 5, Ammonia: 0.3},
		},
	}
}

// cycleSnapshot has no cage and a single cycle closed in the first quarter of 2024.
func cycleSnapshot() models.Snapshot {
	end := at(2024, 3, 20)
	return models.Snapshot{
		AccountID: "acc-2",
		Cycles: []models.ProductionCycle{{
			ID:               "cy1",
			AccountID:        "acc-2",
			UnitID:           "A",
			Species:          "tilapia",
			StartDate:        at(2024, 1, 10),
			EndDate:          &end,
			InitialFishCount: 1000,
			FinalFishCount:   980,
			TotalRevenue:     10000,
			TotalCost:        6000,
			Status:           "completed",
		}},
	}
}

type staticSource struct {
	snap models.Snapshot
	err  error
}

func (s staticSource) Units(context.Context, string) ([]models.ProductionUnit, error) {
	return s.snap.Units, s.err
}

func (s staticSource) FeedingSessions(context.Context, string) ([]models.FeedingSession, error) {
	return s.snap.Feedings, nil
}

func (s staticSource) Sales(context.Context, string) ([]models.Sale, error) {
	return s.snap.Sales, nil
}

func (s staticSource) CostEntries(context.Context, string) ([]models.CostEntry, error) {
	return s.snap.Costs, nil
}

func (s staticSource) MortalityEvents(context.Context, string) ([]models.MortalityEvent, error) {
	return s.snap.Mortalities, nil
}

func (s staticSource) WaterQuality(context.Context, string) ([]models.WaterQualitySample, error) {
	return s.snap.WaterQuality, nil
}

func (s staticSource) Cycles(context.Context, string) ([]models.ProductionCycle, error) {
	return s.snap.Cycles, nil
}

type memoryStore struct {
	saved []models.StoredReport
	err   error
}

func (m *memoryStore) SaveReport(_ context.Context, r models.StoredReport) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r)
	return nil
}

var errStore = errors.New("store unavailable")

func metric(r models.Report, key string) (float64, bool) {
	for _, m := range r.Summary {
		if m.Key == key {
			return m.Value, true
		}
	}
	return 0, false
}

func tableTitles(r models.Report) []string {
	out := make([]string, 0, len(r.Tables))
	for _, t := range r.Tables {
		out = append(out, t.Title)
	}
	return out
}

var spaces = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// normalizeSpaces folds the no-break spaces used as French group separators.
func normalizeSpaces(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = spaces.Replace(c)
	}
	return out
}
