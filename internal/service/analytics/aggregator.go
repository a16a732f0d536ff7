package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

// Aggregator reduces raw records into per-cage and per-period summaries.
type Aggregator struct {
	weeklyGain float64
	categories map[string]string
	loc        *time.Location
}

// NewAggregator builds an Aggregator bucketing dates in loc (UTC when nil).
func NewAggregator(cfg config.AnalyticsConfig, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	categories := make(map[string]string)
	for bucket, aliases := range cfg.CostCategories {
		categories[normalizeCategory(bucket)] = bucket
		for _, alias := range aliases {
			categories[normalizeCategory(alias)] = bucket
		}
	}
	return &Aggregator{
		weeklyGain: cfg.Growth.WeeklyGainRate,
		categories: categories,
		loc:        loc,
	}
}

// Location returns the timezone used for bucketing.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// PeriodOf returns the bucket of granularity g containing t.
func (a *Aggregator) PeriodOf(g models.Granularity, t time.Time) (models.Period, error) {
	t = t.In(a.loc)
	y, m, d := t.Date()
	var start, end time.Time
	var key string

	switch g {
	case models.GranularityDay:
		start = time.Date(y, m, d, 0, 0, 0, 0, a.loc)
		end = start.AddDate(0, 0, 1)
		key = start.Format("2006-01-02")
	case models.GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, a.loc)
		end = start.AddDate(0, 0, 7)
		isoYear, isoWeek := start.ISOWeek()
		key = fmt.Sprintf("%d-W%02d", isoYear, isoWeek)
	case models.GranularityMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, a.loc)
		end = start.AddDate(0, 1, 0)
		key = start.Format("2006-01")
	case models.GranularityQuarter:
		q := (int(m) - 1) / 3
		start = time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, a.loc)
		end = start.AddDate(0, 3, 0)
		key = fmt.Sprintf("%d-Q%d", y, q+1)
	default:
		return models.Period{}, NewInputError("granularity", "unsupported granularity %q", g)
	}

	return models.Period{Key: key, Granularity: g, Start: start, End: end}, nil
}

// Category maps a free-form cost category onto a breakdown bucket.
func (a *Aggregator) Category(raw string) string {
	if bucket, ok := a.categories[normalizeCategory(raw)]; ok {
		return bucket
	}
	return "other"
}

func (a *Aggregator) addCost(b *models.CostBreakdown, category string, amount float64) {
	switch a.Category(category) {
	case "feed":
		b.Feed += amount
	case "labor":
		b.Labor += amount
	case "veterinary":
		b.Veterinary += amount
	case "equipment":
		b.Equipment += amount
	default:
		b.Other += amount
	}
}

type bucketKey struct {
	unit   string
	period string
}

type bucket struct {
	agg     models.PeriodAggregate
	temp    float64
	ph      float64
	oxygen  float64
	ammonia float64
}

// Aggregate returns one PeriodAggregate per (cage, period) bucket holding at
// least one record inside w. Buckets are ordered by cage id then period start.
func (a *Aggregator) Aggregate(snap models.Snapshot, w models.Window, g models.Granularity) ([]models.PeriodAggregate, error) {
	buckets := make(map[bucketKey]*bucket)
	get := func(unitID string, t time.Time) (*bucket, error) {
		p, err := a.PeriodOf(g, t)
		if err != nil {
			return nil, err
		}
		k := bucketKey{unit: unitID, period: p.Key}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{agg: models.PeriodAggregate{UnitID: unitID, Period: p}}
			buckets[k] = b
		}
		return b, nil
	}

	for _, f := range snap.Feedings {
		if !w.Contains(f.FedAt) {
			continue
		}
		b, err := get(f.UnitID, f.FedAt)
		if err != nil {
			return nil, err
		}
		b.agg.FeedKg += f.QuantityKg
		b.agg.FeedingSessions++
	}
	for _, s := range snap.Sales {
		if !w.Contains(s.SoldAt) {
			continue
		}
		b, err := get(s.UnitID, s.SoldAt)
		if err != nil {
			return nil, err
		}
		b.agg.Revenue += s.Amount()
		b.agg.Sales++
	}
	for _, c := range snap.Costs {
		if !w.Contains(c.IncurredAt) {
			continue
		}
		b, err := get(c.UnitID, c.IncurredAt)
		if err != nil {
			return nil, err
		}
		a.addCost(&b.agg.Costs, c.Category, c.Amount)
	}
	for _, m := range snap.Mortalities {
		if !w.Contains(m.RecordedAt) {
			continue
		}
		b, err := get(m.UnitID, m.RecordedAt)
		if err != nil {
			return nil, err
		}
		b.agg.Mortality += m.Count
	}
	for _, q := range snap.WaterQuality {
		if !w.Contains(q.SampledAt) {
			continue
		}
		b, err := get(q.UnitID, q.SampledAt)
		if err != nil {
			return nil, err
		}
		b.agg.WaterSamples++
		b.temp += q.Temperature
		b.ph += q.PH
		b.oxygen += q.DissolvedOxygen
		b.ammonia += q.Ammonia
	}

	units := indexUnits(snap.Units)
	out := make([]models.PeriodAggregate, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, a.finalize(b, units[b.agg.UnitID], snap.Mortalities, w))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitID != out[j].UnitID {
			return out[i].UnitID < out[j].UnitID
		}
		return out[i].Period.Start.Before(out[j].Period.Start)
	})

	return out, nil
}

func (a *Aggregator) finalize(b *bucket, unit models.ProductionUnit, deaths []models.MortalityEvent, w models.Window) models.PeriodAggregate {
	agg := b.agg
	agg.FishCount = unit.FishCount
	agg.Biomass = unit.Biomass()

	// Weight gain is estimated, not measured: a flat weekly fraction of the
	// current average weight over the days of the bucket inside the window.
	weeks := overlapDays(agg.Period.Start, agg.Period.End, w) / 7
	agg.EstimatedGainKg = float64(agg.FishCount) * unit.AverageWeight * a.weeklyGain * weeks
	if agg.FeedingSessions > 0 {
		agg.FCR = ratio(agg.FeedKg, agg.EstimatedGainKg)
		agg.FCREstimated = agg.FCR > 0
	}

	initial := initialCount(unit, deaths)
	cumulative := 0
	for _, m := range deaths {
		if m.UnitID == unit.ID && m.RecordedAt.Before(agg.Period.End) {
			cumulative += m.Count
		}
	}
	if unit.ID != "" && initial > 0 {
		agg.SurvivalRate = clamp(100-ratio(float64(cumulative), float64(initial))*100, 0, 100)
	}

	agg.ROI = roiPercent(agg.Revenue, agg.Costs.Total())

	if n := float64(agg.WaterSamples); n > 0 {
		agg.AvgTemperature = b.temp / n
		agg.AvgPH = b.ph / n
		agg.AvgDissolvedOxygen = b.oxygen / n
		agg.AvgAmmonia = b.ammonia / n
	}

	return roundAggregate(agg)
}

// UnitMetrics computes the current figures of every cage over w, ordered by
// cage id. A cage with no fish or no feeding record in w is inactive: its
// FCR, survival and ROI resolve to 0.
func (a *Aggregator) UnitMetrics(snap models.Snapshot, w models.Window) []models.UnitMetrics {
	units := append([]models.ProductionUnit(nil), snap.Units...)
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })

	out := make([]models.UnitMetrics, 0, len(units))
	for _, u := range units {
		out = append(out, a.unitMetrics(u, snap, w))
	}
	return out
}

func (a *Aggregator) unitMetrics(u models.ProductionUnit, snap models.Snapshot, w models.Window) models.UnitMetrics {
	m := models.UnitMetrics{
		UnitID:        u.ID,
		Name:          u.Name,
		Species:       u.Species,
		Status:        u.Status,
		FishCount:     u.FishCount,
		AverageWeight: u.AverageWeight,
		Biomass:       u.Biomass(),
		GrowthRate:    u.GrowthRatePercent(),
	}

	var sessions int
	var first, last time.Time
	for _, f := range snap.Feedings {
		if f.UnitID != u.ID || !w.Contains(f.FedAt) {
			continue
		}
		m.FeedKg += f.QuantityKg
		sessions++
		if first.IsZero() || f.FedAt.Before(first) {
			first = f.FedAt
		}
		if f.FedAt.After(last) {
			last = f.FedAt
		}
	}
	for _, s := range snap.Sales {
		if s.UnitID == u.ID && w.Contains(s.SoldAt) {
			m.Revenue += s.Amount()
		}
	}
	for _, c := range snap.Costs {
		if c.UnitID == u.ID && w.Contains(c.IncurredAt) {
			m.Cost += c.Amount
		}
	}
	deaths := 0
	for _, d := range snap.Mortalities {
		if d.UnitID == u.ID && w.Contains(d.RecordedAt) {
			deaths += d.Count
		}
	}
	m.Profit = m.Revenue - m.Cost

	m.MortalityRate = u.MortalityRate
	if m.MortalityRate <= 0 {
		m.MortalityRate = ratio(float64(deaths), float64(initialCount(u, snap.Mortalities))) * 100
	}

	if u.FishCount > 0 && sessions > 0 {
		m.FCR = u.FCR
		if m.FCR <= 0 {
			days := windowDays(w, first, last)
			gain := float64(u.FishCount) * u.AverageWeight * a.weeklyGain * days / 7
			m.FCR = ratio(m.FeedKg, gain)
		}
		m.SurvivalRate = clamp(100-m.MortalityRate, 0, 100)
		m.ROI = roiPercent(m.Revenue, m.Cost)
	}

	return roundUnitMetrics(m)
}

// GlobalMetrics returns farm-wide totals over w, all zero without data.
func (a *Aggregator) GlobalMetrics(snap models.Snapshot, w models.Window) models.GlobalMetrics {
	var g models.GlobalMetrics
	for _, s := range snap.Sales {
		if w.Contains(s.SoldAt) {
			g.Revenue += s.Amount()
		}
	}
	for _, c := range snap.Costs {
		if w.Contains(c.IncurredAt) {
			g.Costs += c.Amount
		}
	}
	g.Profit = g.Revenue - g.Costs
	g.ROI = roiPercent(g.Revenue, g.Costs)
	g.Margin = marginPercent(g.Revenue, g.Costs)

	return models.GlobalMetrics{
		Revenue: round2(g.Revenue),
		Costs:   round2(g.Costs),
		Profit:  round2(g.Profit),
		ROI:     round2(g.ROI),
		Margin:  round2(g.Margin),
	}
}

// CostBreakdown buckets every cost inside w, overhead included.
func (a *Aggregator) CostBreakdown(snap models.Snapshot, w models.Window) models.CostBreakdown {
	var b models.CostBreakdown
	for _, c := range snap.Costs {
		if w.Contains(c.IncurredAt) {
			a.addCost(&b, c.Category, c.Amount)
		}
	}
	return b
}

// CycleSummary aggregates production cycles closed in a window.
type CycleSummary struct {
	Cycles          int     `json:"cycles"`
	Revenue         float64 `json:"revenue"`
	Cost            float64 `json:"cost"`
	Profit          float64 `json:"profit"`
	ROI             float64 `json:"roi"`
	Margin          float64 `json:"margin"`
	SurvivalRate    float64 `json:"survival_rate"`
	MortalityRate   float64 `json:"mortality_rate"`
	AvgDurationDays float64 `json:"avg_duration_days"`
}

// CycleMetrics summarizes cycles that ended inside w.
func (a *Aggregator) CycleMetrics(cycles []models.ProductionCycle, w models.Window) CycleSummary {
	var s CycleSummary
	var initial, final int
	var days float64
	for _, c := range cycles {
		if !c.Completed() || !w.Contains(*c.EndDate) {
			continue
		}
		s.Cycles++
		s.Revenue += c.TotalRevenue
		s.Cost += c.TotalCost
		initial += c.InitialFishCount
		final += c.FinalFishCount
		days += c.EndDate.Sub(c.StartDate).Hours() / 24
	}
	s.Profit = s.Revenue - s.Cost
	s.ROI = roiPercent(s.Revenue, s.Cost)
	s.Margin = marginPercent(s.Revenue, s.Cost)
	if initial > 0 {
		s.SurvivalRate = clamp(ratio(float64(final), float64(initial))*100, 0, 100)
		s.MortalityRate = 100 - s.SurvivalRate
	}
	s.AvgDurationDays = ratio(days, float64(s.Cycles))

	return CycleSummary{
		Cycles:          s.Cycles,
		Revenue:         round2(s.Revenue),
		Cost:            round2(s.Cost),
		Profit:          round2(s.Profit),
		ROI:             round2(s.ROI),
		Margin:          round2(s.Margin),
		SurvivalRate:    round2(s.SurvivalRate),
		MortalityRate:   round2(s.MortalityRate),
		AvgDurationDays: round(s.AvgDurationDays, 1),
	}
}

func indexUnits(units []models.ProductionUnit) map[string]models.ProductionUnit {
	idx := make(map[string]models.ProductionUnit, len(units))
	for _, u := range units {
		idx[u.ID] = u
	}
	return idx
}

// initialCount prefers the recorded stocking count and otherwise rebuilds it
// from the current count plus every recorded death.
func initialCount(u models.ProductionUnit, deaths []models.MortalityEvent) int {
	if u.InitialFishCount > 0 {
		return u.InitialFishCount
	}
	n := u.FishCount
	for _, m := range deaths {
		if m.UnitID == u.ID {
			n += m.Count
		}
	}
	return n
}

func overlapDays(start, end time.Time, w models.Window) float64 {
	if !w.Start.IsZero() && w.Start.After(start) {
		start = w.Start
	}
	if !w.End.IsZero() && w.End.Before(end) {
		// the window end is inclusive
		end = w.End.Add(time.Nanosecond)
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours() / 24
}

// windowDays is the length of w in days; open bounds fall back to the span of
// observed records, and never less than one day.
func windowDays(w models.Window, first, last time.Time) float64 {
	start, end := w.Start, w.End
	if start.IsZero() {
		start = first
	}
	if end.IsZero() {
		end = last
	}
	d := end.Sub(start).Hours() / 24
	if d < 1 {
		return 1
	}
	return d
}

func normalizeCategory(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func roundAggregate(a models.PeriodAggregate) models.PeriodAggregate {
	a.FeedKg = round2(a.FeedKg)
	a.Revenue = round2(a.Revenue)
	a.Costs = models.CostBreakdown{
		Feed:       round2(a.Costs.Feed),
		Labor:      round2(a.Costs.Labor),
		Veterinary: round2(a.Costs.Veterinary),
		Equipment:  round2(a.Costs.Equipment),
		Other:      round2(a.Costs.Other),
	}
	a.Biomass = round2(a.Biomass)
	a.EstimatedGainKg = round2(a.EstimatedGainKg)
	a.FCR = round2(a.FCR)
	a.SurvivalRate = round2(a.SurvivalRate)
	a.ROI = round2(a.ROI)
	a.AvgTemperature = round2(a.AvgTemperature)
	a.AvgPH = round2(a.AvgPH)
	a.AvgDissolvedOxygen = round2(a.AvgDissolvedOxygen)
	a.AvgAmmonia = round(a.AvgAmmonia, 3)
	return a
}

func roundUnitMetrics(m models.UnitMetrics) models.UnitMetrics {
	m.Biomass = round2(m.Biomass)
	m.FeedKg = round2(m.FeedKg)
	m.FCR = round2(m.FCR)
	m.MortalityRate = round2(m.MortalityRate)
	m.SurvivalRate = round2(m.SurvivalRate)
	m.Revenue = round2(m.Revenue)
	m.Cost = round2(m.Cost)
	m.Profit = round2(m.Profit)
	m.ROI = round2(m.ROI)
	return m
}
