package reporting

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
)

// Summary metric keys.
const (
	MetricRevenue      = "revenue"
	MetricCosts        = "costs"
	MetricProfit       = "profit"
	MetricROI          = "roi"
	MetricMargin       = "margin"
	MetricFeedKg       = "feed_kg"
	MetricDeaths       = "deaths"
	MetricFCR          = "fcr"
	MetricSurvival     = "survival_rate"
	MetricAverageScore = "average_score"
	MetricCycles       = "cycles_closed"
	MetricCycleRevenue = "cycle_revenue"
	MetricCycleCost    = "cycle_cost"
	MetricCycleProfit  = "cycle_profit"
	MetricCycleROI     = "cycle_roi"
	MetricQuarterScore = "quarter_score"
)

var costLabels = []struct {
	key   string
	label string
}{
	{"feed", "Aliment"},
	{"labor", "Main-d'œuvre"},
	{"veterinary", "Vétérinaire"},
	{"equipment", "Équipement"},
	{"other", "Autres"},
}

// Composer assembles period reports from the analytics engine outputs.
type Composer struct {
	engine *analytics.Engine
	water  config.WaterQualityConfig
	format formatter
}

// NewComposer builds a Composer printing numbers for locale.
func NewComposer(engine *analytics.Engine, locale string) *Composer {
	return &Composer{
		engine: engine,
		water:  engine.Config().WaterQuality,
		format: newFormatter(locale),
	}
}

// Compose builds the report of type p for the period containing ref.
func (c *Composer) Compose(ctx context.Context, p models.PeriodType, ref time.Time, snap models.Snapshot) (models.Report, error) {
	agg := c.engine.Aggregator
	period, err := PeriodFor(agg, p, ref)
	if err != nil {
		return models.Report{}, err
	}
	w := windowOf(period)

	cages, err := c.engine.EvaluateUnits(ctx, snap, w)
	if err != nil {
		return models.Report{}, err
	}
	metrics := make([]models.UnitMetrics, len(cages))
	var scoreSum float64
	for i, cage := range cages {
		metrics[i] = cage.Metrics
		scoreSum += float64(cage.Score.Score)
	}
	var avgScore float64
	if len(cages) > 0 {
		avgScore = math.Round(scoreSum/float64(len(cages))*10) / 10
	}

	global := agg.GlobalMetrics(snap, w)
	farm := analytics.SummarizeFarm("", "", global, metrics, analytics.KilogramsSold(snap, w), analytics.CycleSummary{})

	buckets, err := agg.Aggregate(snap, w, period.Granularity)
	if err != nil {
		return models.Report{}, err
	}
	var feed float64
	var deaths int
	for _, b := range buckets {
		feed += b.FeedKg
		deaths += b.Mortality
	}

	report := models.Report{
		AccountID:   snap.AccountID,
		Period:      p,
		Title:       title(p, period),
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Summary: []models.ReportMetric{
			{Key: MetricRevenue, Label: "Chiffre d'affaires", Value: global.Revenue},
			{Key: MetricCosts, Label: "Coûts", Value: global.Costs},
			{Key: MetricProfit, Label: "Bénéfice", Value: global.Profit},
			{Key: MetricROI, Label: "ROI", Value: global.ROI, Unit: "%"},
			{Key: MetricMargin, Label: "Marge", Value: global.Margin, Unit: "%"},
			{Key: MetricFeedKg, Label: "Aliment distribué", Value: math.Round(feed*100) / 100, Unit: "kg"},
			{Key: MetricDeaths, Label: "Mortalité", Value: float64(deaths), Unit: "poissons"},
			{Key: MetricFCR, Label: "FCR moyen", Value: farm.FCR},
			{Key: MetricSurvival, Label: "Survie moyenne", Value: farm.SurvivalRate, Unit: "%"},
			{Key: MetricAverageScore, Label: "Score moyen", Value: avgScore, Unit: "/100"},
		},
		Tables: []models.ReportTable{c.cageTable(cages)},
	}

	if p == models.PeriodDaily {
		report.Tables = append(report.Tables, c.activityTable(buckets, cages))
	} else {
		trend, err := agg.Aggregate(snap, w, trendGranularity(p))
		if err != nil {
			return models.Report{}, err
		}
		report.Tables = append(report.Tables, c.trendTable(p, trend), c.costTable(agg.CostBreakdown(snap, w)))
	}
	if table, ok := c.waterTable(buckets, cages); ok {
		report.Tables = append(report.Tables, table)
	}

	if p == models.PeriodQuarterly {
		cycles := agg.CycleMetrics(snap.Cycles, w)
		score := c.engine.Scorer.Score(analytics.ScoreInput{
			FCR:           farm.FCR,
			MortalityRate: cycles.MortalityRate,
			ROI:           cycles.ROI,
			GrowthRate:    farm.GrowthRate,
		})
		report.Summary = append(report.Summary,
			models.ReportMetric{Key: MetricCycles, Label: "Cycles clôturés", Value: float64(cycles.Cycles)},
			models.ReportMetric{Key: MetricCycleRevenue, Label: "Revenus des cycles", Value: cycles.Revenue},
			models.ReportMetric{Key: MetricCycleCost, Label: "Coûts des cycles", Value: cycles.Cost},
			models.ReportMetric{Key: MetricCycleProfit, Label: "Bénéfice des cycles", Value: cycles.Profit},
			models.ReportMetric{Key: MetricCycleROI, Label: "ROI des cycles", Value: cycles.ROI, Unit: "%"},
			models.ReportMetric{Key: MetricQuarterScore, Label: "Score du trimestre", Value: float64(score.Score), Unit: "/100"},
		)
		report.Tables = append(report.Tables, c.cycleTable(snap.Cycles, w))
	}

	ops := c.engine.Detector.Detect(metrics, global, nil)
	report.Recommendations = c.recommendations(ops, buckets, cages)

	return report, nil
}

func (c *Composer) cageTable(cages []models.UnitPerformance) models.ReportTable {
	t := models.ReportTable{
		Title:   "Performance par cage",
		Columns: []string{"Cage", "Poissons", "Biomasse (kg)", "FCR", "Survie (%)", "ROI (%)", "Score", "Catégorie"},
		Rows:    [][]string{},
	}
	for _, cage := range cages {
		m := cage.Metrics
		t.Rows = append(t.Rows, []string{
			unitLabel(m.UnitID, m.Name),
			c.format.integer(m.FishCount),
			c.format.fixed(m.Biomass, 1),
			c.format.fixed(m.FCR, 2),
			c.format.fixed(m.SurvivalRate, 1),
			c.format.fixed(m.ROI, 1),
			c.format.integer(cage.Score.Score),
			string(cage.Score.Category),
		})
	}
	return t
}

func (c *Composer) activityTable(buckets []models.PeriodAggregate, cages []models.UnitPerformance) models.ReportTable {
	names := cageNames(cages)
	t := models.ReportTable{
		Title:   "Activité du jour",
		Columns: []string{"Cage", "Aliment (kg)", "Repas", "Ventes", "Coûts", "Mortalité"},
		Rows:    [][]string{},
	}
	for _, b := range buckets {
		name := "Charges générales"
		if b.UnitID != "" {
			name = unitLabel(b.UnitID, names[b.UnitID])
		}
		t.Rows = append(t.Rows, []string{
			name,
			c.format.fixed(b.FeedKg, 1),
			c.format.integer(b.FeedingSessions),
			c.format.fixed(b.Revenue, 2),
			c.format.fixed(b.Costs.Total(), 2),
			c.format.integer(b.Mortality),
		})
	}
	return t
}

type trendRow struct {
	start   time.Time
	feed    float64
	revenue float64
	costs   float64
	deaths  int
}

func (c *Composer) trendTable(p models.PeriodType, buckets []models.PeriodAggregate) models.ReportTable {
	titles := map[models.PeriodType]string{
		models.PeriodWeekly:    "Évolution journalière",
		models.PeriodMonthly:   "Évolution hebdomadaire",
		models.PeriodQuarterly: "Évolution mensuelle",
	}

	rows := make(map[string]*trendRow)
	for _, b := range buckets {
		r, ok := rows[b.Period.Key]
		if !ok {
			r = &trendRow{start: b.Period.Start}
			rows[b.Period.Key] = r
		}
		r.feed += b.FeedKg
		r.revenue += b.Revenue
		r.costs += b.Costs.Total()
		r.deaths += b.Mortality
	}
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return rows[keys[i]].start.Before(rows[keys[j]].start) })

	t := models.ReportTable{
		Title:   titles[p],
		Columns: []string{"Période", "Aliment (kg)", "Ventes", "Coûts", "Mortalité"},
		Rows:    [][]string{},
	}
	for _, k := range keys {
		r := rows[k]
		label := k
		if p == models.PeriodWeekly {
			label = c.format.date(r.start)
		}
		t.Rows = append(t.Rows, []string{
			label,
			c.format.fixed(r.feed, 1),
			c.format.fixed(r.revenue, 2),
			c.format.fixed(r.costs, 2),
			c.format.integer(r.deaths),
		})
	}
	return t
}

func (c *Composer) costTable(b models.CostBreakdown) models.ReportTable {
	amounts := map[string]float64{
		"feed":       b.Feed,
		"labor":      b.Labor,
		"veterinary": b.Veterinary,
		"equipment":  b.Equipment,
		"other":      b.Other,
	}
	total := b.Total()

	t := models.ReportTable{
		Title:   "Répartition des coûts",
		Columns: []string{"Catégorie", "Montant", "Part (%)"},
		Rows:    [][]string{},
	}
	for _, cl := range costLabels {
		amount := amounts[cl.key]
		var share float64
		if total > 0 {
			share = amount / total * 100
		}
		t.Rows = append(t.Rows, []string{cl.label, c.format.fixed(amount, 2), c.format.fixed(share, 1)})
	}
	return t
}

func (c *Composer) waterTable(buckets []models.PeriodAggregate, cages []models.UnitPerformance) (models.ReportTable, bool) {
	names := cageNames(cages)
	t := models.ReportTable{
		Title:   "Qualité de l'eau",
		Columns: []string{"Cage", "Température (°C)", "pH", "Oxygène dissous (mg/L)", "Ammoniac (mg/L)", "Mesures"},
		Rows:    [][]string{},
	}
	for _, b := range buckets {
		if b.WaterSamples == 0 {
			continue
		}
		t.Rows = append(t.Rows, []string{
			unitLabel(b.UnitID, names[b.UnitID]),
			c.format.fixed(b.AvgTemperature, 1),
			c.format.fixed(b.AvgPH, 1),
			c.format.fixed(b.AvgDissolvedOxygen, 1),
			c.format.fixed(b.AvgAmmonia, 2),
			c.format.integer(b.WaterSamples),
		})
	}
	return t, len(t.Rows) > 0
}

func (c *Composer) cycleTable(cycles []models.ProductionCycle, w models.Window) models.ReportTable {
	var closed []models.ProductionCycle
	for _, cy := range cycles {
		if cy.Completed() && w.Contains(*cy.EndDate) {
			closed = append(closed, cy)
		}
	}
	sort.Slice(closed, func(i, j int) bool {
		if !closed[i].EndDate.Equal(*closed[j].EndDate) {
			return closed[i].EndDate.Before(*closed[j].EndDate)
		}
		return closed[i].ID < closed[j].ID
	})

	t := models.ReportTable{
		Title:   "Cycles de production",
		Columns: []string{"Cage", "Début", "Fin", "Poissons initiaux", "Poissons finaux", "Revenus", "Coûts", "ROI (%)"},
		Rows:    [][]string{},
	}
	for _, cy := range closed {
		roi := c.engine.Aggregator.CycleMetrics([]models.ProductionCycle{cy}, w).ROI
		t.Rows = append(t.Rows, []string{
			cy.UnitID,
			c.format.date(cy.StartDate),
			c.format.date(*cy.EndDate),
			c.format.integer(cy.InitialFishCount),
			c.format.integer(cy.FinalFishCount),
			c.format.fixed(cy.TotalRevenue, 2),
			c.format.fixed(cy.TotalCost, 2),
			c.format.fixed(roi, 1),
		})
	}
	return t
}

func cageNames(cages []models.UnitPerformance) map[string]string {
	names := make(map[string]string, len(cages))
	for _, cage := range cages {
		names[cage.Metrics.UnitID] = cage.Metrics.Name
	}
	return names
}

func unitLabel(id, name string) string {
	if name != "" {
		return name
	}
	return id
}
