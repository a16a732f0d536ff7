package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

func testComparator() *Comparator {
	cfg := config.DefaultAnalytics()
	return NewComparator(cfg.Benchmarks, NewScorer(cfg.Scoring))
}

func TestComparator_Profile(t *testing.T) {
	c := testComparator()

	tests := []struct {
		species, region string
		wantSpecies     string
		wantRegion      string
	}{
		{"tilapia", "west_africa", "tilapia", "west_africa"},
		{"Tilapia", "West Africa", "tilapia", "west_africa"},
		{"tilapia", "south_asia", "tilapia", "global"},
		{"tilapia", "", "tilapia", "global"},
		{"shrimp", "east_africa", "default", "global"},
		{"", "", "default", "global"},
	}
	for _, tt := range tests {
		p := c.Profile(tt.species, tt.region)
		assert.Equal(t, tt.wantSpecies, p.Species, "%s/%s", tt.species, tt.region)
		assert.Equal(t, tt.wantRegion, p.Region, "%s/%s", tt.species, tt.region)
	}

	empty := NewComparator(nil, nil).Profile("tilapia", "west_africa")
	assert.Equal(t, "default", empty.Species)
}

func TestComparator_Regional(t *testing.T) {
	c := testComparator()

	assert.Len(t, c.Regional("west_africa", ""), 2)
	assert.Len(t, c.Regional("west_africa", "catfish"), 1)
	assert.Len(t, c.Regional("", "tilapia"), 3)
	assert.Empty(t, c.Regional("antarctica", ""))
}

func TestComparator_Compare(t *testing.T) {
	c := testComparator()
	p := c.Profile("tilapia", "west_africa")

	cmps := c.Compare(FarmMetrics{FCR: 1.6, SurvivalRate: 85, ROI: 10, ProfitMargin: 9}, p)
	require.Len(t, cmps, 4)

	byMetric := make(map[string]models.BenchmarkComparison)
	for _, cmp := range cmps {
		byMetric[cmp.Metric] = cmp
	}

	fcr := byMetric[MetricFCR]
	assert.True(t, fcr.Better)
	assert.Equal(t, models.PositionBelow, fcr.Position)
	assert.Equal(t, -0.2, fcr.Difference)

	survival := byMetric[MetricSurvival]
	assert.True(t, survival.Better)
	assert.Equal(t, models.PositionAbove, survival.Position)

	assert.False(t, byMetric[MetricROI].Better)
	assert.False(t, byMetric[MetricProfitMargin].Better)

	withCosts := c.Compare(FarmMetrics{FCR: 1.6, CostPerKg: 2.5, CycleDays: 160}, p)
	require.Len(t, withCosts, 6)
	assert.False(t, withCosts[4].Better)
	assert.True(t, withCosts[5].Better)
}

func TestComparator_ZeroFCRIsNeverBetter(t *testing.T) {
	c := testComparator()

	cmps := c.Compare(FarmMetrics{}, c.Profile("tilapia", "global"))
	assert.False(t, cmps[0].Better)
}

func TestComparator_Recommendations(t *testing.T) {
	c := testComparator()
	p := c.Profile("tilapia", "west_africa")

	recs := c.Recommendations(c.Compare(FarmMetrics{FCR: 1.6, SurvivalRate: 85, ROI: 10, ProfitMargin: 9}, p))
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "ROI")
	assert.Contains(t, recs[1], "Marge")

	good := c.Recommendations(c.Compare(FarmMetrics{FCR: 1.2, SurvivalRate: 95, ROI: 40, ProfitMargin: 35}, p))
	require.Len(t, good, 1)
	assert.Contains(t, good[0], "maintenir")
}

func TestComparator_CompositeScore(t *testing.T) {
	c := testComparator()

	// 50 + 30 + 25 + 30 + 15, clamped
	top := c.CompositeScore(FarmMetrics{FCR: 1.4, MortalityRate: 2, ROI: 30, GrowthRate: 3})
	assert.Equal(t, 100, top.Score)

	// 50 - 10 - 10 - 10
	low := c.CompositeScore(FarmMetrics{FCR: 2.8, MortalityRate: 15, ROI: -20})
	assert.Equal(t, 20, low.Score)
	assert.Equal(t, models.CategoryCritical, low.Category)
}

func TestSummarizeFarm(t *testing.T) {
	units := []models.UnitMetrics{
		{UnitID: "A", FCR: 1.5, Biomass: 500, SurvivalRate: 95, MortalityRate: 5, GrowthRate: 2.5},
		{UnitID: "B", FCR: 2.6, Biomass: 1000, SurvivalRate: 88, MortalityRate: 12},
		{UnitID: "E", Biomass: 300},
	}
	global := models.GlobalMetrics{Revenue: 2970, Costs: 2600, ROI: 14.23, Margin: 12.46}

	f := SummarizeFarm("tilapia", "west_africa", global, units, 750, CycleSummary{AvgDurationDays: 175})
	assert.Equal(t, 2, f.ActiveCages)
	assert.Equal(t, 2.23, f.FCR)
	assert.Equal(t, 91.5, f.SurvivalRate)
	assert.Equal(t, 8.5, f.MortalityRate)
	assert.Equal(t, 1.25, f.GrowthRate)
	assert.Equal(t, 3.47, f.CostPerKg)
	assert.Equal(t, 14.23, f.ROI)
	assert.Equal(t, 175.0, f.CycleDays)

	empty := SummarizeFarm("tilapia", "", models.GlobalMetrics{}, nil, 0, CycleSummary{})
	assert.Zero(t, empty.FCR)
	assert.Zero(t, empty.CostPerKg)
}

func TestBestPractices_WeakMetricsFirst(t *testing.T) {
	practices := BestPractices([]models.BenchmarkComparison{
		{Metric: MetricFCR, Better: true},
		{Metric: MetricROI, Better: false},
	})
	require.NotEmpty(t, practices)
	assert.Equal(t, MetricROI, practices[0].Metric)
	assert.Equal(t, "high", practices[0].Priority)
	assert.Equal(t, "normal", practices[1].Priority)
	assert.Len(t, practices, len(bestPractices))
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "Top 10%", RankLabel(90))
	assert.Equal(t, "Top 25%", RankLabel(75))
	assert.Equal(t, "Moitié supérieure", RankLabel(60))
	assert.Equal(t, "Moitié inférieure", RankLabel(25))
}
