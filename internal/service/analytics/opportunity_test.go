package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

func TestDetector_StrugglingCage(t *testing.T) {
	d := NewDetector(config.DefaultAnalytics())

	ops := d.DetectUnit(models.UnitMetrics{
		UnitID:        "B",
		Name:          "Cage B",
		FCR:           2.6,
		MortalityRate: 12,
		ROI:           -3,
		Biomass:       1000,
		AverageWeight: 0.5,
		Cost:          1000,
		Revenue:       970,
	})
	require.Len(t, ops, 2)

	assert.Equal(t, models.OpportunityFCR, ops[0].Type)
	assert.Equal(t, models.PriorityCritical, ops[0].Priority)
	assert.Equal(t, "fcr_optimization:B", ops[0].ID)
	assert.Equal(t, 960.0, ops[0].PotentialSavings)

	assert.Equal(t, models.OpportunityMortality, ops[1].Type)
	assert.Equal(t, models.PriorityCritical, ops[1].Priority)
	assert.Equal(t, 540.0, ops[1].PotentialSavings)

	// the cap is spent by the first rule
	assert.Equal(t, 15.0, ops[0].EstimatedROIImprovement)
	assert.Zero(t, ops[1].EstimatedROIImprovement)
}

func TestDetector_DetectUnitValuation(t *testing.T) {
	d := NewDetector(config.DefaultAnalytics())

	ops := d.DetectUnit(models.UnitMetrics{
		UnitID:        "C",
		FCR:           2.2,
		MortalityRate: 7,
		ROI:           10,
		Biomass:       1000,
		AverageWeight: 0.5,
		Revenue:       5000,
		Cost:          10000,
	})
	require.Len(t, ops, 3)

	tests := []struct {
		typ         models.OpportunityType
		priority    models.Priority
		savings     float64
		improvement float64
	}{
		{models.OpportunityFCR, models.PriorityHigh, 480, 4.8},
		{models.OpportunityMortality, models.PriorityHigh, 240, 2.4},
		{models.OpportunityPricing, models.PriorityMedium, 375, 3.75},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.typ, ops[i].Type)
		assert.Equal(t, tt.priority, ops[i].Priority)
		assert.InDelta(t, tt.savings, ops[i].PotentialSavings, 0.001)
		assert.InDelta(t, tt.improvement, ops[i].EstimatedROIImprovement, 0.001)
	}
}

func TestDetector_ImprovementCappedPerCage(t *testing.T) {
	d := NewDetector(config.DefaultAnalytics())

	ops := d.DetectUnit(models.UnitMetrics{
		UnitID:        "C",
		FCR:           2.2,
		MortalityRate: 7,
		ROI:           10,
		Biomass:       1000,
		AverageWeight: 0.5,
		Revenue:       5000,
		Cost:          1000,
	})
	require.Len(t, ops, 3)

	var total float64
	for _, o := range ops {
		total += o.EstimatedROIImprovement
	}
	assert.Equal(t, 15.0, total)
}

func TestDetector_ThresholdsAreStrict(t *testing.T) {
	d := NewDetector(config.DefaultAnalytics())

	tests := []struct {
		name string
		m    models.UnitMetrics
	}{
		{"fcr at threshold", models.UnitMetrics{UnitID: "X", FCR: 2.0, Biomass: 100, Cost: 100}},
		{"mortality at threshold", models.UnitMetrics{UnitID: "X", MortalityRate: 5, Biomass: 100, AverageWeight: 0.5}},
		{"zero roi", models.UnitMetrics{UnitID: "X", ROI: 0, Revenue: 1000}},
		{"roi at pricing ceiling", models.UnitMetrics{UnitID: "X", ROI: 15, Revenue: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, d.DetectUnit(tt.m))
		})
	}
}

func TestDetector_DetectGlobal(t *testing.T) {
	d := NewDetector(config.DefaultAnalytics())

	tests := []struct {
		name        string
		g           models.GlobalMetrics
		ok          bool
		improvement float64
		savings     float64
	}{
		{"no costs", models.GlobalMetrics{}, false, 0, 0},
		{"capped improvement", models.GlobalMetrics{Revenue: 1050, Costs: 1000, ROI: 5}, true, 15, 150},
		{"gap to target", models.GlobalMetrics{Revenue: 1150, Costs: 1000, ROI: 15}, true, 10, 100},
		{"at threshold", models.GlobalMetrics{Revenue: 1200, Costs: 1000, ROI: 20}, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, ok := d.DetectGlobal(tt.g)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, "global_efficiency:farm", o.ID)
			assert.Equal(t, models.PriorityHigh, o.Priority)
			assert.Equal(t, tt.improvement, o.EstimatedROIImprovement)
			assert.Equal(t, tt.savings, o.PotentialSavings)
		})
	}
}

func TestDetector_DetectEmptyFarm(t *testing.T) {
	d := NewDetector(config.DefaultAnalytics())

	ops := d.Detect(nil, models.GlobalMetrics{}, nil)
	assert.NotNil(t, ops)
	assert.Empty(t, ops)
}

func TestDetector_DetectFiltered(t *testing.T) {
	d := NewDetector(config.DefaultAnalytics())
	units := []models.UnitMetrics{{UnitID: "B", FCR: 2.6, MortalityRate: 12, Biomass: 1000, AverageWeight: 0.5, Cost: 1000}}
	global := models.GlobalMetrics{Revenue: 970, Costs: 1000, ROI: -3}

	all := d.Detect(units, global, nil)
	assert.Len(t, all, 3)

	filter, err := ParseOptimizationType("fcr")
	require.NoError(t, err)
	only := d.Detect(units, global, filter)
	require.Len(t, only, 1)
	assert.Equal(t, models.OpportunityFCR, only[0].Type)
}

func TestSortOpportunities_PriorityFirst(t *testing.T) {
	base := []models.OptimizationOpportunity{
		{ID: "a", Priority: models.PriorityMedium, PotentialSavings: 5000},
		{ID: "b", Priority: models.PriorityHigh, PotentialSavings: 100},
		{ID: "c", Priority: models.PriorityCritical, PotentialSavings: 10},
		{ID: "d", Priority: models.PriorityHigh, PotentialSavings: 900},
		{ID: "e", Priority: models.PriorityCritical, PotentialSavings: 10},
		{ID: "f", Priority: models.PriorityMedium, PotentialSavings: 20},
	}
	want := []string{"c", "e", "d", "b", "a", "f"}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		ops := append([]models.OptimizationOpportunity(nil), base...)
		rng.Shuffle(len(ops), func(i, j int) { ops[i], ops[j] = ops[j], ops[i] })

		SortOpportunities(ops)
		got := make([]string, len(ops))
		for k, o := range ops {
			got[k] = o.ID
		}
		assert.Equal(t, want, got)
	}
}

func TestParseOptimizationType(t *testing.T) {
	tests := []struct {
		raw     string
		want    OpportunityFilter
		wantErr bool
	}{
		{"", nil, false},
		{"full", nil, false},
		{"FCR", OpportunityFilter{models.OpportunityFCR: true}, false},
		{"mortality", OpportunityFilter{models.OpportunityMortality: true}, false},
		{"pricing_optimization", OpportunityFilter{models.OpportunityPricing: true}, false},
		{"global", OpportunityFilter{models.OpportunityGlobal: true}, false},
		{"bogus", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseOptimizationType(tt.raw)
			if tt.wantErr {
				assert.True(t, IsInputError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
