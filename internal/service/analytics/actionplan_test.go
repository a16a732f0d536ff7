package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

func TestPlanComposer_Compose(t *testing.T) {
	ops := []models.OptimizationOpportunity{
		{ID: "fcr_optimization:B", Type: models.OpportunityFCR, UnitID: "B", UnitName: "Cage B", TargetValue: 1.8, Priority: models.PriorityCritical, PotentialSavings: 960},
		{ID: "mortality_reduction:C", Type: models.OpportunityMortality, UnitID: "C", TargetValue: 3, Priority: models.PriorityHigh},
		{ID: "global_efficiency:farm", Type: models.OpportunityGlobal, TargetValue: 25, Priority: models.PriorityHigh},
		{ID: "other:D", Type: "other", UnitID: "D", TargetValue: 2, Priority: models.PriorityLow},
	}

	plan := NewPlanComposer().Compose(ops)
	require.Len(t, plan, len(ops))

	assert.Equal(t, "fcr_optimization:B", plan[0].OpportunityID)
	assert.Contains(t, plan[0].Title, "Cage B")
	assert.Equal(t, "FCR ≤ 1.80", plan[0].SuccessMetrics[0])
	assert.Equal(t, 960.0, plan[0].EstimatedSavings)
	assert.Equal(t, models.PriorityCritical, plan[0].Priority)
	assert.NotEmpty(t, plan[0].Resources)

	// without a name the cage id is used
	assert.Contains(t, plan[1].Title, "C")
	assert.Equal(t, "Mortalité ≤ 3.0%", plan[1].SuccessMetrics[0])

	assert.Contains(t, plan[2].Title, "la ferme")
	assert.Equal(t, "ROI global ≥ 25.0%", plan[2].SuccessMetrics[0])

	assert.Contains(t, plan[3].Title, "D")
	assert.Equal(t, "Objectif 2.00 atteint", plan[3].SuccessMetrics[0])
}

func TestPlanComposer_ResourcesAreNotShared(t *testing.T) {
	ops := []models.OptimizationOpportunity{
		{Type: models.OpportunityFCR, UnitID: "A"},
		{Type: models.OpportunityFCR, UnitID: "B"},
	}
	plan := NewPlanComposer().Compose(ops)
	plan[0].Resources[0] = "changed"

	assert.NotEqual(t, "changed", plan[1].Resources[0])
}

func TestPriorityActions(t *testing.T) {
	plan := []models.ActionItem{
		{OpportunityID: "1", Priority: models.PriorityCritical},
		{OpportunityID: "2", Priority: models.PriorityMedium},
		{OpportunityID: "3", Priority: models.PriorityHigh},
		{OpportunityID: "4", Priority: models.PriorityHigh},
		{OpportunityID: "5", Priority: models.PriorityCritical},
	}

	got := PriorityActions(plan, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].OpportunityID)
	assert.Equal(t, "3", got[1].OpportunityID)
	assert.Equal(t, "4", got[2].OpportunityID)

	none := PriorityActions(plan[1:2], 3)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
