package analytics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

func TestEngine_Analyze(t *testing.T) {
	e := testEngine()

	a, err := e.Analyze(context.Background(), farmSnapshot(), weekOf2024W11(), nil)
	require.NoError(t, err)

	cages := a.CurrentPerformance.Cages
	require.Len(t, cages, 2)
	assert.Equal(t, "A", cages[0].Metrics.UnitID)
	assert.Equal(t, 85, cages[0].Score.Score)
	assert.Equal(t, models.CategoryExcellent, cages[0].Score.Category)
	assert.Equal(t, 0, cages[1].Score.Score)
	assert.Equal(t, models.CategoryCritical, cages[1].Score.Category)
	assert.Equal(t, 42.5, a.CurrentPerformance.AverageScore)
	assert.Equal(t, 14.23, a.CurrentPerformance.GlobalMetrics.ROI)

	// cage B: fcr and mortality (critical), farm: global efficiency (high)
	require.Len(t, a.Opportunities, 3)
	assert.Equal(t, models.PriorityCritical, a.Opportunities[0].Priority)
	assert.Equal(t, models.PriorityCritical, a.Opportunities[1].Priority)
	assert.Equal(t, models.OpportunityGlobal, a.Opportunities[2].Type)

	require.Len(t, a.ActionPlan, 3)
	assert.Len(t, a.PriorityActions, 3)
	assert.Equal(t, 3, a.ExpectedImprovement.OpportunityCount)
	assert.Equal(t, a.Projection.ProjectedROI, a.ExpectedImprovement.ProjectedROI)
	assert.Len(t, a.Projection.Scenarios, 3)
}

func TestEngine_AnalyzeIsIdempotent(t *testing.T) {
	e := testEngine()
	snap := farmSnapshot()

	first, err := e.Analyze(context.Background(), snap, weekOf2024W11(), nil)
	require.NoError(t, err)
	second, err := e.Analyze(context.Background(), snap, weekOf2024W11(), nil)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestEngine_AnalyzeEmptyFarm(t *testing.T) {
	e := testEngine()

	a, err := e.Analyze(context.Background(), models.Snapshot{AccountID: "acc-1"}, models.Window{}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.GlobalMetrics{}, a.CurrentPerformance.GlobalMetrics)
	assert.Empty(t, a.CurrentPerformance.Cages)
	assert.NotNil(t, a.Opportunities)
	assert.Empty(t, a.Opportunities)
	assert.Nil(t, a.Projection.BreakEvenMonths)

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"optimization_opportunities":[]`)
}

func TestEngine_EvaluateUnitsCancelled(t *testing.T) {
	e := testEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.EvaluateUnits(ctx, farmSnapshot(), weekOf2024W11())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_FarmView(t *testing.T) {
	e := testEngine()

	f, err := e.FarmView(context.Background(), farmSnapshot(), weekOf2024W11(), "", "west_africa")
	require.NoError(t, err)
	assert.Equal(t, "tilapia", f.Species)
	assert.Equal(t, 2, f.ActiveCages)
	assert.Equal(t, 2.23, f.FCR)
	assert.Equal(t, 3.47, f.CostPerKg)
}
