package analytics

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

// Engine wires the analytics components around one configuration. It holds
// no per-request state.
type Engine struct {
	Aggregator  *Aggregator
	Scorer      *Scorer
	Comparator  *Comparator
	Detector    *Detector
	Projector   *Projector
	Planner     *PlanComposer
	Percentiles *StepPercentiler

	cfg     config.AnalyticsConfig
	workers int
}

// NewEngine builds an Engine. workers bounds the per-cage fan-out.
func NewEngine(cfg config.AnalyticsConfig, loc *time.Location, workers int) *Engine {
	if workers <= 0 {
		workers = 1
	}
	scorer := NewScorer(cfg.Scoring)
	return &Engine{
		Aggregator:  NewAggregator(cfg, loc),
		Scorer:      scorer,
		Comparator:  NewComparator(cfg.Benchmarks, scorer),
		Detector:    NewDetector(cfg),
		Projector:   NewProjector(cfg.Projection),
		Planner:     NewPlanComposer(),
		Percentiles: NewStepPercentiler(cfg.Percentiles),
		cfg:         cfg,
		workers:     workers,
	}
}

// Config returns the analytics configuration the engine was built with.
func (e *Engine) Config() config.AnalyticsConfig {
	return e.cfg
}

// CurrentPerformance is the scored state of a farm.
type CurrentPerformance struct {
	GlobalMetrics   models.GlobalMetrics     `json:"global_metrics"`
	Cages           []models.UnitPerformance `json:"cages"`
	AverageScore    float64                  `json:"average_score"`
	OverallCategory models.ScoreCategory     `json:"overall_category"`
}

// ExpectedImprovement summarizes what the plan is expected to bring.
type ExpectedImprovement struct {
	ROIPoints        float64 `json:"roi_points"`
	ProjectedROI     float64 `json:"projected_roi"`
	TotalSavings     float64 `json:"total_potential_savings"`
	OpportunityCount int     `json:"opportunity_count"`
}

// Analysis is the full optimizer output for one snapshot.
type Analysis struct {
	CurrentPerformance  CurrentPerformance               `json:"current_performance"`
	Opportunities       []models.OptimizationOpportunity `json:"optimization_opportunities"`
	Projection          models.ROIProjection             `json:"roi_projections"`
	ActionPlan          []models.ActionItem              `json:"action_plan"`
	PriorityActions     []models.ActionItem              `json:"priority_actions"`
	ExpectedImprovement ExpectedImprovement              `json:"expected_improvement"`
}

// EvaluateUnits computes metrics and a score for every cage. Cages are
// independent, so they are fanned out over the worker pool and fanned back in
// by index, keeping the output in cage id order.
func (e *Engine) EvaluateUnits(ctx context.Context, snap models.Snapshot, w models.Window) ([]models.UnitPerformance, error) {
	units := append([]models.ProductionUnit(nil), snap.Units...)
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	out := make([]models.UnitPerformance, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m := e.Aggregator.unitMetrics(units[i], snap, w)
			out[i] = models.UnitPerformance{Metrics: m, Score: e.Scorer.Score(InputFromMetrics(m))}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Analyze runs the whole optimizer pipeline: evaluation, detection, then
// projection and action planning.
func (e *Engine) Analyze(ctx context.Context, snap models.Snapshot, w models.Window, filter OpportunityFilter) (Analysis, error) {
	cages, err := e.EvaluateUnits(ctx, snap, w)
	if err != nil {
		return Analysis{}, err
	}
	global := e.Aggregator.GlobalMetrics(snap, w)

	metrics := make([]models.UnitMetrics, len(cages))
	var total float64
	for i, c := range cages {
		metrics[i] = c.Metrics
		total += float64(c.Score.Score)
	}
	avg := round(ratio(total, float64(len(cages))), 1)

	ops := e.Detector.Detect(metrics, global, filter)
	projection := e.Projector.Project(global.ROI, ops)
	plan := e.Planner.Compose(ops)

	var savings float64
	for _, o := range ops {
		savings += o.PotentialSavings
	}

	return Analysis{
		CurrentPerformance: CurrentPerformance{
			GlobalMetrics:   global,
			Cages:           cages,
			AverageScore:    avg,
			OverallCategory: e.Scorer.Category(int(avg + 0.5)),
		},
		Opportunities:   ops,
		Projection:      projection,
		ActionPlan:      plan,
		PriorityActions: PriorityActions(plan, e.cfg.Projection.PriorityActions),
		ExpectedImprovement: ExpectedImprovement{
			ROIPoints:        projection.TotalImprovement,
			ProjectedROI:     projection.ProjectedROI,
			TotalSavings:     round2(savings),
			OpportunityCount: len(ops),
		},
	}, nil
}

// FarmView builds the farm-level metrics used by benchmarking.
func (e *Engine) FarmView(ctx context.Context, snap models.Snapshot, w models.Window, species, region string) (FarmMetrics, error) {
	cages, err := e.EvaluateUnits(ctx, snap, w)
	if err != nil {
		return FarmMetrics{}, err
	}
	metrics := make([]models.UnitMetrics, len(cages))
	for i, c := range cages {
		metrics[i] = c.Metrics
	}
	if species == "" {
		species = dominantSpecies(snap.Units)
	}
	global := e.Aggregator.GlobalMetrics(snap, w)
	cycles := e.Aggregator.CycleMetrics(snap.Cycles, w)
	return SummarizeFarm(species, region, global, metrics, KilogramsSold(snap, w), cycles), nil
}

// dominantSpecies returns the species holding the most fish, ties broken by name.
func dominantSpecies(units []models.ProductionUnit) string {
	counts := make(map[string]int)
	for _, u := range units {
		if u.Species != "" {
			counts[normalizeKey(u.Species)] += u.FishCount
		}
	}
	best, bestCount := "", -1
	for species, n := range counts {
		if n > bestCount || (n == bestCount && species < best) {
			best, bestCount = species, n
		}
	}
	return best
}
