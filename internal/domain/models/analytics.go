package models

import "time"

// Granularity is the width of an aggregation bucket.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// Period identifies one aggregation bucket.
type Period struct {
	Key         string      `json:"key"`
	Granularity Granularity `json:"granularity"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
}

// CostBreakdown buckets expenses by category.
type CostBreakdown struct {
	Feed       float64 `json:"feed"`
	Labor      float64 `json:"labor"`
	Veterinary float64 `json:"veterinary"`
	Equipment  float64 `json:"equipment"`
	Other      float64 `json:"other"`
}

// Total sums every category.
func (c CostBreakdown) Total() float64 {
	return c.Feed + c.Labor + c.Veterinary + c.Equipment + c.Other
}

// Add returns the category-wise sum of two breakdowns.
func (c CostBreakdown) Add(o CostBreakdown) CostBreakdown {
	return CostBreakdown{
		Feed:       c.Feed + o.Feed,
		Labor:      c.Labor + o.Labor,
		Veterinary: c.Veterinary + o.Veterinary,
		Equipment:  c.Equipment + o.Equipment,
		Other:      c.Other + o.Other,
	}
}

// PeriodAggregate summarizes one (cage, period) bucket. An empty UnitID holds
// farm overhead that is not attributed to a cage.
type PeriodAggregate struct {
	UnitID             string        `json:"cage_id"`
	Period             Period        `json:"period"`
	FeedKg             float64       `json:"feed_kg"`
	FeedingSessions    int           `json:"feeding_sessions"`
	Revenue            float64       `json:"revenue"`
	Sales              int           `json:"sales"`
	Costs              CostBreakdown `json:"costs"`
	Mortality          int           `json:"mortality"`
	FishCount          int           `json:"fish_count"`
	Biomass            float64       `json:"biomass"`
	EstimatedGainKg    float64       `json:"estimated_gain_kg"`
	FCR                float64       `json:"fcr"`
	FCREstimated       bool          `json:"fcr_estimated"`
	SurvivalRate       float64       `json:"survival_rate"`
	ROI                float64       `json:"roi"`
	WaterSamples       int           `json:"water_samples"`
	AvgTemperature     float64       `json:"avg_temperature"`
	AvgPH              float64       `json:"avg_ph"`
	AvgDissolvedOxygen float64       `json:"avg_dissolved_oxygen"`
	AvgAmmonia         float64       `json:"avg_ammonia"`
}

// UnitMetrics are the current figures of one cage used for scoring and detection.
type UnitMetrics struct {
	UnitID        string     `json:"cage_id"`
	Name          string     `json:"name"`
	Species       string     `json:"species"`
	Status        UnitStatus `json:"status"`
	FishCount     int        `json:"fish_count"`
	AverageWeight float64    `json:"average_weight"`
	Biomass       float64    `json:"biomass"`
	FeedKg        float64    `json:"feed_kg"`
	FCR           float64    `json:"fcr"`
	MortalityRate float64    `json:"mortality_rate"`
	SurvivalRate  float64    `json:"survival_rate"`
	GrowthRate    float64    `json:"growth_rate"`
	Revenue       float64    `json:"revenue"`
	Cost          float64    `json:"cost"`
	Profit        float64    `json:"profit"`
	ROI           float64    `json:"roi"`
}

// GlobalMetrics are farm-wide financial totals.
type GlobalMetrics struct {
	Revenue float64 `json:"revenue"`
	Costs   float64 `json:"costs"`
	Profit  float64 `json:"profit"`
	ROI     float64 `json:"roi"`
	Margin  float64 `json:"margin"`
}

// ScoreCategory labels a composite score.
type ScoreCategory string

const (
	CategoryExcellent ScoreCategory = "Excellent"
	CategoryGood      ScoreCategory = "Good"
	CategoryAverage   ScoreCategory = "Average"
	CategoryCritical  ScoreCategory = "Critical"
)

// ScoreContribution records the delta one dimension added to a score.
type ScoreContribution struct {
	Dimension string  `json:"dimension"`
	Value     float64 `json:"value"`
	Delta     float64 `json:"delta"`
}

// PerformanceScore is a bounded composite score for one snapshot.
type PerformanceScore struct {
	Score         int                 `json:"score"`
	Category      ScoreCategory       `json:"category"`
	Contributions []ScoreContribution `json:"contributions"`
}

// UnitPerformance pairs a cage's metrics with its score.
type UnitPerformance struct {
	Metrics UnitMetrics      `json:"metrics"`
	Score   PerformanceScore `json:"score"`
}

// MetricBenchmark holds the reference average and top-decile values of a metric.
type MetricBenchmark struct {
	Average   float64 `yaml:"average" json:"average"`
	TopDecile float64 `yaml:"top_decile" json:"top_decile"`
}

// BenchmarkProfile is static reference data for a species in a region.
type BenchmarkProfile struct {
	Species      string          `yaml:"species" json:"species"`
	Region       string          `yaml:"region" json:"region"`
	FCR          MetricBenchmark `yaml:"fcr" json:"fcr"`
	Survival     MetricBenchmark `yaml:"survival" json:"survival_rate"`
	ROI          MetricBenchmark `yaml:"roi" json:"roi"`
	CostPerKg    MetricBenchmark `yaml:"cost_per_kg" json:"cost_per_kg"`
	ProfitMargin MetricBenchmark `yaml:"profit_margin" json:"profit_margin"`
	CycleDays    MetricBenchmark `yaml:"cycle_days" json:"cycle_duration_days"`
}

// Position labels on which side of the reference a value sits.
const (
	PositionAbove = "above"
	PositionBelow = "below"
)

// BenchmarkComparison compares one user metric with a reference profile.
type BenchmarkComparison struct {
	Metric         string  `json:"metric"`
	UserValue      float64 `json:"user_value"`
	ReferenceValue float64 `json:"benchmark_value"`
	TopDecile      float64 `json:"top_decile_value"`
	Difference     float64 `json:"difference"`
	Position       string  `json:"position"`
	Better         bool    `json:"better"`
}

// OpportunityType enumerates detectable improvement gaps.
type OpportunityType string

const (
	OpportunityFCR       OpportunityType = "fcr_optimization"
	OpportunityMortality OpportunityType = "mortality_reduction"
	OpportunityPricing   OpportunityType = "pricing_optimization"
	OpportunityGlobal    OpportunityType = "global_efficiency"
)

// Priority orders opportunities.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns 0 for the most urgent priority; unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Effort estimates how hard an opportunity is to implement.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// OptimizationOpportunity is a priced gap between current and target performance.
type OptimizationOpportunity struct {
	ID                      string          `json:"id"`
	Type                    OpportunityType `json:"type"`
	UnitID                  string          `json:"cage_id,omitempty"`
	UnitName                string          `json:"cage_name,omitempty"`
	Metric                  string          `json:"metric"`
	CurrentValue            float64         `json:"current_value"`
	TargetValue             float64         `json:"target_value"`
	PotentialSavings        float64         `json:"potential_savings"`
	Priority                Priority        `json:"priority"`
	Effort                  Effort          `json:"implementation_effort"`
	EstimatedROIImprovement float64         `json:"estimated_roi_improvement"`
	Description             string          `json:"description"`
}

// ROIScenario is one named projection.
type ROIScenario struct {
	Name            string   `json:"name"`
	Multiplier      float64  `json:"multiplier"`
	Confidence      float64  `json:"confidence"`
	HorizonMonths   int      `json:"timeline_months"`
	ROIImprovement  float64  `json:"roi_improvement"`
	ProjectedROI    float64  `json:"projected_roi"`
	MonthlyBenefit  float64  `json:"monthly_benefit"`
	BreakEvenMonths *float64 `json:"break_even_months"`
}

// ROIProjection combines opportunities into farm-wide ROI outcomes.
type ROIProjection struct {
	CurrentROI         float64       `json:"current_roi"`
	TotalImprovement   float64       `json:"total_improvement"`
	ProjectedROI       float64       `json:"projected_roi"`
	ConfidenceLevel    float64       `json:"confidence_level"`
	Scenarios          []ROIScenario `json:"scenarios"`
	ImplementationCost float64       `json:"implementation_cost"`
	MonthlyBenefit     float64       `json:"monthly_benefit"`
	BreakEvenMonths    *float64      `json:"break_even_months"`
}

// ActionItem renders one opportunity as a plan entry.
type ActionItem struct {
	OpportunityID    string          `json:"opportunity_id"`
	Type             OpportunityType `json:"type"`
	Priority         Priority        `json:"priority"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Timeline         string          `json:"timeline"`
	Resources        []string        `json:"resources_needed"`
	SuccessMetrics   []string        `json:"success_metrics"`
	EstimatedSavings float64         `json:"estimated_savings"`
}
