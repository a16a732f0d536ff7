package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

// Bracket comparison operators.
const (
	OpLT = "lt"
	OpLE = "le"
	OpGT = "gt"
	OpGE = "ge"
)

// AnalyticsConfig gathers every tunable constant of the analytics engine.
type AnalyticsConfig struct {
	Prices         PriceConfig               `yaml:"prices"`
	Growth         GrowthConfig              `yaml:"growth"`
	Scoring        ScoringConfig             `yaml:"scoring"`
	Opportunities  OpportunityConfig         `yaml:"opportunities"`
	Projection     ProjectionConfig          `yaml:"projection"`
	Percentiles    PercentileConfig          `yaml:"percentiles"`
	WaterQuality   WaterQualityConfig        `yaml:"water_quality"`
	CostCategories map[string][]string       `yaml:"cost_categories"`
	Benchmarks     []models.BenchmarkProfile `yaml:"benchmarks"`
}

// PriceConfig holds market prices used to value savings.
type PriceConfig struct {
	FeedCostPerKg  float64 `yaml:"feed_cost_per_kg"`
	FishValuePerKg float64 `yaml:"fish_value_per_kg"`
}

// GrowthConfig holds the weight-gain approximation used when no growth sample exists.
type GrowthConfig struct {
	// WeeklyGainRate is the assumed weekly gain as a fraction of current average
	// weight. It is an estimate, not a measurement.
	WeeklyGainRate float64 `yaml:"weekly_gain_rate"`
}

// Bracket is one (predicate, value) row of a threshold ladder.
type Bracket struct {
	Op        string  `yaml:"op"`
	Threshold float64 `yaml:"threshold"`
	Value     float64 `yaml:"value"`
}

// Matches evaluates the bracket predicate against v.
func (b Bracket) Matches(v float64) bool {
	switch b.Op {
	case OpLT:
		return v < b.Threshold
	case OpLE:
		return v <= b.Threshold
	case OpGT:
		return v > b.Threshold
	case OpGE:
		return v >= b.Threshold
	}
	return false
}

// ScoringConfig is the rule table of the performance scorer.
type ScoringConfig struct {
	AbsoluteBase float64         `yaml:"absolute_base"`
	RelativeBase float64         `yaml:"relative_base"`
	FCR          []Bracket       `yaml:"fcr"`
	Mortality    []Bracket       `yaml:"mortality"`
	ROI          []Bracket       `yaml:"roi"`
	Growth       []Bracket       `yaml:"growth"`
	Labels       LabelThresholds `yaml:"labels"`
}

// LabelThresholds are the lower bounds of each score category.
type LabelThresholds struct {
	Excellent int `yaml:"excellent"`
	Good      int `yaml:"good"`
	Average   int `yaml:"average"`
}

// OpportunityConfig holds detection thresholds, targets and valuation assumptions.
type OpportunityConfig struct {
	FCRThreshold       float64 `yaml:"fcr_threshold"`
	FCRCritical        float64 `yaml:"fcr_critical"`
	FCRTarget          float64 `yaml:"fcr_target"`
	MortalityThreshold float64 `yaml:"mortality_threshold"`
	MortalityCritical  float64 `yaml:"mortality_critical"`
	MortalityTarget    float64 `yaml:"mortality_target"`
	PricingROIMax      float64 `yaml:"pricing_roi_max"`
	PricingTargetROI   float64 `yaml:"pricing_target_roi"`
	PricingUplift      float64 `yaml:"pricing_uplift"`
	GlobalROIThreshold float64 `yaml:"global_roi_threshold"`
	GlobalROITarget    float64 `yaml:"global_roi_target"`
	MaxROIImprovement  float64 `yaml:"max_roi_improvement"`
}

// ScenarioConfig describes one ROI projection scenario.
type ScenarioConfig struct {
	Name          string  `yaml:"name"`
	Multiplier    float64 `yaml:"multiplier"`
	Confidence    float64 `yaml:"confidence"`
	HorizonMonths int     `yaml:"horizon_months"`
}

// ProjectionConfig holds scenario multipliers and the implementation-cost table.
type ProjectionConfig struct {
	Scenarios                 []ScenarioConfig   `yaml:"scenarios"`
	ImplementationCosts       map[string]float64 `yaml:"implementation_costs"`
	DefaultImplementationCost float64            `yaml:"default_implementation_cost"`
	BenefitMonths             float64            `yaml:"benefit_months"`
	PriorityActions           int                `yaml:"priority_actions"`
}

// PercentileConfig is the step function used when no population sample exists.
type PercentileConfig struct {
	Steps         []Bracket `yaml:"steps"`
	Default       int       `yaml:"default"`
	MinPopulation int       `yaml:"min_population"`
}

// WaterQualityConfig holds acceptable ranges for water parameters.
type WaterQualityConfig struct {
	MinDissolvedOxygen float64 `yaml:"min_dissolved_oxygen"`
	MaxAmmonia         float64 `yaml:"max_ammonia"`
	MinPH              float64 `yaml:"min_ph"`
	MaxPH              float64 `yaml:"max_ph"`
	MinTemperature     float64 `yaml:"min_temperature"`
	MaxTemperature     float64 `yaml:"max_temperature"`
}

// DefaultAnalytics returns the calibrated defaults of the engine.
func DefaultAnalytics() AnalyticsConfig {
	return AnalyticsConfig{
		Prices: PriceConfig{
			FeedCostPerKg:  1.2,
			FishValuePerKg: 6,
		},
		Growth: GrowthConfig{WeeklyGainRate: 0.10},
		Scoring: ScoringConfig{
			AbsoluteBase: 0,
			RelativeBase: 50,
			// Dimensions sum to 100 at best: 30 + 25 + 30 + 15.
			FCR: []Bracket{
				{Op: OpLE, Threshold: 1.5, Value: 30},
				{Op: OpLE, Threshold: 1.8, Value: 25},
				{Op: OpLE, Threshold: 2.0, Value: 15},
				{Op: OpLE, Threshold: 2.5, Value: 5},
				{Op: OpGT, Threshold: 2.5, Value: -10},
			},
			Mortality: []Bracket{
				{Op: OpLT, Threshold: 3, Value: 25},
				{Op: OpLT, Threshold: 5, Value: 20},
				{Op: OpLT, Threshold: 8, Value: 10},
				{Op: OpLE, Threshold: 10, Value: 5},
				{Op: OpGT, Threshold: 10, Value: -10},
			},
			ROI: []Bracket{
				{Op: OpGT, Threshold: 25, Value: 30},
				{Op: OpGT, Threshold: 15, Value: 25},
				{Op: OpGT, Threshold: 5, Value: 15},
				{Op: OpGE, Threshold: -5, Value: 5},
				{Op: OpLT, Threshold: -5, Value: -10},
			},
			Growth: []Bracket{
				{Op: OpGT, Threshold: 2, Value: 15},
				{Op: OpGT, Threshold: 1, Value: 8},
			},
			Labels: LabelThresholds{Excellent: 85, Good: 70, Average: 50},
		},
		Opportunities: OpportunityConfig{
			FCRThreshold:       2.0,
			FCRCritical:        2.5,
			FCRTarget:          1.8,
			MortalityThreshold: 5,
			MortalityCritical:  10,
			MortalityTarget:    3,
			PricingROIMax:      15,
			PricingTargetROI:   20,
			PricingUplift:      0.075,
			GlobalROIThreshold: 20,
			GlobalROITarget:    25,
			MaxROIImprovement:  15,
		},
		Projection: ProjectionConfig{
			Scenarios: []ScenarioConfig{
				{Name: "conservative", Multiplier: 0.5, Confidence: 0.9, HorizonMonths: 8},
				{Name: "realistic", Multiplier: 0.75, Confidence: 0.7, HorizonMonths: 6},
				{Name: "optimistic", Multiplier: 1.0, Confidence: 0.4, HorizonMonths: 4},
			},
			ImplementationCosts: map[string]float64{
				string(models.OpportunityFCR):       500,
				string(models.OpportunityMortality): 1000,
				string(models.OpportunityPricing):   100,
				string(models.OpportunityGlobal):    2000,
			},
			DefaultImplementationCost: 200,
			BenefitMonths:             12,
			PriorityActions:           3,
		},
		Percentiles: PercentileConfig{
			Steps: []Bracket{
				{Op: OpGE, Threshold: 85, Value: 90},
				{Op: OpGE, Threshold: 75, Value: 75},
				{Op: OpGE, Threshold: 60, Value: 60},
				{Op: OpLE, Threshold: 30, Value: 25},
			},
			Default:       50,
			MinPopulation: 10,
		},
		WaterQuality: WaterQualityConfig{
			MinDissolvedOxygen: 5,
			MaxAmmonia:         0.5,
			MinPH:              6.5,
			MaxPH:              8.5,
			MinTemperature:     25,
			MaxTemperature:     32,
		},
		CostCategories: map[string][]string{
			"feed":       {"feed", "aliment", "aliments", "alimentation"},
			"labor":      {"labor", "labour", "main_oeuvre", "main-d'oeuvre", "salaire", "salaires"},
			"veterinary": {"veterinary", "vet", "veterinaire", "vétérinaire", "sante", "santé", "medicament", "medicaments"},
			"equipment":  {"equipment", "equipement", "équipement", "materiel", "matériel", "maintenance"},
		},
		Benchmarks: defaultBenchmarks(),
	}
}

func defaultBenchmarks() []models.BenchmarkProfile {
	mb := func(avg, top float64) models.MetricBenchmark {
		return models.MetricBenchmark{Average: avg, TopDecile: top}
	}
	return []models.BenchmarkProfile{
		{Species: "tilapia", Region: "west_africa", FCR: mb(1.8, 1.4), Survival: mb(80, 92), ROI: mb(18, 35), CostPerKg: mb(1.9, 1.4), ProfitMargin: mb(15, 30), CycleDays: mb(180, 150)},
		{Species: "tilapia", Region: "east_africa", FCR: mb(1.9, 1.5), Survival: mb(78, 90), ROI: mb(15, 30), CostPerKg: mb(2.0, 1.5), ProfitMargin: mb(13, 27), CycleDays: mb(190, 160)},
		{Species: "tilapia", Region: "global", FCR: mb(1.7, 1.3), Survival: mb(85, 95), ROI: mb(20, 38), CostPerKg: mb(1.8, 1.3), ProfitMargin: mb(17, 33), CycleDays: mb(170, 140)},
		{Species: "catfish", Region: "west_africa", FCR: mb(1.5, 1.1), Survival: mb(75, 90), ROI: mb(20, 40), CostPerKg: mb(1.6, 1.2), ProfitMargin: mb(17, 32), CycleDays: mb(150, 120)},
		{Species: "catfish", Region: "global", FCR: mb(1.4, 1.0), Survival: mb(80, 93), ROI: mb(22, 42), CostPerKg: mb(1.5, 1.1), ProfitMargin: mb(18, 35), CycleDays: mb(140, 110)},
		{Species: "default", Region: "global", FCR: mb(1.8, 1.4), Survival: mb(80, 92), ROI: mb(18, 35), CostPerKg: mb(2.0, 1.5), ProfitMargin: mb(15, 30), CycleDays: mb(180, 150)},
	}
}

// LoadAnalytics returns the defaults overlaid with the YAML file at path. An
// empty path returns the defaults.
func LoadAnalytics(path string) (*AnalyticsConfig, error) {
	cfg := DefaultAnalytics()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read analytics config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse analytics config %s: %w", path, err)
		}
	}

	if err := ValidateAnalytics(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateAnalytics checks that an AnalyticsConfig is internally consistent.
func ValidateAnalytics(c AnalyticsConfig) error {
	var errs []string

	if c.Prices.FeedCostPerKg < 0 || c.Prices.FishValuePerKg < 0 {
		errs = append(errs, "prices must be >= 0")
	}
	if c.Growth.WeeklyGainRate <= 0 || c.Growth.WeeklyGainRate > 1 {
		errs = append(errs, "weekly_gain_rate must be in (0, 1]")
	}

	ladders := []struct {
		name   string
		ladder []Bracket
	}{
		{"scoring.fcr", c.Scoring.FCR},
		{"scoring.mortality", c.Scoring.Mortality},
		{"scoring.roi", c.Scoring.ROI},
		{"scoring.growth", c.Scoring.Growth},
		{"percentiles.steps", c.Percentiles.Steps},
	}
	for _, l := range ladders {
		name := l.name
		for i, b := range l.ladder {
			switch b.Op {
			case OpLT, OpLE, OpGT, OpGE:
			default:
				errs = append(errs, fmt.Sprintf("%s[%d]: unknown op %q", name, i, b.Op))
			}
		}
	}

	l := c.Scoring.Labels
	if !(l.Excellent >= l.Good && l.Good >= l.Average && l.Average >= 0 && l.Excellent <= 100) {
		errs = append(errs, "score labels must satisfy 100 >= excellent >= good >= average >= 0")
	}

	if len(c.Projection.Scenarios) == 0 {
		errs = append(errs, "at least one projection scenario is required")
	}
	for _, s := range c.Projection.Scenarios {
		if s.Multiplier < 0 {
			errs = append(errs, fmt.Sprintf("scenario %s: multiplier must be >= 0", s.Name))
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			errs = append(errs, fmt.Sprintf("scenario %s: confidence must be in [0, 1]", s.Name))
		}
	}
	if c.Projection.BenefitMonths <= 0 {
		errs = append(errs, "benefit_months must be > 0")
	}
	if c.Opportunities.MaxROIImprovement < 0 {
		errs = append(errs, "max_roi_improvement must be >= 0")
	}
	if len(c.Benchmarks) == 0 {
		errs = append(errs, "at least one benchmark profile is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("analytics config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
