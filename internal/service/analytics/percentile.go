package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mamadbah2/aquafarm/internal/config"
)

// Percentile sources reported alongside a ranking.
const (
	PercentileSourceSteps      = "calibrated_steps"
	PercentileSourcePopulation = "population"
)

// Percentiler maps a composite score onto a percentile.
type Percentiler interface {
	Percentile(score float64) int
	Source() string
}

// StepPercentiler is a calibrated step function over the score. It is a label,
// not a population percentile, and is the fallback when no sample exists.
type StepPercentiler struct {
	steps    []config.Bracket
	fallback int
}

// NewStepPercentiler builds the step function from configuration.
func NewStepPercentiler(cfg config.PercentileConfig) *StepPercentiler {
	return &StepPercentiler{steps: cfg.Steps, fallback: cfg.Default}
}

// Percentile returns the first matching step or the median default.
func (p *StepPercentiler) Percentile(score float64) int {
	for _, b := range p.steps {
		if b.Matches(score) {
			return int(b.Value)
		}
	}
	return p.fallback
}

// Source names the method used.
func (p *StepPercentiler) Source() string { return PercentileSourceSteps }

// PopulationPercentiler ranks a score within a sample of submitted scores
// using the empirical CDF. Below the minimum sample size it defers to the
// step function.
type PopulationPercentiler struct {
	sample   []float64
	min      int
	fallback Percentiler
}

// NewPopulationPercentiler builds a percentiler over scores.
func NewPopulationPercentiler(scores []float64, minPopulation int, fallback Percentiler) *PopulationPercentiler {
	sample := append([]float64(nil), scores...)
	sort.Float64s(sample)
	return &PopulationPercentiler{sample: sample, min: minPopulation, fallback: fallback}
}

func (p *PopulationPercentiler) usable() bool {
	return len(p.sample) > 0 && len(p.sample) >= p.min
}

// Percentile returns the share of the population scoring at or below score.
func (p *PopulationPercentiler) Percentile(score float64) int {
	if !p.usable() {
		return p.fallback.Percentile(score)
	}
	cdf := stat.CDF(score, stat.Empirical, p.sample, nil)
	return int(math.Round(clamp(cdf*100, 0, 100)))
}

// Source names the method used.
func (p *PopulationPercentiler) Source() string {
	if !p.usable() {
		return p.fallback.Source()
	}
	return PercentileSourcePopulation
}

// PopulationSize is the number of samples backing the percentile.
func (p *PopulationPercentiler) PopulationSize() int {
	return len(p.sample)
}
