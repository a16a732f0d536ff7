package analytics

import (
	"math"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

// Score dimensions.
const (
	DimensionFCR       = "fcr"
	DimensionMortality = "mortality"
	DimensionROI       = "roi"
	DimensionGrowth    = "growth"
)

// ScoreInput are the four inputs of the performance score.
type ScoreInput struct {
	FCR           float64
	MortalityRate float64
	ROI           float64
	GrowthRate    float64
}

// InputFromMetrics extracts the scoring inputs from unit metrics.
func InputFromMetrics(m models.UnitMetrics) ScoreInput {
	return ScoreInput{FCR: m.FCR, MortalityRate: m.MortalityRate, ROI: m.ROI, GrowthRate: m.GrowthRate}
}

// Scorer turns metrics into a bounded composite score with a rule table:
// for each dimension the first matching bracket contributes its delta.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer builds a Scorer from the scoring rule table.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes an absolute score (configured absolute base).
func (s *Scorer) Score(in ScoreInput) models.PerformanceScore {
	return s.ScoreFrom(s.cfg.AbsoluteBase, in)
}

// Rescore computes a relative score starting from the configured relative base.
func (s *Scorer) Rescore(in ScoreInput) models.PerformanceScore {
	return s.ScoreFrom(s.cfg.RelativeBase, in)
}

// ScoreFrom sums the per-dimension deltas onto base and clamps to [0, 100].
func (s *Scorer) ScoreFrom(base float64, in ScoreInput) models.PerformanceScore {
	contributions := []models.ScoreContribution{
		s.dimension(DimensionFCR, in.FCR, s.cfg.FCR),
		s.dimension(DimensionMortality, in.MortalityRate, s.cfg.Mortality),
		s.dimension(DimensionROI, in.ROI, s.cfg.ROI),
		s.dimension(DimensionGrowth, in.GrowthRate, s.cfg.Growth),
	}

	total := base
	for _, c := range contributions {
		total += c.Delta
	}
	score := int(math.Round(clamp(total, 0, 100)))

	return models.PerformanceScore{
		Score:         score,
		Category:      s.Category(score),
		Contributions: contributions,
	}
}

func (s *Scorer) dimension(name string, value float64, ladder []config.Bracket) models.ScoreContribution {
	c := models.ScoreContribution{Dimension: name, Value: round2(value)}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return c
	}
	// FCR of zero or less means no measurement; it neither rewards nor penalizes
	if name == DimensionFCR && value <= 0 {
		return c
	}
	for _, b := range ladder {
		if b.Matches(value) {
			c.Delta = b.Value
			break
		}
	}
	return c
}

// Category labels a score with the configured thresholds.
func (s *Scorer) Category(score int) models.ScoreCategory {
	l := s.cfg.Labels
	switch {
	case score >= l.Excellent:
		return models.CategoryExcellent
	case score >= l.Good:
		return models.CategoryGood
	case score >= l.Average:
		return models.CategoryAverage
	default:
		return models.CategoryCritical
	}
}
