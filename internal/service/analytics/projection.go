package analytics

import (
	"math"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

// Projector turns opportunities into ROI scenarios and a break-even estimate.
type Projector struct {
	cfg config.ProjectionConfig
}

// NewProjector builds a Projector from the projection configuration.
func NewProjector(cfg config.ProjectionConfig) *Projector {
	return &Projector{cfg: cfg}
}

// ImplementationCost looks up the cost of acting on one opportunity type.
func (p *Projector) ImplementationCost(t models.OpportunityType) float64 {
	if c, ok := p.cfg.ImplementationCosts[string(t)]; ok {
		return c
	}
	return p.cfg.DefaultImplementationCost
}

// Project combines opportunities into the global projection.
func (p *Projector) Project(currentROI float64, ops []models.OptimizationOpportunity) models.ROIProjection {
	var improvement, savings, cost float64
	for _, o := range ops {
		improvement += math.Max(0, o.EstimatedROIImprovement)
		savings += o.PotentialSavings
		cost += p.ImplementationCost(o.Type)
	}
	monthly := ratio(savings, p.cfg.BenefitMonths)

	proj := models.ROIProjection{
		CurrentROI:         round2(currentROI),
		TotalImprovement:   round2(improvement),
		ProjectedROI:       round2(currentROI + improvement),
		ImplementationCost: round2(cost),
		MonthlyBenefit:     round2(monthly),
		BreakEvenMonths:    breakEven(cost, monthly),
		Scenarios:          make([]models.ROIScenario, 0, len(p.cfg.Scenarios)),
	}

	for _, sc := range p.cfg.Scenarios {
		gain := improvement * sc.Multiplier
		scMonthly := monthly * sc.Multiplier
		proj.Scenarios = append(proj.Scenarios, models.ROIScenario{
			Name:            sc.Name,
			Multiplier:      sc.Multiplier,
			Confidence:      sc.Confidence,
			HorizonMonths:   sc.HorizonMonths,
			ROIImprovement:  round2(gain),
			ProjectedROI:    round2(currentROI + gain),
			MonthlyBenefit:  round2(scMonthly),
			BreakEvenMonths: breakEven(cost, scMonthly),
		})
	}
	proj.ConfidenceLevel = p.confidence()

	return proj
}

// confidence reports the confidence of the middle scenario, which is the
// realistic one with the default configuration.
func (p *Projector) confidence() float64 {
	if len(p.cfg.Scenarios) == 0 {
		return 0
	}
	for _, sc := range p.cfg.Scenarios {
		if sc.Name == "realistic" {
			return sc.Confidence
		}
	}
	return p.cfg.Scenarios[len(p.cfg.Scenarios)/2].Confidence
}

// breakEven is cost / monthly benefit in months, or nil when there is no benefit.
func breakEven(cost, monthly float64) *float64 {
	if monthly <= 0 {
		return nil
	}
	months := round(ratio(cost, monthly), 1)
	return &months
}
