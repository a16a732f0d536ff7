package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

const farmScope = "farm"

// OpportunityFilter restricts detection to some opportunity types. A nil
// filter keeps every type.
type OpportunityFilter map[models.OpportunityType]bool

// ParseOptimizationType maps the optimization_type request field onto a filter.
func ParseOptimizationType(raw string) (OpportunityFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "full", "all":
		return nil, nil
	case "fcr", string(models.OpportunityFCR):
		return OpportunityFilter{models.OpportunityFCR: true}, nil
	case "mortality", string(models.OpportunityMortality):
		return OpportunityFilter{models.OpportunityMortality: true}, nil
	case "pricing", string(models.OpportunityPricing):
		return OpportunityFilter{models.OpportunityPricing: true}, nil
	case "global", string(models.OpportunityGlobal):
		return OpportunityFilter{models.OpportunityGlobal: true}, nil
	}
	return nil, NewInputError("optimization_type", "unknown optimization type %q", raw)
}

func (f OpportunityFilter) allows(t models.OpportunityType) bool {
	return f == nil || f[t]
}

// Detector scans cage metrics for threshold breaches and prices them.
type Detector struct {
	cfg    config.OpportunityConfig
	prices config.PriceConfig
}

// NewDetector builds a Detector from the analytics configuration.
func NewDetector(cfg config.AnalyticsConfig) *Detector {
	return &Detector{cfg: cfg.Opportunities, prices: cfg.Prices}
}

// DetectUnit evaluates the per-cage rules independently. The ROI improvement
// of all rules of one cage is capped at MaxROIImprovement points.
func (d *Detector) DetectUnit(m models.UnitMetrics) []models.OptimizationOpportunity {
	var out []models.OptimizationOpportunity
	budget := d.cfg.MaxROIImprovement

	add := func(o models.OptimizationOpportunity) {
		improvement := math.Max(0, ratio(o.PotentialSavings, m.Cost)*100)
		improvement = math.Min(improvement, budget)
		budget -= improvement
		o.EstimatedROIImprovement = round2(improvement)
		o.PotentialSavings = round2(o.PotentialSavings)
		out = append(out, o)
	}

	if m.FCR > d.cfg.FCRThreshold {
		priority := models.PriorityHigh
		if m.FCR > d.cfg.FCRCritical {
			priority = models.PriorityCritical
		}
		add(models.OptimizationOpportunity{
			ID:               opportunityID(models.OpportunityFCR, m.UnitID),
			Type:             models.OpportunityFCR,
			UnitID:           m.UnitID,
			UnitName:         m.Name,
			Metric:           MetricFCR,
			CurrentValue:     m.FCR,
			TargetValue:      d.cfg.FCRTarget,
			PotentialSavings: (m.FCR - d.cfg.FCRTarget) * m.Biomass * d.prices.FeedCostPerKg,
			Priority:         priority,
			Effort:           models.EffortMedium,
			Description:      fmt.Sprintf("FCR de %.2f sur %s, objectif %.2f", m.FCR, displayName(m), d.cfg.FCRTarget),
		})
	}

	if m.MortalityRate > d.cfg.MortalityThreshold {
		priority := models.PriorityHigh
		if m.MortalityRate > d.cfg.MortalityCritical {
			priority = models.PriorityCritical
		}
		fish := ratio(m.Biomass, m.AverageWeight)
		add(models.OptimizationOpportunity{
			ID:               opportunityID(models.OpportunityMortality, m.UnitID),
			Type:             models.OpportunityMortality,
			UnitID:           m.UnitID,
			UnitName:         m.Name,
			Metric:           MetricMortality,
			CurrentValue:     m.MortalityRate,
			TargetValue:      d.cfg.MortalityTarget,
			PotentialSavings: (m.MortalityRate - d.cfg.MortalityTarget) / 100 * fish * m.AverageWeight * d.prices.FishValuePerKg,
			Priority:         priority,
			Effort:           models.EffortHigh,
			Description:      fmt.Sprintf("Mortalité de %.1f%% sur %s, objectif %.1f%%", m.MortalityRate, displayName(m), d.cfg.MortalityTarget),
		})
	}

	if m.ROI > 0 && m.ROI < d.cfg.PricingROIMax {
		add(models.OptimizationOpportunity{
			ID:               opportunityID(models.OpportunityPricing, m.UnitID),
			Type:             models.OpportunityPricing,
			UnitID:           m.UnitID,
			UnitName:         m.Name,
			Metric:           MetricROI,
			CurrentValue:     m.ROI,
			TargetValue:      d.cfg.PricingTargetROI,
			PotentialSavings: m.Revenue * d.cfg.PricingUplift,
			Priority:         models.PriorityMedium,
			Effort:           models.EffortLow,
			Description:      fmt.Sprintf("ROI de %.1f%% sur %s, objectif %.1f%% par une meilleure valorisation", m.ROI, displayName(m), d.cfg.PricingTargetROI),
		})
	}

	return out
}

// DetectGlobal evaluates the farm-wide efficiency rule. A farm without any
// recorded cost yields nothing.
func (d *Detector) DetectGlobal(g models.GlobalMetrics) (models.OptimizationOpportunity, bool) {
	if g.Costs <= 0 || g.ROI >= d.cfg.GlobalROIThreshold {
		return models.OptimizationOpportunity{}, false
	}
	improvement := math.Min(d.cfg.GlobalROITarget-g.ROI, d.cfg.MaxROIImprovement)
	improvement = math.Max(0, improvement)
	return models.OptimizationOpportunity{
		ID:                      opportunityID(models.OpportunityGlobal, ""),
		Type:                    models.OpportunityGlobal,
		Metric:                  MetricROI,
		CurrentValue:            g.ROI,
		TargetValue:             d.cfg.GlobalROITarget,
		PotentialSavings:        round2(improvement / 100 * g.Costs),
		Priority:                models.PriorityHigh,
		Effort:                  models.EffortHigh,
		EstimatedROIImprovement: round2(improvement),
		Description:             fmt.Sprintf("ROI global de %.1f%%, objectif %.1f%%", g.ROI, d.cfg.GlobalROITarget),
	}, true
}

// Detect runs every rule over the snapshot and returns the sorted opportunities.
func (d *Detector) Detect(units []models.UnitMetrics, g models.GlobalMetrics, filter OpportunityFilter) []models.OptimizationOpportunity {
	out := []models.OptimizationOpportunity{}
	for _, m := range units {
		for _, o := range d.DetectUnit(m) {
			if filter.allows(o.Type) {
				out = append(out, o)
			}
		}
	}
	if o, ok := d.DetectGlobal(g); ok && filter.allows(o.Type) {
		out = append(out, o)
	}
	SortOpportunities(out)
	return out
}

// SortOpportunities orders by priority, then savings descending, then id.
func SortOpportunities(ops []models.OptimizationOpportunity) {
	slices.SortStableFunc(ops, func(a, b models.OptimizationOpportunity) int {
		if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.PotentialSavings, a.PotentialSavings); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func opportunityID(t models.OpportunityType, unitID string) string {
	if unitID == "" {
		unitID = farmScope
	}
	return string(t) + ":" + unitID
}

func displayName(m models.UnitMetrics) string {
	if m.Name != "" {
		return m.Name
	}
	return m.UnitID
}
