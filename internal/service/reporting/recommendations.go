package reporting

import (
	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

const allClear = "Tous les indicateurs sont dans les objectifs sur la période : maintenir les pratiques actuelles."

// recommendations phrases detected opportunities, then water-quality alerts.
func (c *Composer) recommendations(ops []models.OptimizationOpportunity, buckets []models.PeriodAggregate, cages []models.UnitPerformance) []string {
	out := []string{}
	p := c.format.printer
	for _, o := range ops {
		scope := unitLabel(o.UnitID, o.UnitName)
		switch o.Type {
		case models.OpportunityFCR:
			out = append(out, p.Sprintf("%s : FCR de %.2f au-dessus de l'objectif %.2f. Ajuster les rations pour économiser environ %.0f.",
				scope, o.CurrentValue, o.TargetValue, o.PotentialSavings))
		case models.OpportunityMortality:
			out = append(out, p.Sprintf("%s : mortalité de %.1f%% (objectif %.1f%%). Renforcer le suivi sanitaire et l'oxygénation.",
				scope, o.CurrentValue, o.TargetValue))
		case models.OpportunityPricing:
			out = append(out, p.Sprintf("%s : ROI de %.1f%% seulement. Revoir les prix de vente et les acheteurs ciblés.",
				scope, o.CurrentValue))
		case models.OpportunityGlobal:
			out = append(out, p.Sprintf("ROI global de %.1f%% sous l'objectif de %.1f%%. Auditer les postes de coûts de la ferme.",
				o.CurrentValue, o.TargetValue))
		default:
			out = append(out, o.Description)
		}
	}

	names := cageNames(cages)
	wq := c.water
	for _, b := range buckets {
		if b.WaterSamples == 0 {
			continue
		}
		scope := unitLabel(b.UnitID, names[b.UnitID])
		if b.AvgDissolvedOxygen < wq.MinDissolvedOxygen {
			out = append(out, p.Sprintf("%s : oxygène dissous moyen de %.1f mg/L sous le minimum de %.1f mg/L. Prévoir une aération.",
				scope, b.AvgDissolvedOxygen, wq.MinDissolvedOxygen))
		}
		if b.AvgAmmonia > wq.MaxAmmonia {
			out = append(out, p.Sprintf("%s : ammoniac moyen de %.2f mg/L au-dessus de %.2f mg/L. Réduire la ration et renouveler l'eau.",
				scope, b.AvgAmmonia, wq.MaxAmmonia))
		}
		if b.AvgPH < wq.MinPH || b.AvgPH > wq.MaxPH {
			out = append(out, p.Sprintf("%s : pH moyen de %.1f hors de la plage %.1f-%.1f.",
				scope, b.AvgPH, wq.MinPH, wq.MaxPH))
		}
		if b.AvgTemperature < wq.MinTemperature || b.AvgTemperature > wq.MaxTemperature {
			out = append(out, p.Sprintf("%s : température moyenne de %.1f °C hors de la plage %.0f-%.0f °C.",
				scope, b.AvgTemperature, wq.MinTemperature, wq.MaxTemperature))
		}
	}

	if len(out) == 0 {
		out = append(out, allClear)
	}
	return out
}
