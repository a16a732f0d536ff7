package analytics

import (
	"fmt"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

type planTemplate struct {
	title       string
	description string
	timeline    string
	resources   []string
	metrics     []string
}

// Title and description receive the scope name; metrics receive the target.
var planTemplates = map[models.OpportunityType]planTemplate{
	models.OpportunityFCR: {
		title:       "Optimiser l'alimentation : %s",
		description: "Revoir les rations, la fréquence des repas et la qualité de l'aliment sur %s.",
		timeline:    "2-4 semaines",
		resources:   []string{"Balance de pesée", "Aliment de qualité", "Fiche de rationnement"},
		metrics:     []string{"FCR ≤ %.2f", "Réduction du gaspillage d'aliment"},
	},
	models.OpportunityMortality: {
		title:       "Réduire la mortalité : %s",
		description: "Mettre en place un suivi sanitaire quotidien et contrôler la qualité de l'eau sur %s.",
		timeline:    "1-2 semaines",
		resources:   []string{"Kit d'analyse d'eau", "Conseil vétérinaire", "Aérateur"},
		metrics:     []string{"Mortalité ≤ %.1f%%", "Contrôle quotidien de l'oxygène dissous"},
	},
	models.OpportunityPricing: {
		title:       "Revoir la stratégie de prix : %s",
		description: "Analyser les prix du marché et cibler des acheteurs mieux valorisés pour %s.",
		timeline:    "1 mois",
		resources:   []string{"Étude de marché", "Liste de clients"},
		metrics:     []string{"ROI ≥ %.1f%%"},
	},
	models.OpportunityGlobal: {
		title:       "Programme d'efficacité globale : %s",
		description: "Auditer les coûts et standardiser les pratiques sur l'ensemble de %s.",
		timeline:    "3-6 mois",
		resources:   []string{"Tableau de bord des coûts", "Formation du personnel", "Audit externe"},
		metrics:     []string{"ROI global ≥ %.1f%%", "Coûts suivis par catégorie"},
	},
}

var fallbackTemplate = planTemplate{
	title:       "Action d'amélioration : %s",
	description: "Analyser l'écart de performance sur %s.",
	timeline:    "1 mois",
	resources:   []string{"Suivi des indicateurs"},
	metrics:     []string{"Objectif %.2f atteint"},
}

// PlanComposer renders opportunities as action items. It is pure templating.
type PlanComposer struct{}

// NewPlanComposer builds a PlanComposer.
func NewPlanComposer() *PlanComposer {
	return &PlanComposer{}
}

// Compose returns one action item per opportunity, in the opportunities' order.
func (c *PlanComposer) Compose(ops []models.OptimizationOpportunity) []models.ActionItem {
	out := make([]models.ActionItem, 0, len(ops))
	for _, o := range ops {
		tpl, ok := planTemplates[o.Type]
		if !ok {
			tpl = fallbackTemplate
		}
		scope := o.UnitName
		if scope == "" {
			scope = o.UnitID
		}
		if scope == "" {
			scope = "la ferme"
		}

		metrics := make([]string, 0, len(tpl.metrics))
		for i, m := range tpl.metrics {
			if i == 0 {
				m = fmt.Sprintf(m, o.TargetValue)
			}
			metrics = append(metrics, m)
		}

		out = append(out, models.ActionItem{
			OpportunityID:    o.ID,
			Type:             o.Type,
			Priority:         o.Priority,
			Title:            fmt.Sprintf(tpl.title, scope),
			Description:      fmt.Sprintf(tpl.description, scope),
			Timeline:         tpl.timeline,
			Resources:        append([]string(nil), tpl.resources...),
			SuccessMetrics:   metrics,
			EstimatedSavings: o.PotentialSavings,
		})
	}
	return out
}

// PriorityActions returns up to n critical or high items, keeping plan order.
func PriorityActions(plan []models.ActionItem, n int) []models.ActionItem {
	out := []models.ActionItem{}
	for _, item := range plan {
		if len(out) >= n {
			break
		}
		if item.Priority == models.PriorityCritical || item.Priority == models.PriorityHigh {
			out = append(out, item)
		}
	}
	return out
}
