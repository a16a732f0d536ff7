package analytics

import "github.com/mamadbah2/aquafarm/internal/domain/models"

// BestPractice is a catalogue entry tied to one benchmark metric.
type BestPractice struct {
	Metric         string `json:"metric"`
	Category       string `json:"category"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ExpectedImpact string `json:"expected_impact"`
	Priority       string `json:"priority"`
}

var bestPractices = []BestPractice{
	{
		Metric:         MetricFCR,
		Category:       "alimentation",
		Title:          "Rationnement selon la biomasse",
		Description:    "Ajuster la ration quotidienne à 2-3% de la biomasse et la répartir en 3 à 4 repas.",
		ExpectedImpact: "FCR réduit de 0,2 à 0,4",
	},
	{
		Metric:         MetricFCR,
		Category:       "alimentation",
		Title:          "Observation de l'appétit",
		Description:    "Arrêter la distribution dès que les poissons cessent de s'alimenter pour éviter le gaspillage.",
		ExpectedImpact: "Jusqu'à 10% d'aliment économisé",
	},
	{
		Metric:         MetricSurvival,
		Category:       "santé",
		Title:          "Protocole de biosécurité",
		Description:    "Quarantaine des alevins, désinfection du matériel et retrait quotidien des poissons morts.",
		ExpectedImpact: "Mortalité réduite de 30 à 50%",
	},
	{
		Metric:         MetricSurvival,
		Category:       "eau",
		Title:          "Suivi de l'oxygène dissous",
		Description:    "Mesurer l'oxygène à l'aube et maintenir plus de 5 mg/L par aération ou réduction de densité.",
		ExpectedImpact: "Moins d'épisodes de mortalité massive",
	},
	{
		Metric:         MetricROI,
		Category:       "gestion",
		Title:          "Suivi des coûts par cage",
		Description:    "Affecter chaque dépense à une cage pour identifier les unités déficitaires.",
		ExpectedImpact: "ROI amélioré de 5 à 10 points",
	},
	{
		Metric:         MetricProfitMargin,
		Category:       "commercial",
		Title:          "Vente par calibre",
		Description:    "Trier la récolte par taille et vendre les gros calibres aux restaurants et hôtels.",
		ExpectedImpact: "Prix moyen +5 à 10%",
	},
	{
		Metric:         MetricCostPerKg,
		Category:       "achats",
		Title:          "Achats groupés d'aliment",
		Description:    "Commander l'aliment en volume avec d'autres fermes pour négocier le prix.",
		ExpectedImpact: "Coût de l'aliment -8 à 12%",
	},
	{
		Metric:         MetricCycleDays,
		Category:       "production",
		Title:          "Alevins sélectionnés",
		Description:    "Utiliser des alevins mâles sélectionnés à croissance rapide.",
		ExpectedImpact: "Cycle raccourci de 2 à 4 semaines",
	},
}

// BestPractices returns the catalogue with practices for unfavourable metrics
// first (priority "high"), then the rest (priority "normal").
func BestPractices(cmps []models.BenchmarkComparison) []BestPractice {
	weak := make(map[string]bool)
	for _, c := range cmps {
		if !c.Better {
			weak[c.Metric] = true
		}
	}

	out := make([]BestPractice, 0, len(bestPractices))
	for _, p := range bestPractices {
		if weak[p.Metric] {
			p.Priority = "high"
			out = append(out, p)
		}
	}
	for _, p := range bestPractices {
		if !weak[p.Metric] {
			p.Priority = "normal"
			out = append(out, p)
		}
	}
	return out
}
