package analytics

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

// Benchmark metric names.
const (
	MetricFCR          = "fcr"
	MetricSurvival     = "survival_rate"
	MetricROI          = "roi"
	MetricProfitMargin = "profit_margin"
	MetricCostPerKg    = "cost_per_kg"
	MetricCycleDays    = "cycle_duration_days"
	MetricMortality    = "mortality_rate"
)

const (
	regionGlobal   = "global"
	speciesDefault = "default"
)

// FarmMetrics is the farm-level view compared against benchmark profiles.
type FarmMetrics struct {
	Species       string  `json:"species"`
	Region        string  `json:"region"`
	ActiveCages   int     `json:"active_cages"`
	FCR           float64 `json:"fcr"`
	SurvivalRate  float64 `json:"survival_rate"`
	MortalityRate float64 `json:"mortality_rate"`
	GrowthRate    float64 `json:"growth_rate"`
	ROI           float64 `json:"roi"`
	ProfitMargin  float64 `json:"profit_margin"`
	CostPerKg     float64 `json:"cost_per_kg"`
	CycleDays     float64 `json:"cycle_duration_days"`
}

// ScoreInput returns the scoring inputs of the farm-level view.
func (f FarmMetrics) ScoreInput() ScoreInput {
	return ScoreInput{FCR: f.FCR, MortalityRate: f.MortalityRate, ROI: f.ROI, GrowthRate: f.GrowthRate}
}

// SummarizeFarm folds per-cage metrics into a farm-level view. FCR is
// biomass-weighted over active cages; survival, mortality and growth are plain
// means over active cages. Cost per kg uses the kilograms sold in the window.
func SummarizeFarm(species, region string, global models.GlobalMetrics, units []models.UnitMetrics, kgSold float64, cycles CycleSummary) FarmMetrics {
	f := FarmMetrics{
		Species:      species,
		Region:       region,
		ROI:          global.ROI,
		ProfitMargin: global.Margin,
		CostPerKg:    round2(ratio(global.Costs, kgSold)),
		CycleDays:    cycles.AvgDurationDays,
	}

	var biomass, weightedFCR, survival, mortality, growth float64
	for _, u := range units {
		if u.FCR <= 0 {
			continue
		}
		f.ActiveCages++
		biomass += u.Biomass
		weightedFCR += u.FCR * u.Biomass
		survival += u.SurvivalRate
		mortality += u.MortalityRate
		growth += u.GrowthRate
	}
	n := float64(f.ActiveCages)
	f.FCR = round2(ratio(weightedFCR, biomass))
	f.SurvivalRate = round2(ratio(survival, n))
	f.MortalityRate = round2(ratio(mortality, n))
	f.GrowthRate = round2(ratio(growth, n))
	return f
}

// KilogramsSold sums sale quantities inside w.
func KilogramsSold(snap models.Snapshot, w models.Window) float64 {
	var kg float64
	for _, s := range snap.Sales {
		if w.Contains(s.SoldAt) {
			kg += s.QuantityKg
		}
	}
	return kg
}

// Comparator compares farm metrics with static reference profiles.
type Comparator struct {
	profiles []models.BenchmarkProfile
	scorer   *Scorer
}

// NewComparator builds a Comparator over profiles.
func NewComparator(profiles []models.BenchmarkProfile, scorer *Scorer) *Comparator {
	return &Comparator{profiles: profiles, scorer: scorer}
}

// Profile selects the profile for species and region, falling back to the
// species' global profile, then to the default profile, then to the first one.
func (c *Comparator) Profile(species, region string) models.BenchmarkProfile {
	species, region = normalizeKey(species), normalizeKey(region)
	if region == "" {
		region = regionGlobal
	}
	candidates := [][2]string{
		{species, region},
		{species, regionGlobal},
		{speciesDefault, region},
		{speciesDefault, regionGlobal},
	}
	for _, want := range candidates {
		for _, p := range c.profiles {
			if normalizeKey(p.Species) == want[0] && normalizeKey(p.Region) == want[1] {
				return p
			}
		}
	}
	if len(c.profiles) > 0 {
		return c.profiles[0]
	}
	return models.BenchmarkProfile{Species: speciesDefault, Region: regionGlobal}
}

// Regional lists the profiles of a region, optionally narrowed to a species.
// Without a region it lists every region of the species.
func (c *Comparator) Regional(region, species string) []models.BenchmarkProfile {
	region, species = normalizeKey(region), normalizeKey(species)
	var out []models.BenchmarkProfile
	for _, p := range c.profiles {
		if region != "" && normalizeKey(p.Region) != region {
			continue
		}
		if species != "" && normalizeKey(p.Species) != species {
			continue
		}
		out = append(out, p)
	}
	return out
}

type metricSpec struct {
	name        string
	lowerBetter bool
	optional    bool
	user        func(FarmMetrics) float64
	ref         func(models.BenchmarkProfile) models.MetricBenchmark
}

var comparedMetrics = []metricSpec{
	{name: MetricFCR, lowerBetter: true, user: func(f FarmMetrics) float64 { return f.FCR }, ref: func(p models.BenchmarkProfile) models.MetricBenchmark { return p.FCR }},
	{name: MetricSurvival, user: func(f FarmMetrics) float64 { return f.SurvivalRate }, ref: func(p models.BenchmarkProfile) models.MetricBenchmark { return p.Survival }},
	{name: MetricROI, user: func(f FarmMetrics) float64 { return f.ROI }, ref: func(p models.BenchmarkProfile) models.MetricBenchmark { return p.ROI }},
	{name: MetricProfitMargin, user: func(f FarmMetrics) float64 { return f.ProfitMargin }, ref: func(p models.BenchmarkProfile) models.MetricBenchmark { return p.ProfitMargin }},
	{name: MetricCostPerKg, lowerBetter: true, optional: true, user: func(f FarmMetrics) float64 { return f.CostPerKg }, ref: func(p models.BenchmarkProfile) models.MetricBenchmark { return p.CostPerKg }},
	{name: MetricCycleDays, lowerBetter: true, optional: true, user: func(f FarmMetrics) float64 { return f.CycleDays }, ref: func(p models.BenchmarkProfile) models.MetricBenchmark { return p.CycleDays }},
}

// Compare returns one comparison per metric. Cost per kg and cycle duration
// are only compared when the farm has a value for them.
func (c *Comparator) Compare(f FarmMetrics, p models.BenchmarkProfile) []models.BenchmarkComparison {
	out := make([]models.BenchmarkComparison, 0, len(comparedMetrics))
	for _, spec := range comparedMetrics {
		user := spec.user(f)
		if spec.optional && user <= 0 {
			continue
		}
		ref := spec.ref(p)
		cmp := models.BenchmarkComparison{
			Metric:         spec.name,
			UserValue:      round2(user),
			ReferenceValue: ref.Average,
			TopDecile:      ref.TopDecile,
			Difference:     round2(user - ref.Average),
			Position:       models.PositionBelow,
		}
		if user > ref.Average {
			cmp.Position = models.PositionAbove
		}
		if spec.lowerBetter {
			cmp.Better = user > 0 && user < ref.Average
		} else {
			cmp.Better = user > ref.Average
		}
		out = append(out, cmp)
	}
	return out
}

// CompositeScore is the relative score used for benchmark ranking.
func (c *Comparator) CompositeScore(f FarmMetrics) models.PerformanceScore {
	return c.scorer.Rescore(f.ScoreInput())
}

// Recommendations phrases every unfavourable comparison for a human reader.
func (c *Comparator) Recommendations(cmps []models.BenchmarkComparison) []string {
	var out []string
	for _, cmp := range cmps {
		if cmp.Better {
			continue
		}
		switch cmp.Metric {
		case MetricFCR:
			if cmp.UserValue > 0 {
				out = append(out, fmt.Sprintf("FCR de %.2f contre %.2f pour la référence : ajuster les rations et la fréquence de nourrissage", cmp.UserValue, cmp.ReferenceValue))
			}
		case MetricSurvival:
			out = append(out, fmt.Sprintf("Survie de %.1f%% sous la référence (%.1f%%) : renforcer la biosécurité et le suivi sanitaire", cmp.UserValue, cmp.ReferenceValue))
		case MetricROI:
			out = append(out, fmt.Sprintf("ROI de %.1f%% sous la référence (%.1f%%) : réduire les coûts d'exploitation et revoir les prix", cmp.UserValue, cmp.ReferenceValue))
		case MetricProfitMargin:
			out = append(out, fmt.Sprintf("Marge de %.1f%% sous la référence (%.1f%%) : cibler des clients mieux valorisés", cmp.UserValue, cmp.ReferenceValue))
		case MetricCostPerKg:
			out = append(out, fmt.Sprintf("Coût de production de %.2f/kg au-dessus de la référence (%.2f/kg) : négocier l'aliment et optimiser la main-d'œuvre", cmp.UserValue, cmp.ReferenceValue))
		case MetricCycleDays:
			out = append(out, fmt.Sprintf("Cycle de %.0f jours plus long que la référence (%.0f jours) : améliorer la croissance par une meilleure qualité d'eau", cmp.UserValue, cmp.ReferenceValue))
		}
	}
	if len(out) == 0 {
		out = append(out, "Vos performances dépassent les références du secteur : maintenir les pratiques actuelles")
	}
	return out
}

// RankLabel describes a percentile in words.
func RankLabel(percentile int) string {
	switch {
	case percentile >= 90:
		return "Top 10%"
	case percentile >= 75:
		return "Top 25%"
	case percentile >= 50:
		return "Moitié supérieure"
	default:
		return "Moitié inférieure"
	}
}

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
