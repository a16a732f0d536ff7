package reporting

import (
	"fmt"
	"time"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// granularity is the bucket size matching a report period.
func granularity(p models.PeriodType) (models.Granularity, error) {
	switch p {
	case models.PeriodDaily:
		return models.GranularityDay, nil
	case models.PeriodWeekly:
		return models.GranularityWeek, nil
	case models.PeriodMonthly:
		return models.GranularityMonth, nil
	case models.PeriodQuarterly:
		return models.GranularityQuarter, nil
	}
	return "", analytics.NewInputError("report_type", "unknown report type %q", p)
}

// trendGranularity is the breakdown shown inside a report period; daily
// reports have none.
func trendGranularity(p models.PeriodType) models.Granularity {
	switch p {
	case models.PeriodWeekly:
		return models.GranularityDay
	case models.PeriodMonthly:
		return models.GranularityWeek
	case models.PeriodQuarterly:
		return models.GranularityMonth
	}
	return ""
}

// PeriodFor returns the report period of type p containing ref.
func PeriodFor(a *analytics.Aggregator, p models.PeriodType, ref time.Time) (models.Period, error) {
	g, err := granularity(p)
	if err != nil {
		return models.Period{}, err
	}
	return a.PeriodOf(g, ref)
}

// windowOf converts a period with exclusive end into an inclusive window.
func windowOf(p models.Period) models.Window {
	return models.Window{Start: p.Start, End: p.End.Add(-time.Nanosecond)}
}

func title(p models.PeriodType, period models.Period) string {
	last := period.End.AddDate(0, 0, -1)
	switch p {
	case models.PeriodDaily:
		return fmt.Sprintf("Rapport quotidien du %s", period.Start.Format(dayLayout))
	case models.PeriodWeekly:
		return fmt.Sprintf("Rapport hebdomadaire du %s au %s", period.Start.Format(dayLayout), last.Format(dayLayout))
	case models.PeriodMonthly:
		return fmt.Sprintf("Rapport mensuel de %s %d", frenchMonths[period.Start.Month()-1], period.Start.Year())
	default:
		return fmt.Sprintf("Rapport trimestriel T%d %d", (int(period.Start.Month())-1)/3+1, period.Start.Year())
	}
}
