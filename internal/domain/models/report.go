package models

import "time"

// PeriodType selects the reporting window.
type PeriodType string

const (
	PeriodDaily     PeriodType = "daily"
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
)

// Valid reports whether p is a supported report period.
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly:
		return true
	}
	return false
}

// ReportMetric is one key/value line of a report summary.
type ReportMetric struct {
	Key   string  `bson:"key" json:"key"`
	Label string  `bson:"label" json:"label"`
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

// ReportTable is a detail table already formatted as text cells.
type ReportTable struct {
	Title   string     `bson:"title" json:"title"`
	Columns []string   `bson:"columns" json:"columns"`
	Rows    [][]string `bson:"rows" json:"rows"`
}

// Report is the structured output of a period report.
type Report struct {
	AccountID       string         `bson:"user_id" json:"account_id"`
	Period          PeriodType     `bson:"period" json:"period"`
	Title           string         `bson:"title" json:"title"`
	PeriodStart     time.Time      `bson:"period_start" json:"period_start"`
	PeriodEnd       time.Time      `bson:"period_end" json:"period_end"`
	Summary         []ReportMetric `bson:"summary" json:"summary"`
	Tables          []ReportTable  `bson:"tables" json:"tables"`
	Recommendations []string       `bson:"recommendations" json:"recommendations"`
}

// StoredReport is the archived form of a generated report.
type StoredReport struct {
	Report      Report    `bson:"report" json:"report"`
	HTML        string    `bson:"html" json:"html"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}

// BenchmarkSubmission is an anonymized farm performance sample. It carries no
// account identifier.
type BenchmarkSubmission struct {
	Species      string    `bson:"species" json:"species"`
	Region       string    `bson:"region" json:"region"`
	FCR          float64   `bson:"fcr" json:"fcr"`
	SurvivalRate float64   `bson:"survival_rate" json:"survival_rate"`
	ROI          float64   `bson:"roi" json:"roi"`
	ProfitMargin float64   `bson:"profit_margin" json:"profit_margin"`
	Score        int       `bson:"score" json:"score"`
	PeriodStart  time.Time `bson:"period_start,omitempty" json:"period_start"`
	PeriodEnd    time.Time `bson:"period_end" json:"period_end"`
	SubmittedAt  time.Time `bson:"submitted_at" json:"submitted_at"`
}
