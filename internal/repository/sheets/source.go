package sheets

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/repository/records"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
)

const reportsRange = "reports!A:Z"

var _ analytics.Source = (*Source)(nil)

// Source reads the farm tables of a spreadsheet holding one tab per table.
// The first row of every tab names the columns and user_id scopes each row.
type Source struct {
	repo   Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewSource builds a spreadsheet-backed analytics source.
func NewSource(repo Repository, loc *time.Location, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{repo: repo, loc: loc, logger: logger}
}

func (s *Source) Units(ctx context.Context, accountID string) ([]models.ProductionUnit, error) {
	return readTab(ctx, s, analytics.TableCages, accountID, records.Unit)
}

func (s *Source) FeedingSessions(ctx context.Context, accountID string) ([]models.FeedingSession, error) {
	return readTab(ctx, s, analytics.TableFeedings, accountID, records.Feeding)
}

func (s *Source) Sales(ctx context.Context, accountID string) ([]models.Sale, error) {
	return readTab(ctx, s, analytics.TableSales, accountID, records.Sale)
}

func (s *Source) CostEntries(ctx context.Context, accountID string) ([]models.CostEntry, error) {
	return readTab(ctx, s, analytics.TableCosts, accountID, records.Cost)
}

func (s *Source) MortalityEvents(ctx context.Context, accountID string) ([]models.MortalityEvent, error) {
	return readTab(ctx, s, analytics.TableMortalities, accountID, records.Mortality)
}

func (s *Source) WaterQuality(ctx context.Context, accountID string) ([]models.WaterQualitySample, error) {
	return readTab(ctx, s, analytics.TableWaterQuality, accountID, records.WaterSample)
}

func (s *Source) Cycles(ctx context.Context, accountID string) ([]models.ProductionCycle, error) {
	return readTab(ctx, s, analytics.TableCycles, accountID, records.Cycle)
}

func readTab[T models.Validator](ctx context.Context, s *Source, tab, accountID string, dec records.Decoder[T]) ([]T, error) {
	rows, err := s.repo.ReadRange(ctx, tab+"!A:Z")
	if err != nil {
		return nil, err
	}

	var mine []records.Record
	for _, rec := range records.FromRows(rows) {
		if rec.String("user_id") == accountID {
			mine = append(mine, rec)
		}
	}

	return records.Decode(mine, dec, s.loc, func(rec records.Record, err error) {
		s.logger.Debug("skip invalid sheet row",
			zap.String("tab", tab),
			zap.String("id", rec.String("id")),
			zap.Error(err))
	}), nil
}

// ReportLog appends one line per generated report to the "reports" tab.
type ReportLog struct {
	repo Repository
}

// NewReportLog builds a ReportLog writing through repo.
func NewReportLog(repo Repository) *ReportLog {
	return &ReportLog{repo: repo}
}

// SaveReport writes the report header followed by its summary values.
func (l *ReportLog) SaveReport(ctx context.Context, stored models.StoredReport) error {
	r := stored.Report
	row := []interface{}{
		stored.GeneratedAt.Format(time.RFC3339),
		r.AccountID,
		string(r.Period),
		r.PeriodStart.Format("2006-01-02"),
		r.PeriodEnd.Format("2006-01-02"),
		r.Title,
	}
	for _, m := range r.Summary {
		row = append(row, m.Value)
	}
	return l.repo.WriteRow(ctx, reportsRange, row)
}
