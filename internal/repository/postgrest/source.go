// Package postgrest reads farm tables over a PostgREST (Supabase) API.
package postgrest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/repository/records"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
	client "github.com/mamadbah2/aquafarm/pkg/clients/postgrest"
)

var _ analytics.Source = (*Source)(nil)

// Source implements analytics.Source with one filtered select per table.
type Source struct {
	client client.Client
	loc    *time.Location
	logger *zap.Logger
}

// NewSource builds a PostgREST-backed analytics source.
func NewSource(c client.Client, loc *time.Location, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{client: c, loc: loc, logger: logger}
}

func (s *Source) Units(ctx context.Context, accountID string) ([]models.ProductionUnit, error) {
	return selectTable(ctx, s, analytics.TableCages, accountID, records.Unit)
}

func (s *Source) FeedingSessions(ctx context.Context, accountID string) ([]models.FeedingSession, error) {
	return selectTable(ctx, s, analytics.TableFeedings, accountID, records.Feeding)
}

func (s *Source) Sales(ctx context.Context, accountID string) ([]models.Sale, error) {
	return selectTable(ctx, s, analytics.TableSales, accountID, records.Sale)
}

func (s *Source) CostEntries(ctx context.Context, accountID string) ([]models.CostEntry, error) {
	return selectTable(ctx, s, analytics.TableCosts, accountID, records.Cost)
}

func (s *Source) MortalityEvents(ctx context.Context, accountID string) ([]models.MortalityEvent, error) {
	return selectTable(ctx, s, analytics.TableMortalities, accountID, records.Mortality)
}

func (s *Source) WaterQuality(ctx context.Context, accountID string) ([]models.WaterQualitySample, error) {
	return selectTable(ctx, s, analytics.TableWaterQuality, accountID, records.WaterSample)
}

func (s *Source) Cycles(ctx context.Context, accountID string) ([]models.ProductionCycle, error) {
	return selectTable(ctx, s, analytics.TableCycles, accountID, records.Cycle)
}

func selectTable[T models.Validator](ctx context.Context, s *Source, table, accountID string, dec records.Decoder[T]) ([]T, error) {
	rows, err := s.client.Select(ctx, table, map[string]string{"user_id": accountID})
	if err != nil {
		return nil, err
	}

	recs := make([]records.Record, len(rows))
	for i, row := range rows {
		recs[i] = records.Record(row)
	}

	return records.Decode(recs, dec, s.loc, func(rec records.Record, err error) {
		s.logger.Debug("skip invalid row",
			zap.String("table", table),
			zap.String("id", rec.String("id")),
			zap.Error(err))
	}), nil
}
