package analytics

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

// Table names used in DataAccessError.Source.
const (
	TableCages        = "cages"
	TableFeedings     = "feeding_sessions"
	TableSales        = "sales"
	TableCosts        = "cost_entries"
	TableMortalities  = "mortality_events"
	TableWaterQuality = "water_quality"
	TableCycles       = "production_cycles"
)

// Source is the read-only data access adapter for one farm account. Every
// method must honour ctx cancellation and return only validated rows.
type Source interface {
	Units(ctx context.Context, accountID string) ([]models.ProductionUnit, error)
	FeedingSessions(ctx context.Context, accountID string) ([]models.FeedingSession, error)
	Sales(ctx context.Context, accountID string) ([]models.Sale, error)
	CostEntries(ctx context.Context, accountID string) ([]models.CostEntry, error)
	MortalityEvents(ctx context.Context, accountID string) ([]models.MortalityEvent, error)
	WaterQuality(ctx context.Context, accountID string) ([]models.WaterQualitySample, error)
	Cycles(ctx context.Context, accountID string) ([]models.ProductionCycle, error)
}

// LoadSnapshot issues every table read concurrently under one timeout. The
// first failure cancels the others; no partial snapshot is ever returned.
func LoadSnapshot(ctx context.Context, src Source, accountID string, timeout time.Duration) (models.Snapshot, error) {
	if accountID == "" {
		return models.Snapshot{}, &InputError{Field: "account_id", Message: ErrMissingAccount.Error()}
	}
	if src == nil {
		return models.Snapshot{}, &DataAccessError{Source: "source", Err: errors.New("no data source configured")}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	snap := models.Snapshot{AccountID: accountID}
	g, gctx := errgroup.WithContext(ctx)

	read := func(table string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				return &DataAccessError{Source: table, Err: err}
			}
			return nil
		})
	}

	// each closure writes a distinct field, so no locking is needed
	read(TableCages, func(ctx context.Context) (err error) {
		snap.Units, err = src.Units(ctx, accountID)
		return err
	})
	read(TableFeedings, func(ctx context.Context) (err error) {
		snap.Feedings, err = src.FeedingSessions(ctx, accountID)
		return err
	})
	read(TableSales, func(ctx context.Context) (err error) {
		snap.Sales, err = src.Sales(ctx, accountID)
		return err
	})
	read(TableCosts, func(ctx context.Context) (err error) {
		snap.Costs, err = src.CostEntries(ctx, accountID)
		return err
	})
	read(TableMortalities, func(ctx context.Context) (err error) {
		snap.Mortalities, err = src.MortalityEvents(ctx, accountID)
		return err
	})
	read(TableWaterQuality, func(ctx context.Context) (err error) {
		snap.WaterQuality, err = src.WaterQuality(ctx, accountID)
		return err
	})
	read(TableCycles, func(ctx context.Context) (err error) {
		snap.Cycles, err = src.Cycles(ctx, accountID)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}
	// a read that returned nil after the deadline still leaves an inconsistent view
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, &DataAccessError{Source: "snapshot", Err: err}
	}

	return snap, nil
}
