package optimizer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
)

// Service runs the optimizer pipeline for one farm account per call.
type Service struct {
	source  analytics.Source
	engine  *analytics.Engine
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewService wires an optimizer service.
func NewService(source analytics.Source, engine *analytics.Engine, timeout time.Duration, logger *zap.Logger) *Service {
	svc := &Service{
		source:  source,
		engine:  engine,
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Optimize validates the request, loads the account snapshot and analyzes
// it. Request errors are reported before any read is issued.
func (s *Service) Optimize(ctx context.Context, req models.FunctionRequest) (analytics.Analysis, error) {
	if req.AccountID == "" {
		return analytics.Analysis{}, &analytics.InputError{Field: "account_id", Message: analytics.ErrMissingAccount.Error()}
	}
	filter, err := analytics.ParseOptimizationType(req.OptimizationType)
	if err != nil {
		return analytics.Analysis{}, err
	}
	w, err := analytics.ResolveWindow(req.PeriodStart, req.PeriodEnd, s.now(), s.engine.Aggregator.Location())
	if err != nil {
		return analytics.Analysis{}, err
	}

	snap, err := analytics.LoadSnapshot(ctx, s.source, req.AccountID, s.timeout)
	if err != nil {
		return analytics.Analysis{}, err
	}
	snap = snap.Filter(req.Species, w)

	analysis, err := s.engine.Analyze(ctx, snap, w, filter)
	if err != nil {
		return analytics.Analysis{}, err
	}

	s.logger.Info("optimization computed",
		zap.String("account_id", req.AccountID),
		zap.Int("cages", len(analysis.CurrentPerformance.Cages)),
		zap.Int("opportunities", len(analysis.Opportunities)),
		zap.Float64("projected_roi", analysis.Projection.ProjectedROI),
	)
	return analysis, nil
}
