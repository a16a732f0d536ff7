package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
)

// ReportStore archives generated reports.
type ReportStore interface {
	SaveReport(ctx context.Context, report models.StoredReport) error
}

// MultiStore saves a report into every store and joins their errors.
type MultiStore []ReportStore

// SaveReport implements ReportStore.
func (m MultiStore) SaveReport(ctx context.Context, report models.StoredReport) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.SaveReport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Result is what Generate returns to callers.
type Result struct {
	Report      models.Report `json:"report"`
	HTML        string        `json:"html"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Service generates, renders and archives period reports.
type Service struct {
	source   analytics.Source
	composer *Composer
	renderer *Renderer
	store    ReportStore
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires a reporting service. store may be nil when reports are not archived.
func NewService(source analytics.Source, composer *Composer, renderer *Renderer, store ReportStore, timeout time.Duration, logger *zap.Logger) *Service {
	svc := &Service{
		source:   source,
		composer: composer,
		renderer: renderer,
		store:    store,
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// ParsePeriod maps the report_type request field onto a period type.
func ParsePeriod(raw string) (models.PeriodType, error) {
	p := models.PeriodType(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return "", analytics.NewInputError("report_type", "report_type is required")
	}
	if !p.Valid() {
		return "", analytics.NewInputError("report_type", "unknown report type %q", raw)
	}
	return p, nil
}

// Handle resolves the report type and reference day of req, then generates
// the report. The reference day is period_start when given, else today.
func (s *Service) Handle(ctx context.Context, req models.FunctionRequest) (Result, error) {
	p, err := ParsePeriod(req.ReportType)
	if err != nil {
		return Result{}, err
	}
	ref, err := analytics.ReferenceDate(req.PeriodStart, s.now(), s.composer.engine.Aggregator.Location())
	if err != nil {
		return Result{}, err
	}
	return s.Generate(ctx, req.AccountID, p, ref)
}

// Generate builds the report of type p for the period containing ref. A
// failing archive is logged and does not fail the request.
func (s *Service) Generate(ctx context.Context, accountID string, p models.PeriodType, ref time.Time) (Result, error) {
	if !p.Valid() {
		return Result{}, analytics.NewInputError("report_type", "unknown report type %q", p)
	}

	snap, err := analytics.LoadSnapshot(ctx, s.source, accountID, s.timeout)
	if err != nil {
		return Result{}, err
	}

	report, err := s.composer.Compose(ctx, p, ref, snap)
	if err != nil {
		return Result{}, fmt.Errorf("failed to compose %s report: %w", p, err)
	}

	generatedAt := s.now().UTC()
	html, err := s.renderer.Render(report, generatedAt.In(s.composer.engine.Aggregator.Location()))
	if err != nil {
		return Result{}, err
	}

	if s.store != nil {
		stored := models.StoredReport{Report: report, HTML: html, GeneratedAt: generatedAt}
		if err := s.store.SaveReport(ctx, stored); err != nil {
			s.logger.Warn("failed to archive report",
				zap.String("account_id", accountID),
				zap.String("period", string(p)),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("report generated",
		zap.String("account_id", accountID),
		zap.String("period", string(p)),
		zap.String("title", report.Title),
		zap.Int("recommendations", len(report.Recommendations)),
	)

	return Result{Report: report, HTML: html, GeneratedAt: generatedAt}, nil
}
