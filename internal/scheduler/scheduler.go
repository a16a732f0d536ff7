package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/reporting"
)

const jobTimeout = 2 * time.Minute

// ReportGenerator builds and archives one period report.
type ReportGenerator interface {
	Generate(ctx context.Context, accountID string, p models.PeriodType, ref time.Time) (reporting.Result, error)
}

type job struct {
	period models.PeriodType
	spec   string
}

// Scheduler generates the periodic reports of every configured account.
type Scheduler struct {
	cron    *cron.Cron
	reports ReportGenerator
	cfg     config.ReportingConfig
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reports ReportGenerator, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", cfg.Timezone, err)
	}

	// standard 5-field parser: minute, hour, day of month, month, day of week
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:    c,
		reports: reports,
		cfg:     cfg,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}, nil
}

func (s *Scheduler) jobs() []job {
	return []job{
		{models.PeriodDaily, s.cfg.DailyCron},
		{models.PeriodWeekly, s.cfg.WeeklyCron},
		{models.PeriodMonthly, s.cfg.MonthlyCron},
		{models.PeriodQuarterly, s.cfg.QuarterlyCron},
	}
}

// register adds one cron entry per report period with a non-empty schedule.
func (s *Scheduler) register() error {
	for _, j := range s.jobs() {
		if j.spec == "" {
			continue
		}
		period := j.period
		if _, err := s.cron.AddFunc(j.spec, func() { s.runReports(period) }); err != nil {
			return fmt.Errorf("schedule %s report %q: %w", period, j.spec, err)
		}
	}
	return nil
}

// Start registers the report jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if len(s.cfg.AccountIDs) == 0 {
		s.logger.Warn("no report accounts configured, scheduler idle")
	}
	if err := s.register(); err != nil {
		return err
	}

	s.logger.Info("starting scheduler",
		zap.String("timezone", s.loc.String()),
		zap.Int("accounts", len(s.cfg.AccountIDs)),
		zap.Int("jobs", len(s.cron.Entries())),
	)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// reference is the day a job reports on. Monthly and quarterly jobs fire on
// the first day of the next period, so they look back one day.
func reference(p models.PeriodType, now time.Time) time.Time {
	switch p {
	case models.PeriodMonthly, models.PeriodQuarterly:
		return now.AddDate(0, 0, -1)
	}
	return now
}

// runReports generates the p report of every account. A failing account is
// logged and does not stop the others.
func (s *Scheduler) runReports(p models.PeriodType) {
	ref := reference(p, s.now().In(s.loc))
	s.logger.Info("generating scheduled reports", zap.String("period", string(p)), zap.Time("reference", ref))

	for _, account := range s.cfg.AccountIDs {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		res, err := s.reports.Generate(ctx, account, p, ref)
		cancel()
		if err != nil {
			s.logger.Error("failed to generate scheduled report",
				zap.String("account_id", account),
				zap.String("period", string(p)),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("scheduled report generated",
			zap.String("account_id", account),
			zap.String("title", res.Report.Title),
		)
	}
}
