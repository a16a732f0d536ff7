package benchmarking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
)

// Supported benchmarking actions.
const (
	ActionBenchmarks         = "get_benchmarks"
	ActionRegionalBenchmarks = "get_regional_benchmarks"
	ActionBestPractices      = "get_best_practices"
	ActionPerformanceRanking = "get_performance_ranking"
	ActionSubmitAnonymous    = "submit_anonymous_data"
)

// ErrNoSubmissionStore is returned when anonymous submissions are not configured.
var ErrNoSubmissionStore = errors.New("anonymous benchmark submissions are not configured")

// SubmissionStore keeps the anonymous benchmark pool.
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, sub models.BenchmarkSubmission) error
	SubmissionScores(ctx context.Context, species, region string) ([]float64, error)
}

// BenchmarksResponse answers get_benchmarks.
type BenchmarksResponse struct {
	FarmMetrics      analytics.FarmMetrics        `json:"farm_metrics"`
	Benchmark        models.BenchmarkProfile      `json:"benchmark"`
	Comparisons      []models.BenchmarkComparison `json:"comparisons"`
	PerformanceScore models.PerformanceScore      `json:"performance_score"`
	Recommendations  []string                     `json:"recommendations"`
}

// RegionalResponse answers get_regional_benchmarks.
type RegionalResponse struct {
	Region     string                    `json:"region"`
	Species    string                    `json:"species,omitempty"`
	Benchmarks []models.BenchmarkProfile `json:"benchmarks"`
}

// PracticesResponse answers get_best_practices.
type PracticesResponse struct {
	Species   string                   `json:"species"`
	Focus     []string                 `json:"focus_areas"`
	Practices []analytics.BestPractice `json:"best_practices"`
}

// Ranking answers get_performance_ranking.
type Ranking struct {
	Score            int                  `json:"score"`
	Category         models.ScoreCategory `json:"category"`
	Percentile       int                  `json:"percentile"`
	Rank             string               `json:"rank"`
	PercentileSource string               `json:"percentile_source"`
	PopulationSize   int                  `json:"population_size"`
	Species          string               `json:"species"`
	Region           string               `json:"region"`
}

// SubmissionResponse answers submit_anonymous_data.
type SubmissionResponse struct {
	Submitted  bool                       `json:"submitted"`
	Submission models.BenchmarkSubmission `json:"submission"`
}

// Service answers benchmarking actions for one farm account per call.
type Service struct {
	source  analytics.Source
	engine  *analytics.Engine
	store   SubmissionStore
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewService wires a benchmarking service. store may be nil, in which case
// rankings use the calibrated steps and submissions are refused.
func NewService(source analytics.Source, engine *analytics.Engine, store SubmissionStore, timeout time.Duration, logger *zap.Logger) *Service {
	svc := &Service{
		source:  source,
		engine:  engine,
		store:   store,
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Handle dispatches req to its action. The returned value is the response
// payload of that action.
func (s *Service) Handle(ctx context.Context, req models.FunctionRequest) (any, error) {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	region := strings.ToLower(strings.TrimSpace(req.Region))
	species := strings.ToLower(strings.TrimSpace(req.Species))

	switch action {
	case ActionRegionalBenchmarks:
		return s.regional(region, species), nil
	case ActionBenchmarks, ActionBestPractices, ActionPerformanceRanking, ActionSubmitAnonymous:
	case "":
		return nil, analytics.NewInputError("action", "action is required")
	default:
		return nil, analytics.NewInputError("action", "unknown action %q", req.Action)
	}

	farm, w, err := s.farmView(ctx, req, species, region)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionBenchmarks:
		return s.benchmarks(farm), nil
	case ActionBestPractices:
		return s.bestPractices(farm), nil
	case ActionPerformanceRanking:
		return s.ranking(ctx, farm), nil
	default:
		res, err := s.submit(ctx, farm, w)
		if err != nil {
			return nil, err
		}
		return res, nil
	}
}

func (s *Service) farmView(ctx context.Context, req models.FunctionRequest, species, region string) (analytics.FarmMetrics, models.Window, error) {
	if req.AccountID == "" {
		return analytics.FarmMetrics{}, models.Window{}, &analytics.InputError{Field: "account_id", Message: analytics.ErrMissingAccount.Error()}
	}
	w, err := analytics.ResolveWindow(req.PeriodStart, req.PeriodEnd, s.now(), s.engine.Aggregator.Location())
	if err != nil {
		return analytics.FarmMetrics{}, models.Window{}, err
	}

	snap, err := analytics.LoadSnapshot(ctx, s.source, req.AccountID, s.timeout)
	if err != nil {
		return analytics.FarmMetrics{}, models.Window{}, err
	}
	snap = snap.Filter(species, w)

	farm, err := s.engine.FarmView(ctx, snap, w, species, region)
	if err != nil {
		return analytics.FarmMetrics{}, models.Window{}, err
	}
	return farm, w, nil
}

func (s *Service) benchmarks(farm analytics.FarmMetrics) BenchmarksResponse {
	c := s.engine.Comparator
	profile := c.Profile(farm.Species, farm.Region)
	cmps := c.Compare(farm, profile)
	return BenchmarksResponse{
		FarmMetrics:      farm,
		Benchmark:        profile,
		Comparisons:      cmps,
		PerformanceScore: c.CompositeScore(farm),
		Recommendations:  c.Recommendations(cmps),
	}
}

func (s *Service) regional(region, species string) RegionalResponse {
	profiles := s.engine.Comparator.Regional(region, species)
	if profiles == nil {
		profiles = []models.BenchmarkProfile{}
	}
	return RegionalResponse{Region: region, Species: species, Benchmarks: profiles}
}

func (s *Service) bestPractices(farm analytics.FarmMetrics) PracticesResponse {
	c := s.engine.Comparator
	cmps := c.Compare(farm, c.Profile(farm.Species, farm.Region))

	focus := []string{}
	for _, cmp := range cmps {
		if !cmp.Better {
			focus = append(focus, cmp.Metric)
		}
	}
	return PracticesResponse{Species: farm.Species, Focus: focus, Practices: analytics.BestPractices(cmps)}
}

// ranking uses the submitted population when it is large enough. A failing
// pool read degrades to the calibrated steps.
func (s *Service) ranking(ctx context.Context, farm analytics.FarmMetrics) Ranking {
	score := s.engine.Comparator.CompositeScore(farm)

	var scores []float64
	if s.store != nil {
		var err error
		scores, err = s.store.SubmissionScores(ctx, farm.Species, farm.Region)
		if err != nil {
			s.logger.Warn("failed to read benchmark population, using calibrated steps",
				zap.String("species", farm.Species),
				zap.Error(err),
			)
			scores = nil
		}
	}
	p := analytics.NewPopulationPercentiler(scores, s.engine.Config().Percentiles.MinPopulation, s.engine.Percentiles)
	percentile := p.Percentile(float64(score.Score))

	return Ranking{
		Score:            score.Score,
		Category:         score.Category,
		Percentile:       percentile,
		Rank:             analytics.RankLabel(percentile),
		PercentileSource: p.Source(),
		PopulationSize:   p.PopulationSize(),
		Species:          farm.Species,
		Region:           farm.Region,
	}
}

// submit stores the farm's figures without any account identifier.
func (s *Service) submit(ctx context.Context, farm analytics.FarmMetrics, w models.Window) (SubmissionResponse, error) {
	if s.store == nil {
		return SubmissionResponse{}, ErrNoSubmissionStore
	}
	region := farm.Region
	if region == "" {
		region = "global"
	}
	sub := models.BenchmarkSubmission{
		Species:      farm.Species,
		Region:       region,
		FCR:          farm.FCR,
		SurvivalRate: farm.SurvivalRate,
		ROI:          farm.ROI,
		ProfitMargin: farm.ProfitMargin,
		Score:        s.engine.Comparator.CompositeScore(farm).Score,
		PeriodStart:  w.Start,
		PeriodEnd:    w.End,
		SubmittedAt:  s.now().UTC(),
	}
	if err := s.store.SaveSubmission(ctx, sub); err != nil {
		return SubmissionResponse{}, &analytics.DataAccessError{Source: "benchmark_submissions", Err: err}
	}

	s.logger.Info("anonymous benchmark submitted",
		zap.String("species", sub.Species),
		zap.String("region", sub.Region),
		zap.Int("score", sub.Score),
	)
	return SubmissionResponse{Submitted: true, Submission: sub}, nil
}
