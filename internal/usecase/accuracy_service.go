package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/rankbet/internal/domain/accuracy"
	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/platform/logging"
	"github.com/riskibarqy/rankbet/internal/platform/resilience"
)

// DataSource tells callers where an accuracy score came from.
type DataSource string

const (
	DataSourceReal   DataSource = "real"
	DataSourceNoData DataSource = "no_data"
	DataSourceCached DataSource = "cached"
)

// AccuracyOutcome is a score for one ranking together with its provenance.
// Result only carries a breakdown when Calculated is true.
type AccuracyOutcome struct {
	RankingID  string
	Result     accuracy.Result
	Calculated bool
	DataSource DataSource
	ScoredAt   time.Time
}

// ScoreOutcome is the result of scoring an ad-hoc ranking.
type ScoreOutcome struct {
	Result     accuracy.Result
	DataSource DataSource
	Period     ranking.Period
}

type AccuracyServiceOptions struct {
	Metrics ScoringMetrics
	Logger  *logging.Logger
	Now     func() time.Time
}

type AccuracyService struct {
	rankings ranking.Repository
	provider performance.Provider
	metrics  ScoringMetrics
	logger   *logging.Logger
	now      func() time.Time
}

func NewAccuracyService(rankings ranking.Repository, provider performance.Provider, opts AccuracyServiceOptions) *AccuracyService {
	s := &AccuracyService{
		rankings: rankings,
		provider: provider,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CalculateForRanking recomputes the score of a stored ranking, persists it
// and refreshes the percentiles of its period. A percentile failure is
// logged and does not fail the call.
func (s *AccuracyService) CalculateForRanking(ctx context.Context, rankingID string) (AccuracyOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccuracyService.CalculateForRanking", attribute.String("ranking_id", rankingID))
	defer span.End()

	item, err := s.loadRanking(ctx, rankingID)
	if err != nil {
		return AccuracyOutcome{}, err
	}

	outcome, err := s.scoreStored(ctx, item)
	if err != nil {
		return AccuracyOutcome{}, err
	}

	if err := s.RefreshPercentiles(ctx, item.Position, item.Period); err != nil {
		s.logger.WarnContext(ctx, "refresh percentiles failed",
			"ranking_id", item.ID,
			"position", item.Position,
			"period", item.Period.Key(),
			"error", err,
		)
	}

	return outcome, nil
}

// GetForRanking returns the stored score when one exists, otherwise it
// computes and persists it.
func (s *AccuracyService) GetForRanking(ctx context.Context, rankingID string) (AccuracyOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccuracyService.GetForRanking", attribute.String("ranking_id", rankingID))
	defer span.End()

	item, err := s.loadRanking(ctx, rankingID)
	if err != nil {
		return AccuracyOutcome{}, err
	}

	if item.AccuracyScore != nil {
		return AccuracyOutcome{
			RankingID:  item.ID,
			Result:     accuracy.Result{Position: item.Position, AccuracyPercentage: *item.AccuracyScore},
			Calculated: false,
			DataSource: DataSourceCached,
			ScoredAt:   item.UpdatedAt,
		}, nil
	}

	return s.scoreStored(ctx, item)
}

// Score evaluates an unsaved ranking. Nothing is persisted. An empty list
// scores zero.
func (s *AccuracyService) Score(ctx context.Context, entries []accuracy.PredictedRanking, position ranking.Position, period ranking.Period) (ScoreOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccuracyService.Score", attribute.String("position", string(position)))
	defer span.End()

	if _, ok := ranking.AllPositions[position]; !ok {
		return ScoreOutcome{}, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, position)
	}
	if err := period.Validate(); err != nil {
		return ScoreOutcome{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	actual, err := s.fetchPerformance(ctx, position, period)
	if err != nil {
		return ScoreOutcome{}, err
	}

	result := accuracy.Calculate(entries, actual, position)
	source := dataSourceFor(actual)
	s.metrics.ObserveCalculation(string(position), string(source), result.AccuracyPercentage)

	return ScoreOutcome{Result: result, DataSource: source, Period: period}, nil
}

// SampleRanking is the five-quarterback demo list used by SampleScore.
func SampleRanking() []accuracy.PredictedRanking {
	return []accuracy.PredictedRanking{
		{PlayerID: "qb1", RankPosition: 1},
		{PlayerID: "qb2", RankPosition: 2},
		{PlayerID: "qb3", RankPosition: 3},
		{PlayerID: "qb4", RankPosition: 4},
		{PlayerID: "qb5", RankPosition: 5},
	}
}

// SampleScore scores SampleRanking for the current period.
func (s *AccuracyService) SampleScore(ctx context.Context) (ScoreOutcome, error) {
	period := ranking.CurrentPeriod(s.now())
	return s.Score(ctx, SampleRanking(), ranking.PositionQuarterback, period)
}

// ActualPerformance exposes the provider feed the scores are computed from.
func (s *AccuracyService) ActualPerformance(ctx context.Context, position ranking.Position, period ranking.Period) ([]performance.ActualPerformance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccuracyService.ActualPerformance")
	defer span.End()

	if _, ok := ranking.AllPositions[position]; !ok {
		return nil, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, position)
	}
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.fetchPerformance(ctx, position, period)
}

// RefreshPercentiles recomputes the percentile standing of every scored
// ranking in the position and period.
func (s *AccuracyService) RefreshPercentiles(ctx context.Context, position ranking.Position, period ranking.Period) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccuracyService.RefreshPercentiles")
	defer span.End()

	items, err := s.rankings.ListActiveByPeriod(ctx, period, position)
	if err != nil {
		return fmt.Errorf("list rankings for period: %w", err)
	}
	percentiles := ComputePercentiles(items)
	if len(percentiles) == 0 {
		return nil
	}
	if err := s.rankings.UpdatePercentiles(ctx, percentiles); err != nil {
		return fmt.Errorf("update percentiles: %w", err)
	}
	return nil
}

func (s *AccuracyService) loadRanking(ctx context.Context, rankingID string) (ranking.Ranking, error) {
	rankingID = strings.TrimSpace(rankingID)
	if rankingID == "" {
		return ranking.Ranking{}, fmt.Errorf("%w: ranking id is required", ErrInvalidInput)
	}

	item, exists, err := s.rankings.GetByID(ctx, rankingID)
	if err != nil {
		return ranking.Ranking{}, fmt.Errorf("get ranking: %w", err)
	}
	if !exists {
		return ranking.Ranking{}, fmt.Errorf("%w: ranking=%s", ErrNotFound, rankingID)
	}
	return item, nil
}

func (s *AccuracyService) scoreStored(ctx context.Context, item ranking.Ranking) (AccuracyOutcome, error) {
	players, err := s.rankings.ListPlayerRankings(ctx, item.ID)
	if err != nil {
		return AccuracyOutcome{}, fmt.Errorf("list player rankings: %w", err)
	}

	actual, err := s.fetchPerformance(ctx, item.Position, item.Period)
	if err != nil {
		return AccuracyOutcome{}, err
	}

	result := accuracy.Calculate(toPredictions(players), actual, item.Position)
	source := dataSourceFor(actual)
	scoredAt := s.now().UTC()

	if err := s.rankings.UpdateAccuracyScore(ctx, item.ID, result.AccuracyPercentage, scoredAt); err != nil {
		return AccuracyOutcome{}, fmt.Errorf("update accuracy score: %w", err)
	}
	s.metrics.ObserveCalculation(string(item.Position), string(source), result.AccuracyPercentage)
	s.logger.InfoContext(ctx, "ranking scored",
		"ranking_id", item.ID,
		"position", item.Position,
		"period", item.Period.Key(),
		"accuracy", result.AccuracyPercentage,
		"data_source", source,
	)

	return AccuracyOutcome{
		RankingID:  item.ID,
		Result:     result,
		Calculated: true,
		DataSource: source,
		ScoredAt:   scoredAt,
	}, nil
}

func (s *AccuracyService) fetchPerformance(ctx context.Context, position ranking.Position, period ranking.Period) ([]performance.ActualPerformance, error) {
	actual, err := s.provider.FetchActualPerformance(ctx, position, period)
	if err == nil {
		return actual, nil
	}

	s.metrics.IncProviderError(string(position))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if errors.Is(err, ErrDependencyUnavailable) {
		return nil, fmt.Errorf("fetch actual performance: %w", err)
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, fmt.Errorf("%w: fetch actual performance: %w", ErrDependencyUnavailable, err)
	}
	return nil, fmt.Errorf("%w: fetch actual performance: %v", ErrDependencyUnavailable, err)
}

func toPredictions(players []ranking.PlayerRanking) []accuracy.PredictedRanking {
	out := make([]accuracy.PredictedRanking, 0, len(players))
	for _, p := range players {
		out = append(out, accuracy.PredictedRanking{
			PlayerID:     p.PlayerID,
			RankPosition: p.RankPosition,
			IsStarred:    p.IsStarred,
		})
	}
	return out
}

func dataSourceFor(actual []performance.ActualPerformance) DataSource {
	if len(actual) > 0 {
		return DataSourceReal
	}
	return DataSourceNoData
}
