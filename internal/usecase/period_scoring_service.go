package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/rankbet/internal/domain/accuracy"
	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/platform/logging"
)

const defaultRescoreWorkers = 8

type RescoreInput struct {
	Period     ranking.Period
	Positions  []ranking.Position
	MaxWorkers int
	// DryRun scores every ranking but skips score and percentile writes.
	DryRun bool
}

type RescoreResult struct {
	Period       string                  `json:"period"`
	WorkerCount  int                     `json:"worker_count"`
	RankingCount int                     `json:"ranking_count"`
	ScoredCount  int                     `json:"scored_count"`
	FailedCount  int                     `json:"failed_count"`
	DurationMs   int64                   `json:"duration_ms"`
	Positions    []RescorePositionResult `json:"positions"`
}

type RescorePositionResult struct {
	Position       string `json:"position"`
	DataSource     string `json:"data_source"`
	Rankings       int    `json:"rankings"`
	Scored         int    `json:"scored"`
	Failed         int    `json:"failed"`
	Percentiles    int    `json:"percentiles"`
	PercentilesErr string `json:"percentiles_error,omitempty"`
	Message        string `json:"message,omitempty"`
}

type positionSnapshot struct {
	position ranking.Position
	rankings []ranking.Ranking
	actual   []performance.ActualPerformance
	err      error
}

type PeriodScoringService struct {
	rankings   ranking.Repository
	provider   performance.Provider
	metrics    ScoringMetrics
	logger     *logging.Logger
	maxWorkers int
	now        func() time.Time
}

func NewPeriodScoringService(rankings ranking.Repository, provider performance.Provider, maxWorkers int, opts AccuracyServiceOptions) *PeriodScoringService {
	if maxWorkers <= 0 {
		maxWorkers = defaultRescoreWorkers
	}
	s := &PeriodScoringService{
		rankings:   rankings,
		provider:   provider,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		maxWorkers: maxWorkers,
		now:        opts.Now,
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

// RescorePeriod recomputes the score of every active ranking in the period
// and refreshes the percentiles of each position afterwards. A position whose
// performance data cannot be fetched is reported as failed; the others still
// run.
func (s *PeriodScoringService) RescorePeriod(ctx context.Context, input RescoreInput) (RescoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PeriodScoringService.RescorePeriod")
	defer span.End()

	if err := input.Period.Validate(); err != nil {
		return RescoreResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	positions, err := normalizeRescorePositions(input.Positions)
	if err != nil {
		return RescoreResult{}, err
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 || workerCount > s.maxWorkers {
		workerCount = s.maxWorkers
	}

	started := s.now()
	result := RescoreResult{
		Period:      input.Period.Key(),
		WorkerCount: workerCount,
		Positions:   make([]RescorePositionResult, 0, len(positions)),
	}

	snapshots, err := s.prefetch(ctx, input.Period, positions, workerCount)
	if err != nil {
		return RescoreResult{}, err
	}

	for _, snap := range snapshots {
		row := RescorePositionResult{
			Position: string(snap.position),
			Rankings: len(snap.rankings),
		}
		if snap.err != nil {
			row.Failed = len(snap.rankings)
			row.Message = snap.err.Error()
			result.RankingCount += row.Rankings
			result.FailedCount += row.Failed
			result.Positions = append(result.Positions, row)
			continue
		}
		row.DataSource = string(dataSourceFor(snap.actual))

		scored, failed, err := s.scorePosition(ctx, snap, workerCount, input.DryRun)
		if err != nil {
			return RescoreResult{}, err
		}
		row.Scored = len(scored)
		row.Failed = failed

		if !input.DryRun {
			n, err := s.refreshPercentiles(ctx, snap, scored)
			if err != nil {
				row.PercentilesErr = err.Error()
				s.logger.WarnContext(ctx, "refresh percentiles failed",
					"position", snap.position,
					"period", input.Period.Key(),
					"error", err,
				)
			}
			row.Percentiles = n
		}

		result.RankingCount += row.Rankings
		result.ScoredCount += row.Scored
		result.FailedCount += row.Failed
		result.Positions = append(result.Positions, row)
	}

	elapsed := s.now().Sub(started)
	result.DurationMs = elapsed.Milliseconds()
	s.metrics.ObserveRescore(elapsed, result.ScoredCount, result.FailedCount)
	s.logger.InfoContext(ctx, "period rescored",
		"period", result.Period,
		"rankings", result.RankingCount,
		"scored", result.ScoredCount,
		"failed", result.FailedCount,
		"dry_run", input.DryRun,
	)

	return result, nil
}

// prefetch loads the rankings and the performance feed of every position
// concurrently. Provider failures are kept on the snapshot; a repository
// failure aborts the run.
func (s *PeriodScoringService) prefetch(ctx context.Context, period ranking.Period, positions []ranking.Position, workers int) ([]positionSnapshot, error) {
	p := pool.NewWithResults[positionSnapshot]().
		WithContext(ctx).
		WithMaxGoroutines(min(workers, len(positions)))

	for _, position := range positions {
		p.Go(func(ctx context.Context) (positionSnapshot, error) {
			snap := positionSnapshot{position: position}

			items, err := s.rankings.ListActiveByPeriod(ctx, period, position)
			if err != nil {
				return snap, fmt.Errorf("list %s rankings: %w", position, err)
			}
			snap.rankings = items
			if len(items) == 0 {
				return snap, nil
			}

			actual, err := s.provider.FetchActualPerformance(ctx, position, period)
			if err != nil {
				s.metrics.IncProviderError(string(position))
				snap.err = fmt.Errorf("%w: fetch %s performance: %v", ErrDependencyUnavailable, position, err)
				return snap, nil
			}
			snap.actual = actual
			return snap, nil
		})
	}

	snapshots, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].position < snapshots[j].position
	})
	return snapshots, nil
}

func (s *PeriodScoringService) scorePosition(ctx context.Context, snap positionSnapshot, workers int, dryRun bool) ([]ranking.Ranking, int, error) {
	if len(snap.rankings) == 0 {
		return nil, 0, nil
	}

	results := make(chan ranking.Ranking, len(snap.rankings))
	var failedCount atomic.Int32

	workerPool, err := ants.NewPool(workers)
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	source := string(dataSourceFor(snap.actual))
	var wg sync.WaitGroup
	for _, item := range snap.rankings {
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()

			score, err := s.scoreOne(ctx, item, snap.actual, dryRun)
			if err != nil {
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "rescore ranking failed",
					"ranking_id", item.ID,
					"position", item.Position,
					"error", err,
				)
				return
			}
			s.metrics.ObserveCalculation(string(item.Position), source, score)
			item.AccuracyScore = &score
			results <- item
		}); err != nil {
			wg.Done()
			return nil, 0, fmt.Errorf("submit ranking to worker pool: %w", err)
		}
	}

	wg.Wait()
	close(results)

	scored := make([]ranking.Ranking, 0, len(snap.rankings))
	for item := range results {
		scored = append(scored, item)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ID < scored[j].ID
	})
	return scored, int(failedCount.Load()), nil
}

func (s *PeriodScoringService) scoreOne(ctx context.Context, item ranking.Ranking, actual []performance.ActualPerformance, dryRun bool) (float64, error) {
	players, err := s.rankings.ListPlayerRankings(ctx, item.ID)
	if err != nil {
		return 0, fmt.Errorf("list player rankings: %w", err)
	}

	result := accuracy.Calculate(toPredictions(players), actual, item.Position)
	if dryRun {
		return result.AccuracyPercentage, nil
	}
	if err := s.rankings.UpdateAccuracyScore(ctx, item.ID, result.AccuracyPercentage, s.now().UTC()); err != nil {
		return 0, fmt.Errorf("update accuracy score: %w", err)
	}
	return result.AccuracyPercentage, nil
}

// refreshPercentiles ranks the freshly scored rankings together with the
// ones that failed this run but still hold an older score.
func (s *PeriodScoringService) refreshPercentiles(ctx context.Context, snap positionSnapshot, scored []ranking.Ranking) (int, error) {
	fresh := make(map[string]ranking.Ranking, len(scored))
	for _, item := range scored {
		fresh[item.ID] = item
	}
	merged := make([]ranking.Ranking, 0, len(snap.rankings))
	for _, item := range snap.rankings {
		if updated, ok := fresh[item.ID]; ok {
			item = updated
		}
		merged = append(merged, item)
	}

	percentiles := ComputePercentiles(merged)
	if len(percentiles) == 0 {
		return 0, nil
	}
	if err := s.rankings.UpdatePercentiles(ctx, percentiles); err != nil {
		return 0, fmt.Errorf("update percentiles: %w", err)
	}
	return len(percentiles), nil
}

func normalizeRescorePositions(raw []ranking.Position) ([]ranking.Position, error) {
	if len(raw) == 0 {
		out := make([]ranking.Position, 0, len(ranking.AllPositions))
		for p := range ranking.AllPositions {
			out = append(out, p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out, nil
	}

	seen := make(map[ranking.Position]struct{}, len(raw))
	out := make([]ranking.Position, 0, len(raw))
	for _, p := range raw {
		if _, ok := ranking.AllPositions[p]; !ok {
			return nil, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
