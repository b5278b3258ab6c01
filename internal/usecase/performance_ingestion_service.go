package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/platform/logging"
)

// PerformanceCacheInvalidator drops cached feeds after new rows are stored.
type PerformanceCacheInvalidator interface {
	Invalidate(ctx context.Context, position ranking.Position, period ranking.Period)
}

type IngestPerformanceInput struct {
	Period    ranking.Period
	Positions []ranking.Position
}

type IngestPerformanceResult struct {
	Period     string                            `json:"period"`
	StoredRows int                               `json:"stored_rows"`
	FailedPos  int                               `json:"failed_positions"`
	DurationMs int64                             `json:"duration_ms"`
	Positions  []IngestPerformancePositionResult `json:"positions"`
}

type IngestPerformancePositionResult struct {
	Position string `json:"position"`
	Rows     int    `json:"rows"`
	Inactive int    `json:"inactive"`
	Error    string `json:"error,omitempty"`
}

// PerformanceIngestionService copies a live stats feed into the performance
// store so scoring can run against persisted data.
type PerformanceIngestionService struct {
	source      performance.Provider
	store       performance.Repository
	invalidator PerformanceCacheInvalidator
	metrics     ScoringMetrics
	logger      *logging.Logger
	now         func() time.Time
}

func NewPerformanceIngestionService(
	source performance.Provider,
	store performance.Repository,
	invalidator PerformanceCacheInvalidator,
	opts AccuracyServiceOptions,
) *PerformanceIngestionService {
	s := &PerformanceIngestionService{
		source:      source,
		store:       store,
		invalidator: invalidator,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		now:         opts.Now,
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

// Ingest fetches every requested position from the source feed and replaces
// the stored rows. A position whose feed fails is reported and skipped; a
// store failure aborts the run.
func (s *PerformanceIngestionService) Ingest(ctx context.Context, input IngestPerformanceInput) (IngestPerformanceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PerformanceIngestionService.Ingest")
	defer span.End()

	if err := input.Period.Validate(); err != nil {
		return IngestPerformanceResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	positions, err := normalizeRescorePositions(input.Positions)
	if err != nil {
		return IngestPerformanceResult{}, err
	}

	started := s.now()
	result := IngestPerformanceResult{
		Period:    input.Period.Key(),
		Positions: make([]IngestPerformancePositionResult, 0, len(positions)),
	}

	for _, position := range positions {
		if err := ctx.Err(); err != nil {
			return IngestPerformanceResult{}, err
		}

		row := IngestPerformancePositionResult{Position: string(position)}
		actual, err := s.source.FetchActualPerformance(ctx, position, input.Period)
		if err != nil {
			s.metrics.IncProviderError(string(position))
			s.logger.WarnContext(ctx, "ingest performance fetch failed",
				"position", position,
				"period", result.Period,
				"error", err,
			)
			row.Error = err.Error()
			result.FailedPos++
			result.Positions = append(result.Positions, row)
			continue
		}

		if err := s.store.UpsertActualPerformance(ctx, position, input.Period, actual); err != nil {
			return IngestPerformanceResult{}, fmt.Errorf("store %s performance: %w", position, err)
		}
		if s.invalidator != nil {
			s.invalidator.Invalidate(ctx, position, input.Period)
		}

		row.Rows = len(actual)
		for _, item := range actual {
			if item.IsInactive() {
				row.Inactive++
			}
		}
		result.StoredRows += row.Rows
		result.Positions = append(result.Positions, row)
	}

	result.DurationMs = s.now().Sub(started).Milliseconds()
	s.logger.InfoContext(ctx, "performance ingested",
		"period", result.Period,
		"rows", result.StoredRows,
		"failed_positions", result.FailedPos,
	)
	return result, nil
}
