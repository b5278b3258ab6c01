package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

// PerformanceRepository keeps ingested performance rows keyed by position and
// period. A missing key reads as an empty feed.
type PerformanceRepository struct {
	mu   sync.RWMutex
	rows map[string][]performance.ActualPerformance
}

func NewPerformanceRepository() *PerformanceRepository {
	return &PerformanceRepository{rows: make(map[string][]performance.ActualPerformance)}
}

func (r *PerformanceRepository) FetchActualPerformance(_ context.Context, position ranking.Position, period ranking.Period) ([]performance.ActualPerformance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return performance.Clone(r.rows[performanceKey(position, period)]), nil
}

func (r *PerformanceRepository) UpsertActualPerformance(_ context.Context, position ranking.Position, period ranking.Period, rows []performance.ActualPerformance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[performanceKey(position, period)] = performance.Clone(rows)
	return nil
}

func performanceKey(position ranking.Position, period ranking.Period) string {
	return string(position) + "|" + period.Key()
}
