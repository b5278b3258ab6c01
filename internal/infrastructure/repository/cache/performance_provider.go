package cache

import (
	"context"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	basecache "github.com/riskibarqy/rankbet/internal/platform/cache"
)

// PerformanceProvider memoizes actual performance per position and period.
// Concurrent misses for the same key share one upstream fetch.
type PerformanceProvider struct {
	next  performance.Provider
	cache *basecache.Store[[]performance.ActualPerformance]
}

func NewPerformanceProvider(next performance.Provider, cache *basecache.Store[[]performance.ActualPerformance]) *PerformanceProvider {
	return &PerformanceProvider{next: next, cache: cache}
}

func (p *PerformanceProvider) FetchActualPerformance(ctx context.Context, position ranking.Position, period ranking.Period) ([]performance.ActualPerformance, error) {
	rows, err := p.cache.GetOrLoad(ctx, performanceKey(position, period), func(ctx context.Context) ([]performance.ActualPerformance, error) {
		items, err := p.next.FetchActualPerformance(ctx, position, period)
		if err != nil {
			return nil, err
		}
		return performance.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	return performance.Clone(rows), nil
}

// Invalidate drops the cached rows of one position and period.
func (p *PerformanceProvider) Invalidate(ctx context.Context, position ranking.Position, period ranking.Period) {
	p.cache.Delete(ctx, performanceKey(position, period))
}

func performanceKey(position ranking.Position, period ranking.Period) string {
	return "performance:" + string(position) + ":" + period.Key()
}
