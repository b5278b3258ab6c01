package performance

import (
	"context"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

// Provider resolves actual performance for a position and period.
type Provider interface {
	FetchActualPerformance(ctx context.Context, position ranking.Position, period ranking.Period) ([]ActualPerformance, error)
}

// Repository stores ingested performance rows.
type Repository interface {
	Provider
	UpsertActualPerformance(ctx context.Context, position ranking.Position, period ranking.Period, rows []ActualPerformance) error
}
