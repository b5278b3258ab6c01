package ranking

import (
	"context"
	"time"
)

// Repository describes ranking persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, rankingID string) (Ranking, bool, error)
	FindForUser(ctx context.Context, userID string, position Position, period Period) (Ranking, bool, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Ranking, error)
	Create(ctx context.Context, item Ranking) error
	ListPlayerRankings(ctx context.Context, rankingID string) ([]PlayerRanking, error)
	ReplacePlayerRankings(ctx context.Context, rankingID string, players []PlayerRanking) error
	UpdateAccuracyScore(ctx context.Context, rankingID string, score float64, updatedAt time.Time) error
	ListActiveByPeriod(ctx context.Context, period Period, position Position) ([]Ranking, error)
	UpdatePercentiles(ctx context.Context, percentiles []Percentile) error
	ListPlayerRankingsByPeriod(ctx context.Context, period Period, position Position) ([]PlayerRanking, error)
}

// ListFilter narrows a user's rankings. Zero fields match everything.
type ListFilter struct {
	Position Position
	Type     Type
	Season   int
	Week     *int
}

func (f ListFilter) Matches(item Ranking) bool {
	if f.Position != "" && item.Position != f.Position {
		return false
	}
	if f.Type != "" && item.Period.Type != f.Type {
		return false
	}
	if f.Season > 0 && item.Period.Season != f.Season {
		return false
	}
	if f.Week != nil && (item.Period.Week == nil || *item.Period.Week != *f.Week) {
		return false
	}
	return true
}
