package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	basecache "github.com/riskibarqy/rankbet/internal/platform/cache"
)

const userListPrefix = "ranking:user:"

type cachedRankingByID struct {
	value  ranking.Ranking
	exists bool
}

// RankingRepository caches ranking, player-list and per-user list reads.
// Every write goes straight to the next repository and evicts the keys it
// touches. Score writes drop every user list since the owner is not known.
type RankingRepository struct {
	next     ranking.Repository
	rankings *basecache.Store[cachedRankingByID]
	players  *basecache.Store[[]ranking.PlayerRanking]
	lists    *basecache.Store[[]ranking.Ranking]
}

func NewRankingRepository(next ranking.Repository, ttl time.Duration) *RankingRepository {
	return &RankingRepository{
		next:     next,
		rankings: basecache.NewStore[cachedRankingByID](ttl),
		players:  basecache.NewStore[[]ranking.PlayerRanking](ttl),
		lists:    basecache.NewStore[[]ranking.Ranking](ttl),
	}
}

func (r *RankingRepository) GetByID(ctx context.Context, rankingID string) (ranking.Ranking, bool, error) {
	cached, err := r.rankings.GetOrLoad(ctx, "ranking:id:"+rankingID, func(ctx context.Context) (cachedRankingByID, error) {
		item, exists, err := r.next.GetByID(ctx, rankingID)
		if err != nil {
			return cachedRankingByID{}, err
		}
		return cachedRankingByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return ranking.Ranking{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *RankingRepository) FindForUser(ctx context.Context, userID string, position ranking.Position, period ranking.Period) (ranking.Ranking, bool, error) {
	return r.next.FindForUser(ctx, userID, position, period)
}

func (r *RankingRepository) ListByUser(ctx context.Context, userID string, filter ranking.ListFilter) ([]ranking.Ranking, error) {
	items, err := r.lists.GetOrLoad(ctx, userListKey(userID, filter), func(ctx context.Context) ([]ranking.Ranking, error) {
		items, err := r.next.ListByUser(ctx, userID, filter)
		if err != nil {
			return nil, err
		}
		return append([]ranking.Ranking(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]ranking.Ranking(nil), items...), nil
}

// Create evicts the id key so an earlier miss is not served.
func (r *RankingRepository) Create(ctx context.Context, item ranking.Ranking) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.rankings.Delete(ctx, "ranking:id:"+item.ID)
	r.lists.DeletePrefix(ctx, userListPrefix+item.UserID+":")
	return nil
}

func (r *RankingRepository) ListPlayerRankings(ctx context.Context, rankingID string) ([]ranking.PlayerRanking, error) {
	items, err := r.players.GetOrLoad(ctx, "ranking:players:"+rankingID, func(ctx context.Context) ([]ranking.PlayerRanking, error) {
		items, err := r.next.ListPlayerRankings(ctx, rankingID)
		if err != nil {
			return nil, err
		}
		return append([]ranking.PlayerRanking(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]ranking.PlayerRanking(nil), items...), nil
}

func (r *RankingRepository) ReplacePlayerRankings(ctx context.Context, rankingID string, players []ranking.PlayerRanking) error {
	if err := r.next.ReplacePlayerRankings(ctx, rankingID, players); err != nil {
		return err
	}
	r.players.Delete(ctx, "ranking:players:"+rankingID)
	r.rankings.Delete(ctx, "ranking:id:"+rankingID)
	r.lists.DeletePrefix(ctx, userListPrefix)
	return nil
}

func (r *RankingRepository) UpdateAccuracyScore(ctx context.Context, rankingID string, score float64, updatedAt time.Time) error {
	if err := r.next.UpdateAccuracyScore(ctx, rankingID, score, updatedAt); err != nil {
		return err
	}
	r.rankings.Delete(ctx, "ranking:id:"+rankingID)
	r.lists.DeletePrefix(ctx, userListPrefix)
	return nil
}

// ListActiveByPeriod is not cached; percentile refreshes need fresh scores.
func (r *RankingRepository) ListActiveByPeriod(ctx context.Context, period ranking.Period, position ranking.Position) ([]ranking.Ranking, error) {
	return r.next.ListActiveByPeriod(ctx, period, position)
}

func (r *RankingRepository) UpdatePercentiles(ctx context.Context, percentiles []ranking.Percentile) error {
	if err := r.next.UpdatePercentiles(ctx, percentiles); err != nil {
		return err
	}
	for _, p := range percentiles {
		r.rankings.Delete(ctx, "ranking:id:"+p.RankingID)
	}
	r.lists.DeletePrefix(ctx, userListPrefix)
	return nil
}

func (r *RankingRepository) ListPlayerRankingsByPeriod(ctx context.Context, period ranking.Period, position ranking.Position) ([]ranking.PlayerRanking, error) {
	return r.next.ListPlayerRankingsByPeriod(ctx, period, position)
}

func userListKey(userID string, filter ranking.ListFilter) string {
	week := 0
	if filter.Week != nil {
		week = *filter.Week
	}
	return fmt.Sprintf("%s%s:%s:%s:%d:%d", userListPrefix, userID, filter.Position, filter.Type, filter.Season, week)
}
