package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

var ErrRankingNotFound = errors.New("ranking not found")

type RankingRepository struct {
	mu      sync.RWMutex
	items   map[string]ranking.Ranking
	orders  []string
	players map[string][]ranking.PlayerRanking
}

func NewRankingRepository(rankings []ranking.Ranking, players []ranking.PlayerRanking) *RankingRepository {
	items := make(map[string]ranking.Ranking, len(rankings))
	orders := make([]string, 0, len(rankings))
	for _, item := range rankings {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	byRanking := make(map[string][]ranking.PlayerRanking)
	for _, p := range players {
		byRanking[p.RankingID] = append(byRanking[p.RankingID], p)
	}

	return &RankingRepository{
		items:   items,
		orders:  orders,
		players: byRanking,
	}
}

func (r *RankingRepository) GetByID(_ context.Context, rankingID string) (ranking.Ranking, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[rankingID]
	if !ok {
		return ranking.Ranking{}, false, nil
	}
	return item, true, nil
}

func (r *RankingRepository) ListPlayerRankings(_ context.Context, rankingID string) ([]ranking.PlayerRanking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]ranking.PlayerRanking(nil), r.players[rankingID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankPosition < out[j].RankPosition
	})
	return out, nil
}

// ReplacePlayerRankings swaps the list and drops the stored score, which no
// longer describes it.
func (r *RankingRepository) ReplacePlayerRankings(_ context.Context, rankingID string, players []ranking.PlayerRanking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[rankingID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRankingNotFound, rankingID)
	}
	r.players[rankingID] = append([]ranking.PlayerRanking(nil), players...)

	item.AccuracyScore = nil
	item.PercentileRank = nil
	item.TotalRankingsInPeriod = nil
	item.UpdatedAt = time.Now().UTC()
	r.items[rankingID] = item
	return nil
}

func (r *RankingRepository) UpdateAccuracyScore(_ context.Context, rankingID string, score float64, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[rankingID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRankingNotFound, rankingID)
	}
	item.AccuracyScore = &score
	item.UpdatedAt = updatedAt
	r.items[rankingID] = item
	return nil
}

func (r *RankingRepository) ListActiveByPeriod(_ context.Context, period ranking.Period, position ranking.Position) ([]ranking.Ranking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := period.Key()
	out := make([]ranking.Ranking, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if !item.IsActive || item.Position != position || item.Period.Key() != key {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RankingRepository) UpdatePercentiles(_ context.Context, percentiles []ranking.Percentile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range percentiles {
		item, ok := r.items[p.RankingID]
		if !ok {
			continue
		}
		rank := p.PercentileRank
		total := p.TotalRankingsInPeriod
		item.PercentileRank = &rank
		item.TotalRankingsInPeriod = &total
		r.items[p.RankingID] = item
	}
	return nil
}

func (r *RankingRepository) FindForUser(_ context.Context, userID string, position ranking.Position, period ranking.Period) (ranking.Ranking, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.findForUserLocked(userID, position, period)
	return item, ok, nil
}

func (r *RankingRepository) ListByUser(_ context.Context, userID string, filter ranking.ListFilter) ([]ranking.Ranking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ranking.Ranking, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if item.UserID != userID || !filter.Matches(item) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RankingRepository) Create(_ context.Context, item ranking.Ranking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("%w: id %s", ranking.ErrDuplicateRanking, item.ID)
	}
	if _, exists := r.findForUserLocked(item.UserID, item.Position, item.Period); exists {
		return fmt.Errorf("%w: user %s", ranking.ErrDuplicateRanking, item.UserID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

// ListPlayerRankingsByPeriod returns the rows of every active ranking of the
// position and period.
func (r *RankingRepository) ListPlayerRankingsByPeriod(_ context.Context, period ranking.Period, position ranking.Position) ([]ranking.PlayerRanking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := period.Key()
	out := make([]ranking.PlayerRanking, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if !item.IsActive || item.Position != position || item.Period.Key() != key {
			continue
		}
		out = append(out, r.players[id]...)
	}
	return out, nil
}

func (r *RankingRepository) findForUserLocked(userID string, position ranking.Position, period ranking.Period) (ranking.Ranking, bool) {
	key := period.Key()
	for _, id := range r.orders {
		item := r.items[id]
		if item.UserID == userID && item.Position == position && item.Period.Key() == key {
			return item, true
		}
	}
	return ranking.Ranking{}, false
}
