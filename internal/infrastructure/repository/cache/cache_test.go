package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	performancemock "github.com/riskibarqy/rankbet/internal/mocks/domain/performance"
	rankingmock "github.com/riskibarqy/rankbet/internal/mocks/domain/ranking"
	basecache "github.com/riskibarqy/rankbet/internal/platform/cache"
)

func TestPerformanceProvider_CachesPerPositionAndPeriod(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := performancemock.NewProvider(t)
	provider := NewPerformanceProvider(next, basecache.NewStore[[]performance.ActualPerformance](time.Minute))

	week5 := ranking.WeeklyPeriod(2024, 5)
	week6 := ranking.WeeklyPeriod(2024, 6)
	rows := []performance.ActualPerformance{{PlayerID: "qb1", ActualRank: 1}}

	next.On("FetchActualPerformance", mock.Anything, ranking.PositionQuarterback, week5).Return(rows, nil).Once()
	next.On("FetchActualPerformance", mock.Anything, ranking.PositionQuarterback, week6).Return(rows, nil).Once()

	for i := 0; i < 3; i++ {
		got, err := provider.FetchActualPerformance(ctx, ranking.PositionQuarterback, week5)
		if err != nil {
			t.Fatalf("fetch week 5: %v", err)
		}
		got[0].PlayerID = "mutated"
	}
	if _, err := provider.FetchActualPerformance(ctx, ranking.PositionQuarterback, week6); err != nil {
		t.Fatalf("fetch week 6: %v", err)
	}

	got, _ := provider.FetchActualPerformance(ctx, ranking.PositionQuarterback, week5)
	if got[0].PlayerID != "qb1" {
		t.Fatalf("cached rows leaked a caller mutation: %+v", got)
	}

	provider.Invalidate(ctx, ranking.PositionQuarterback, week5)
	next.On("FetchActualPerformance", mock.Anything, ranking.PositionQuarterback, week5).Return(rows, nil).Once()
	if _, err := provider.FetchActualPerformance(ctx, ranking.PositionQuarterback, week5); err != nil {
		t.Fatalf("fetch week 5 after invalidate: %v", err)
	}
}

func TestPerformanceProvider_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := performancemock.NewProvider(t)
	provider := NewPerformanceProvider(next, basecache.NewStore[[]performance.ActualPerformance](time.Minute))
	period := ranking.PreseasonPeriod(2024)

	next.On("FetchActualPerformance", mock.Anything, ranking.PositionWideReceiver, period).Return(nil, errors.New("boom")).Once()
	next.On("FetchActualPerformance", mock.Anything, ranking.PositionWideReceiver, period).Return([]performance.ActualPerformance{}, nil).Once()

	if _, err := provider.FetchActualPerformance(ctx, ranking.PositionWideReceiver, period); err == nil {
		t.Fatalf("expected first fetch to fail")
	}
	if _, err := provider.FetchActualPerformance(ctx, ranking.PositionWideReceiver, period); err != nil {
		t.Fatalf("expected retry after error to reach upstream: %v", err)
	}
}

func TestRankingRepository_EvictsOnScoreUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := rankingmock.NewRepository(t)
	repo := NewRankingRepository(next, time.Minute)

	score := 50.0
	before := ranking.Ranking{ID: "r-1", IsActive: true}
	after := ranking.Ranking{ID: "r-1", IsActive: true, AccuracyScore: &score}
	now := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	next.On("GetByID", mock.Anything, "r-1").Return(before, true, nil).Once()
	next.On("UpdateAccuracyScore", mock.Anything, "r-1", score, now).Return(nil).Once()
	next.On("GetByID", mock.Anything, "r-1").Return(after, true, nil).Once()

	if _, _, err := repo.GetByID(ctx, "r-1"); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if _, _, err := repo.GetByID(ctx, "r-1"); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if err := repo.UpdateAccuracyScore(ctx, "r-1", score, now); err != nil {
		t.Fatalf("update score: %v", err)
	}

	got, exists, err := repo.GetByID(ctx, "r-1")
	if err != nil || !exists {
		t.Fatalf("get after update: exists=%v err=%v", exists, err)
	}
	if got.AccuracyScore == nil || *got.AccuracyScore != score {
		t.Fatalf("expected refreshed ranking, got %+v", got)
	}
}

func TestRankingRepository_EvictsOnPlayerReplace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := rankingmock.NewRepository(t)
	repo := NewRankingRepository(next, time.Minute)

	score := 67.0
	scored := ranking.Ranking{ID: "r-1", IsActive: true, AccuracyScore: &score}
	cleared := ranking.Ranking{ID: "r-1", IsActive: true}
	players := []ranking.PlayerRanking{{RankingID: "r-1", PlayerID: "qb2", RankPosition: 1}}

	next.On("GetByID", mock.Anything, "r-1").Return(scored, true, nil).Once()
	next.On("ReplacePlayerRankings", mock.Anything, "r-1", players).Return(nil).Once()
	next.On("GetByID", mock.Anything, "r-1").Return(cleared, true, nil).Once()

	if _, _, err := repo.GetByID(ctx, "r-1"); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if err := repo.ReplacePlayerRankings(ctx, "r-1", players); err != nil {
		t.Fatalf("replace players: %v", err)
	}

	got, _, err := repo.GetByID(ctx, "r-1")
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if got.AccuracyScore != nil {
		t.Fatalf("expected cleared score after replace, got %v", *got.AccuracyScore)
	}
}

func TestRankingRepository_CreateEvictsCachedMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := rankingmock.NewRepository(t)
	repo := NewRankingRepository(next, time.Minute)

	item := ranking.Ranking{ID: "r-new", UserID: "u-1", IsActive: true}
	next.On("GetByID", mock.Anything, "r-new").Return(ranking.Ranking{}, false, nil).Once()
	next.On("Create", mock.Anything, item).Return(nil).Once()
	next.On("GetByID", mock.Anything, "r-new").Return(item, true, nil).Once()

	if _, exists, _ := repo.GetByID(ctx, "r-new"); exists {
		t.Fatalf("expected miss before create")
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, exists, err := repo.GetByID(ctx, "r-new"); err != nil || !exists {
		t.Fatalf("expected created ranking, exists=%v err=%v", exists, err)
	}
}

func TestRankingRepository_CachesUserListsUntilWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := rankingmock.NewRepository(t)
	repo := NewRankingRepository(next, time.Minute)

	filter := ranking.ListFilter{Position: ranking.PositionQuarterback}
	first := []ranking.Ranking{{ID: "r-1", UserID: "u-1"}}
	second := []ranking.Ranking{{ID: "r-2", UserID: "u-1"}, {ID: "r-1", UserID: "u-1"}}
	next.On("ListByUser", mock.Anything, "u-1", filter).Return(first, nil).Once()

	for i := 0; i < 2; i++ {
		got, err := repo.ListByUser(ctx, "u-1", filter)
		if err != nil || len(got) != 1 {
			t.Fatalf("list by user: %v %+v", err, got)
		}
	}

	created := ranking.Ranking{ID: "r-2", UserID: "u-1"}
	next.On("Create", mock.Anything, created).Return(nil).Once()
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("create: %v", err)
	}

	next.On("ListByUser", mock.Anything, "u-1", filter).Return(second, nil).Once()
	got, err := repo.ListByUser(ctx, "u-1", filter)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected a fresh list after create: %v %+v", err, got)
	}

	next.On("UpdateAccuracyScore", mock.Anything, "r-1", 55.0, mock.Anything).Return(nil).Once()
	if err := repo.UpdateAccuracyScore(ctx, "r-1", 55, time.Now()); err != nil {
		t.Fatalf("update score: %v", err)
	}
	next.On("ListByUser", mock.Anything, "u-1", filter).Return(second, nil).Once()
	if _, err := repo.ListByUser(ctx, "u-1", filter); err != nil {
		t.Fatalf("list after score update: %v", err)
	}
}
