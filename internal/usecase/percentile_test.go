package usecase

import (
	"testing"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

func scoredRanking(id string, score float64) ranking.Ranking {
	return ranking.Ranking{ID: id, AccuracyScore: &score}
}

func TestComputePercentiles(t *testing.T) {
	t.Parallel()

	items := []ranking.Ranking{
		scoredRanking("r-a", 40),
		scoredRanking("r-b", 80),
		scoredRanking("r-c", 60),
		scoredRanking("r-d", 60),
		{ID: "r-unscored"},
	}

	got := ComputePercentiles(items)
	if len(got) != 4 {
		t.Fatalf("unexpected percentile count: got=%d want=4", len(got))
	}

	want := map[string]float64{
		"r-a": 0,
		"r-b": 100,
		"r-c": 33.33,
		"r-d": 33.33,
	}
	for _, row := range got {
		if row.PercentileRank != want[row.RankingID] {
			t.Fatalf("unexpected percentile for %s: got=%v want=%v", row.RankingID, row.PercentileRank, want[row.RankingID])
		}
		if row.TotalRankingsInPeriod != 4 {
			t.Fatalf("unexpected total for %s: %d", row.RankingID, row.TotalRankingsInPeriod)
		}
	}
	if got[0].RankingID != "r-a" || got[3].RankingID != "r-d" {
		t.Fatalf("expected output ordered by ranking id, got %+v", got)
	}
}

func TestComputePercentiles_SingleRanking(t *testing.T) {
	t.Parallel()

	got := ComputePercentiles([]ranking.Ranking{scoredRanking("only", 12.5)})
	if len(got) != 1 || got[0].PercentileRank != 100 || got[0].TotalRankingsInPeriod != 1 {
		t.Fatalf("unexpected single percentile: %+v", got)
	}
}

func TestComputePercentiles_NoScores(t *testing.T) {
	t.Parallel()

	if got := ComputePercentiles([]ranking.Ranking{{ID: "a"}, {ID: "b"}}); got != nil {
		t.Fatalf("expected nil for unscored rankings, got %+v", got)
	}
}
