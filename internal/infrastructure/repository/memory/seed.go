package memory

import (
	"time"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

const (
	RankingIDSampleQB = "9b0f7a52-4d0e-4c55-8a39-5b7f0c6f1a01"
	RankingIDSampleRB = "9b0f7a52-4d0e-4c55-8a39-5b7f0c6f1a02"
	RankingIDSampleWR = "9b0f7a52-4d0e-4c55-8a39-5b7f0c6f1a03"
	RankingIDRivalQB  = "9b0f7a52-4d0e-4c55-8a39-5b7f0c6f1a04"

	SeedUserID  = "demo-user"
	RivalUserID = "rival-user"
)

var seedCreatedAt = time.Date(2024, time.September, 3, 12, 0, 0, 0, time.UTC)

// SeedRankings returns demo rankings for the current period. They line up
// with the fixture performance feed so a fresh instance has something to
// score.
func SeedRankings(period ranking.Period) []ranking.Ranking {
	mk := func(id, userID, title string, position ranking.Position) ranking.Ranking {
		return ranking.Ranking{
			ID:        id,
			UserID:    userID,
			Title:     title,
			Position:  position,
			Period:    period,
			IsActive:  true,
			CreatedAt: seedCreatedAt,
			UpdatedAt: seedCreatedAt,
		}
	}
	return []ranking.Ranking{
		mk(RankingIDSampleQB, SeedUserID, "Sample QB ranking", ranking.PositionQuarterback),
		mk(RankingIDSampleRB, SeedUserID, "Sample RB ranking", ranking.PositionRunningBack),
		mk(RankingIDSampleWR, SeedUserID, "Sample WR ranking", ranking.PositionWideReceiver),
		mk(RankingIDRivalQB, RivalUserID, "Rival QB ranking", ranking.PositionQuarterback),
	}
}

func SeedPlayerRankings() []ranking.PlayerRanking {
	lists := map[string][]string{
		RankingIDSampleQB: {"qb1", "qb2", "qb3", "qb4", "qb5"},
		RankingIDSampleRB: {"rb1", "rb2", "rb3", "rb4", "rb5", "rb6", "rb7", "rb8"},
		RankingIDSampleWR: {"wr1", "wr2", "wr3", "wr4", "wr5", "wr6"},
		RankingIDRivalQB:  {"qb1", "qb4", "qb2", "qb6", "qb7", "qb10"},
	}

	out := make([]ranking.PlayerRanking, 0, 32)
	for _, rankingID := range []string{RankingIDSampleQB, RankingIDSampleRB, RankingIDSampleWR, RankingIDRivalQB} {
		for i, playerID := range lists[rankingID] {
			out = append(out, ranking.PlayerRanking{
				ID:           rankingID + "-" + playerID,
				RankingID:    rankingID,
				PlayerID:     playerID,
				RankPosition: i + 1,
				CreatedAt:    seedCreatedAt,
			})
		}
	}
	return out
}
