package usecase

import (
	"math"
	"sort"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

// ComputePercentiles ranks every scored ranking against the others of the
// same set. The percentile is the share of other rankings with a strictly
// lower score, so ties share a percentile and a lone ranking sits at 100.
// Rankings without a score are left out.
func ComputePercentiles(items []ranking.Ranking) []ranking.Percentile {
	scored := make([]ranking.Ranking, 0, len(items))
	for _, item := range items {
		if item.AccuracyScore == nil {
			continue
		}
		scored = append(scored, item)
	}
	if len(scored) == 0 {
		return nil
	}

	scores := make([]float64, len(scored))
	for i, item := range scored {
		scores[i] = *item.AccuracyScore
	}
	sort.Float64s(scores)

	total := len(scored)
	out := make([]ranking.Percentile, 0, total)
	for _, item := range scored {
		pct := 100.0
		if total > 1 {
			lower := sort.SearchFloat64s(scores, *item.AccuracyScore)
			pct = math.Round(float64(lower)/float64(total-1)*10000) / 100
		}
		out = append(out, ranking.Percentile{
			RankingID:             item.ID,
			PercentileRank:        pct,
			TotalRankingsInPeriod: total,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankingID < out[j].RankingID
	})
	return out
}
