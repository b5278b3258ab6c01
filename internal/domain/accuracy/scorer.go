package accuracy

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

const (
	MaxPercentage = 100.0
	MinPercentage = 0.0

	Top10Cutoff = 10
	Top5Cutoff  = 5

	Top10Bonus = 15.0
	Top5Bonus  = 10.0

	// A top-10 pick finishing outside the top 20, or a top-5 pick finishing
	// outside the top 15, is a bust.
	Top10BustFloor   = 20
	Top5BustFloor    = 15
	Top10BustPenalty = 15.0
	Top5BustPenalty  = 20.0

	InactiveBaseCredit = 40.0
	InactivePenalty    = 10.0

	closeMatchMaxDistance = 2
)

// Credit for distances 0..5. Larger distances decay linearly, see distanceCredit.
var exactDistanceCredits = [...]float64{100, 85, 70, 55, 40, 25}

// Calculate scores a predicted ranking against actual outcomes.
//
// Predictions are processed in rank order with ties broken by player id.
// Duplicate player ids keep their best rank, and entries without an id or
// with a non-positive rank are ignored. Players with no actual row are
// counted as unmatched and left out of the averages. The function is pure:
// the same inputs always produce the same Result.
func Calculate(predicted []PredictedRanking, actual []performance.ActualPerformance, position ranking.Position) Result {
	result := Result{Position: position}

	entries := normalizePredictions(predicted)
	if len(entries) == 0 {
		return result
	}
	actualByPlayer := indexActual(actual)

	var totalCredit, totalBonus, totalPenalty float64
	details := &result.Breakdown.Details
	players := make([]PlayerScore, 0, len(entries))

	for _, entry := range entries {
		row, ok := actualByPlayer[entry.PlayerID]
		if !ok {
			details.UnmatchedPlayers++
			players = append(players, PlayerScore{
				PlayerID:      entry.PlayerID,
				PredictedRank: entry.RankPosition,
				Outcome:       OutcomeUnmatched,
			})
			continue
		}

		score := scorePlayer(entry.RankPosition, row)
		score.PlayerID = entry.PlayerID
		players = append(players, score)

		details.ScoredPlayers++
		switch score.Outcome {
		case OutcomePerfect:
			details.PerfectMatches++
		case OutcomeClose:
			details.CloseMatches++
		case OutcomeBust:
			details.Busts++
		case OutcomeInactive:
			details.InactivePlayers++
		}
		if !row.IsInactive() {
			if entry.RankPosition <= Top10Cutoff && row.ActualRank <= Top10Cutoff {
				details.Top10Correct++
			}
			if entry.RankPosition <= Top5Cutoff && row.ActualRank <= Top5Cutoff {
				details.Top5Correct++
			}
		}

		totalCredit += score.Credit
		totalBonus += score.Bonus
		totalPenalty += score.Penalty
	}

	result.Players = players
	if details.ScoredPlayers == 0 {
		return result
	}

	n := float64(details.ScoredPlayers)
	base := totalCredit / n
	bonuses := totalBonus / n
	penalties := totalPenalty / n

	result.Breakdown.BaseScore = round2(base)
	result.Breakdown.Bonuses = round2(bonuses)
	result.Breakdown.Penalties = round2(penalties)
	result.AccuracyPercentage = round2(clamp(base+bonuses-penalties, MinPercentage, MaxPercentage))
	return result
}

func scorePlayer(predictedRank int, row performance.ActualPerformance) PlayerScore {
	if row.IsInactive() {
		return PlayerScore{
			PredictedRank: predictedRank,
			Credit:        InactiveBaseCredit,
			Penalty:       InactivePenalty,
			Outcome:       OutcomeInactive,
		}
	}

	distance := absInt(predictedRank - row.ActualRank)
	score := PlayerScore{
		PredictedRank: predictedRank,
		ActualRank:    row.ActualRank,
		Distance:      distance,
		Credit:        distanceCredit(distance),
		Outcome:       OutcomeMiss,
	}

	switch {
	case distance == 0:
		score.Outcome = OutcomePerfect
	case distance <= closeMatchMaxDistance:
		score.Outcome = OutcomeClose
	}

	if predictedRank <= Top10Cutoff && row.ActualRank <= Top10Cutoff {
		score.Bonus += Top10Bonus
	}
	if predictedRank <= Top5Cutoff && row.ActualRank <= Top5Cutoff {
		score.Bonus += Top5Bonus
	}

	bust := false
	if predictedRank <= Top10Cutoff && row.ActualRank > Top10BustFloor {
		score.Penalty += Top10BustPenalty
		bust = true
	}
	if predictedRank <= Top5Cutoff && row.ActualRank > Top5BustFloor {
		score.Penalty += Top5BustPenalty
		bust = true
	}
	if bust {
		score.Credit = 0
		score.Outcome = OutcomeBust
	}

	return score
}

// distanceCredit is non-increasing in distance and never negative.
func distanceCredit(distance int) float64 {
	if distance < 0 {
		distance = -distance
	}
	if distance < len(exactDistanceCredits) {
		return exactDistanceCredits[distance]
	}

	d := float64(distance)
	switch {
	case distance <= 10:
		return math.Max(10, 25-(d-5)*3)
	case distance <= 20:
		return math.Max(5, 10-(d-10)*0.5)
	default:
		return math.Max(0, 5-(d-20)*0.25)
	}
}

func normalizePredictions(predicted []PredictedRanking) []PredictedRanking {
	out := make([]PredictedRanking, 0, len(predicted))
	for _, p := range predicted {
		p.PlayerID = strings.TrimSpace(p.PlayerID)
		if p.PlayerID == "" || p.RankPosition <= 0 {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, func(a, b PredictedRanking) int {
		if c := cmp.Compare(a.RankPosition, b.RankPosition); c != 0 {
			return c
		}
		return strings.Compare(a.PlayerID, b.PlayerID)
	})

	seen := make(map[string]struct{}, len(out))
	deduped := out[:0]
	for _, p := range out {
		if _, ok := seen[p.PlayerID]; ok {
			continue
		}
		seen[p.PlayerID] = struct{}{}
		deduped = append(deduped, p)
	}
	return deduped
}

func indexActual(actual []performance.ActualPerformance) map[string]performance.ActualPerformance {
	out := make(map[string]performance.ActualPerformance, len(actual))
	for _, row := range actual {
		id := strings.TrimSpace(row.PlayerID)
		if id == "" {
			continue
		}
		if _, exists := out[id]; exists {
			continue
		}
		out[id] = row
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
