package accuracy

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

func sampleQuarterbacks() ([]PredictedRanking, []performance.ActualPerformance) {
	predicted := []PredictedRanking{
		{PlayerID: "qb1", RankPosition: 1},
		{PlayerID: "qb2", RankPosition: 2},
		{PlayerID: "qb3", RankPosition: 3},
		{PlayerID: "qb4", RankPosition: 4},
		{PlayerID: "qb5", RankPosition: 5},
	}
	actual := []performance.ActualPerformance{
		{PlayerID: "qb1", ActualRank: 1},
		{PlayerID: "qb2", ActualRank: 3},
		{PlayerID: "qb3", ActualRank: 8},
		{PlayerID: "qb4", ActualRank: 2},
		{PlayerID: "qb5", ActualRank: 25},
	}
	return predicted, actual
}

func TestCalculate_SampleQuarterbacks(t *testing.T) {
	predicted, actual := sampleQuarterbacks()

	result := Calculate(predicted, actual, ranking.PositionQuarterback)

	if result.AccuracyPercentage <= 0 || result.AccuracyPercentage >= 100 {
		t.Fatalf("expected score strictly between 0 and 100, got %v", result.AccuracyPercentage)
	}
	if result.AccuracyPercentage != 67 {
		t.Fatalf("expected 67, got %v", result.AccuracyPercentage)
	}
	if result.Breakdown.BaseScore != 56 || result.Breakdown.Bonuses != 18 || result.Breakdown.Penalties != 7 {
		t.Fatalf("unexpected breakdown: %+v", result.Breakdown)
	}

	want := Details{
		PerfectMatches: 1,
		CloseMatches:   2,
		Top10Correct:   4,
		Top5Correct:    3,
		Busts:          1,
		ScoredPlayers:  5,
	}
	if result.Breakdown.Details != want {
		t.Fatalf("unexpected details: %+v", result.Breakdown.Details)
	}
	if result.Position != ranking.PositionQuarterback {
		t.Fatalf("unexpected position: %s", result.Position)
	}
	if got := result.Players[4]; got.PlayerID != "qb5" || got.Outcome != OutcomeBust || got.Credit != 0 {
		t.Fatalf("expected qb5 to be a bust with no credit, got %+v", got)
	}
}

func TestCalculate_PerfectPrediction(t *testing.T) {
	predicted := make([]PredictedRanking, 0, 12)
	actual := make([]performance.ActualPerformance, 0, 12)
	for i := 1; i <= 12; i++ {
		id := fmt.Sprintf("p%d", i)
		predicted = append(predicted, PredictedRanking{PlayerID: id, RankPosition: i})
		actual = append(actual, performance.ActualPerformance{PlayerID: id, ActualRank: i})
	}

	result := Calculate(predicted, actual, ranking.PositionQuarterback)

	if result.AccuracyPercentage != 100 {
		t.Fatalf("expected 100, got %v", result.AccuracyPercentage)
	}
	if result.Breakdown.Details.PerfectMatches != 12 {
		t.Fatalf("expected 12 perfect matches, got %d", result.Breakdown.Details.PerfectMatches)
	}
	if result.Breakdown.Penalties != 0 {
		t.Fatalf("expected no penalties, got %v", result.Breakdown.Penalties)
	}
}

func TestCalculate_EmptyInput(t *testing.T) {
	_, actual := sampleQuarterbacks()

	tests := []struct {
		name      string
		predicted []PredictedRanking
		actual    []performance.ActualPerformance
	}{
		{name: "no predictions", predicted: nil, actual: actual},
		{name: "no actual data", predicted: []PredictedRanking{{PlayerID: "qb1", RankPosition: 1}}, actual: nil},
		{name: "no overlap", predicted: []PredictedRanking{{PlayerID: "x", RankPosition: 1}}, actual: actual},
		{name: "both empty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Calculate(tc.predicted, tc.actual, ranking.PositionQuarterback)
			if result.AccuracyPercentage != 0 {
				t.Fatalf("expected 0, got %v", result.AccuracyPercentage)
			}
			if result.Breakdown.BaseScore != 0 || result.Breakdown.Bonuses != 0 || result.Breakdown.Penalties != 0 {
				t.Fatalf("expected zero breakdown, got %+v", result.Breakdown)
			}
			if result.Breakdown.Details.ScoredPlayers != 0 {
				t.Fatalf("expected no scored players, got %d", result.Breakdown.Details.ScoredPlayers)
			}
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	predicted, actual := sampleQuarterbacks()
	first := Calculate(predicted, actual, ranking.PositionQuarterback)
	for i := 0; i < 20; i++ {
		again := Calculate(predicted, actual, ranking.PositionQuarterback)
		if again.AccuracyPercentage != first.AccuracyPercentage || again.Breakdown.Details != first.Breakdown.Details {
			t.Fatalf("run %d differs: %+v vs %+v", i, again.Breakdown, first.Breakdown)
		}
	}
}

func TestCalculate_InputOrderDoesNotMatter(t *testing.T) {
	predicted, actual := sampleQuarterbacks()
	shuffled := []PredictedRanking{predicted[3], predicted[0], predicted[4], predicted[2], predicted[1]}
	reversedActual := []performance.ActualPerformance{actual[4], actual[3], actual[2], actual[1], actual[0]}

	a := Calculate(predicted, actual, ranking.PositionQuarterback)
	b := Calculate(shuffled, reversedActual, ranking.PositionQuarterback)

	if a.AccuracyPercentage != b.AccuracyPercentage || a.Breakdown != b.Breakdown {
		t.Fatalf("expected equal results, got %+v and %+v", a.Breakdown, b.Breakdown)
	}
	if b.Players[0].PlayerID != "qb1" {
		t.Fatalf("expected players in rank order, got %s first", b.Players[0].PlayerID)
	}
}

func TestCalculate_Boundedness(t *testing.T) {
	actual := make([]performance.ActualPerformance, 0, 60)
	for i := 1; i <= 60; i++ {
		actual = append(actual, performance.ActualPerformance{PlayerID: fmt.Sprintf("p%d", i), ActualRank: 61 - i})
	}
	actual = append(actual, performance.ActualPerformance{PlayerID: "out", Inactive: true})

	inputs := [][]PredictedRanking{
		{{PlayerID: "p1", RankPosition: 1}},
		{{PlayerID: "p60", RankPosition: 1}},
		{{PlayerID: "out", RankPosition: 1}},
		{{PlayerID: "p1", RankPosition: 1}, {PlayerID: "p2", RankPosition: 2}, {PlayerID: "p3", RankPosition: 3}},
		{{PlayerID: "p60", RankPosition: 60}, {PlayerID: "p59", RankPosition: 59}},
	}
	for i, predicted := range inputs {
		result := Calculate(predicted, actual, ranking.PositionOverall)
		if result.AccuracyPercentage < 0 || result.AccuracyPercentage > 100 || math.IsNaN(result.AccuracyPercentage) {
			t.Fatalf("input %d: score out of bounds: %v", i, result.AccuracyPercentage)
		}
		if result.Breakdown.Bonuses < 0 || result.Breakdown.Penalties < 0 {
			t.Fatalf("input %d: negative bonus or penalty: %+v", i, result.Breakdown)
		}
	}

	worst := Calculate(inputs[0], actual, ranking.PositionOverall)
	if worst.AccuracyPercentage != 0 {
		t.Fatalf("expected a lone top bust to floor at 0, got %v", worst.AccuracyPercentage)
	}
}

func TestCalculate_Monotonicity(t *testing.T) {
	predicted := []PredictedRanking{
		{PlayerID: "a", RankPosition: 1},
		{PlayerID: "b", RankPosition: 2},
		{PlayerID: "c", RankPosition: 3},
	}

	previous := math.Inf(1)
	for actualRankOfC := 3; actualRankOfC <= 40; actualRankOfC++ {
		actual := []performance.ActualPerformance{
			{PlayerID: "a", ActualRank: 1},
			{PlayerID: "b", ActualRank: 2},
			{PlayerID: "c", ActualRank: actualRankOfC},
		}
		score := Calculate(predicted, actual, ranking.PositionQuarterback).AccuracyPercentage
		if score > previous {
			t.Fatalf("score rose from %v to %v when c moved to %d", previous, score, actualRankOfC)
		}
		previous = score
	}
}

// Scores follow each player's distance, not the summed distance: two misses
// at 5 spots earn less than one at 3 and one at 8.
func TestCalculate_CreditIsPerPlayer(t *testing.T) {
	actual := []performance.ActualPerformance{
		{PlayerID: "p", ActualRank: 30},
		{PlayerID: "q", ActualRank: 40},
	}
	evenMiss := []PredictedRanking{{PlayerID: "p", RankPosition: 35}, {PlayerID: "q", RankPosition: 45}}
	splitMiss := []PredictedRanking{{PlayerID: "p", RankPosition: 33}, {PlayerID: "q", RankPosition: 48}}

	even := Calculate(evenMiss, actual, ranking.PositionOverall).AccuracyPercentage
	split := Calculate(splitMiss, actual, ranking.PositionOverall).AccuracyPercentage
	if even != 25 || split != 35.5 {
		t.Fatalf("unexpected scores: even=%v split=%v", even, split)
	}
}

func TestCalculate_MonotonicityPerPlayerDistance(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 200; round++ {
		n := 1 + rng.IntN(8)
		actual := make([]performance.ActualPerformance, 0, n)
		closer := make([]PredictedRanking, 0, n)
		farther := make([]PredictedRanking, 0, n)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("p%d", i)
			actualRank := 21 + i*3
			near := rng.IntN(25)
			far := near + rng.IntN(25)
			actual = append(actual, performance.ActualPerformance{PlayerID: id, ActualRank: actualRank})
			closer = append(closer, PredictedRanking{PlayerID: id, RankPosition: actualRank + near})
			farther = append(farther, PredictedRanking{PlayerID: id, RankPosition: actualRank + far})
		}

		a := Calculate(closer, actual, ranking.PositionOverall).AccuracyPercentage
		b := Calculate(farther, actual, ranking.PositionOverall).AccuracyPercentage
		if a < b {
			t.Fatalf("round %d: closer prediction scored %v, farther scored %v", round, a, b)
		}
	}
}

func TestCalculate_BustDetection(t *testing.T) {
	predicted := []PredictedRanking{{PlayerID: "star", RankPosition: 1}}
	actual := []performance.ActualPerformance{{PlayerID: "star", ActualRank: 30}}

	result := Calculate(predicted, actual, ranking.PositionRunningBack)

	if result.Breakdown.Details.Busts != 1 {
		t.Fatalf("expected 1 bust, got %d", result.Breakdown.Details.Busts)
	}
	if result.Breakdown.BaseScore != 0 {
		t.Fatalf("expected a bust to add no base credit, got %v", result.Breakdown.BaseScore)
	}
	if result.Breakdown.Penalties != Top10BustPenalty+Top5BustPenalty {
		t.Fatalf("expected both bust penalties, got %v", result.Breakdown.Penalties)
	}
}

func TestCalculate_TopFiveBustOnly(t *testing.T) {
	predicted := []PredictedRanking{{PlayerID: "x", RankPosition: 4}}
	actual := []performance.ActualPerformance{{PlayerID: "x", ActualRank: 17}}

	result := Calculate(predicted, actual, ranking.PositionWideReceiver)

	if result.Breakdown.Details.Busts != 1 {
		t.Fatalf("expected 1 bust, got %d", result.Breakdown.Details.Busts)
	}
	if result.Breakdown.Penalties != Top5BustPenalty {
		t.Fatalf("expected only the top-5 bust penalty, got %v", result.Breakdown.Penalties)
	}
}

func TestCalculate_InactiveHandling(t *testing.T) {
	predicted := []PredictedRanking{
		{PlayerID: "hurt", RankPosition: 1},
		{PlayerID: "zero", RankPosition: 2},
	}
	actual := []performance.ActualPerformance{
		{PlayerID: "hurt", Inactive: true},
		{PlayerID: "zero", ActualRank: 0},
	}

	result := Calculate(predicted, actual, ranking.PositionTightEnd)

	details := result.Breakdown.Details
	if details.InactivePlayers != 2 {
		t.Fatalf("expected 2 inactive players, got %d", details.InactivePlayers)
	}
	if details.Busts != 0 {
		t.Fatalf("inactive players must not count as busts, got %d", details.Busts)
	}
	if details.Top10Correct != 0 || details.Top5Correct != 0 {
		t.Fatalf("inactive players must not earn top-N credit: %+v", details)
	}
	if result.Breakdown.BaseScore != InactiveBaseCredit || result.Breakdown.Penalties != InactivePenalty {
		t.Fatalf("unexpected breakdown: %+v", result.Breakdown)
	}
	if result.AccuracyPercentage != InactiveBaseCredit-InactivePenalty {
		t.Fatalf("expected %v, got %v", InactiveBaseCredit-InactivePenalty, result.AccuracyPercentage)
	}
}

func TestCalculate_UnmatchedPlayersAreExcluded(t *testing.T) {
	predicted := []PredictedRanking{
		{PlayerID: "a", RankPosition: 1},
		{PlayerID: "ghost", RankPosition: 2},
	}
	actual := []performance.ActualPerformance{{PlayerID: "a", ActualRank: 1}}

	result := Calculate(predicted, actual, ranking.PositionQuarterback)

	if result.Breakdown.Details.UnmatchedPlayers != 1 || result.Breakdown.Details.ScoredPlayers != 1 {
		t.Fatalf("unexpected details: %+v", result.Breakdown.Details)
	}
	if result.AccuracyPercentage != 100 {
		t.Fatalf("expected 100 for the matched player alone, got %v", result.AccuracyPercentage)
	}
}

func TestCalculate_DuplicatesAndInvalidEntries(t *testing.T) {
	predicted := []PredictedRanking{
		{PlayerID: "a", RankPosition: 3},
		{PlayerID: "a", RankPosition: 1},
		{PlayerID: "", RankPosition: 2},
		{PlayerID: "b", RankPosition: 0},
		{PlayerID: "c", RankPosition: 2, IsStarred: true},
	}
	actual := []performance.ActualPerformance{
		{PlayerID: "a", ActualRank: 1},
		{PlayerID: "b", ActualRank: 2},
		{PlayerID: "c", ActualRank: 2},
	}

	result := Calculate(predicted, actual, ranking.PositionQuarterback)

	if result.Breakdown.Details.ScoredPlayers != 2 {
		t.Fatalf("expected 2 scored players, got %d", result.Breakdown.Details.ScoredPlayers)
	}
	if result.Breakdown.Details.PerfectMatches != 2 {
		t.Fatalf("expected duplicate to keep its best rank, got %+v", result.Breakdown.Details)
	}
	if result.AccuracyPercentage != 100 {
		t.Fatalf("expected 100, got %v", result.AccuracyPercentage)
	}
}

func TestCalculate_BucketsAreDisjoint(t *testing.T) {
	predicted := make([]PredictedRanking, 0, 30)
	actual := make([]performance.ActualPerformance, 0, 30)
	for i := 1; i <= 30; i++ {
		id := fmt.Sprintf("p%d", i)
		predicted = append(predicted, PredictedRanking{PlayerID: id, RankPosition: i})
		row := performance.ActualPerformance{PlayerID: id, ActualRank: (i*7)%30 + 1}
		if i%9 == 0 {
			row.Inactive = true
		}
		actual = append(actual, row)
	}

	result := Calculate(predicted, actual, ranking.PositionRunningBack)

	d := result.Breakdown.Details
	bucketed := d.PerfectMatches + d.CloseMatches + d.Busts + d.InactivePlayers
	if bucketed > d.ScoredPlayers {
		t.Fatalf("buckets overlap: %+v", d)
	}
	misses := 0
	for _, p := range result.Players {
		if p.Outcome == OutcomeMiss {
			misses++
		}
	}
	if bucketed+misses != d.ScoredPlayers {
		t.Fatalf("every scored player must land in exactly one outcome: %+v, misses=%d", d, misses)
	}
}

func TestDistanceCredit(t *testing.T) {
	tests := []struct {
		distance int
		want     float64
	}{
		{0, 100},
		{1, 85},
		{2, 70},
		{3, 55},
		{4, 40},
		{5, 25},
		{6, 22},
		{10, 10},
		{11, 9.5},
		{20, 5},
		{21, 4.75},
		{40, 0},
		{100, 0},
	}
	for _, tc := range tests {
		if got := distanceCredit(tc.distance); got != tc.want {
			t.Fatalf("distance %d: expected %v, got %v", tc.distance, tc.want, got)
		}
	}

	previous := distanceCredit(0)
	for d := 1; d <= 200; d++ {
		got := distanceCredit(d)
		if got > previous || got < 0 {
			t.Fatalf("credit not non-increasing at distance %d: %v after %v", d, got, previous)
		}
		previous = got
	}
}
