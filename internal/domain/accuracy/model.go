package accuracy

import "github.com/riskibarqy/rankbet/internal/domain/ranking"

// PredictedRanking is one entry of the ranking being judged.
// IsStarred is carried for callers and never affects the score.
type PredictedRanking struct {
	PlayerID     string
	RankPosition int
	IsStarred    bool
}

// Outcome classifies how a single prediction landed.
type Outcome string

const (
	OutcomePerfect   Outcome = "perfect"
	OutcomeClose     Outcome = "close"
	OutcomeMiss      Outcome = "miss"
	OutcomeBust      Outcome = "bust"
	OutcomeInactive  Outcome = "inactive"
	OutcomeUnmatched Outcome = "unmatched"
)

// Details counts predictions per bucket. PerfectMatches, CloseMatches, Busts
// and InactivePlayers are disjoint; Top10Correct and Top5Correct are counted
// independently of them.
type Details struct {
	PerfectMatches   int
	CloseMatches     int
	Top10Correct     int
	Top5Correct      int
	Busts            int
	InactivePlayers  int
	ScoredPlayers    int
	UnmatchedPlayers int
}

// Breakdown holds the per-player averages the percentage is built from:
// AccuracyPercentage = clamp(BaseScore + Bonuses - Penalties, 0, 100).
type Breakdown struct {
	BaseScore float64
	Bonuses   float64
	Penalties float64
	Details   Details
}

// PlayerScore is the contribution of one predicted entry.
type PlayerScore struct {
	PlayerID      string
	PredictedRank int
	ActualRank    int
	Distance      int
	Credit        float64
	Bonus         float64
	Penalty       float64
	Outcome       Outcome
}

// Result is the outcome of scoring one ranking.
type Result struct {
	Position           ranking.Position
	AccuracyPercentage float64
	Breakdown          Breakdown
	Players            []PlayerScore
}
