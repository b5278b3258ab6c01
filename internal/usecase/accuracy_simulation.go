package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/sourcegraph/conc/iter"

	"github.com/riskibarqy/rankbet/internal/domain/accuracy"
	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

const (
	defaultSimulationUsers = 1000
	maxSimulationUsers     = 100000
	simulationMaxError     = 10
)

// skillTier is a share of the simulated population with skill drawn
// uniformly from [Low, High). Skill 1 ranks exactly like the real finish.
type skillTier struct {
	Name  string
	Share float64
	Low   float64
	High  float64
}

var simulationTiers = []skillTier{
	{Name: "excellent", Share: 0.10, Low: 0.8, High: 1.0},
	{Name: "good", Share: 0.30, Low: 0.6, High: 0.8},
	{Name: "average", Share: 0.40, Low: 0.4, High: 0.6},
	{Name: "poor", Share: 0.20, Low: 0.2, High: 0.4},
}

var simulationBuckets = []SimulationBucket{
	{Label: "90-100", Min: 90, Max: 100.01},
	{Label: "80-89", Min: 80, Max: 90},
	{Label: "70-79", Min: 70, Max: 80},
	{Label: "60-69", Min: 60, Max: 70},
	{Label: "50-59", Min: 50, Max: 60},
	{Label: "40-49", Min: 40, Max: 50},
	{Label: "below 40", Min: 0, Max: 40},
}

type SimulationOptions struct {
	Users     int
	Seed      uint64
	Period    ranking.Period
	Positions []ranking.Position
}

type SimulationStats struct {
	Count          int     `json:"count"`
	Mean           float64 `json:"mean"`
	Median         float64 `json:"median"`
	StdDev         float64 `json:"std_dev"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	PerfectMatches int     `json:"perfect_matches"`
}

type SimulationBucket struct {
	Label   string  `json:"label"`
	Min     float64 `json:"-"`
	Max     float64 `json:"-"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type SimulationGroup struct {
	Name  string          `json:"name"`
	Stats SimulationStats `json:"stats"`
}

// SimulationReport summarizes how the scorer spreads a synthetic population
// of rankers. PositionSpread is the standard deviation of position means and
// DiscriminationRatio the share of distinct scores.
type SimulationReport struct {
	Users               int                `json:"users"`
	Seed                uint64             `json:"seed"`
	Period              string             `json:"period"`
	Overall             SimulationStats    `json:"overall"`
	ByPosition          []SimulationGroup  `json:"by_position"`
	BySkill             []SimulationGroup  `json:"by_skill"`
	Distribution        []SimulationBucket `json:"distribution"`
	PositionSpread      float64            `json:"position_spread"`
	DiscriminationRatio float64            `json:"discrimination_ratio"`
}

type simulatedUser struct {
	index int
	tier  string
	skill float64
}

type simulatedScore struct {
	position ranking.Position
	tier     string
	result   accuracy.Result
}

// SimulateAccuracy scores a seeded population of synthetic users against
// the provider's feed. Each user perturbs the real finishing order by an
// error that shrinks with skill, so the same seed always yields the same
// report.
func SimulateAccuracy(ctx context.Context, provider performance.Provider, opts SimulationOptions) (SimulationReport, error) {
	if opts.Users == 0 {
		opts.Users = defaultSimulationUsers
	}
	if opts.Users < 0 || opts.Users > maxSimulationUsers {
		return SimulationReport{}, fmt.Errorf("%w: users must be between 1 and %d", ErrInvalidInput, maxSimulationUsers)
	}
	if err := opts.Period.Validate(); err != nil {
		return SimulationReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	positions := opts.Positions
	if len(positions) == 0 {
		positions = ranking.ScoredPositions
	}

	feeds := make(map[ranking.Position][]performance.ActualPerformance, len(positions))
	for _, position := range positions {
		if _, ok := ranking.AllPositions[position]; !ok {
			return SimulationReport{}, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, position)
		}
		rows, err := provider.FetchActualPerformance(ctx, position, opts.Period)
		if err != nil {
			return SimulationReport{}, fmt.Errorf("%w: fetch %s performance: %w", ErrDependencyUnavailable, position, err)
		}
		feeds[position] = rows
	}

	rng := rand.New(rand.NewPCG(opts.Seed, 0))
	users := make([]simulatedUser, opts.Users)
	for i := range users {
		tier := pickTier(rng.Float64())
		users[i] = simulatedUser{
			index: i,
			tier:  tier.Name,
			skill: tier.Low + rng.Float64()*(tier.High-tier.Low),
		}
	}

	perUser := iter.Map(users, func(u *simulatedUser) []simulatedScore {
		userRNG := rand.New(rand.NewPCG(opts.Seed, uint64(u.index)+1))
		out := make([]simulatedScore, 0, len(positions))
		for _, position := range positions {
			predicted := simulateRanking(userRNG, feeds[position], position, u.skill)
			out = append(out, simulatedScore{
				position: position,
				tier:     u.tier,
				result:   accuracy.Calculate(predicted, feeds[position], position),
			})
		}
		return out
	})
	if err := ctx.Err(); err != nil {
		return SimulationReport{}, err
	}

	var all []simulatedScore
	for _, scores := range perUser {
		all = append(all, scores...)
	}

	report := SimulationReport{
		Users:   opts.Users,
		Seed:    opts.Seed,
		Period:  opts.Period.Key(),
		Overall: summarize(all),
	}

	positionMeans := make([]float64, 0, len(positions))
	for _, position := range positions {
		stats := summarize(filterScores(all, func(s simulatedScore) bool { return s.position == position }))
		report.ByPosition = append(report.ByPosition, SimulationGroup{Name: string(position), Stats: stats})
		positionMeans = append(positionMeans, stats.Mean)
	}
	for _, tier := range simulationTiers {
		stats := summarize(filterScores(all, func(s simulatedScore) bool { return s.tier == tier.Name }))
		report.BySkill = append(report.BySkill, SimulationGroup{Name: tier.Name, Stats: stats})
	}
	report.PositionSpread = roundScore(stdDev(positionMeans))
	report.Distribution = distribute(all)

	distinct := make(map[float64]struct{}, len(all))
	for _, s := range all {
		distinct[s.result.AccuracyPercentage] = struct{}{}
	}
	if len(all) > 0 {
		report.DiscriminationRatio = roundScore(float64(len(distinct)) / float64(len(all)))
	}

	return report, nil
}

func pickTier(roll float64) skillTier {
	acc := 0.0
	for _, tier := range simulationTiers {
		acc += tier.Share
		if roll < acc {
			return tier
		}
	}
	return simulationTiers[len(simulationTiers)-1]
}

// simulateRanking takes the active players in finishing order, nudges every
// rank by up to round((1-skill)*10) places and renumbers the result.
func simulateRanking(rng *rand.Rand, feed []performance.ActualPerformance, position ranking.Position, skill float64) []accuracy.PredictedRanking {
	active := make([]performance.ActualPerformance, 0, len(feed))
	for _, row := range feed {
		if !row.IsInactive() {
			active = append(active, row)
		}
	}
	slices.SortStableFunc(active, func(a, b performance.ActualPerformance) int {
		return a.ActualRank - b.ActualRank
	})
	size := min(len(active), ranking.RankingLimit(position))
	active = active[:size]

	errorRange := int(math.Round((1 - skill) * simulationMaxError))
	type guess struct {
		playerID string
		rank     int
		base     int
	}
	guesses := make([]guess, 0, size)
	for i, row := range active {
		base := i + 1
		offset := 0
		if errorRange > 0 {
			offset = rng.IntN(errorRange*2+1) - errorRange
		}
		guesses = append(guesses, guess{
			playerID: row.PlayerID,
			rank:     max(1, min(size, base+offset)),
			base:     base,
		})
	}
	slices.SortStableFunc(guesses, func(a, b guess) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return a.base - b.base
	})

	out := make([]accuracy.PredictedRanking, 0, len(guesses))
	for i, g := range guesses {
		out = append(out, accuracy.PredictedRanking{PlayerID: g.playerID, RankPosition: i + 1})
	}
	return out
}

func filterScores(all []simulatedScore, keep func(simulatedScore) bool) []simulatedScore {
	out := make([]simulatedScore, 0, len(all))
	for _, s := range all {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func summarize(scores []simulatedScore) SimulationStats {
	if len(scores) == 0 {
		return SimulationStats{}
	}
	values := make([]float64, 0, len(scores))
	stats := SimulationStats{Count: len(scores)}
	for _, s := range scores {
		values = append(values, s.result.AccuracyPercentage)
		stats.PerfectMatches += s.result.Breakdown.Details.PerfectMatches
	}
	slices.Sort(values)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mid := len(values) / 2
	median := values[mid]
	if len(values)%2 == 0 {
		median = (values[mid-1] + values[mid]) / 2
	}

	stats.Mean = roundScore(sum / float64(len(values)))
	stats.Median = roundScore(median)
	stats.StdDev = roundScore(stdDev(values))
	stats.Min = values[0]
	stats.Max = values[len(values)-1]
	return stats
}

func distribute(scores []simulatedScore) []SimulationBucket {
	out := slices.Clone(simulationBuckets)
	for _, s := range scores {
		v := s.result.AccuracyPercentage
		for i := range out {
			if v >= out[i].Min && v < out[i].Max {
				out[i].Count++
				break
			}
		}
	}
	if len(scores) > 0 {
		for i := range out {
			out[i].Percent = roundScore(float64(out[i].Count) / float64(len(scores)) * 100)
		}
	}
	return out
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
