package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// AverageRank is the consensus position of one player across every active
// ranking of a position and period.
type AverageRank struct {
	PlayerID      string
	PlayerName    string
	Team          string
	AverageRank   float64
	TotalRankings int
}

// AverageRanks folds stored player rows into one consensus list, best
// average first. Ties go to the player listed by more rankings, then to the
// lower player id. Name and team come from the first row that carries them.
func AverageRanks(rows []PlayerRanking) []AverageRank {
	type tally struct {
		rank AverageRank
		sum  int
	}

	byPlayer := make(map[string]*tally)
	order := make([]string, 0)
	for _, row := range rows {
		if row.PlayerID == "" || row.RankPosition <= 0 {
			continue
		}
		entry, ok := byPlayer[row.PlayerID]
		if !ok {
			entry = &tally{rank: AverageRank{PlayerID: row.PlayerID}}
			byPlayer[row.PlayerID] = entry
			order = append(order, row.PlayerID)
		}
		if entry.rank.PlayerName == "" {
			entry.rank.PlayerName = row.PlayerName
		}
		if entry.rank.Team == "" {
			entry.rank.Team = row.Team
		}
		entry.sum += row.RankPosition
		entry.rank.TotalRankings++
	}

	out := make([]AverageRank, 0, len(order))
	for _, playerID := range order {
		entry := byPlayer[playerID]
		entry.rank.AverageRank = math.Round(float64(entry.sum)/float64(entry.rank.TotalRankings)*100) / 100
		out = append(out, entry.rank)
	}

	slices.SortFunc(out, func(a, b AverageRank) int {
		if c := cmp.Compare(a.AverageRank, b.AverageRank); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalRankings, a.TotalRankings); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}

// DefaultTitle names a ranking that was saved without one.
func DefaultTitle(position Position, period Period) string {
	if period.Week == nil {
		return fmt.Sprintf("Pre-Season %d %s Rankings", period.Season, position)
	}
	return fmt.Sprintf("Week %d %s Rankings", *period.Week, position)
}
