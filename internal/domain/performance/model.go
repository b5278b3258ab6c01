package performance

import (
	"cmp"
	"slices"
	"strings"
)

// ActualPerformance is how one player really finished in a period.
// ActualRank is 1-based; Inactive marks players who did not play, in which
// case ActualRank carries no meaning.
type ActualPerformance struct {
	PlayerID   string
	Name       string
	Team       string
	Position   string
	ActualRank int
	Points     float64
	Inactive   bool
}

// IsInactive reports whether the row should be treated as a non-playing entry.
func (a ActualPerformance) IsInactive() bool {
	return a.Inactive || a.ActualRank <= 0
}

// RankByPoints assigns ActualRank to active players by points descending.
// Ties are broken by player id so the output is stable. Inactive rows keep
// rank 0 and are placed after the active ones.
func RankByPoints(rows []ActualPerformance) []ActualPerformance {
	out := make([]ActualPerformance, len(rows))
	copy(out, rows)

	slices.SortStableFunc(out, func(a, b ActualPerformance) int {
		if a.Inactive != b.Inactive {
			if a.Inactive {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return strings.Compare(a.PlayerID, b.PlayerID)
	})

	rank := 0
	for i := range out {
		if out[i].Inactive {
			out[i].ActualRank = 0
			continue
		}
		rank++
		out[i].ActualRank = rank
	}
	return out
}

// Clone returns a copy safe to hand to another owner.
func Clone(rows []ActualPerformance) []ActualPerformance {
	if rows == nil {
		return nil
	}
	out := make([]ActualPerformance, len(rows))
	copy(out, rows)
	return out
}
