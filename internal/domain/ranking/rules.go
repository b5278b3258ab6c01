package ranking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTooManyPlayers      = errors.New("ranking limit exceeded")
	ErrDuplicatePlayer     = errors.New("duplicate player in ranking")
	ErrMissingPlayerID     = errors.New("player id is required")
	ErrInvalidRankPosition = errors.New("invalid rank position")
	ErrDuplicateRanking    = errors.New("ranking already exists for user, position and period")
)

// ValidatePlayers checks a submitted list against the limits of the position.
func ValidatePlayers(players []PlayerRanking, position Position) error {
	limit := RankingLimit(position)
	if len(players) > limit {
		return fmt.Errorf("%w: %s allows %d players, got %d", ErrTooManyPlayers, position, limit, len(players))
	}

	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		id := strings.TrimSpace(p.PlayerID)
		if id == "" {
			return ErrMissingPlayerID
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}

		if p.RankPosition < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidRankPosition, p.RankPosition)
		}
	}

	return nil
}

// Renumber assigns contiguous rank positions 1..n in submitted order.
func Renumber(players []PlayerRanking) []PlayerRanking {
	out := make([]PlayerRanking, len(players))
	for i, p := range players {
		p.PlayerID = strings.TrimSpace(p.PlayerID)
		p.RankPosition = i + 1
		out[i] = p
	}
	return out
}
