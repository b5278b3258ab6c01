package ranking

import (
	"fmt"
	"strings"
	"time"
)

// Position is the fantasy position a ranking list covers.
type Position string

const (
	PositionQuarterback  Position = "QB"
	PositionRunningBack  Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
	PositionOverall      Position = "OVR"
	PositionFlex         Position = "FLX"
)

var AllPositions = map[Position]struct{}{
	PositionQuarterback:  {},
	PositionRunningBack:  {},
	PositionWideReceiver: {},
	PositionTightEnd:     {},
	PositionOverall:      {},
	PositionFlex:         {},
}

// ScoredPositions are the positions the stats feeds report on directly.
var ScoredPositions = []Position{
	PositionQuarterback,
	PositionRunningBack,
	PositionWideReceiver,
	PositionTightEnd,
}

const defaultRankingLimit = 50

var rankingLimits = map[Position]int{
	PositionQuarterback:  12,
	PositionRunningBack:  36,
	PositionWideReceiver: 36,
	PositionTightEnd:     12,
	PositionOverall:      75,
	PositionFlex:         60,
}

// RankingLimit returns how many players a ranking of the position may hold.
func RankingLimit(p Position) int {
	if limit, ok := rankingLimits[p]; ok {
		return limit
	}
	return defaultRankingLimit
}

func ParsePosition(raw string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := AllPositions[p]; !ok {
		return "", fmt.Errorf("invalid position: %q", raw)
	}
	return p, nil
}

// Type separates in-season weekly rankings from preseason rankings.
type Type string

const (
	TypeWeekly    Type = "weekly"
	TypePreseason Type = "preseason"
)

func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeWeekly:
		return TypeWeekly, nil
	case TypePreseason:
		return TypePreseason, nil
	default:
		return "", fmt.Errorf("invalid ranking type: %q", raw)
	}
}

// Period identifies the slice of the season a ranking is judged against.
// Week is nil for preseason rankings.
type Period struct {
	Type   Type
	Season int
	Week   *int
}

func WeeklyPeriod(season, week int) Period {
	return Period{Type: TypeWeekly, Season: season, Week: &week}
}

func PreseasonPeriod(season int) Period {
	return Period{Type: TypePreseason, Season: season}
}

func (p Period) Validate() error {
	if p.Season <= 0 {
		return fmt.Errorf("season must be greater than zero")
	}
	switch p.Type {
	case TypeWeekly:
		if p.Week == nil || *p.Week <= 0 {
			return fmt.Errorf("weekly period requires a positive week")
		}
	case TypePreseason:
		if p.Week != nil {
			return fmt.Errorf("preseason period must not set a week")
		}
	default:
		return fmt.Errorf("invalid ranking type: %q", p.Type)
	}
	return nil
}

// Key is a stable identifier for the period, used for cache keys and logs.
func (p Period) Key() string {
	if p.Week == nil {
		return fmt.Sprintf("%s:%d", p.Type, p.Season)
	}
	return fmt.Sprintf("%s:%d:%d", p.Type, p.Season, *p.Week)
}

// Ranking is a user's ordered list of players for one position and period.
type Ranking struct {
	ID                    string
	UserID                string
	Title                 string
	Position              Position
	Period                Period
	AccuracyScore         *float64
	PercentileRank        *float64
	TotalRankingsInPeriod *int
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (r Ranking) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("ranking id is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("ranking user id is required")
	}
	if _, ok := AllPositions[r.Position]; !ok {
		return fmt.Errorf("invalid ranking position: %s", r.Position)
	}
	if err := r.Period.Validate(); err != nil {
		return err
	}
	return nil
}

// PlayerRanking is one row of a ranking list.
type PlayerRanking struct {
	ID           string
	RankingID    string
	PlayerID     string
	PlayerName   string
	Team         string
	Position     string
	RankPosition int
	IsStarred    bool
	CreatedAt    time.Time
}

// Percentile is the standing of one ranking among its position and period.
type Percentile struct {
	RankingID             string
	PercentileRank        float64
	TotalRankingsInPeriod int
}
