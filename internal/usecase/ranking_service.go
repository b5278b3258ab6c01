package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/platform/id"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// RankingWithPlayers is a ranking together with its ordered player list.
type RankingWithPlayers struct {
	Ranking ranking.Ranking
	Players []ranking.PlayerRanking
}

// LeaderboardEntry is one row of a period leaderboard, 1-based.
type LeaderboardEntry struct {
	Place   int
	Ranking ranking.Ranking
}

type RankingService struct {
	rankings ranking.Repository
	ids      id.Generator
	now      func() time.Time
}

func NewRankingService(rankings ranking.Repository, ids id.Generator) *RankingService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &RankingService{
		rankings: rankings,
		ids:      ids,
		now:      time.Now,
	}
}

func (s *RankingService) GetWithPlayers(ctx context.Context, rankingID string) (RankingWithPlayers, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.GetWithPlayers", attribute.String("ranking_id", rankingID))
	defer span.End()

	item, err := s.getRanking(ctx, rankingID)
	if err != nil {
		return RankingWithPlayers{}, err
	}

	players, err := s.rankings.ListPlayerRankings(ctx, item.ID)
	if err != nil {
		return RankingWithPlayers{}, fmt.Errorf("list player rankings: %w", err)
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].RankPosition < players[j].RankPosition
	})

	return RankingWithPlayers{Ranking: item, Players: players}, nil
}

// ReplacePlayers swaps the full player list of a ranking. Ranks are
// reassigned 1..n in submitted order and the stored score is dropped.
func (s *RankingService) ReplacePlayers(ctx context.Context, rankingID string, players []ranking.PlayerRanking) (RankingWithPlayers, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.ReplacePlayers", attribute.String("ranking_id", rankingID))
	defer span.End()

	item, err := s.getRanking(ctx, rankingID)
	if err != nil {
		return RankingWithPlayers{}, err
	}

	if err := ranking.ValidatePlayers(players, item.Position); err != nil {
		return RankingWithPlayers{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	rows, err := s.preparePlayers(item, players, now)
	if err != nil {
		return RankingWithPlayers{}, err
	}
	if err := s.rankings.ReplacePlayerRankings(ctx, item.ID, rows); err != nil {
		return RankingWithPlayers{}, fmt.Errorf("replace player rankings: %w", err)
	}

	return RankingWithPlayers{Ranking: clearScore(item, now), Players: rows}, nil
}

// CreateRankingInput is a full ranking submitted by a user.
type CreateRankingInput struct {
	UserID   string
	Title    string
	Position ranking.Position
	Period   ranking.Period
	Players  []ranking.PlayerRanking
}

// Create saves the user's ranking for a position and period. A user holds
// one ranking per position and period: when it already exists its player
// list is replaced instead. created reports which of the two happened.
func (s *RankingService) Create(ctx context.Context, in CreateRankingInput) (out RankingWithPlayers, created bool, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Create", attribute.String("position", string(in.Position)))
	defer span.End()

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return RankingWithPlayers{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, ok := ranking.AllPositions[in.Position]; !ok {
		return RankingWithPlayers{}, false, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, in.Position)
	}
	if err := in.Period.Validate(); err != nil {
		return RankingWithPlayers{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := ranking.ValidatePlayers(in.Players, in.Position); err != nil {
		return RankingWithPlayers{}, false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	item, exists, err := s.rankings.FindForUser(ctx, userID, in.Position, in.Period)
	if err != nil {
		return RankingWithPlayers{}, false, fmt.Errorf("find user ranking: %w", err)
	}
	if !exists {
		rankingID, err := s.ids.NewID()
		if err != nil {
			return RankingWithPlayers{}, false, fmt.Errorf("generate ranking id: %w", err)
		}
		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = ranking.DefaultTitle(in.Position, in.Period)
		}
		item = ranking.Ranking{
			ID:        rankingID,
			UserID:    userID,
			Title:     title,
			Position:  in.Position,
			Period:    in.Period,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := item.Validate(); err != nil {
			return RankingWithPlayers{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.rankings.Create(ctx, item); err != nil {
			if errors.Is(err, ranking.ErrDuplicateRanking) {
				return RankingWithPlayers{}, false, fmt.Errorf("%w: %w", ErrConflict, err)
			}
			return RankingWithPlayers{}, false, fmt.Errorf("create ranking: %w", err)
		}
	}

	rows, err := s.preparePlayers(item, in.Players, now)
	if err != nil {
		return RankingWithPlayers{}, false, err
	}
	if err := s.rankings.ReplacePlayerRankings(ctx, item.ID, rows); err != nil {
		return RankingWithPlayers{}, false, fmt.Errorf("replace player rankings: %w", err)
	}

	return RankingWithPlayers{Ranking: clearScore(item, now), Players: rows}, !exists, nil
}

// ListByUser returns a user's rankings, newest first, each with its players.
func (s *RankingService) ListByUser(ctx context.Context, userID string, filter ranking.ListFilter) ([]RankingWithPlayers, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if filter.Position != "" {
		if _, ok := ranking.AllPositions[filter.Position]; !ok {
			return nil, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, filter.Position)
		}
	}

	items, err := s.rankings.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list user rankings: %w", err)
	}

	return iter.MapErr(items, func(item *ranking.Ranking) (RankingWithPlayers, error) {
		players, err := s.rankings.ListPlayerRankings(ctx, item.ID)
		if err != nil {
			return RankingWithPlayers{}, fmt.Errorf("list player rankings of %s: %w", item.ID, err)
		}
		return RankingWithPlayers{Ranking: *item, Players: players}, nil
	})
}

// Average returns the consensus list of a position and period built from
// every active ranking.
func (s *RankingService) Average(ctx context.Context, position ranking.Position, period ranking.Period) ([]ranking.AverageRank, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Average", attribute.String("position", string(position)))
	defer span.End()

	if _, ok := ranking.AllPositions[position]; !ok {
		return nil, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, position)
	}
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rows, err := s.rankings.ListPlayerRankingsByPeriod(ctx, period, position)
	if err != nil {
		return nil, fmt.Errorf("list period player rankings: %w", err)
	}
	return ranking.AverageRanks(rows), nil
}

// ConsensusEntry compares one player of a ranking with the average of the
// other rankings. AverageRank and Difference are nil when no other ranking
// lists the player. A positive Difference means the player sits lower in
// this ranking than in the consensus.
type ConsensusEntry struct {
	PlayerID      string
	PlayerName    string
	RankPosition  int
	AverageRank   *float64
	Difference    *float64
	TotalRankings int
}

type ConsensusComparison struct {
	Ranking ranking.Ranking
	Entries []ConsensusEntry
}

// CompareToAverage lines a ranking up against the consensus of the other
// active rankings in its position and period.
func (s *RankingService) CompareToAverage(ctx context.Context, rankingID string) (ConsensusComparison, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.CompareToAverage", attribute.String("ranking_id", rankingID))
	defer span.End()

	item, err := s.GetWithPlayers(ctx, rankingID)
	if err != nil {
		return ConsensusComparison{}, err
	}

	rows, err := s.rankings.ListPlayerRankingsByPeriod(ctx, item.Ranking.Period, item.Ranking.Position)
	if err != nil {
		return ConsensusComparison{}, fmt.Errorf("list period player rankings: %w", err)
	}
	others := make([]ranking.PlayerRanking, 0, len(rows))
	for _, row := range rows {
		if row.RankingID != item.Ranking.ID {
			others = append(others, row)
		}
	}

	averages := make(map[string]ranking.AverageRank)
	for _, avg := range ranking.AverageRanks(others) {
		averages[avg.PlayerID] = avg
	}

	entries := make([]ConsensusEntry, 0, len(item.Players))
	for _, p := range item.Players {
		entry := ConsensusEntry{
			PlayerID:     p.PlayerID,
			PlayerName:   p.PlayerName,
			RankPosition: p.RankPosition,
		}
		if avg, ok := averages[p.PlayerID]; ok {
			average := avg.AverageRank
			diff := math.Round((float64(p.RankPosition)-average)*100) / 100
			entry.AverageRank = &average
			entry.Difference = &diff
			entry.TotalRankings = avg.TotalRankings
			if entry.PlayerName == "" {
				entry.PlayerName = avg.PlayerName
			}
		}
		entries = append(entries, entry)
	}

	return ConsensusComparison{Ranking: item.Ranking, Entries: entries}, nil
}

func (s *RankingService) preparePlayers(item ranking.Ranking, players []ranking.PlayerRanking, now time.Time) ([]ranking.PlayerRanking, error) {
	rows := ranking.Renumber(players)
	for i := range rows {
		rowID, err := s.ids.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate player ranking id: %w", err)
		}
		rows[i].ID = rowID
		rows[i].RankingID = item.ID
		rows[i].CreatedAt = now
		if rows[i].Position == "" {
			rows[i].Position = string(item.Position)
		}
	}
	return rows, nil
}

func clearScore(item ranking.Ranking, now time.Time) ranking.Ranking {
	item.AccuracyScore = nil
	item.PercentileRank = nil
	item.TotalRankingsInPeriod = nil
	item.UpdatedAt = now
	return item
}

// Leaderboard lists the scored rankings of a position and period, best first.
func (s *RankingService) Leaderboard(ctx context.Context, position ranking.Position, period ranking.Period, limit int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Leaderboard", attribute.String("position", string(position)))
	defer span.End()

	if _, ok := ranking.AllPositions[position]; !ok {
		return nil, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, position)
	}
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	switch {
	case limit <= 0:
		limit = defaultLeaderboardLimit
	case limit > maxLeaderboardLimit:
		limit = maxLeaderboardLimit
	}

	items, err := s.rankings.ListActiveByPeriod(ctx, period, position)
	if err != nil {
		return nil, fmt.Errorf("list rankings for period: %w", err)
	}

	scored := make([]ranking.Ranking, 0, len(items))
	for _, item := range items {
		if item.AccuracyScore != nil {
			scored = append(scored, item)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if *scored[i].AccuracyScore != *scored[j].AccuracyScore {
			return *scored[i].AccuracyScore > *scored[j].AccuracyScore
		}
		return scored[i].ID < scored[j].ID
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]LeaderboardEntry, 0, len(scored))
	for i, item := range scored {
		out = append(out, LeaderboardEntry{Place: i + 1, Ranking: item})
	}
	return out, nil
}

func (s *RankingService) getRanking(ctx context.Context, rankingID string) (ranking.Ranking, error) {
	rankingID = strings.TrimSpace(rankingID)
	if rankingID == "" {
		return ranking.Ranking{}, fmt.Errorf("%w: ranking id is required", ErrInvalidInput)
	}

	item, exists, err := s.rankings.GetByID(ctx, rankingID)
	if err != nil {
		return ranking.Ranking{}, fmt.Errorf("get ranking: %w", err)
	}
	if !exists || !item.IsActive {
		return ranking.Ranking{}, fmt.Errorf("%w: ranking=%s", ErrNotFound, rankingID)
	}
	return item, nil
}
