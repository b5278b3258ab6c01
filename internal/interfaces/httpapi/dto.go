package httpapi

import (
	"time"

	"github.com/riskibarqy/rankbet/internal/domain/accuracy"
	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/usecase"
)

type periodDTO struct {
	Type   string `json:"type"`
	Season int    `json:"season"`
	Week   *int   `json:"week,omitempty"`
}

type accuracyDetailsDTO struct {
	PerfectMatches   int `json:"perfectMatches"`
	CloseMatches     int `json:"closeMatches"`
	Top10Correct     int `json:"top10Correct"`
	Top5Correct      int `json:"top5Correct"`
	Busts            int `json:"busts"`
	InactivePlayers  int `json:"inactivePlayers"`
	ScoredPlayers    int `json:"scoredPlayers"`
	UnmatchedPlayers int `json:"unmatchedPlayers"`
}

type accuracyBreakdownDTO struct {
	BaseScore float64            `json:"baseScore"`
	Bonuses   float64            `json:"bonuses"`
	Penalties float64            `json:"penalties"`
	Details   accuracyDetailsDTO `json:"details"`
}

type playerScoreDTO struct {
	PlayerID      string  `json:"playerId"`
	PredictedRank int     `json:"predictedRank"`
	ActualRank    int     `json:"actualRank,omitempty"`
	Distance      int     `json:"distance"`
	Credit        float64 `json:"credit"`
	Bonus         float64 `json:"bonus"`
	Penalty       float64 `json:"penalty"`
	Outcome       string  `json:"outcome"`
}

type accuracyResultDTO struct {
	Position           string               `json:"position"`
	AccuracyPercentage float64              `json:"accuracyPercentage"`
	Breakdown          accuracyBreakdownDTO `json:"breakdown"`
	Players            []playerScoreDTO     `json:"players"`
}

type rankingAccuracyDTO struct {
	RankingID     string                `json:"rankingId"`
	AccuracyScore float64               `json:"accuracyScore"`
	Breakdown     *accuracyBreakdownDTO `json:"breakdown,omitempty"`
	Calculated    bool                  `json:"calculated"`
	DataSource    string                `json:"dataSource"`
	ScoredAt      *time.Time            `json:"scoredAt,omitempty"`
}

type scoreTestDTO struct {
	Result     accuracyResultDTO `json:"result"`
	DataSource string            `json:"dataSource"`
	Period     periodDTO         `json:"period"`
}

type sampleDataDTO struct {
	PlayerRankings    []predictedRankingRequest `json:"playerRankings"`
	ActualPerformance []actualPerformanceDTO    `json:"actualPerformance"`
}

type sampleScoreDTO struct {
	SampleData sampleDataDTO     `json:"sampleData"`
	Result     accuracyResultDTO `json:"result"`
	DataSource string            `json:"dataSource"`
	Period     periodDTO         `json:"period"`
}

type actualPerformanceDTO struct {
	PlayerID   string  `json:"playerId"`
	Name       string  `json:"name"`
	Team       string  `json:"team"`
	Position   string  `json:"position"`
	ActualRank int     `json:"actualRank"`
	Points     float64 `json:"points"`
	Inactive   bool    `json:"inactive"`
}

type performanceFeedDTO struct {
	Position string                 `json:"position"`
	Period   periodDTO              `json:"period"`
	Players  []actualPerformanceDTO `json:"players"`
}

type playerRankingDTO struct {
	ID           string `json:"id"`
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	Team         string `json:"team"`
	Position     string `json:"position"`
	RankPosition int    `json:"rankPosition"`
	IsStarred    bool   `json:"isStarred"`
}

type rankingDTO struct {
	ID                    string             `json:"id"`
	UserID                string             `json:"userId"`
	Title                 string             `json:"title"`
	Position              string             `json:"position"`
	Period                periodDTO          `json:"period"`
	AccuracyScore         *float64           `json:"accuracyScore"`
	PercentileRank        *float64           `json:"percentileRank"`
	TotalRankingsInPeriod *int               `json:"totalRankingsInPeriod"`
	IsActive              bool               `json:"isActive"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
	Players               []playerRankingDTO `json:"players,omitempty"`
}

type savedRankingDTO struct {
	Action  string     `json:"action"`
	Ranking rankingDTO `json:"ranking"`
}

type averageRankDTO struct {
	PlayerID      string  `json:"playerId"`
	PlayerName    string  `json:"playerName"`
	Team          string  `json:"team"`
	AverageRank   float64 `json:"averageRank"`
	TotalRankings int     `json:"totalRankings"`
}

type averageRankingsDTO struct {
	Position string           `json:"position"`
	Period   periodDTO        `json:"period"`
	Players  []averageRankDTO `json:"players"`
}

type consensusEntryDTO struct {
	PlayerID      string   `json:"playerId"`
	PlayerName    string   `json:"playerName"`
	RankPosition  int      `json:"rankPosition"`
	AverageRank   *float64 `json:"averageRank"`
	Difference    *float64 `json:"difference"`
	TotalRankings int      `json:"totalRankings"`
}

type consensusDTO struct {
	RankingID string              `json:"rankingId"`
	Position  string              `json:"position"`
	Period    periodDTO           `json:"period"`
	Players   []consensusEntryDTO `json:"players"`
}

type leaderboardEntryDTO struct {
	Place   int        `json:"place"`
	Ranking rankingDTO `json:"ranking"`
}

// predictedRankingRequest mirrors a stored player ranking row so clients can
// post rows they read back from the API unchanged. Only player_id,
// rank_position and is_starred take part in scoring.
type predictedRankingRequest struct {
	ID           string `json:"id,omitempty"`
	RankingID    string `json:"ranking_id,omitempty"`
	PlayerID     string `json:"player_id"`
	PlayerName   string `json:"player_name,omitempty"`
	Team         string `json:"team,omitempty"`
	Position     string `json:"position,omitempty"`
	RankPosition int    `json:"rank_position"`
	IsStarred    bool   `json:"is_starred"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type scoreTestRequest struct {
	PlayerRankings []predictedRankingRequest `json:"playerRankings" validate:"required"`
	Position       string                    `json:"position" validate:"required"`
	Type           string                    `json:"type" validate:"omitempty,oneof=weekly preseason"`
	Season         int                       `json:"season" validate:"omitempty,min=1"`
	Week           int                       `json:"week" validate:"omitempty,min=1,max=18"`
}

// replacePlayersRequest lists players best first. rank_position is accepted
// for symmetry with reads; ranks are reassigned in submitted order.
type replacePlayersRequest struct {
	Players []playerRankingRequest `json:"players" validate:"required,min=1,dive"`
}

// createRankingRequest saves a user's list for one position and period. A
// second save for the same slot replaces the list.
type createRankingRequest struct {
	UserID   string                 `json:"user_id" validate:"required,max=64"`
	Title    string                 `json:"title" validate:"omitempty,max=200"`
	Position string                 `json:"position" validate:"required"`
	Type     string                 `json:"type" validate:"omitempty,oneof=weekly preseason"`
	Season   int                    `json:"season" validate:"omitempty,min=1"`
	Week     int                    `json:"week" validate:"omitempty,min=1,max=18"`
	Players  []playerRankingRequest `json:"players" validate:"required,min=1,dive"`
}

type playerRankingRequest struct {
	PlayerID     string `json:"player_id" validate:"required,max=64"`
	PlayerName   string `json:"player_name" validate:"omitempty,max=120"`
	Team         string `json:"team" validate:"omitempty,max=8"`
	Position     string `json:"position" validate:"omitempty,max=8"`
	RankPosition int    `json:"rank_position" validate:"omitempty,min=1"`
	IsStarred    bool   `json:"is_starred"`
}

type periodJobRequest struct {
	Type       string   `json:"type" validate:"omitempty,oneof=weekly preseason"`
	Season     int      `json:"season" validate:"omitempty,min=1"`
	Week       int      `json:"week" validate:"omitempty,min=1,max=18"`
	Positions  []string `json:"positions" validate:"omitempty,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,min=1,max=64"`
	DryRun     bool     `json:"dry_run"`
}

func (r periodJobRequest) periodInput() periodInput {
	return periodInput{Type: r.Type, Season: r.Season, Week: r.Week}
}

func toPeriodDTO(p ranking.Period) periodDTO {
	return periodDTO{
		Type:   string(p.Type),
		Season: p.Season,
		Week:   p.Week,
	}
}

func toBreakdownDTO(b accuracy.Breakdown) accuracyBreakdownDTO {
	return accuracyBreakdownDTO{
		BaseScore: b.BaseScore,
		Bonuses:   b.Bonuses,
		Penalties: b.Penalties,
		Details: accuracyDetailsDTO{
			PerfectMatches:   b.Details.PerfectMatches,
			CloseMatches:     b.Details.CloseMatches,
			Top10Correct:     b.Details.Top10Correct,
			Top5Correct:      b.Details.Top5Correct,
			Busts:            b.Details.Busts,
			InactivePlayers:  b.Details.InactivePlayers,
			ScoredPlayers:    b.Details.ScoredPlayers,
			UnmatchedPlayers: b.Details.UnmatchedPlayers,
		},
	}
}

func toResultDTO(r accuracy.Result) accuracyResultDTO {
	players := make([]playerScoreDTO, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, playerScoreDTO{
			PlayerID:      p.PlayerID,
			PredictedRank: p.PredictedRank,
			ActualRank:    p.ActualRank,
			Distance:      p.Distance,
			Credit:        p.Credit,
			Bonus:         p.Bonus,
			Penalty:       p.Penalty,
			Outcome:       string(p.Outcome),
		})
	}
	return accuracyResultDTO{
		Position:           string(r.Position),
		AccuracyPercentage: r.AccuracyPercentage,
		Breakdown:          toBreakdownDTO(r.Breakdown),
		Players:            players,
	}
}

func toRankingAccuracyDTO(o usecase.AccuracyOutcome) rankingAccuracyDTO {
	out := rankingAccuracyDTO{
		RankingID:     o.RankingID,
		AccuracyScore: o.Result.AccuracyPercentage,
		Calculated:    o.Calculated,
		DataSource:    string(o.DataSource),
	}
	if o.Calculated {
		breakdown := toBreakdownDTO(o.Result.Breakdown)
		out.Breakdown = &breakdown
	}
	if !o.ScoredAt.IsZero() {
		scoredAt := o.ScoredAt.UTC()
		out.ScoredAt = &scoredAt
	}
	return out
}

func toActualPerformanceDTOs(rows []performance.ActualPerformance) []actualPerformanceDTO {
	out := make([]actualPerformanceDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, actualPerformanceDTO{
			PlayerID:   row.PlayerID,
			Name:       row.Name,
			Team:       row.Team,
			Position:   row.Position,
			ActualRank: row.ActualRank,
			Points:     row.Points,
			Inactive:   row.IsInactive(),
		})
	}
	return out
}

func toRankingDTO(item ranking.Ranking, players []ranking.PlayerRanking) rankingDTO {
	out := rankingDTO{
		ID:                    item.ID,
		UserID:                item.UserID,
		Title:                 item.Title,
		Position:              string(item.Position),
		Period:                toPeriodDTO(item.Period),
		AccuracyScore:         item.AccuracyScore,
		PercentileRank:        item.PercentileRank,
		TotalRankingsInPeriod: item.TotalRankingsInPeriod,
		IsActive:              item.IsActive,
		CreatedAt:             item.CreatedAt,
		UpdatedAt:             item.UpdatedAt,
	}
	if len(players) > 0 {
		out.Players = make([]playerRankingDTO, 0, len(players))
		for _, p := range players {
			out.Players = append(out.Players, playerRankingDTO{
				ID:           p.ID,
				PlayerID:     p.PlayerID,
				PlayerName:   p.PlayerName,
				Team:         p.Team,
				Position:     p.Position,
				RankPosition: p.RankPosition,
				IsStarred:    p.IsStarred,
			})
		}
	}
	return out
}

func toAverageRankingsDTO(position ranking.Position, period ranking.Period, rows []ranking.AverageRank) averageRankingsDTO {
	players := make([]averageRankDTO, 0, len(rows))
	for _, row := range rows {
		players = append(players, averageRankDTO{
			PlayerID:      row.PlayerID,
			PlayerName:    row.PlayerName,
			Team:          row.Team,
			AverageRank:   row.AverageRank,
			TotalRankings: row.TotalRankings,
		})
	}
	return averageRankingsDTO{
		Position: string(position),
		Period:   toPeriodDTO(period),
		Players:  players,
	}
}

func toConsensusDTO(c usecase.ConsensusComparison) consensusDTO {
	players := make([]consensusEntryDTO, 0, len(c.Entries))
	for _, e := range c.Entries {
		players = append(players, consensusEntryDTO{
			PlayerID:      e.PlayerID,
			PlayerName:    e.PlayerName,
			RankPosition:  e.RankPosition,
			AverageRank:   e.AverageRank,
			Difference:    e.Difference,
			TotalRankings: e.TotalRankings,
		})
	}
	return consensusDTO{
		RankingID: c.Ranking.ID,
		Position:  string(c.Ranking.Position),
		Period:    toPeriodDTO(c.Ranking.Period),
		Players:   players,
	}
}

func toPredictions(rows []predictedRankingRequest) []accuracy.PredictedRanking {
	out := make([]accuracy.PredictedRanking, 0, len(rows))
	for _, row := range rows {
		out = append(out, accuracy.PredictedRanking{
			PlayerID:     row.PlayerID,
			RankPosition: row.RankPosition,
			IsStarred:    row.IsStarred,
		})
	}
	return out
}

func toPlayerRankings(rows []playerRankingRequest) []ranking.PlayerRanking {
	out := make([]ranking.PlayerRanking, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.PlayerRanking{
			PlayerID:     row.PlayerID,
			PlayerName:   row.PlayerName,
			Team:         row.Team,
			Position:     row.Position,
			RankPosition: row.RankPosition,
			IsStarred:    row.IsStarred,
		})
	}
	return out
}
