package postgres

import (
	"database/sql"
	"time"
)

type rankingTableModel struct {
	ID                    int64           `db:"id"`
	PublicID              string          `db:"public_id"`
	UserID                string          `db:"user_id"`
	Title                 string          `db:"title"`
	Position              string          `db:"position"`
	RankingType           string          `db:"ranking_type"`
	Season                int             `db:"season"`
	Week                  sql.NullInt64   `db:"week"`
	AccuracyScore         sql.NullFloat64 `db:"accuracy_score"`
	PercentileRank        sql.NullFloat64 `db:"percentile_rank"`
	TotalRankingsInPeriod sql.NullInt64   `db:"total_rankings_in_period"`
	IsActive              bool            `db:"is_active"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
	DeletedAt             *time.Time      `db:"deleted_at"`
}

type playerRankingTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	RankingPublicID string    `db:"ranking_public_id"`
	PlayerID        string    `db:"player_id"`
	PlayerName      string    `db:"player_name"`
	Team            string    `db:"team"`
	Position        string    `db:"position"`
	RankPosition    int       `db:"rank_position"`
	IsStarred       bool      `db:"is_starred"`
	CreatedAt       time.Time `db:"created_at"`
}

type playerRankingInsertModel struct {
	PublicID        string    `db:"public_id"`
	RankingPublicID string    `db:"ranking_public_id"`
	PlayerID        string    `db:"player_id"`
	PlayerName      string    `db:"player_name"`
	Team            string    `db:"team"`
	Position        string    `db:"position"`
	RankPosition    int       `db:"rank_position"`
	IsStarred       bool      `db:"is_starred"`
	CreatedAt       time.Time `db:"created_at"`
}

type performanceTableModel struct {
	ID             int64     `db:"id"`
	Position       string    `db:"position"`
	RankingType    string    `db:"ranking_type"`
	Season         int       `db:"season"`
	Week           int       `db:"week"`
	PlayerID       string    `db:"player_id"`
	PlayerName     string    `db:"player_name"`
	Team           string    `db:"team"`
	PlayerPosition string    `db:"player_position"`
	ActualRank     int       `db:"actual_rank"`
	Points         float64   `db:"points"`
	Inactive       bool      `db:"inactive"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type performanceInsertModel struct {
	Position       string  `db:"position"`
	RankingType    string  `db:"ranking_type"`
	Season         int     `db:"season"`
	Week           int     `db:"week"`
	PlayerID       string  `db:"player_id"`
	PlayerName     string  `db:"player_name"`
	Team           string  `db:"team"`
	PlayerPosition string  `db:"player_position"`
	ActualRank     int     `db:"actual_rank"`
	Points         float64 `db:"points"`
	Inactive       bool    `db:"inactive"`
}

type rankingInsertModel struct {
	PublicID    string        `db:"public_id"`
	UserID      string        `db:"user_id"`
	Title       string        `db:"title"`
	Position    string        `db:"position"`
	RankingType string        `db:"ranking_type"`
	Season      int           `db:"season"`
	Week        sql.NullInt64 `db:"week"`
	IsActive    bool          `db:"is_active"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}
