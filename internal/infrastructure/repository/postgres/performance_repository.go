package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	qb "github.com/riskibarqy/rankbet/internal/platform/querybuilder"
)

// PerformanceRepository stores actual performance per position and period.
// Preseason rows are keyed with week 0.
type PerformanceRepository struct {
	db *sqlx.DB
}

func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

func (r *PerformanceRepository) FetchActualPerformance(ctx context.Context, position ranking.Position, period ranking.Period) ([]performance.ActualPerformance, error) {
	query, args, err := qb.Select("*").
		From("player_performances").
		Where(performancePeriodConditions(position, period)...).
		OrderBy("inactive", "actual_rank", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list performances query: %w", err)
	}

	var rows []performanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list performances: %w", err)
	}

	out := make([]performance.ActualPerformance, 0, len(rows))
	for _, row := range rows {
		out = append(out, performance.ActualPerformance{
			PlayerID:   row.PlayerID,
			Name:       row.PlayerName,
			Team:       row.Team,
			Position:   row.PlayerPosition,
			ActualRank: row.ActualRank,
			Points:     row.Points,
			Inactive:   row.Inactive,
		})
	}
	return out, nil
}

// UpsertActualPerformance replaces the stored feed of one position and period.
func (r *PerformanceRepository) UpsertActualPerformance(ctx context.Context, position ranking.Position, period ranking.Period, rows []performance.ActualPerformance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert performances: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("player_performances").
		Where(performancePeriodConditions(position, period)...).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear performances query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear performances: %w", err)
	}

	if len(rows) > 0 {
		models := make([]performanceInsertModel, 0, len(rows))
		for _, row := range rows {
			models = append(models, performanceInsertModel{
				Position:       string(position),
				RankingType:    string(period.Type),
				Season:         period.Season,
				Week:           periodWeek(period),
				PlayerID:       row.PlayerID,
				PlayerName:     row.Name,
				Team:           row.Team,
				PlayerPosition: row.Position,
				ActualRank:     row.ActualRank,
				Points:         row.Points,
				Inactive:       row.IsInactive(),
			})
		}
		insertQuery, insertArgs, err := qb.InsertModels("player_performances", models, `ON CONFLICT (position, ranking_type, season, week, player_id)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    team = EXCLUDED.team,
    player_position = EXCLUDED.player_position,
    actual_rank = EXCLUDED.actual_rank,
    points = EXCLUDED.points,
    inactive = EXCLUDED.inactive,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build insert performances query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert performances: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert performances tx: %w", err)
	}
	return nil
}

func performancePeriodConditions(position ranking.Position, period ranking.Period) []qb.Condition {
	return []qb.Condition{
		qb.Eq("position", string(position)),
		qb.Eq("ranking_type", string(period.Type)),
		qb.Eq("season", period.Season),
		qb.Eq("week", periodWeek(period)),
	}
}

func periodWeek(period ranking.Period) int {
	if period.Week == nil {
		return 0
	}
	return *period.Week
}
