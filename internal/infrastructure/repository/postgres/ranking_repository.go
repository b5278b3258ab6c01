package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	qb "github.com/riskibarqy/rankbet/internal/platform/querybuilder"
)

type RankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func (r *RankingRepository) GetByID(ctx context.Context, rankingID string) (ranking.Ranking, bool, error) {
	query, args, err := rankingBaseSelectBuilder().
		Where(
			qb.Eq("public_id", rankingID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return ranking.Ranking{}, false, fmt.Errorf("build get ranking query: %w", err)
	}

	var row rankingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ranking.Ranking{}, false, nil
		}
		return ranking.Ranking{}, false, fmt.Errorf("get ranking: %w", err)
	}

	return rankingFromRow(row), true, nil
}

func (r *RankingRepository) FindForUser(ctx context.Context, userID string, position ranking.Position, period ranking.Period) (ranking.Ranking, bool, error) {
	query, args, err := rankingBaseSelectBuilder().
		Where(userPeriodConditions(userID, position, period)...).
		Limit(1).
		ToSQL()
	if err != nil {
		return ranking.Ranking{}, false, fmt.Errorf("build find user ranking query: %w", err)
	}

	var row rankingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ranking.Ranking{}, false, nil
		}
		return ranking.Ranking{}, false, fmt.Errorf("find user ranking: %w", err)
	}
	return rankingFromRow(row), true, nil
}

func (r *RankingRepository) ListByUser(ctx context.Context, userID string, filter ranking.ListFilter) ([]ranking.Ranking, error) {
	query, args, err := listByUserQuery(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("build list user rankings query: %w", err)
	}

	var rows []rankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user rankings: %w", err)
	}

	out := make([]ranking.Ranking, 0, len(rows))
	for _, row := range rows {
		out = append(out, rankingFromRow(row))
	}
	return out, nil
}

func (r *RankingRepository) Create(ctx context.Context, item ranking.Ranking) error {
	query, args, err := qb.InsertModels("rankings", []rankingInsertModel{toRankingInsertModel(item)}, "")
	if err != nil {
		return fmt.Errorf("build insert ranking query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert ranking: %w", ranking.ErrDuplicateRanking)
		}
		return fmt.Errorf("insert ranking: %w", err)
	}
	return nil
}

func (r *RankingRepository) ListPlayerRankings(ctx context.Context, rankingID string) ([]ranking.PlayerRanking, error) {
	query, args, err := qb.Select("*").
		From("player_rankings").
		Where(qb.Eq("ranking_public_id", rankingID)).
		OrderBy("rank_position", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player rankings query: %w", err)
	}

	var rows []playerRankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player rankings: %w", err)
	}

	out := make([]ranking.PlayerRanking, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerRankingFromRow(row))
	}
	return out, nil
}

func (r *RankingRepository) ReplacePlayerRankings(ctx context.Context, rankingID string, players []ranking.PlayerRanking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player rankings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("player_rankings").
		Where(qb.Eq("ranking_public_id", rankingID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear player rankings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear player rankings: %w", err)
	}

	if len(players) > 0 {
		models := make([]playerRankingInsertModel, 0, len(players))
		for _, p := range players {
			models = append(models, playerRankingInsertModel{
				PublicID:        p.ID,
				RankingPublicID: rankingID,
				PlayerID:        p.PlayerID,
				PlayerName:      p.PlayerName,
				Team:            p.Team,
				Position:        p.Position,
				RankPosition:    p.RankPosition,
				IsStarred:       p.IsStarred,
				CreatedAt:       p.CreatedAt,
			})
		}
		insertQuery, insertArgs, err := qb.InsertModels("player_rankings", models, "")
		if err != nil {
			return fmt.Errorf("build insert player rankings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert player rankings: duplicate player: %w", err)
			}
			return fmt.Errorf("insert player rankings: %w", err)
		}
	}

	resetQuery, resetArgs, err := scoreResetQuery(rankingID)
	if err != nil {
		return fmt.Errorf("build reset ranking score query: %w", err)
	}
	result, err := tx.ExecContext(ctx, resetQuery, resetArgs...)
	if err != nil {
		return fmt.Errorf("reset ranking score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected reset ranking score: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("replace player rankings: ranking not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player rankings tx: %w", err)
	}
	return nil
}

func (r *RankingRepository) UpdateAccuracyScore(ctx context.Context, rankingID string, score float64, updatedAt time.Time) error {
	query, args, err := accuracyScoreUpdateQuery(rankingID, score, updatedAt)
	if err != nil {
		return fmt.Errorf("build update accuracy score query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update accuracy score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update accuracy score: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update accuracy score: ranking not found")
	}
	return nil
}

func (r *RankingRepository) ListActiveByPeriod(ctx context.Context, period ranking.Period, position ranking.Position) ([]ranking.Ranking, error) {
	query, args, err := activeByPeriodQuery(period, position)
	if err != nil {
		return nil, fmt.Errorf("build list rankings by period query: %w", err)
	}

	var rows []rankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rankings by period: %w", err)
	}

	out := make([]ranking.Ranking, 0, len(rows))
	for _, row := range rows {
		out = append(out, rankingFromRow(row))
	}
	return out, nil
}

func (r *RankingRepository) ListPlayerRankingsByPeriod(ctx context.Context, period ranking.Period, position ranking.Position) ([]ranking.PlayerRanking, error) {
	query, args, err := playerRankingsByPeriodQuery(period, position)
	if err != nil {
		return nil, fmt.Errorf("build list period player rankings query: %w", err)
	}

	var rows []playerRankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list period player rankings: %w", err)
	}

	out := make([]ranking.PlayerRanking, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerRankingFromRow(row))
	}
	return out, nil
}

// UpdatePercentiles writes every row in a single statement by unnesting
// parallel arrays.
func (r *RankingRepository) UpdatePercentiles(ctx context.Context, percentiles []ranking.Percentile) error {
	if len(percentiles) == 0 {
		return nil
	}

	query, args := percentilesUpdateQuery(percentiles)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update percentiles: %w", err)
	}
	return nil
}

const updatePercentilesSQL = `UPDATE rankings AS r
SET percentile_rank = v.percentile_rank,
    total_rankings_in_period = v.total_rankings_in_period
FROM unnest($1::text[], $2::numeric[], $3::int[]) AS v(public_id, percentile_rank, total_rankings_in_period)
WHERE r.public_id = v.public_id AND r.deleted_at IS NULL`

func percentilesUpdateQuery(percentiles []ranking.Percentile) (string, []any) {
	ids := make([]string, 0, len(percentiles))
	ranks := make([]float64, 0, len(percentiles))
	totals := make([]int64, 0, len(percentiles))
	for _, p := range percentiles {
		ids = append(ids, p.RankingID)
		ranks = append(ranks, p.PercentileRank)
		totals = append(totals, int64(p.TotalRankingsInPeriod))
	}
	return updatePercentilesSQL, []any{pq.Array(ids), pq.Array(ranks), pq.Array(totals)}
}

func accuracyScoreUpdateQuery(rankingID string, score float64, updatedAt time.Time) (string, []any, error) {
	return qb.Update("rankings").
		Set("accuracy_score", score).
		Set("updated_at", updatedAt).
		Where(qb.Eq("public_id", rankingID), qb.IsNull("deleted_at")).
		ToSQL()
}

// scoreResetQuery clears the score and standing of a ranking whose player
// list was replaced.
func scoreResetQuery(rankingID string) (string, []any, error) {
	return qb.Update("rankings").
		SetExpr("accuracy_score", "NULL").
		SetExpr("percentile_rank", "NULL").
		SetExpr("total_rankings_in_period", "NULL").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", rankingID), qb.IsNull("deleted_at")).
		ToSQL()
}

func activeByPeriodQuery(period ranking.Period, position ranking.Position) (string, []any, error) {
	conditions := []qb.Condition{
		qb.Eq("position", string(position)),
		qb.Eq("ranking_type", string(period.Type)),
		qb.Eq("season", period.Season),
		qb.Eq("is_active", true),
		qb.IsNull("deleted_at"),
	}
	if period.Week == nil {
		conditions = append(conditions, qb.IsNull("week"))
	} else {
		conditions = append(conditions, qb.Eq("week", *period.Week))
	}

	return rankingBaseSelectBuilder().
		Where(conditions...).
		OrderBy("public_id").
		ToSQL()
}

func userPeriodConditions(userID string, position ranking.Position, period ranking.Period) []qb.Condition {
	conditions := []qb.Condition{
		qb.Eq("user_id", userID),
		qb.Eq("position", string(position)),
		qb.Eq("ranking_type", string(period.Type)),
		qb.Eq("season", period.Season),
		qb.IsNull("deleted_at"),
	}
	if period.Week == nil {
		return append(conditions, qb.IsNull("week"))
	}
	return append(conditions, qb.Eq("week", *period.Week))
}

func listByUserQuery(userID string, filter ranking.ListFilter) (string, []any, error) {
	conditions := []qb.Condition{
		qb.Eq("user_id", userID),
		qb.IsNull("deleted_at"),
	}
	if filter.Position != "" {
		conditions = append(conditions, qb.Eq("position", string(filter.Position)))
	}
	if filter.Type != "" {
		conditions = append(conditions, qb.Eq("ranking_type", string(filter.Type)))
	}
	if filter.Season > 0 {
		conditions = append(conditions, qb.Eq("season", filter.Season))
	}
	if filter.Week != nil {
		conditions = append(conditions, qb.Eq("week", *filter.Week))
	}

	return rankingBaseSelectBuilder().
		Where(conditions...).
		OrderBy("created_at DESC", "public_id").
		ToSQL()
}

func playerRankingsByPeriodQuery(period ranking.Period, position ranking.Position) (string, []any, error) {
	conditions := []qb.Condition{
		qb.Eq("r.position", string(position)),
		qb.Eq("r.ranking_type", string(period.Type)),
		qb.Eq("r.season", period.Season),
		qb.Eq("r.is_active", true),
		qb.IsNull("r.deleted_at"),
	}
	if period.Week == nil {
		conditions = append(conditions, qb.IsNull("r.week"))
	} else {
		conditions = append(conditions, qb.Eq("r.week", *period.Week))
	}

	return qb.Select("pr.*").
		From("player_rankings pr JOIN rankings r ON r.public_id = pr.ranking_public_id").
		Where(conditions...).
		OrderBy("pr.ranking_public_id", "pr.rank_position").
		ToSQL()
}

func toRankingInsertModel(item ranking.Ranking) rankingInsertModel {
	model := rankingInsertModel{
		PublicID:    item.ID,
		UserID:      item.UserID,
		Title:       item.Title,
		Position:    string(item.Position),
		RankingType: string(item.Period.Type),
		Season:      item.Period.Season,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.Period.Week != nil {
		model.Week = sql.NullInt64{Int64: int64(*item.Period.Week), Valid: true}
	}
	return model
}

func playerRankingFromRow(row playerRankingTableModel) ranking.PlayerRanking {
	return ranking.PlayerRanking{
		ID:           row.PublicID,
		RankingID:    row.RankingPublicID,
		PlayerID:     row.PlayerID,
		PlayerName:   row.PlayerName,
		Team:         row.Team,
		Position:     row.Position,
		RankPosition: row.RankPosition,
		IsStarred:    row.IsStarred,
		CreatedAt:    row.CreatedAt,
	}
}

func rankingFromRow(row rankingTableModel) ranking.Ranking {
	return ranking.Ranking{
		ID:       row.PublicID,
		UserID:   row.UserID,
		Title:    row.Title,
		Position: ranking.Position(row.Position),
		Period: ranking.Period{
			Type:   ranking.Type(row.RankingType),
			Season: row.Season,
			Week:   intPtr(row.Week),
		},
		AccuracyScore:         floatPtr(row.AccuracyScore),
		PercentileRank:        floatPtr(row.PercentileRank),
		TotalRankingsInPeriod: intPtr(row.TotalRankingsInPeriod),
		IsActive:              row.IsActive,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
}

func rankingBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("rankings")
}
