package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/usecase"
)

// GetRankingAccuracy returns the stored score, computing and persisting it
// first when the ranking was never scored.
func (h *Handler) GetRankingAccuracy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankingAccuracy")
	defer span.End()

	rankingID := strings.TrimSpace(r.PathValue("rankingID"))
	outcome, err := h.accuracyService.GetForRanking(ctx, rankingID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ranking accuracy failed", "ranking_id", rankingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRankingAccuracyDTO(outcome))
}

// CalculateRankingAccuracy always recomputes and persists the score.
func (h *Handler) CalculateRankingAccuracy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateRankingAccuracy")
	defer span.End()

	rankingID := strings.TrimSpace(r.PathValue("rankingID"))
	outcome, err := h.accuracyService.CalculateForRanking(ctx, rankingID)
	if err != nil {
		h.logger.WarnContext(ctx, "calculate ranking accuracy failed", "ranking_id", rankingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRankingAccuracyDTO(outcome))
}

// ScoreTestRanking scores a ranking posted in the body without saving it.
func (h *Handler) ScoreTestRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreTestRanking")
	defer span.End()

	var req scoreTestRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	position, err := parsePosition(req.Position)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	period, err := periodInput{Type: req.Type, Season: req.Season, Week: req.Week}.resolve(h.now())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.accuracyService.Score(ctx, toPredictions(req.PlayerRankings), position, period)
	if err != nil {
		h.logger.WarnContext(ctx, "score test ranking failed", "position", position, "period", period.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreTestDTO{
		Result:     toResultDTO(outcome.Result),
		DataSource: string(outcome.DataSource),
		Period:     toPeriodDTO(outcome.Period),
	})
}

// SampleAccuracyScore scores the built-in quarterback sample for the current
// period and echoes the data it was scored against.
func (h *Handler) SampleAccuracyScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SampleAccuracyScore")
	defer span.End()

	outcome, err := h.accuracyService.SampleScore(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "sample accuracy score failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	actual, err := h.accuracyService.ActualPerformance(ctx, ranking.PositionQuarterback, outcome.Period)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sample := usecase.SampleRanking()
	rows := make([]predictedRankingRequest, 0, len(sample))
	for _, item := range sample {
		rows = append(rows, predictedRankingRequest{
			PlayerID:     item.PlayerID,
			Position:     string(ranking.PositionQuarterback),
			RankPosition: item.RankPosition,
			IsStarred:    item.IsStarred,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, sampleScoreDTO{
		SampleData: sampleDataDTO{
			PlayerRankings:    rows,
			ActualPerformance: toActualPerformanceDTOs(actual),
		},
		Result:     toResultDTO(outcome.Result),
		DataSource: string(outcome.DataSource),
		Period:     toPeriodDTO(outcome.Period),
	})
}
