package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/usecase"
)

// CreateRanking saves a user's ranking. The first save of a position and
// period answers 201, later saves replace the list and answer 200.
func (h *Handler) CreateRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRanking")
	defer span.End()

	var req createRankingRequest
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

	item, created, err := h.rankingService.Create(ctx, usecase.CreateRankingInput{
		UserID:   req.UserID,
		Title:    req.Title,
		Position: position,
		Period:   period,
		Players:  toPlayerRankings(req.Players),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create ranking failed", "user_id", req.UserID, "position", position, "period", period.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	status, action := http.StatusOK, "updated"
	if created {
		status, action = http.StatusCreated, "created"
	}
	h.logger.InfoContext(ctx, "ranking saved", "ranking_id", item.Ranking.ID, "action", action, "players", len(item.Players))
	writeSuccess(ctx, w, status, savedRankingDTO{Action: action, Ranking: toRankingDTO(item.Ranking, item.Players)})
}

// ListRankings returns one user's rankings. Position and period filters
// apply only when given.
func (h *Handler) ListRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRankings")
	defer span.End()

	query := r.URL.Query()
	filter, err := listFilterFromQuery(query)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := strings.TrimSpace(query.Get("user_id"))
	items, err := h.rankingService.ListByUser(ctx, userID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list rankings failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]rankingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toRankingDTO(item.Ranking, item.Players))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// ListAverageRankings returns the consensus list of a position for a period.
func (h *Handler) ListAverageRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAverageRankings")
	defer span.End()

	position, err := parsePosition(r.PathValue("position"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	in, err := periodFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	period, err := in.resolve(h.now())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.rankingService.Average(ctx, position, period)
	if err != nil {
		h.logger.WarnContext(ctx, "list average rankings failed", "position", position, "period", period.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toAverageRankingsDTO(position, period, rows))
}

// GetRankingConsensus compares a ranking with the other rankings of its
// position and period.
func (h *Handler) GetRankingConsensus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankingConsensus")
	defer span.End()

	rankingID := strings.TrimSpace(r.PathValue("rankingID"))
	out, err := h.rankingService.CompareToAverage(ctx, rankingID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ranking consensus failed", "ranking_id", rankingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toConsensusDTO(out))
}

func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRanking")
	defer span.End()

	rankingID := strings.TrimSpace(r.PathValue("rankingID"))
	item, err := h.rankingService.GetWithPlayers(ctx, rankingID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ranking failed", "ranking_id", rankingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRankingDTO(item.Ranking, item.Players))
}

func (h *Handler) ReplaceRankingPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceRankingPlayers")
	defer span.End()

	var req replacePlayersRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rankingID := strings.TrimSpace(r.PathValue("rankingID"))
	item, err := h.rankingService.ReplacePlayers(ctx, rankingID, toPlayerRankings(req.Players))
	if err != nil {
		h.logger.WarnContext(ctx, "replace ranking players failed", "ranking_id", rankingID, "players", len(req.Players), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRankingDTO(item.Ranking, item.Players))
}

// ListLeaderboard ranks the scored rankings of one position and period.
func (h *Handler) ListLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaderboard")
	defer span.End()

	position, err := parsePosition(r.PathValue("position"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := r.URL.Query()
	in, err := periodFromQuery(query)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	period, err := in.resolve(h.now())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := optionalQueryInt(query, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.rankingService.Leaderboard(ctx, position, period, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list leaderboard failed", "position", position, "period", period.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toLeaderboardDTOs(entries))
}

func toLeaderboardDTOs(entries []usecase.LeaderboardEntry) []leaderboardEntryDTO {
	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, leaderboardEntryDTO{
			Place:   entry.Place,
			Ranking: toRankingDTO(entry.Ranking, nil),
		})
	}
	return out
}

func listFilterFromQuery(values url.Values) (ranking.ListFilter, error) {
	var filter ranking.ListFilter
	if raw := strings.TrimSpace(values.Get("position")); raw != "" {
		position, err := parsePosition(raw)
		if err != nil {
			return ranking.ListFilter{}, err
		}
		filter.Position = position
	}
	if raw := strings.TrimSpace(values.Get("type")); raw != "" {
		typ, err := ranking.ParseType(raw)
		if err != nil {
			return ranking.ListFilter{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}
		filter.Type = typ
	}
	season, err := optionalQueryInt(values, "season")
	if err != nil {
		return ranking.ListFilter{}, err
	}
	filter.Season = season
	week, err := optionalQueryInt(values, "week")
	if err != nil {
		return ranking.ListFilter{}, err
	}
	if week > 0 {
		filter.Week = &week
	}
	return filter, nil
}
